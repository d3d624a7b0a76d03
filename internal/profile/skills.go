package profile

import "strings"

// skillDictionary lists the technologies the extractor recognises in free
// text, grouped loosely by category. Matching is case-insensitive substring
// search, so multi-word entries like "power bi" work too.
var skillDictionary = []string{
	// Programming languages
	"python", "javascript", "java", "c++", "c#", "php", "ruby", "go", "rust",
	"swift", "kotlin", "typescript", "scala", "perl", "dart", "matlab",
	// Frameworks
	"react", "angular", "vue", "django", "flask", "express", "spring",
	"laravel", "tensorflow", "pytorch", "keras", "fastapi", "nextjs", "nuxt",
	// Databases
	"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "sqlite",
	"oracle", "dynamodb", "cassandra", "neo4j",
	// Cloud and tooling
	"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "jenkins",
	"gitlab", "circleci", "ansible",
	// Data science
	"pandas", "numpy", "matplotlib", "seaborn", "jupyter", "tableau",
	"power bi", "apache spark", "hadoop", "airflow",
}

// ExtractSkills scans free text for known technologies and returns them in
// dictionary order, deduplicated. Short tokens like "go" and "r" are only
// matched on word boundaries to avoid false hits inside other words.
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	if strings.TrimSpace(lower) == "" {
		return nil
	}

	var out []string
	for _, skill := range skillDictionary {
		if len(skill) <= 2 {
			if !containsWord(lower, skill) {
				continue
			}
		} else if !strings.Contains(lower, skill) {
			continue
		}
		out = append(out, titleCase(skill))
	}
	return out
}

// titleCase uppercases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// containsWord reports whether w appears in s delimited by non-alphanumeric
// runes on both sides.
func containsWord(s, w string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], w)
		if j < 0 {
			return false
		}
		j += i
		beforeOK := j == 0 || !isAlnum(s[j-1])
		after := j + len(w)
		afterOK := after == len(s) || !isAlnum(s[after])
		if beforeOK && afterOK {
			return true
		}
		i = j + 1
	}
}

func isAlnum(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9'
}
