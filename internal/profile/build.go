package profile

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Answer keys produced by the onboarding script. These are also the ten
// canonical fields counted towards profile completeness.
const (
	KeyName            = "name"
	KeyRole            = "current_role"
	KeyExperience      = "experience_level"
	KeyLanguages       = "programming_languages"
	KeyInterests       = "interests"
	KeyGoals           = "career_goals"
	KeyTimeCommitment  = "time_commitment"
	KeyPreferences     = "project_preferences"
	KeyTechnologies    = "technologies_to_learn"
	KeyBudget          = "budget_constraints"
)

var canonicalKeys = []string{
	KeyName, KeyRole, KeyExperience, KeyLanguages, KeyInterests,
	KeyGoals, KeyTimeCommitment, KeyPreferences, KeyTechnologies, KeyBudget,
}

// Build assembles a Profile from raw onboarding answers. Missing answers
// default to empty values; nothing here fails.
func Build(answers map[string]string) Profile {
	exp, matched := NormalizeExperience(answers[KeyExperience])

	p := Profile{
		ID:        "session_" + uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Personal: PersonalInfo{
			Name:            strings.TrimSpace(answers[KeyName]),
			Role:            strings.TrimSpace(answers[KeyRole]),
			ExperienceLevel: exp,
		},
		Technical: TechnicalProfile{
			Languages:             ParseLanguages(answers[KeyLanguages]),
			PreferredTechnologies: splitList(answers[KeyTechnologies]),
		},
		Aspirations: Aspirations{
			Interests:          splitList(answers[KeyInterests]),
			Goals:              strings.TrimSpace(answers[KeyGoals]),
			ProjectPreferences: strings.TrimSpace(answers[KeyPreferences]),
		},
		Constraints: Constraints{
			TimeCommitment: NormalizeCommitment(answers[KeyTimeCommitment]),
			BudgetRange:    NormalizeBudget(answers[KeyBudget]),
		},
		Metadata: Metadata{
			Completeness:       completeness(answers),
			NeedsClarification: answers[KeyExperience] != "" && !matched,
		},
	}

	// Mine skills from everything the user wrote about their background.
	p.Technical.Skills = ExtractSkills(strings.Join([]string{
		answers[KeyLanguages],
		answers[KeyTechnologies],
		answers[KeyGoals],
	}, " "))

	return p
}

var experienceFamilies = []struct {
	level    string
	keywords []string
}{
	{ExperienceBeginner, []string{"beginner", "new", "start", "learning"}},
	{ExperienceIntermediate, []string{"intermediate", "some", "moderate"}},
	{ExperienceAdvanced, []string{"advanced", "experienced", "senior"}},
	{ExperienceExpert, []string{"expert", "professional", "master"}},
}

// NormalizeExperience maps free text onto a canonical experience level by
// keyword family. Unmatched input is preserved verbatim (lowercased,
// trimmed) and reported as unmatched so callers can flag it.
func NormalizeExperience(raw string) (level string, matched bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	for _, fam := range experienceFamilies {
		for _, kw := range fam.keywords {
			if strings.Contains(s, kw) {
				return fam.level, true
			}
		}
	}
	return s, false
}

// ParseLanguages parses a delimited language-list answer into structured
// pairs: segments split on commas, each segment split on the first hyphen
// into name/level. Segments without a hyphen get level "unknown".
func ParseLanguages(raw string) []LanguageSkill {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out []LanguageSkill
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if name, level, ok := strings.Cut(part, "-"); ok {
			out = append(out, LanguageSkill{
				Language: strings.TrimSpace(name),
				Level:    strings.TrimSpace(level),
			})
			continue
		}
		out = append(out, LanguageSkill{Language: part, Level: "unknown"})
	}
	return out
}

var numberRe = regexp.MustCompile(`\d+`)

// NormalizeCommitment buckets a free-text weekly time answer into
// low/moderate/high. Explicit bucket words win; otherwise the largest
// hours figure in the text decides (≤4 low, ≤12 moderate, above high).
// No signal at all defaults to moderate.
func NormalizeCommitment(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return CommitmentModerate
	}
	switch {
	case strings.Contains(s, "low"):
		return CommitmentLow
	case strings.Contains(s, "high"):
		return CommitmentHigh
	case strings.Contains(s, "moderate"), strings.Contains(s, "medium"):
		return CommitmentModerate
	}
	nums := numberRe.FindAllString(s, -1)
	if len(nums) == 0 {
		return CommitmentModerate
	}
	max := 0
	for _, n := range nums {
		if v, err := strconv.Atoi(n); err == nil && v > max {
			max = v
		}
	}
	switch {
	case max <= 4:
		return CommitmentLow
	case max <= 12:
		return CommitmentModerate
	default:
		return CommitmentHigh
	}
}

// NormalizeBudget buckets a budget answer into free/low/moderate/high.
// Defaults to free, matching the original onboarding behaviour.
func NormalizeBudget(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, "no constraint"), strings.Contains(s, "high"):
		return BudgetHigh
	case strings.Contains(s, "moderate"), strings.Contains(s, "medium"):
		return BudgetModerate
	case strings.Contains(s, "low"):
		return BudgetLow
	default:
		return BudgetFree
	}
}

// splitList splits comma-separated free text into a trimmed, deduplicated
// list, preserving first-seen order.
func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		k := strings.ToLower(part)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, part)
	}
	return out
}

// completeness is the ratio of the ten canonical answer keys that are
// present and non-empty.
func completeness(answers map[string]string) float64 {
	filled := 0
	for _, k := range canonicalKeys {
		if strings.TrimSpace(answers[k]) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(canonicalKeys))
}

func normalizeToken(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
