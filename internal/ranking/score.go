package ranking

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/avdeev/ideaforge/internal/catalog"
	"github.com/avdeev/ideaforge/internal/profile"
)

// relevance scores how well a candidate matches the user's skills and
// interests, on [0,10]:
//
//	min(2 × tech overlap, 5) + min(2 × interest matches, 3) + 2 (base)
//
// Tech overlap counts case-insensitive intersections between the user's
// skill set and the candidate's technology list. Interest matches count
// interests appearing as substrings of the title or description.
func relevance(c catalog.Candidate, p profile.Profile) float64 {
	skills := make(map[string]bool)
	for _, s := range p.SkillSet() {
		skills[s] = true
	}

	overlap := 0
	for _, tech := range c.Technologies {
		if skills[strings.ToLower(strings.TrimSpace(tech))] {
			overlap++
		}
	}

	title := strings.ToLower(c.Title)
	desc := strings.ToLower(c.Description)
	interestMatches := 0
	for _, interest := range p.Aspirations.Interests {
		needle := strings.ToLower(strings.TrimSpace(interest))
		if needle == "" {
			continue
		}
		if strings.Contains(title, needle) || strings.Contains(desc, needle) {
			interestMatches++
		}
	}

	score := min(float64(overlap)*2, 5) + min(float64(interestMatches)*2, 3) + 2
	return clamp(score)
}

// feasibility scores how realistic a candidate is for the user, on [0,10].
// Base 5.0; −2 for beginners facing advanced work, +1 for advanced users on
// beginner work; then a time adjustment comparing the candidate's maximum
// estimated weeks against the user's commitment — low commitment penalises
// projects over 6 weeks by 2, high commitment rewards projects under 4
// weeks by 1. Moderate commitment deliberately has no branch.
func feasibility(c catalog.Candidate, p profile.Profile) float64 {
	score := 5.0

	exp := p.Personal.ExperienceLevel
	switch {
	case exp == profile.ExperienceBeginner && c.Difficulty == catalog.DifficultyAdvanced:
		score -= 2
	case exp == profile.ExperienceAdvanced && c.Difficulty == catalog.DifficultyBeginner:
		score += 1
	}

	if strings.Contains(strings.ToLower(c.EstimatedTime), "week") {
		weeks := ExtractMaxWeeks(c.EstimatedTime)
		switch {
		case p.Constraints.TimeCommitment == profile.CommitmentLow && weeks > 6:
			score -= 2
		case p.Constraints.TimeCommitment == profile.CommitmentHigh && weeks < 4:
			score += 1
		}
	}

	return clamp(score)
}

var weeksRe = regexp.MustCompile(`\d+`)

// ExtractMaxWeeks returns the last integer found in a duration string like
// "6-8 weeks", or 6 when the string carries no number.
func ExtractMaxWeeks(s string) int {
	nums := weeksRe.FindAllString(s, -1)
	if len(nums) == 0 {
		return 6
	}
	n, err := strconv.Atoi(nums[len(nums)-1])
	if err != nil {
		return 6
	}
	return n
}
