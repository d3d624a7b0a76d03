package profile

import (
	"fmt"
	"strings"
)

// maxSummaryChars keeps the prompt-injection summary under ~500 tokens at
// the usual 4 chars/token estimate.
const maxSummaryChars = 2000

// Summary returns a compact one-paragraph view of the profile suitable for
// injection into an agent prompt.
func (p Profile) Summary() string {
	var parts []string

	if p.Personal.Name != "" {
		who := p.Personal.Name
		if p.Personal.Role != "" {
			who += ", " + p.Personal.Role
		}
		parts = append(parts, fmt.Sprintf("User: %s.", who))
	}
	if p.Personal.ExperienceLevel != "" {
		parts = append(parts, fmt.Sprintf("Experience: %s.", p.Personal.ExperienceLevel))
	}

	if len(p.Technical.Languages) > 0 {
		var langs []string
		for _, l := range p.Technical.Languages {
			langs = append(langs, fmt.Sprintf("%s (%s)", l.Language, l.Level))
		}
		parts = append(parts, fmt.Sprintf("Languages: %s.", strings.Join(langs, ", ")))
	}
	if len(p.Technical.PreferredTechnologies) > 0 {
		parts = append(parts, fmt.Sprintf("Wants to learn: %s.", strings.Join(p.Technical.PreferredTechnologies, ", ")))
	}
	if len(p.Aspirations.Interests) > 0 {
		parts = append(parts, fmt.Sprintf("Interests: %s.", strings.Join(p.Aspirations.Interests, ", ")))
	}
	if p.Aspirations.Goals != "" {
		parts = append(parts, fmt.Sprintf("Goals: %s.", p.Aspirations.Goals))
	}
	parts = append(parts, fmt.Sprintf("Time commitment: %s; budget: %s.",
		p.Constraints.TimeCommitment, p.Constraints.BudgetRange))

	summary := strings.Join(parts, " ")
	if len(summary) > maxSummaryChars {
		if idx := strings.LastIndex(summary[:maxSummaryChars], " "); idx > 0 {
			summary = summary[:idx]
		} else {
			summary = summary[:maxSummaryChars]
		}
	}
	return summary
}
