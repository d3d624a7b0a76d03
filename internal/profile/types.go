// Package profile turns raw onboarding answers into a structured user
// profile consumed read-only by generation and ranking.
package profile

import "time"

// Canonical experience levels, ordered weakest first.
const (
	ExperienceBeginner     = "beginner"
	ExperienceIntermediate = "intermediate"
	ExperienceAdvanced     = "advanced"
	ExperienceExpert       = "expert"
)

// Canonical time-commitment and budget buckets.
const (
	CommitmentLow      = "low"
	CommitmentModerate = "moderate"
	CommitmentHigh     = "high"

	BudgetFree     = "free"
	BudgetLow      = "low"
	BudgetModerate = "moderate"
	BudgetHigh     = "high"
)

// Profile is the structured user profile. Its JSON layout is the export
// format written at session end and accepted by the /recommend API.
type Profile struct {
	ID        string    `json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`

	Personal    PersonalInfo     `json:"personal_info"`
	Technical   TechnicalProfile `json:"technical_profile"`
	Aspirations Aspirations      `json:"interests_and_goals"`
	Constraints Constraints      `json:"constraints"`
	Metadata    Metadata         `json:"metadata"`
}

// PersonalInfo captures who the user is.
type PersonalInfo struct {
	Name            string `json:"name"`
	Role            string `json:"current_role"`
	ExperienceLevel string `json:"experience_level"`
}

// LanguageSkill is one (language, proficiency) pair parsed from the
// free-text language answer.
type LanguageSkill struct {
	Language string `json:"language"`
	Level    string `json:"level"`
}

// TechnicalProfile captures languages, extracted skills, and the
// technologies the user wants to work with.
type TechnicalProfile struct {
	Languages             []LanguageSkill `json:"programming_languages"`
	Skills                []string        `json:"skills"`
	PreferredTechnologies []string        `json:"preferred_technologies"`
}

// Aspirations captures interest domains, goals, and project preferences.
type Aspirations struct {
	Interests          []string `json:"domains_of_interest"`
	Goals              string   `json:"career_goals"`
	ProjectPreferences string   `json:"project_preferences"`
}

// Constraints captures the user's time and budget limits, normalised to the
// canonical buckets.
type Constraints struct {
	TimeCommitment string `json:"time_commitment"`
	BudgetRange    string `json:"budget_range"`
}

// Metadata carries derived facts about the profile itself.
type Metadata struct {
	Completeness       float64 `json:"profile_completeness"`
	NeedsClarification bool    `json:"needs_clarification,omitempty"`
}

// SkillSet returns the flat, lowercased view of what the user can do:
// languages plus extracted skills. Used by the ranker for overlap scoring.
func (p Profile) SkillSet() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		k := normalizeToken(s)
		if k == "" || seen[k] {
			return
		}
		seen[k] = true
		out = append(out, k)
	}
	for _, l := range p.Technical.Languages {
		add(l.Language)
	}
	for _, s := range p.Technical.Skills {
		add(s)
	}
	return out
}
