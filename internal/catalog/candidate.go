package catalog

// Difficulty levels a template may carry, ordered easiest first.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Candidate is a single project idea flowing through the recommendation
// pipeline. The generator emits candidates without scores; the ranker fills
// the four score fields in place; the presenter only reads them.
type Candidate struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Domain        string   `json:"domain"`
	Difficulty    string   `json:"difficulty"`
	Technologies  []string `json:"technologies"`
	EstimatedTime string   `json:"estimated_time"`

	RelevanceScore   float64 `json:"relevance_score"`
	FeasibilityScore float64 `json:"feasibility_score"`
	ImpactScore      float64 `json:"impact_score"`
	OverallScore     float64 `json:"overall_score"`

	// Error marks a sentinel entry produced when ranking could not decode
	// the supplied profile. Callers must check it before reading scores.
	Error string `json:"error,omitempty"`
}

// IsError reports whether the candidate is an error sentinel rather than a
// scored project.
func (c Candidate) IsError() bool { return c.Error != "" }

// ErrorCandidate builds the sentinel entry returned in place of a ranked
// list when profile decoding fails.
func ErrorCandidate(msg string) Candidate {
	return Candidate{Error: msg}
}
