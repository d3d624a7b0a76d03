// Package present renders a ranked candidate list into the human-readable
// and machine-readable forms the session writes out. It builds in-memory
// representations only; file writing belongs to the pipeline layer.
package present

import (
	"fmt"
	"strings"
	"time"

	"github.com/avdeev/ideaforge/internal/catalog"
	"github.com/avdeev/ideaforge/internal/profile"
)

// CSVHeader is the exact column order of the CSV export.
var CSVHeader = []string{
	"Rank", "Title", "Description", "Technologies", "Difficulty",
	"Estimated_Time", "Overall_Score", "Relevance_Score",
	"Feasibility_Score", "Impact_Score",
}

// Export is the JSON recommendation export.
type Export struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	TotalProjects int                 `json:"total_projects"`
	Projects      []catalog.Candidate `json:"projects"`
}

// Presentation bundles all output forms for one ranked list.
type Presentation struct {
	Text    string
	JSON    Export
	CSVRows [][]string // data rows, excluding the header
}

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Presenter renders ranked lists.
type Presenter struct {
	clock Clock
}

// New returns a Presenter using the real clock.
func New() *Presenter { return &Presenter{clock: realClock{}} }

// NewWithClock returns a Presenter with a fixed clock (for testing).
func NewWithClock(c Clock) *Presenter { return &Presenter{clock: c} }

// Present renders the ranked list. Error-sentinel candidates are skipped in
// all three forms.
func (p *Presenter) Present(ranked []catalog.Candidate, prof profile.Profile) Presentation {
	projects := make([]catalog.Candidate, 0, len(ranked))
	for _, c := range ranked {
		if c.IsError() {
			continue
		}
		projects = append(projects, c)
	}

	return Presentation{
		Text: renderText(projects, prof),
		JSON: Export{
			GeneratedAt:   p.clock.Now(),
			TotalProjects: len(projects),
			Projects:      projects,
		},
		CSVRows: renderCSVRows(projects),
	}
}

func renderText(projects []catalog.Candidate, prof profile.Profile) string {
	if len(projects) == 0 {
		return "No projects found matching your profile."
	}

	var b strings.Builder
	if prof.Personal.Name != "" {
		fmt.Fprintf(&b, "Top project recommendations for %s\n", prof.Personal.Name)
	} else {
		b.WriteString("Top project recommendations\n")
	}
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	for i, c := range projects {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c.Title)
		fmt.Fprintf(&b, "   Score: %.1f/10\n", c.OverallScore)
		fmt.Fprintf(&b, "   Description: %s\n", c.Description)
		fmt.Fprintf(&b, "   Technologies: %s\n", strings.Join(c.Technologies, ", "))
		fmt.Fprintf(&b, "   Estimated time: %s\n", c.EstimatedTime)
		fmt.Fprintf(&b, "   Difficulty: %s\n", titleCase(c.Difficulty))
		fmt.Fprintf(&b, "   Impact %.1f | Relevance %.1f | Feasibility %.1f\n",
			c.ImpactScore, c.RelevanceScore, c.FeasibilityScore)
		b.WriteString("\n")
	}

	return b.String()
}

func renderCSVRows(projects []catalog.Candidate) [][]string {
	rows := make([][]string, 0, len(projects))
	for i, c := range projects {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			c.Title,
			c.Description,
			strings.Join(c.Technologies, ", "),
			c.Difficulty,
			c.EstimatedTime,
			formatScore(c.OverallScore),
			formatScore(c.RelevanceScore),
			formatScore(c.FeasibilityScore),
			formatScore(c.ImpactScore),
		})
	}
	return rows
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
