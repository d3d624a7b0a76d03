// Package ranking scores generated candidates against a user profile and
// produces the final ordered, diversity-filtered recommendation list.
package ranking

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/avdeev/ideaforge/internal/catalog"
	"github.com/avdeev/ideaforge/internal/profile"
)

const (
	// Overall score weights.
	weightRelevance   = 0.4
	weightFeasibility = 0.3
	weightImpact      = 0.3

	// maxResults caps the ranked output.
	maxResults = 10

	// maxPerDomain caps how many entries a single domain may contribute
	// to the final list. Domains compare by exact case-insensitive string
	// equality; no synonym folding.
	maxPerDomain = 2

	// defaultImpact is used when a candidate carries no authored impact.
	defaultImpact = 7.0
)

// Ranker scores and orders candidates. It is stateless: ranking the same
// inputs twice yields identical results.
type Ranker struct{}

// New returns a Ranker.
func New() *Ranker { return &Ranker{} }

// Rank attaches relevance/feasibility/impact/overall scores to each
// candidate, sorts by overall score descending (stable: ties keep the
// generation order), applies the per-domain diversity cap, and truncates to
// the top ten. Error-sentinel candidates in the input are dropped.
func (r *Ranker) Rank(candidates []catalog.Candidate, p profile.Profile) []catalog.Candidate {
	scored := make([]catalog.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.IsError() {
			continue
		}
		Score(&c, p)
		scored = append(scored, c)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].OverallScore > scored[j].OverallScore
	})

	return diversityFilter(scored, maxResults, maxPerDomain)
}

// RankJSON ranks against an externally supplied profile JSON document.
// If the document cannot be decoded, a single error-sentinel candidate is
// returned instead of a ranked list; callers must check Candidate.IsError
// before treating the result as scored output.
func (r *Ranker) RankJSON(candidates []catalog.Candidate, profileJSON string) []catalog.Candidate {
	var p profile.Profile
	if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
		return []catalog.Candidate{catalog.ErrorCandidate("invalid profile: " + err.Error())}
	}
	return r.Rank(candidates, p)
}

// Score computes and attaches all four scores to the candidate in place.
func Score(c *catalog.Candidate, p profile.Profile) {
	c.RelevanceScore = relevance(*c, p)
	c.FeasibilityScore = feasibility(*c, p)
	if c.ImpactScore == 0 {
		c.ImpactScore = defaultImpact
	}
	c.ImpactScore = clamp(c.ImpactScore)
	c.OverallScore = weightRelevance*c.RelevanceScore +
		weightFeasibility*c.FeasibilityScore +
		weightImpact*c.ImpactScore
}

// diversityFilter walks the sorted list keeping entries until limit is
// reached, skipping any whose domain has already been kept perDomain times.
func diversityFilter(sorted []catalog.Candidate, limit, perDomain int) []catalog.Candidate {
	kept := make([]catalog.Candidate, 0, limit)
	domainCount := make(map[string]int)
	for _, c := range sorted {
		if len(kept) >= limit {
			break
		}
		key := strings.ToLower(c.Domain)
		if domainCount[key] >= perDomain {
			continue
		}
		domainCount[key]++
		kept = append(kept, c)
	}
	return kept
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
