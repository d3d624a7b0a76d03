// Package generate proposes candidate projects for a profile by selecting
// and filtering templates from the fixed catalog, optionally topped up with
// ideas authored by the text-generation agent.
package generate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/avdeev/ideaforge/internal/catalog"
	"github.com/avdeev/ideaforge/internal/profile"
)

// maxCandidates caps the generator output handed to the ranker.
const maxCandidates = 15

// perDomainOnMatch limits how many templates an interest-matched domain
// contributes before backfill kicks in.
const perDomainOnMatch = 2

// minBeforeBackfill is the threshold under which one template from every
// remaining domain is added.
const minBeforeBackfill = 5

// IdeaAuthor produces extra candidates via the text-generation service.
// Implementations must be best-effort: errors mean "no extra ideas".
type IdeaAuthor interface {
	AuthorIdeas(ctx context.Context, p profile.Profile, want int) ([]catalog.Candidate, error)
}

// Generator selects catalog templates matching a profile.
type Generator struct {
	author IdeaAuthor // optional
}

// New returns a Generator. author may be nil to disable LLM-authored ideas.
func New(author IdeaAuthor) *Generator {
	return &Generator{author: author}
}

// Generate returns up to 15 candidates for the profile, in catalog order,
// unscored. When domainFilter names a known catalog domain, only that
// domain's templates are considered. Otherwise domains whose tag
// substring-matches any profile interest (case-insensitive) contribute up
// to two templates each, with a one-per-remaining-domain backfill when
// fewer than five candidates accumulate. Candidates harder than the user's
// experience level allows are dropped.
func (g *Generator) Generate(ctx context.Context, p profile.Profile, domainFilter string) []catalog.Candidate {
	selected := selectTemplates(p, domainFilter)

	out := make([]catalog.Candidate, 0, len(selected))
	for _, t := range selected {
		if !includeForExperience(p.Personal.ExperienceLevel, t.Difficulty) {
			continue
		}
		c := t.Candidate
		c.ImpactScore = t.Impact
		out = append(out, c)
	}

	if g.author != nil && len(out) < maxCandidates {
		extra, err := g.author.AuthorIdeas(ctx, p, maxCandidates-len(out))
		if err != nil {
			slog.Warn("idea authoring failed, continuing with catalog only", "error", err)
		} else {
			out = append(out, extra...)
		}
	}

	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out
}

// selectTemplates applies the domain selection rule, returning templates in
// catalog order.
func selectTemplates(p profile.Profile, domainFilter string) []catalog.Template {
	if domainFilter != "" && catalog.Has(domainFilter) {
		return catalog.ByDomain(domainFilter)
	}

	var selected []catalog.Template
	matched := make(map[string]bool)
	for _, tag := range catalog.Domains() {
		if !interestMatchesDomain(p.Aspirations.Interests, tag) {
			continue
		}
		matched[tag] = true
		tpls := catalog.ByDomain(tag)
		n := min(perDomainOnMatch, len(tpls))
		selected = append(selected, tpls[:n]...)
	}

	if len(selected) < minBeforeBackfill {
		for _, tag := range catalog.Domains() {
			if matched[tag] {
				continue
			}
			if tpls := catalog.ByDomain(tag); len(tpls) > 0 {
				selected = append(selected, tpls[0])
			}
		}
	}

	return selected
}

// interestMatchesDomain reports whether any interest appears inside the
// domain tag, case-insensitively. "AI/ML" matches "ai_ml" through its "ml"
// fragment; bare words like "web" match "web_development".
func interestMatchesDomain(interests []string, tag string) bool {
	tagLower := strings.ToLower(tag)
	for _, interest := range interests {
		for _, frag := range splitFragments(interest) {
			if frag != "" && strings.Contains(tagLower, frag) {
				return true
			}
		}
	}
	return false
}

// splitFragments breaks an interest like "AI/ML" or "Web Development" into
// lowercase word fragments for substring matching against domain tags.
func splitFragments(interest string) []string {
	return strings.FieldsFunc(strings.ToLower(interest), func(r rune) bool {
		return r == '/' || r == ' ' || r == '-' || r == ','
	})
}

// inclusionTable maps experience level to the difficulties the user should
// see. Monotone: each level includes everything below it.
var inclusionTable = map[string][]string{
	profile.ExperienceBeginner:     {catalog.DifficultyBeginner},
	profile.ExperienceIntermediate: {catalog.DifficultyBeginner, catalog.DifficultyIntermediate},
	profile.ExperienceAdvanced:     {catalog.DifficultyBeginner, catalog.DifficultyIntermediate, catalog.DifficultyAdvanced},
	profile.ExperienceExpert:       {catalog.DifficultyBeginner, catalog.DifficultyIntermediate, catalog.DifficultyAdvanced},
}

// includeForExperience reports whether a candidate of the given difficulty
// is shown to a user at the given experience level. Unknown levels fall
// back to beginner visibility.
func includeForExperience(level, difficulty string) bool {
	allowed, ok := inclusionTable[level]
	if !ok {
		allowed = inclusionTable[profile.ExperienceBeginner]
	}
	for _, d := range allowed {
		if d == difficulty {
			return true
		}
	}
	return false
}
