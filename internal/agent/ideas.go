package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/avdeev/ideaforge/internal/catalog"
	"github.com/avdeev/ideaforge/internal/profile"
	"github.com/avdeev/ideaforge/internal/trends"
)

// TrendSource supplies trending repositories for prompt grounding.
type TrendSource interface {
	TrendingForLanguages(ctx context.Context, languages []string, timeRange string) []trends.Repo
}

// Author generates extra project ideas through the text-generation engine,
// grounded in the user profile and current trends. It satisfies
// generate.IdeaAuthor.
type Author struct {
	engine Engine
	model  string
	trends TrendSource // optional
}

// NewAuthor creates an Author. trendSource may be nil.
func NewAuthor(engine Engine, model string, trendSource TrendSource) *Author {
	return &Author{engine: engine, model: model, trends: trendSource}
}

// authoredIdea mirrors the JSON shape the prompt asks the model for.
type authoredIdea struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Domain        string   `json:"domain"`
	Difficulty    string   `json:"difficulty"`
	Technologies  []string `json:"technologies"`
	EstimatedTime string   `json:"estimated_time"`
	ImpactScore   float64  `json:"impact_score"`
}

// AuthorIdeas asks the generator persona for up to want additional project
// ideas. Any engine or parse failure is returned as an error; callers treat
// it as "no extra ideas".
func (a *Author) AuthorIdeas(ctx context.Context, p profile.Profile, want int) ([]catalog.Candidate, error) {
	if want <= 0 {
		return nil, nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Propose %d project ideas for this user.\n\n%s\n", want, p.Summary())

	if a.trends != nil {
		var langs []string
		for _, l := range p.Technical.Languages {
			langs = append(langs, l.Language)
		}
		if repos := a.trends.TrendingForLanguages(ctx, langs, "weekly"); len(repos) > 0 {
			sb.WriteString("\nCurrently trending repositories for inspiration:\n")
			for i, r := range repos {
				if i >= 5 {
					break
				}
				fmt.Fprintf(&sb, "- %s (%s): %s\n", r.Name, r.Language, r.Description)
			}
		}
	}

	sb.WriteString(`
Respond with ONLY a JSON array of idea objects, no prose. Each object:
{"title": string, "description": string, "domain": string,
 "difficulty": "beginner"|"intermediate"|"advanced",
 "technologies": [string], "estimated_time": string like "4-6 weeks",
 "impact_score": number 0-10}`)

	raw, err := a.engine.Chat(ctx, a.model, []Message{
		{Role: "system", Content: ProjectGenerator.SystemPrompt()},
		{Role: "user", Content: sb.String()},
	})
	if err != nil {
		return nil, fmt.Errorf("authoring ideas: %w", err)
	}

	ideas, err := parseIdeas(raw)
	if err != nil {
		return nil, err
	}

	out := make([]catalog.Candidate, 0, min(want, len(ideas)))
	for _, idea := range ideas {
		if len(out) >= want {
			break
		}
		if idea.Title == "" {
			continue
		}
		out = append(out, catalog.Candidate{
			Title:         idea.Title,
			Description:   idea.Description,
			Domain:        idea.Domain,
			Difficulty:    normalizeDifficulty(idea.Difficulty),
			Technologies:  idea.Technologies,
			EstimatedTime: idea.EstimatedTime,
			ImpactScore:   idea.ImpactScore,
		})
	}
	return out, nil
}

// parseIdeas robustly extracts a JSON array from an LLM response. Models
// frequently wrap JSON in markdown code fences or prepend conversational
// filler, so the parser strips fences first and then slices from the first
// '[' to the last ']'.
func parseIdeas(resp string) ([]authoredIdea, error) {
	s := strings.TrimSpace(resp)

	if idx := strings.Index(s, "```"); idx != -1 {
		s = s[idx+3:]
		if strings.HasPrefix(s, "json") {
			s = s[4:]
		}
		if end := strings.Index(s, "```"); end != -1 {
			s = s[:end]
		}
	}

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var ideas []authoredIdea
	if err := json.Unmarshal([]byte(s[start:end+1]), &ideas); err != nil {
		return nil, fmt.Errorf("unmarshal ideas: %w", err)
	}
	return ideas, nil
}

func normalizeDifficulty(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case catalog.DifficultyBeginner:
		return catalog.DifficultyBeginner
	case catalog.DifficultyAdvanced:
		return catalog.DifficultyAdvanced
	default:
		return catalog.DifficultyIntermediate
	}
}
