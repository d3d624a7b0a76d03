package trends

import "strings"

// Article is one technology news item.
type Article struct {
	Title          string  `json:"title"`
	Summary        string  `json:"summary"`
	Category       string  `json:"category"`
	RelevanceScore float64 `json:"relevance_score"`
}

// curatedNews is the built-in feed used when no news provider is wired.
var curatedNews = []Article{
	{
		Title:          "AI Agents Revolutionizing Software Development",
		Summary:        "Multi-agent systems are becoming mainstream in enterprise applications",
		Category:       "AI/ML",
		RelevanceScore: 0.9,
	},
	{
		Title:          "Edge Computing Integration with IoT Devices",
		Summary:        "Real-time processing capabilities driving new project opportunities",
		Category:       "IoT/Edge",
		RelevanceScore: 0.8,
	},
	{
		Title:          "Sustainable Tech Solutions in High Demand",
		Summary:        "Green technology projects receiving increased funding",
		Category:       "Sustainability",
		RelevanceScore: 0.85,
	},
}

// SearchNews filters the curated feed by query keywords: an article matches
// when any query word appears in its title or summary, case-insensitively.
func SearchNews(query string) []Article {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return nil
	}

	var out []Article
	for _, a := range curatedNews {
		title := strings.ToLower(a.Title)
		summary := strings.ToLower(a.Summary)
		for _, w := range words {
			if strings.Contains(title, w) || strings.Contains(summary, w) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}
