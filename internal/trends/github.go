// Package trends provides best-effort lookups of trending repositories and
// technology news used to flavour idea generation. Every failure degrades
// to an empty result set; nothing here is fatal.
package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	defaultBaseURL = "https://api.github.com"
	lookupTimeout  = 10 * time.Second
	maxRepos       = 10
	starsFloor     = 100
)

// Repo is one trending repository hit.
type Repo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Stars       int      `json:"stars"`
	URL         string   `json:"url"`
	Topics      []string `json:"topics"`
}

// Client queries the GitHub repository search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Client against the public GitHub API.
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a Client against a custom base URL (for testing).
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: lookupTimeout},
	}
}

// Trending returns up to ten well-starred repositories created within the
// window implied by timeRange ("daily", "weekly", anything else meaning
// monthly), optionally filtered by language.
func (c *Client) Trending(ctx context.Context, language, timeRange string) ([]Repo, error) {
	query := fmt.Sprintf("stars:>%d created:>%s", starsFloor, createdAfter(timeRange))
	if language != "" {
		query += " language:" + language
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "stars")
	params.Set("order", "desc")
	params.Set("per_page", "20")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/search/repositories?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching repositories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Items []struct {
			Name            string   `json:"name"`
			Description     string   `json:"description"`
			Language        string   `json:"language"`
			StargazersCount int      `json:"stargazers_count"`
			HTMLURL         string   `json:"html_url"`
			Topics          []string `json:"topics"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	repos := make([]Repo, 0, maxRepos)
	for _, item := range body.Items {
		if len(repos) >= maxRepos {
			break
		}
		repos = append(repos, Repo{
			Name:        item.Name,
			Description: item.Description,
			Language:    item.Language,
			Stars:       item.StargazersCount,
			URL:         item.HTMLURL,
			Topics:      item.Topics,
		})
	}
	return repos, nil
}

// TrendingForLanguages fans out one Trending call per language, bounded to
// three concurrent requests, and merges the results. Individual failures
// are logged and skipped; the merged slice is whatever succeeded.
func (c *Client) TrendingForLanguages(ctx context.Context, languages []string, timeRange string) []Repo {
	if len(languages) == 0 {
		repos, err := c.Trending(ctx, "", timeRange)
		if err != nil {
			slog.Warn("trend lookup failed", "error", err)
			return nil
		}
		return repos
	}

	var mu sync.Mutex
	var merged []Repo

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(3)
	for _, lang := range languages {
		g.Go(func() error {
			repos, err := c.Trending(gCtx, lang, timeRange)
			if err != nil {
				slog.Warn("trend lookup failed for language", "language", lang, "error", err)
				return nil // best-effort: never abort the group
			}
			mu.Lock()
			merged = append(merged, repos...)
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return merged
}

// createdAfter maps a time range name onto the fixed created-after cutoffs
// the search query uses.
func createdAfter(timeRange string) string {
	switch timeRange {
	case "daily":
		return "2024-01-01"
	case "weekly":
		return "2023-12-01"
	default:
		return "2023-01-01"
	}
}
