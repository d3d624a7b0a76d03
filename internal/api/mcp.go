package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/avdeev/ideaforge/internal/catalog"
	"github.com/avdeev/ideaforge/internal/pipeline"
	"github.com/avdeev/ideaforge/internal/profile"
	"github.com/avdeev/ideaforge/internal/ranking"
	"github.com/avdeev/ideaforge/internal/storage"
	"github.com/avdeev/ideaforge/internal/trends"
)

// MCPTrendSource abstracts the trending-repos lookup for the MCP layer.
type MCPTrendSource interface {
	Trending(ctx context.Context, language, timeRange string) ([]trends.Repo, error)
}

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Store     *storage.Store
	Generator pipeline.Generator
	Ranker    *ranking.Ranker
	Presenter pipeline.Presenter
	Trends    MCPTrendSource // optional; if nil, search_trending_projects returns an error
}

// NewMCPServer creates an MCP server with all recommendation tools and
// resources registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"ideaforge",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("ideaforge — builds a skill profile from onboarding answers and recommends ranked side-project ideas."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("build_user_profile",
			mcp.WithDescription("Build a structured skill profile from raw onboarding answers."),
			mcp.WithString("answers", mcp.Description("JSON object mapping question keys (name, current_role, experience_level, programming_languages, interests, career_goals, time_commitment, project_preferences, technologies_to_learn, budget_constraints) to raw answers"), mcp.Required()),
		),
		mcpBuildProfile(),
	)

	s.AddTool(
		mcp.NewTool("generate_project_ideas",
			mcp.WithDescription("Generate candidate project ideas for a profile from the project catalog."),
			mcp.WithString("profile", mcp.Description("Profile JSON as produced by build_user_profile"), mcp.Required()),
			mcp.WithString("domain", mcp.Description("Optional catalog domain filter (ai_ml, web_development, data_science, mobile_development)")),
		),
		mcpGenerateIdeas(deps),
	)

	s.AddTool(
		mcp.NewTool("rank_projects",
			mcp.WithDescription("Score and rank candidate projects against a profile."),
			mcp.WithString("profile", mcp.Description("Profile JSON"), mcp.Required()),
			mcp.WithString("projects", mcp.Description("JSON array of candidate projects"), mcp.Required()),
		),
		mcpRankProjects(deps),
	)

	s.AddTool(
		mcp.NewTool("search_trending_projects",
			mcp.WithDescription("Search trending GitHub repositories by language and time range."),
			mcp.WithString("language", mcp.Description("Programming language filter")),
			mcp.WithString("time_range", mcp.Description("daily, weekly or monthly (default weekly)")),
		),
		mcpSearchTrending(deps),
	)

	s.AddTool(
		mcp.NewTool("search_tech_news",
			mcp.WithDescription("Search curated technology news articles by keyword."),
			mcp.WithString("query", mcp.Description("Search query"), mcp.Required()),
		),
		mcpSearchNews(),
	)

	s.AddTool(
		mcp.NewTool("format_presentation",
			mcp.WithDescription("Render ranked projects as a human-readable recommendation summary."),
			mcp.WithString("profile", mcp.Description("Profile JSON"), mcp.Required()),
			mcp.WithString("projects", mcp.Description("JSON array of ranked projects"), mcp.Required()),
		),
		mcpFormatPresentation(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"catalog://templates",
			"Project Catalog",
			mcp.WithResourceDescription("All catalog project templates, grouped by domain"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceCatalog(),
	)

	s.AddResource(
		mcp.NewResource(
			"sessions://recent",
			"Recent Sessions",
			mcp.WithResourceDescription("Last 10 recommendation sessions"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceRecentSessions(deps),
	)

	return s
}

func mcpBuildProfile() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		answersJSON, err := req.RequireString("answers")
		if err != nil {
			return mcpError("answers is required"), nil
		}

		var answers map[string]string
		if err := json.Unmarshal([]byte(answersJSON), &answers); err != nil {
			return mcpError(fmt.Sprintf("invalid answers JSON: %v", err)), nil
		}

		p := profile.Build(answers)
		b, err := json.Marshal(p)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGenerateIdeas(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profileJSON, err := req.RequireString("profile")
		if err != nil {
			return mcpError("profile is required"), nil
		}
		domain := req.GetString("domain", "")
		if domain != "" && !catalog.Has(domain) {
			return mcpError(fmt.Sprintf("unknown domain %q", domain)), nil
		}

		var p profile.Profile
		if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
			return mcpError(fmt.Sprintf("invalid profile JSON: %v", err)), nil
		}

		candidates := deps.Generator.Generate(ctx, p, domain)
		b, err := json.Marshal(candidates)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal candidates: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpRankProjects(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profileJSON, err := req.RequireString("profile")
		if err != nil {
			return mcpError("profile is required"), nil
		}
		projectsJSON, err := req.RequireString("projects")
		if err != nil {
			return mcpError("projects is required"), nil
		}

		var candidates []catalog.Candidate
		if err := json.Unmarshal([]byte(projectsJSON), &candidates); err != nil {
			return mcpError(fmt.Sprintf("invalid projects JSON: %v", err)), nil
		}

		ranked := deps.Ranker.RankJSON(candidates, profileJSON)
		b, err := json.Marshal(ranked)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal ranking: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSearchTrending(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Trends == nil {
			return mcpError("trend lookup not available: disabled in configuration"), nil
		}

		language := req.GetString("language", "")
		timeRange := req.GetString("time_range", "weekly")

		repos, err := deps.Trends.Trending(ctx, language, timeRange)
		if err != nil {
			return mcpError(fmt.Sprintf("trend lookup failed: %v", err)), nil
		}

		b, err := json.Marshal(repos)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal repos: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpSearchNews() server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}

		articles := trends.SearchNews(query)
		b, err := json.Marshal(articles)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal articles: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpFormatPresentation(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		profileJSON, err := req.RequireString("profile")
		if err != nil {
			return mcpError("profile is required"), nil
		}
		projectsJSON, err := req.RequireString("projects")
		if err != nil {
			return mcpError("projects is required"), nil
		}

		var p profile.Profile
		if err := json.Unmarshal([]byte(profileJSON), &p); err != nil {
			return mcpError(fmt.Sprintf("invalid profile JSON: %v", err)), nil
		}
		var ranked []catalog.Candidate
		if err := json.Unmarshal([]byte(projectsJSON), &ranked); err != nil {
			return mcpError(fmt.Sprintf("invalid projects JSON: %v", err)), nil
		}

		out := deps.Presenter.Present(ranked, p)
		return mcpText(out.Text), nil
	}
}

func mcpResourceCatalog() server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		out := make(map[string][]catalog.Template, len(catalog.DomainOrder))
		for _, domain := range catalog.DomainOrder {
			out[domain] = catalog.ByDomain(domain)
		}
		b, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal catalog: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpResourceRecentSessions(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		sessions, err := deps.Store.ListSessions(10)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}

		type sessionSummary struct {
			ID        string `json:"id"`
			CreatedAt string `json:"created_at"`
			Status    string `json:"status"`
		}
		summaries := make([]sessionSummary, len(sessions))
		for i, s := range sessions {
			summaries[i] = sessionSummary{
				ID:        s.ID,
				CreatedAt: s.CreatedAt.Format(time.RFC3339),
				Status:    s.Status,
			}
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal sessions: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
