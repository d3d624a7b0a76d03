// Package api exposes the recommendation pipeline over HTTP and MCP.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/avdeev/ideaforge/internal/catalog"
	"github.com/avdeev/ideaforge/internal/pipeline"
	"github.com/avdeev/ideaforge/internal/profile"
	"github.com/avdeev/ideaforge/internal/storage"
)

const maxRequestBodySize = 1 << 20 // 1MB

// RecommendRequest carries raw onboarding answers, keyed the same way
// the interactive flow keys them (name, current_role, experience_level,
// programming_languages, interests, career_goals, time_commitment,
// project_preferences, technologies_to_learn, budget_constraints).
type RecommendRequest struct {
	Answers map[string]string `json:"answers"`
	Domain  string            `json:"domain,omitempty"`
}

type AppDeps struct {
	Store     *storage.Store
	Generator pipeline.Generator
	Ranker    pipeline.Ranker
	Presenter pipeline.Presenter
	Token     string
	Logger    *slog.Logger
}

func NewAppHandler(deps AppDeps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Get("/health", handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(deps.Token))
		r.Post("/recommend", handleRecommend(deps))
		r.Get("/catalog", handleCatalog)
		r.Get("/profile", handleLatestProfile(deps))
		r.Get("/sessions", handleListSessions(deps))
		r.Get("/sessions/{id}", handleGetSession(deps))
		r.Get("/sessions/{id}/conversation", handleGetConversation(deps))
		r.Get("/sessions/{id}/recommendations", handleGetRecommendations(deps))
		r.Post("/sessions/{id}/feedback", handlePostFeedback(deps))
	})

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func handleRecommend(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		defer r.Body.Close()

		var req RecommendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if len(req.Answers) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "answers is required and must not be empty")
			return
		}
		if req.Domain != "" && !catalog.Has(req.Domain) {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "unknown domain %q", req.Domain)
			return
		}

		opts := []pipeline.Option{}
		if req.Domain != "" {
			opts = append(opts, pipeline.WithDomainFilter(req.Domain))
		}
		coord := pipeline.New(nil, deps.Generator, deps.Ranker, deps.Presenter, deps.Store, deps.Logger, opts...)

		result := coord.RunWithProfile(r.Context(), profile.Build(req.Answers))
		if result.Err != nil {
			httpError(w, http.StatusUnprocessableEntity, "api_error", "recommendation failed: %v", result.Err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"session_id":      result.SessionID,
			"profile":         result.Profile,
			"recommendations": result.Presentation.JSON,
		})
	}
}

func handleCatalog(w http.ResponseWriter, r *http.Request) {
	out := make(map[string][]catalog.Template, len(catalog.DomainOrder))
	for _, domain := range catalog.DomainOrder {
		out[domain] = catalog.ByDomain(domain)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// handleLatestProfile returns the most recent session's profile. Profiles
// are derived from onboarding answers and are read-only.
func handleLatestProfile(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := deps.Store.ListSessions(20)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list sessions: %v", err)
			return
		}
		for _, sess := range sessions {
			if sess.ProfileJSON == "" {
				continue
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"session_id": sess.ID,
				"created_at": sess.CreatedAt,
				"profile":    json.RawMessage(sess.ProfileJSON),
			})
			return
		}
		httpError(w, http.StatusNotFound, "not_found", "no profile recorded yet")
	}
}

func handleListSessions(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := parseIntParam(r, "limit", 20, 100)

		sessions, err := deps.Store.ListSessions(limit)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to list sessions: %v", err)
			return
		}
		if sessions == nil {
			sessions = []storage.Session{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sessions)
	}
}

func handleGetSession(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		sess, err := deps.Store.GetSession(id)
		if errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get session: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sess)
	}
}

func handleGetConversation(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		entries, err := deps.Store.GetConversation(id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get conversation: %v", err)
			return
		}
		if entries == nil {
			entries = []storage.ConversationEntry{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(entries)
	}
}

func handleGetRecommendations(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		recs, err := deps.Store.GetRecommendations(id)
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get recommendations: %v", err)
			return
		}

		// Stored candidates are JSON blobs; decode so the response is a
		// proper array instead of double-encoded strings.
		projects := make([]catalog.Candidate, 0, len(recs))
		for _, rec := range recs {
			var c catalog.Candidate
			if err := json.Unmarshal([]byte(rec.CandidateJSON), &c); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "corrupt recommendation record: %v", err)
				return
			}
			projects = append(projects, c)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(projects)
	}
}

func handlePostFeedback(deps AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

		if _, err := deps.Store.GetSession(id); errors.Is(err, storage.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "session not found")
			return
		} else if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to get session: %v", err)
			return
		}

		var answers map[string]string
		if err := json.NewDecoder(r.Body).Decode(&answers); err != nil {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "invalid request body: %v", err)
			return
		}
		if len(answers) == 0 {
			httpError(w, http.StatusBadRequest, "invalid_request_error", "feedback must not be empty")
			return
		}

		now := time.Now().UTC()
		for q, a := range answers {
			fb := storage.Feedback{SessionID: id, Question: q, Answer: a, CreatedAt: now}
			if err := deps.Store.SaveFeedback(fb); err != nil {
				httpError(w, http.StatusInternalServerError, "api_error", "failed to save feedback: %v", err)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "recorded"})
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
