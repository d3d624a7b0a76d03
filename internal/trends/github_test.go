package trends

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func searchPayload(names ...string) string {
	items := make([]string, len(names))
	for i, n := range names {
		items[i] = fmt.Sprintf(`{"name":%q,"description":"d","language":"Go","stargazers_count":%d,"html_url":"https://example.com/%s","topics":["x"]}`, n, 1000-i, n)
	}
	return `{"items":[` + strings.Join(items, ",") + `]}`
}

func TestTrending(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/repositories" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query().Get("q")
		if !strings.Contains(q, "stars:>100") {
			t.Errorf("query missing stars floor: %q", q)
		}
		if !strings.Contains(q, "created:>2023-12-01") {
			t.Errorf("query missing weekly cutoff: %q", q)
		}
		if !strings.Contains(q, "language:go") {
			t.Errorf("query missing language: %q", q)
		}
		fmt.Fprint(w, searchPayload("alpha", "beta"))
	}))
	defer srv.Close()

	repos, err := NewClientWithBaseURL(srv.URL).Trending(context.Background(), "go", "weekly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("got %d repos, want 2", len(repos))
	}
	if repos[0].Name != "alpha" || repos[0].Stars != 1000 {
		t.Errorf("repos[0] = %+v", repos[0])
	}
}

func TestTrending_CapsAtTen(t *testing.T) {
	names := make([]string, 20)
	for i := range names {
		names[i] = fmt.Sprintf("repo%d", i)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, searchPayload(names...))
	}))
	defer srv.Close()

	repos, err := NewClientWithBaseURL(srv.URL).Trending(context.Background(), "", "monthly")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repos) != 10 {
		t.Errorf("got %d repos, want 10", len(repos))
	}
}

func TestTrending_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewClientWithBaseURL(srv.URL).Trending(context.Background(), "", "daily"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestTrendingForLanguages_PartialFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if strings.Contains(r.URL.Query().Get("q"), "language:rust") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, searchPayload("ok"))
	}))
	defer srv.Close()

	repos := NewClientWithBaseURL(srv.URL).TrendingForLanguages(context.Background(), []string{"go", "rust", "python"}, "weekly")
	if calls.Load() != 3 {
		t.Errorf("made %d calls, want 3", calls.Load())
	}
	if len(repos) != 2 {
		t.Errorf("got %d repos, want 2 from the surviving languages", len(repos))
	}
}

func TestTrendingForLanguages_NoLanguages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("q"), "language:") {
			t.Errorf("unexpected language filter: %q", r.URL.Query().Get("q"))
		}
		fmt.Fprint(w, searchPayload("solo"))
	}))
	defer srv.Close()

	repos := NewClientWithBaseURL(srv.URL).TrendingForLanguages(context.Background(), nil, "weekly")
	if len(repos) != 1 {
		t.Errorf("got %d repos, want 1", len(repos))
	}
}

func TestSearchNews(t *testing.T) {
	got := SearchNews("agents")
	if len(got) != 1 {
		t.Fatalf("got %d articles, want 1: %+v", len(got), got)
	}
	if got[0].Category != "AI/ML" {
		t.Errorf("category = %q", got[0].Category)
	}

	// Any word matching is enough; "edge" and "green" hit different articles.
	if got := SearchNews("edge green"); len(got) != 2 {
		t.Errorf("got %d articles, want 2: %+v", len(got), got)
	}

	if got := SearchNews("quantum basket weaving"); got != nil {
		t.Errorf("expected no matches, got %+v", got)
	}
	if got := SearchNews("   "); got != nil {
		t.Errorf("expected nil for blank query, got %+v", got)
	}
}
