package storage

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// migrations are not re-applied.
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	var v1 int
	if err := s1.db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&v1); err != nil {
		t.Fatalf("counting schema_version: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	var v2 int
	if err := s2.db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&v2); err != nil {
		t.Fatalf("counting schema_version: %v", err)
	}

	if v1 != v2 {
		t.Errorf("migration count changed: %d -> %d", v1, v2)
	}
	if v1 == 0 {
		t.Error("expected at least one applied migration")
	}
}

// TestIndexesExist verifies that the per-session lookup indexes are created by the migration.
func TestIndexesExist(t *testing.T) {
	s := openTestStore(t)

	indexes := []string{"idx_sessions_created_at", "idx_feedback_session"}
	for _, idx := range indexes {
		var count int
		err := s.db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?", idx).Scan(&count)
		if err != nil {
			t.Fatalf("querying sqlite_master for %q: %v", idx, err)
		}
		if count != 1 {
			t.Errorf("index %q not found in sqlite_master", idx)
		}
	}
}

// TestCreateAndGetSession creates a session and retrieves it by ID.
func TestCreateAndGetSession(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	want := Session{
		ID:          "session_abc",
		CreatedAt:   now,
		Status:      StatusRunning,
		ProfileJSON: `{"name":"Dana"}`,
	}

	if err := s.CreateSession(want); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSession("session_abc")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}

	if got.ID != want.ID {
		t.Errorf("ID = %q, want %q", got.ID, want.ID)
	}
	if got.Status != StatusRunning {
		t.Errorf("Status = %q, want %q", got.Status, StatusRunning)
	}
	if got.ProfileJSON != want.ProfileJSON {
		t.Errorf("ProfileJSON = %q, want %q", got.ProfileJSON, want.ProfileJSON)
	}
	if got.Error != "" {
		t.Errorf("Error = %q, want empty", got.Error)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, want.CreatedAt)
	}
}

// TestCreateSession_DefaultStatus creates a session without explicit status and verifies the default.
func TestCreateSession_DefaultStatus(t *testing.T) {
	s := openTestStore(t)

	sess := Session{ID: "session_default", CreatedAt: time.Now().UTC()}
	if err := s.CreateSession(sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSession("session_default")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Status != StatusRunning {
		t.Errorf("Status = %q, want %q", got.Status, StatusRunning)
	}
}

// TestGetSessionNotFound verifies that retrieving a non-existent ID returns ErrNotFound.
func TestGetSessionNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetSession("does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// TestUpdateSessionStatus transitions a session to failed and verifies status and error.
func TestUpdateSessionStatus(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreateSession(Session{ID: "session_fail", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := s.UpdateSessionStatus("session_fail", StatusFailed, "ranking produced no results"); err != nil {
		t.Fatalf("UpdateSessionStatus: %v", err)
	}

	got, err := s.GetSession("session_fail")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Status != StatusFailed {
		t.Errorf("Status = %q, want %q", got.Status, StatusFailed)
	}
	if got.Error != "ranking produced no results" {
		t.Errorf("Error = %q, want %q", got.Error, "ranking produced no results")
	}
}

// TestUpdateSession_NotFound verifies both update paths return ErrNotFound for unknown IDs.
func TestUpdateSession_NotFound(t *testing.T) {
	s := openTestStore(t)

	if err := s.UpdateSessionStatus("ghost", StatusCompleted, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateSessionStatus error = %v, want ErrNotFound", err)
	}
	if err := s.UpdateSessionProfile("ghost", `{}`); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateSessionProfile error = %v, want ErrNotFound", err)
	}
}

// TestUpdateSessionProfile replaces the stored profile document.
func TestUpdateSessionProfile(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreateSession(Session{ID: "session_prof", CreatedAt: time.Now().UTC(), ProfileJSON: `{}`}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if err := s.UpdateSessionProfile("session_prof", `{"name":"Lee"}`); err != nil {
		t.Fatalf("UpdateSessionProfile: %v", err)
	}

	got, err := s.GetSession("session_prof")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.ProfileJSON != `{"name":"Lee"}` {
		t.Errorf("ProfileJSON = %q, want %q", got.ProfileJSON, `{"name":"Lee"}`)
	}
}

// TestListSessions saves 10 sessions and verifies limit and descending order.
func TestListSessions(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for j := 0; j < 10; j++ {
		sess := Session{
			ID:        fmt.Sprintf("session_%02d", j),
			CreatedAt: base.Add(time.Duration(j) * time.Hour),
			Status:    StatusCompleted,
		}
		if err := s.CreateSession(sess); err != nil {
			t.Fatalf("CreateSession %d: %v", j, err)
		}
	}

	got, err := s.ListSessions(5)
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}

	if len(got) != 5 {
		t.Fatalf("got %d sessions, want 5", len(got))
	}

	for k := 1; k < len(got); k++ {
		if got[k].CreatedAt.After(got[k-1].CreatedAt) {
			t.Errorf("not in descending order: [%d]=%v > [%d]=%v", k, got[k].CreatedAt, k-1, got[k-1].CreatedAt)
		}
	}

	// The most recent should be session_09.
	if got[0].ID != "session_09" {
		t.Errorf("first result ID = %q, want %q", got[0].ID, "session_09")
	}
}

// TestAppendConversation_SequenceNumbers appends three entries and verifies
// sequence numbers are assigned in order.
func TestAppendConversation_SequenceNumbers(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreateSession(Session{ID: "session_conv", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	questions := []string{"What's your name?", "What do you do?", "What interests you?"}
	for _, q := range questions {
		e := ConversationEntry{
			SessionID: "session_conv",
			Agent:     "Ava",
			Question:  q,
			Answer:    "an answer",
			CreatedAt: now,
		}
		if err := s.AppendConversation(e); err != nil {
			t.Fatalf("AppendConversation(%q): %v", q, err)
		}
	}

	got, err := s.GetConversation("session_conv")
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	for i, e := range got {
		if e.Seq != i+1 {
			t.Errorf("entry %d: Seq = %d, want %d", i, e.Seq, i+1)
		}
		if e.Question != questions[i] {
			t.Errorf("entry %d: Question = %q, want %q", i, e.Question, questions[i])
		}
		if e.Agent != "Ava" {
			t.Errorf("entry %d: Agent = %q, want %q", i, e.Agent, "Ava")
		}
	}
}

// TestAppendConversation_PerSessionSequences verifies sequences are independent per session.
func TestAppendConversation_PerSessionSequences(t *testing.T) {
	s := openTestStore(t)

	for _, id := range []string{"session_a", "session_b"} {
		if err := s.CreateSession(Session{ID: id, CreatedAt: time.Now().UTC()}); err != nil {
			t.Fatalf("CreateSession(%q): %v", id, err)
		}
	}

	now := time.Now().UTC()
	if err := s.AppendConversation(ConversationEntry{SessionID: "session_a", Question: "q1", CreatedAt: now}); err != nil {
		t.Fatalf("AppendConversation a: %v", err)
	}
	if err := s.AppendConversation(ConversationEntry{SessionID: "session_a", Question: "q2", CreatedAt: now}); err != nil {
		t.Fatalf("AppendConversation a: %v", err)
	}
	if err := s.AppendConversation(ConversationEntry{SessionID: "session_b", Question: "q1", CreatedAt: now}); err != nil {
		t.Fatalf("AppendConversation b: %v", err)
	}

	gotB, err := s.GetConversation("session_b")
	if err != nil {
		t.Fatalf("GetConversation: %v", err)
	}
	if len(gotB) != 1 {
		t.Fatalf("got %d entries for session_b, want 1", len(gotB))
	}
	if gotB[0].Seq != 1 {
		t.Errorf("session_b Seq = %d, want 1", gotB[0].Seq)
	}
}

// TestSaveRecommendations_Replaces saves a ranked list twice and verifies the
// second save fully replaces the first.
func TestSaveRecommendations_Replaces(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreateSession(Session{ID: "session_recs", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	first := []Recommendation{
		{SessionID: "session_recs", Rank: 1, CandidateJSON: `{"title":"A"}`},
		{SessionID: "session_recs", Rank: 2, CandidateJSON: `{"title":"B"}`},
		{SessionID: "session_recs", Rank: 3, CandidateJSON: `{"title":"C"}`},
	}
	if err := s.SaveRecommendations("session_recs", first); err != nil {
		t.Fatalf("SaveRecommendations (first): %v", err)
	}

	second := []Recommendation{
		{SessionID: "session_recs", Rank: 1, CandidateJSON: `{"title":"D"}`},
	}
	if err := s.SaveRecommendations("session_recs", second); err != nil {
		t.Fatalf("SaveRecommendations (second): %v", err)
	}

	got, err := s.GetRecommendations("session_recs")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d recommendations, want 1", len(got))
	}
	if got[0].Rank != 1 {
		t.Errorf("Rank = %d, want 1", got[0].Rank)
	}
	if got[0].CandidateJSON != `{"title":"D"}` {
		t.Errorf("CandidateJSON = %q, want %q", got[0].CandidateJSON, `{"title":"D"}`)
	}
}

// TestGetRecommendations_Order saves out of order and verifies ascending position.
func TestGetRecommendations_Order(t *testing.T) {
	s := openTestStore(t)

	recs := []Recommendation{
		{SessionID: "session_ord", Rank: 3, CandidateJSON: `{}`},
		{SessionID: "session_ord", Rank: 1, CandidateJSON: `{}`},
		{SessionID: "session_ord", Rank: 2, CandidateJSON: `{}`},
	}
	if err := s.SaveRecommendations("session_ord", recs); err != nil {
		t.Fatalf("SaveRecommendations: %v", err)
	}

	got, err := s.GetRecommendations("session_ord")
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(got))
	}
	for i, r := range got {
		if r.Rank != i+1 {
			t.Errorf("position %d: Rank = %d, want %d", i, r.Rank, i+1)
		}
	}
}

// TestFeedbackRoundTrip saves feedback entries and reads them back.
func TestFeedbackRoundTrip(t *testing.T) {
	s := openTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	entries := []Feedback{
		{SessionID: "session_fb", Question: "Which project appeals most?", Answer: "the chatbot", CreatedAt: now},
		{SessionID: "session_fb", Question: "Anything missing?", Answer: "more mobile ideas", CreatedAt: now.Add(time.Second)},
	}
	for _, f := range entries {
		if err := s.SaveFeedback(f); err != nil {
			t.Fatalf("SaveFeedback(%q): %v", f.Question, err)
		}
	}

	got, err := s.GetFeedback("session_fb")
	if err != nil {
		t.Fatalf("GetFeedback: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d feedback entries, want 2", len(got))
	}
	if got[0].Question != entries[0].Question {
		t.Errorf("Question = %q, want %q", got[0].Question, entries[0].Question)
	}
	if got[1].Answer != entries[1].Answer {
		t.Errorf("Answer = %q, want %q", got[1].Answer, entries[1].Answer)
	}
	if !got[0].CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", got[0].CreatedAt, now)
	}
}
