package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Session status values.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusAborted   = "aborted"
)

// Session is one recommendation workflow run.
type Session struct {
	ID          string
	CreatedAt   time.Time
	Status      string
	ProfileJSON string
	Error       string
}

// ConversationEntry is one logged question/answer exchange.
type ConversationEntry struct {
	SessionID string
	Seq       int
	Agent     string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// Recommendation is one ranked candidate persisted for a session.
type Recommendation struct {
	SessionID     string
	Rank          int
	CandidateJSON string
}

// Feedback is one post-presentation feedback answer.
type Feedback struct {
	SessionID string
	Question  string
	Answer    string
	CreatedAt time.Time
}
