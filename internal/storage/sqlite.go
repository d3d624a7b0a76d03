// Package storage persists sessions, conversation logs, recommendations,
// and feedback in a SQLite database.
package storage

import (
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Store wraps a SQLite database holding session artifacts.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) a SQLite database in dataDir and runs pending
// migrations. Pass ":memory:" as dataDir for an in-memory database (tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "ideaforge.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Single connection avoids "database is locked" under the serve command.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		var version int
		if _, err := fmt.Sscanf(entry.Name(), "%d_", &version); err != nil {
			return fmt.Errorf("parsing migration version from %q: %w", entry.Name(), err)
		}

		var exists int
		if err := s.db.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = ?", version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %d: %w", version, err)
		}
		if exists > 0 {
			continue
		}

		content, err := migrationsFS.ReadFile("migrations/" + entry.Name())
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", entry.Name(), err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning transaction for migration %d: %w", version, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", version, err)
		}
	}
	return nil
}

// --- Sessions ---

func (s *Store) CreateSession(sess Session) error {
	status := sess.Status
	if status == "" {
		status = StatusRunning
	}
	_, err := s.db.Exec(`
		INSERT INTO sessions (id, created_at, status, profile_json, error)
		VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.CreatedAt.UTC().Format(time.RFC3339), status, sess.ProfileJSON, sess.Error,
	)
	return err
}

func (s *Store) UpdateSessionProfile(id, profileJSON string) error {
	return s.updateSession(`UPDATE sessions SET profile_json = ? WHERE id = ?`, profileJSON, id)
}

func (s *Store) UpdateSessionStatus(id, status, errMsg string) error {
	return s.updateSession(`UPDATE sessions SET status = ?, error = ? WHERE id = ?`, status, errMsg, id)
}

func (s *Store) updateSession(query string, args ...any) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) GetSession(id string) (Session, error) {
	var sess Session
	var createdAt string
	err := s.db.QueryRow(`
		SELECT id, created_at, status, profile_json, error
		FROM sessions WHERE id = ?`, id,
	).Scan(&sess.ID, &createdAt, &sess.Status, &sess.ProfileJSON, &sess.Error)
	if err == sql.ErrNoRows {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, err
	}
	t, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return Session{}, fmt.Errorf("parsing created_at: %w", err)
	}
	sess.CreatedAt = t
	return sess, nil
}

func (s *Store) ListSessions(limit int) ([]Session, error) {
	rows, err := s.db.Query(`
		SELECT id, created_at, status, profile_json, error
		FROM sessions ORDER BY created_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Session
	for rows.Next() {
		var sess Session
		var createdAt string
		if err := rows.Scan(&sess.ID, &createdAt, &sess.Status, &sess.ProfileJSON, &sess.Error); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		sess.CreatedAt = t
		results = append(results, sess)
	}
	return results, rows.Err()
}

// --- Conversation log ---

// AppendConversation appends an entry with the next sequence number for the
// session. The log is append-only.
func (s *Store) AppendConversation(e ConversationEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO conversation_log (session_id, seq, agent, question, answer, created_at)
		VALUES (?, COALESCE((SELECT MAX(seq) FROM conversation_log WHERE session_id = ?), 0) + 1, ?, ?, ?, ?)`,
		e.SessionID, e.SessionID, e.Agent, e.Question, e.Answer,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetConversation(sessionID string) ([]ConversationEntry, error) {
	rows, err := s.db.Query(`
		SELECT session_id, seq, agent, question, answer, created_at
		FROM conversation_log WHERE session_id = ? ORDER BY seq ASC`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []ConversationEntry
	for rows.Next() {
		var e ConversationEntry
		var createdAt string
		if err := rows.Scan(&e.SessionID, &e.Seq, &e.Agent, &e.Question, &e.Answer, &createdAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		e.CreatedAt = t
		results = append(results, e)
	}
	return results, rows.Err()
}

// --- Recommendations ---

// SaveRecommendations replaces the persisted ranked list for a session.
func (s *Store) SaveRecommendations(sessionID string, recs []Recommendation) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM recommendations WHERE session_id = ?`, sessionID); err != nil {
		tx.Rollback()
		return err
	}
	for _, r := range recs {
		if _, err := tx.Exec(`
			INSERT INTO recommendations (session_id, position, candidate_json)
			VALUES (?, ?, ?)`, sessionID, r.Rank, r.CandidateJSON,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetRecommendations(sessionID string) ([]Recommendation, error) {
	rows, err := s.db.Query(`
		SELECT session_id, position, candidate_json
		FROM recommendations WHERE session_id = ? ORDER BY position ASC`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Recommendation
	for rows.Next() {
		var r Recommendation
		if err := rows.Scan(&r.SessionID, &r.Rank, &r.CandidateJSON); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// --- Feedback ---

func (s *Store) SaveFeedback(f Feedback) error {
	_, err := s.db.Exec(`
		INSERT INTO feedback (session_id, question, answer, created_at)
		VALUES (?, ?, ?, ?)`,
		f.SessionID, f.Question, f.Answer, f.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *Store) GetFeedback(sessionID string) ([]Feedback, error) {
	rows, err := s.db.Query(`
		SELECT session_id, question, answer, created_at
		FROM feedback WHERE session_id = ? ORDER BY created_at ASC`, sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Feedback
	for rows.Next() {
		var f Feedback
		var createdAt string
		if err := rows.Scan(&f.SessionID, &f.Question, &f.Answer, &createdAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		f.CreatedAt = t
		results = append(results, f)
	}
	return results, rows.Err()
}
