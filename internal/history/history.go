// Package history persists resolved exchanges per session so earlier
// answers can be reviewed with the history subcommand.
package history

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Exchange is one resolved query and its answer. Source records which path
// produced the answer: "rules" or "llm".
type Exchange struct {
	ID        int64     `db:"id"`
	SessionID string    `db:"session_id"`
	AskedAt   time.Time `db:"asked_at"`
	Question  string    `db:"question"`
	Answer    string    `db:"answer"`
	Source    string    `db:"source"`
}

const schema = `
CREATE TABLE IF NOT EXISTS exchanges (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	asked_at   TIMESTAMP NOT NULL,
	question   TEXT NOT NULL,
	answer     TEXT NOT NULL,
	source     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exchanges_asked_at ON exchanges(asked_at);
`

// Store wraps the sqlite-backed exchange log.
type Store struct {
	db *sqlx.DB
}

// Open connects to (and if necessary creates) the history database at path.
func Open(path string) (*Store, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append records one exchange.
func (s *Store) Append(ex Exchange) error {
	const q = `
		INSERT INTO exchanges (session_id, asked_at, question, answer, source)
		VALUES (?, ?, ?, ?, ?)`
	if ex.AskedAt.IsZero() {
		ex.AskedAt = time.Now()
	}
	if _, err := s.db.Exec(q, ex.SessionID, ex.AskedAt, ex.Question, ex.Answer, ex.Source); err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}
	return nil
}

// Recent returns the n most recent exchanges, newest first.
func (s *Store) Recent(n int) ([]Exchange, error) {
	if n <= 0 {
		n = 10
	}
	var out []Exchange
	const q = `
		SELECT id, session_id, asked_at, question, answer, source
		FROM exchanges ORDER BY asked_at DESC, id DESC LIMIT ?`
	if err := s.db.Select(&out, q, n); err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	return out, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
