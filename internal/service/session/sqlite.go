package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

// SQLiteStore implements Store on a local SQLite database so sessions
// survive a process restart. The whole session record is stored as one JSON
// column; the store never updates individual fields.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open session database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize session schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Get loads the stored session, or returns a fresh default for unknown ids.
func (s *SQLiteStore) Get(ctx context.Context, conversationID string) (convo.Session, error) {
	if conversationID == "" {
		return convo.Session{}, ErrConversationRequired
	}

	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM sessions WHERE id = ?", conversationID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return convo.New(conversationID), nil
	}
	if err != nil {
		return convo.Session{}, fmt.Errorf("failed to load session %s: %w", conversationID, err)
	}

	var session convo.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return convo.Session{}, fmt.Errorf("failed to decode session %s: %w", conversationID, err)
	}
	return session, nil
}

// Save upserts the whole session record.
func (s *SQLiteStore) Save(ctx context.Context, session convo.Session) error {
	if session.ID == "" {
		return ErrConversationRequired
	}

	session.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session %s: %w", session.ID, err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, data, created_at, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		session.ID, string(data), session.CreatedAt, session.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", session.ID, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
