// Package store provides durable persistence for user sessions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/kidtutor/orchestrator/internal/domain"
)

// Store defines the session persistence operations the orchestrator needs.
type Store interface {
	// CreateSession stores a new user-to-thread mapping. Returns a
	// *domain.ConflictError if a session for the user already exists.
	CreateSession(ctx context.Context, userID, threadID string) (*domain.Session, error)

	// GetSessionByUser returns the session for a user, or nil if none exists.
	GetSessionByUser(ctx context.Context, userID string) (*domain.Session, error)

	// SetTitleOnce sets the session title if it has not been set yet. The
	// write is a single conditional UPDATE, so concurrent callers cannot
	// overwrite an already-set title.
	SetTitleOnce(ctx context.Context, userID, threadID, title string) error

	// ListSessions returns all sessions, oldest first.
	ListSessions(ctx context.Context) ([]domain.Session, error)

	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens the database and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations. The unique index on user_id backs the
// one-session-per-user invariant; CreateSession relies on it instead of a
// read-then-write check.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS user_threads (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			thread_id TEXT NOT NULL,
			title TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_user_threads_user ON user_threads(user_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// CreateSession inserts the user-to-thread mapping.
func (s *SQLiteStore) CreateSession(ctx context.Context, userID, threadID string) (*domain.Session, error) {
	session := &domain.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		ThreadID:  threadID,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_threads (id, user_id, thread_id, created_at) VALUES (?, ?, ?, ?)`,
		session.ID, session.UserID, session.ThreadID, session.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, &domain.ConflictError{UserID: userID}
		}
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	return session, nil
}

// GetSessionByUser returns the session for a user, or nil if none exists.
func (s *SQLiteStore) GetSessionByUser(ctx context.Context, userID string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, thread_id, COALESCE(title, ''), created_at FROM user_threads WHERE user_id = ?`,
		userID,
	)

	var session domain.Session
	err := row.Scan(&session.ID, &session.UserID, &session.ThreadID, &session.Title, &session.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return &session, nil
}

// SetTitleOnce sets the title if it is still unset. No-op otherwise.
func (s *SQLiteStore) SetTitleOnce(ctx context.Context, userID, threadID, title string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE user_threads SET title = ? WHERE user_id = ? AND thread_id = ? AND (title IS NULL OR title = '')`,
		title, userID, threadID,
	)
	if err != nil {
		return fmt.Errorf("failed to set title: %w", err)
	}
	return nil
}

// ListSessions returns all sessions, oldest first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]domain.Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, thread_id, COALESCE(title, ''), created_at FROM user_threads ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		var session domain.Session
		if err := rows.Scan(&session.ID, &session.UserID, &session.ThreadID, &session.Title, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
