// Package store persists the history of evaluations and analyses in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Kind tags what produced a history entry.
type Kind string

const (
	KindCalc      Kind = "calc"
	KindClassify  Kind = "classify"
	KindAnalyze   Kind = "analyze"
	KindQuadratic Kind = "quadratic"
	KindFibonacci Kind = "fibonacci"
)

// Entry is one history row.
type Entry struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	IsError   bool      `json:"is_error"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store is closed")

// Store records history. A Store opened with an empty path is disabled:
// Record does nothing and Recent returns no entries.
type Store struct {
	db     *sql.DB
	dbPath string
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
}

// Disabled returns a store that keeps nothing.
func Disabled() *Store {
	return &Store{logger: zap.NewNop()}
}

// Open creates or opens the history database at path.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		logger.Debug("history disabled")
		return &Store{logger: logger}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db, dbPath: path, logger: logger}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	logger.Debug("history store opened", zap.String("path", path))
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS history (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		input TEXT NOT NULL,
		output TEXT NOT NULL,
		is_error INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_history_created ON history(created_at);
	CREATE INDEX IF NOT EXISTS idx_history_kind ON history(kind);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Enabled reports whether entries are persisted.
func (s *Store) Enabled() bool { return s.db != nil }

// Path returns the database file path, empty when disabled.
func (s *Store) Path() string { return s.dbPath }

// Record appends e. Missing ID and CreatedAt are filled in.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	if !s.Enabled() {
		return e, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return e, ErrClosed
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, kind, input, output, is_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Kind), e.Input, e.Output, e.IsError, e.CreatedAt)
	if err != nil {
		return e, fmt.Errorf("failed to record history: %w", err)
	}
	s.logger.Debug("history recorded", zap.String("kind", string(e.Kind)), zap.Bool("error", e.IsError))
	return e, nil
}

// Recent returns up to limit entries, newest first. A non-positive limit
// returns nothing.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	entries := []Entry{}
	if !s.Enabled() || limit <= 0 {
		return entries, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, input, output, is_error, created_at
		FROM history
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.ID, &kind, &e.Input, &e.Output, &e.IsError, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		e.Kind = Kind(kind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// Clear deletes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database connection. Closing twice is a no-op.
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
