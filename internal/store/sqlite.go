package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/wellness/internal/domain"
)

//go:embed schema.sql
var schema string

// Store is a key-value store over a single SQLite table.
// Writes that fail are kept in memory so the session stays usable, and
// reads that fail fall back to the last value seen for the key.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	pending map[string]*string // nil value marks a pending delete
	known   map[string]*string // last good value; nil means absent
}

// New opens the database at dbPath and applies the schema
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{
		db:      db,
		pending: make(map[string]*string),
		known:   make(map[string]*string),
	}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the raw value stored under key. When the database cannot be
// read, the last value seen for key is returned instead; a key never seen
// in this session is a hard error.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	if v, ok := s.pending[key]; ok {
		s.mu.Unlock()
		return deref(v)
	}
	s.mu.Unlock()

	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		s.remember(key, nil)
		return "", false, nil
	}
	if err != nil {
		s.mu.Lock()
		v, ok := s.known[key]
		s.mu.Unlock()
		if !ok {
			return "", false, fmt.Errorf("get %s: %w", key, err)
		}
		log.Printf("store: read %s: %v; using last known value", key, err)
		return deref(v)
	}
	s.remember(key, &value)
	return value, true, nil
}

func (s *Store) remember(key string, v *string) {
	s.mu.Lock()
	s.known[key] = v
	s.mu.Unlock()
}

func deref(v *string) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}

// Set replaces the value under key in one statement
func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now().UTC())

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.pending[key] = &value
		return &domain.StoreUnavailableError{Key: key, Err: fmt.Errorf("set value: %w", err)}
	}
	delete(s.pending, key)
	s.known[key] = &value
	return nil
}

// Delete removes key
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.pending[key] = nil
		return &domain.StoreUnavailableError{Key: key, Err: fmt.Errorf("delete value: %w", err)}
	}
	delete(s.pending, key)
	s.known[key] = nil
	return nil
}

// Snapshot returns every stored key and value, pending writes included
func (s *Store) Snapshot(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM kv ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list values: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		out[k] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list values: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range s.pending {
		if v == nil {
			delete(out, k)
			continue
		}
		out[k] = *v
	}
	return out, nil
}

// Restore writes every key in values inside one transaction
func (s *Store) Restore(ctx context.Context, values map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin restore: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for k, v := range values {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, k, v, now); err != nil {
			return fmt.Errorf("restore %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit restore: %w", err)
	}

	s.mu.Lock()
	for k, v := range values {
		delete(s.pending, k)
		s.known[k] = &v
	}
	s.mu.Unlock()
	return nil
}
