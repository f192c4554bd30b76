// Package sqlite provides a SQLite-backed implementation of the storage.Store
// interface. The member list is stored as a single JSON blob under a fixed
// settings key, mirroring the whole-list read/replace contract.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/newtown/billsplitter/internal/models"
	"github.com/newtown/billsplitter/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// membersKey is the fixed settings namespace for the persisted member list.
const membersKey = "members"

const schema = `
CREATE TABLE IF NOT EXISTS settings (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and the schema automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadMembers reads the saved member list. A missing settings row means
// nothing has been saved yet and yields an empty list.
func (s *SQLiteStore) LoadMembers(ctx context.Context) ([]models.Member, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM settings WHERE key = ?", membersKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return []models.Member{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}

	var members []models.Member
	if err := json.Unmarshal([]byte(value), &members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	if members == nil {
		members = []models.Member{}
	}
	return members, nil
}

// SaveMembers replaces the saved member list.
func (s *SQLiteStore) SaveMembers(ctx context.Context, members []models.Member) error {
	if members == nil {
		members = []models.Member{}
	}
	value, err := json.Marshal(members)
	if err != nil {
		return fmt.Errorf("failed to encode members: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		membersKey, string(value), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to write members: %w", err)
	}
	return nil
}
