// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/newtown/billsplitter/internal/models"
)

// Store defines the settings-store contract the ledger persists members
// through: whole-list read and whole-list replace. This abstraction allows
// swapping storage backends (SQLite, a plain file, etc.) without changing
// the ledger.
type Store interface {
	// LoadMembers returns the saved member list, or an empty list when
	// nothing has been saved yet.
	LoadMembers(ctx context.Context) ([]models.Member, error)

	// SaveMembers replaces the saved member list.
	SaveMembers(ctx context.Context, members []models.Member) error

	// Close releases any resources held by the store.
	Close() error
}
