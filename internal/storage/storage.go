// Package storage defines the persistence interface for the record store that mirrors
// the search index.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/medisearch/internal/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage persists normalized documents so the search index can be rebuilt.
type Storage interface {
	// UpsertRecords inserts or replaces docs in one transaction.
	UpsertRecords(ctx context.Context, docs []*models.SearchDocument) error
	GetRecord(ctx context.Context, id string) (*models.SearchDocument, error)
	// DeleteRecords removes the given ids. Unknown ids are ignored.
	DeleteRecords(ctx context.Context, ids []string) error
	DeleteAllRecords(ctx context.Context) error
	ListRecords(ctx context.Context, offset, limit int) ([]*models.SearchDocument, error)
	CountRecords(ctx context.Context) (int64, error)
	// CountByType returns the number of records per type.
	CountByType(ctx context.Context) (map[string]int64, error)

	Close() error
}
