// Package storage persists conversion history and the scanned-source records
// used to skip unchanged files.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/wordify/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines conversion and source persistence operations.
type Storage interface {
	// Conversion operations
	SaveConversions(ctx context.Context, convs []*models.Conversion) error
	ListConversions(ctx context.Context, offset, limit int) ([]*models.Conversion, error)
	ListConversionsBySource(ctx context.Context, sourceID string) ([]*models.Conversion, error)
	DeleteConversionsBySource(ctx context.Context, sourceID string) error

	// Source operations
	GetSource(ctx context.Context, id string) (*models.Source, error)
	UpsertSource(ctx context.Context, src *models.Source) error
	DeleteSource(ctx context.Context, id string) error
	ReplaceSource(ctx context.Context, src *models.Source, convs []*models.Conversion) error

	// Stats
	CountConversions(ctx context.Context) (int64, error)
	CountSources(ctx context.Context) (int64, error)

	Close() error
}
