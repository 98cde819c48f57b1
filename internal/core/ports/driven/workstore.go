package driven

import (
	"context"

	"github.com/folio-archive/folio/internal/core/domain"
)

// WorkStore persists works.
// Backed by SQLite for metadata storage.
type WorkStore interface {
	// Get retrieves a work by ID.
	Get(ctx context.Context, id int64) (*domain.Work, error)

	// FindBySourceIdentifier retrieves the work carrying the given source
	// identifier. Returns domain.ErrNotFound when none does.
	FindBySourceIdentifier(ctx context.Context, sourceID string) (*domain.Work, error)

	// FindByFilePath retrieves the work created from the given file.
	FindByFilePath(ctx context.Context, path string) (*domain.Work, error)

	// ListPage returns up to limit works ordered by ID, skipping offset.
	ListPage(ctx context.Context, offset, limit int) ([]domain.Work, error)

	// ListByCollection returns all works in a collection ordered by ID.
	ListByCollection(ctx context.Context, collection string) ([]domain.Work, error)

	// Count returns the number of stored works.
	Count(ctx context.Context) (int, error)

	// Begin opens a batch of staged writes.
	Begin(ctx context.Context) (WorkBatch, error)

	// Close releases resources.
	Close() error
}

// WorkBatch stages writes that become visible together on Commit.
// A batch is used by a single goroutine.
type WorkBatch interface {
	// Create stages a new work and assigns its ID.
	Create(ctx context.Context, work *domain.Work) error

	// UpdatePublicationYear stages a year change for an existing work.
	UpdatePublicationYear(ctx context.Context, id int64, year int) error

	// Len returns the number of staged writes.
	Len() int

	// Commit applies every staged write atomically.
	Commit() error

	// Rollback discards every staged write. Safe after Commit.
	Rollback() error
}
