package driving

import (
	"context"

	"github.com/folio-archive/folio/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search runs a request and returns one page of results. It never
	// fails: an unavailable index yields an empty page.
	Search(ctx context.Context, req domain.SearchRequest) domain.SearchPage
}

// WorkService reads works and renders their documents.
type WorkService interface {
	// Get retrieves a work by ID.
	Get(ctx context.Context, id int64) (*domain.Work, error)

	// List returns a page of works ordered by ID.
	List(ctx context.Context, offset, limit int) ([]domain.Work, error)

	// Count returns the number of stored works.
	Count(ctx context.Context) (int, error)

	// Render extracts the work's Logical Document from its source file.
	Render(ctx context.Context, id int64) (*domain.LogicalDocument, error)

	// Text returns the work's flattened reading text.
	Text(ctx context.Context, id int64) (string, error)
}
