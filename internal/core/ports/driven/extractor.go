package driven

import (
	"context"

	"github.com/folio-archive/folio/internal/core/domain"
)

// DocumentExtractor turns source XML files into the reading model.
// Implementations select the schema from the file's root element.
type DocumentExtractor interface {
	// Extract parses the file into a Logical Document.
	Extract(ctx context.Context, path string) (*domain.LogicalDocument, error)

	// ExtractText returns the file's flattened reading text.
	ExtractText(ctx context.Context, path string) (string, error)

	// ExtractMetadata reads the file's header. Returns nil, nil when the
	// file has no header container.
	ExtractMetadata(ctx context.Context, path string) (*domain.Metadata, error)
}

// TextNormaliser folds historical spelling into a canonical form.
type TextNormaliser interface {
	Normalise(s string) string
}
