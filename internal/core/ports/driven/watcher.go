package driven

import (
	"context"

	"github.com/folio-archive/folio/internal/core/domain"
)

// CorpusSource enumerates and watches corpus XML files on disk.
type CorpusSource interface {
	// Files returns every corpus file under the root in lexical order.
	Files(ctx context.Context) ([]string, error)

	// Watch streams file changes until ctx is cancelled or the source
	// is closed. The returned channel is closed on exit.
	Watch(ctx context.Context) (<-chan domain.FileChange, error)

	// Close releases resources.
	Close() error
}
