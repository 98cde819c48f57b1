package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/core/ports/driving"
	"github.com/folio-archive/folio/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// DefaultSettle is how long a file must be quiet before it is ingested.
const DefaultSettle = 500 * time.Millisecond

// WatchService ingests and indexes corpus files as they change.
type WatchService struct {
	store   driven.WorkStore
	sources SourceFactory
	ingest  driving.IngestService
	index   driving.IndexService
	settle  time.Duration
}

// NewWatchService creates a watch service. The index service may be nil,
// in which case changed files are ingested but not indexed.
func NewWatchService(
	store driven.WorkStore,
	sources SourceFactory,
	ingest driving.IngestService,
	index driving.IndexService,
) *WatchService {
	return &WatchService{
		store:   store,
		sources: sources,
		ingest:  ingest,
		index:   index,
		settle:  DefaultSettle,
	}
}

// SetSettle changes the quiet period before a change is processed.
func (s *WatchService) SetSettle(d time.Duration) {
	s.settle = d
}

// Watch blocks until ctx is cancelled or the source stops. Changes are
// collected until the corpus has been quiet for the settle period, then
// processed together.
func (s *WatchService) Watch(ctx context.Context, dir string) error {
	if s.sources == nil {
		return errors.New("watch: corpus source not configured")
	}
	source := s.sources(dir)
	defer source.Close()

	changes, err := source.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Info("Watching %s", dir)

	pending := make(map[string]bool)
	timer := time.NewTimer(s.settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				s.process(ctx, pending)
				return nil
			}
			if change.Type == domain.ChangeDeleted {
				delete(pending, change.Path)
				logger.Info("%s removed; its work is kept", change.Path)
				continue
			}
			pending[change.Path] = true
			timer.Reset(s.settle)
		case <-timer.C:
			s.process(ctx, pending)
			pending = make(map[string]bool)
		}
	}
}

// process ingests new files and re-indexes every work they belong to.
func (s *WatchService) process(ctx context.Context, pending map[string]bool) {
	if len(pending) == 0 {
		return
	}
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	report, err := s.ingest.IngestFiles(ctx, paths)
	if err != nil {
		logger.Error("watch: ingest: %v", err)
		return
	}
	logger.Info("watch: %d new works, %d already known, %d errors",
		report.Processed, report.Skipped, report.Errors)

	if s.index == nil {
		return
	}
	for _, path := range paths {
		work, err := s.store.FindByFilePath(ctx, path)
		if err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				logger.Error("watch: %s: %v", path, err)
			}
			continue
		}
		if err := s.index.IndexWork(ctx, work.ID); err != nil {
			logger.Error("watch: index work %d (%s): %v", work.ID, path, err)
		}
	}
}
