package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/folio-archive/folio/internal/config"
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/core/ports/driving"
	"github.com/folio-archive/folio/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService submits stored works to the search index.
type IndexService struct {
	store      driven.WorkStore
	extractor  driven.DocumentExtractor
	index      driven.SearchIndex
	normaliser driven.TextNormaliser
	settings   config.Index
	limiter    *rate.Limiter
	progress   driving.ProgressFunc
}

// NewIndexService creates an indexing service. The index may be nil, in
// which case every work fails. A positive RatePerSecond throttles
// submissions across all workers.
func NewIndexService(
	store driven.WorkStore,
	extractor driven.DocumentExtractor,
	index driven.SearchIndex,
	normaliser driven.TextNormaliser,
	settings config.Index,
) *IndexService {
	s := &IndexService{
		store:      store,
		extractor:  extractor,
		index:      index,
		normaliser: normaliser,
		settings:   settings,
	}
	if settings.RatePerSecond > 0 {
		burst := int(settings.RatePerSecond)
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(settings.RatePerSecond), burst)
	}
	return s
}

// SetProgress registers a callback invoked after every finished batch.
func (s *IndexService) SetProgress(fn driving.ProgressFunc) {
	s.progress = fn
}

// IndexAll pages through every stored work and indexes it.
func (s *IndexService) IndexAll(ctx context.Context, batchSize, workers int) (driving.IndexReport, error) {
	if batchSize <= 0 {
		batchSize = s.settings.BatchSize
	}
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}
	if workers <= 0 {
		workers = s.settings.Workers
	}
	if workers <= 0 {
		workers = config.DefaultWorkers
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return driving.IndexReport{}, fmt.Errorf("counting works: %w", err)
	}

	logger.Section("Index")
	logger.Info("Indexing %d works (batch %d, workers %d)", total, batchSize, workers)

	report := driving.IndexReport{Total: total}
	for offset := 0; offset < total; offset += batchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		works, err := s.store.ListPage(ctx, offset, batchSize)
		if err != nil {
			return report, fmt.Errorf("listing works at offset %d: %w", offset, err)
		}
		if len(works) == 0 {
			break
		}

		ok, failed := s.indexBatch(ctx, works, workers)
		report.Succeeded += ok
		report.Failed += failed

		done := offset + len(works)
		logger.Progress("index", done, total)
		if s.progress != nil {
			s.progress(done, total)
		}
	}

	logger.Info("Indexing complete: %d succeeded, %d failed", report.Succeeded, report.Failed)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func (s *IndexService) indexBatch(ctx context.Context, works []domain.Work, workers int) (int, int) {
	var ok, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range works {
		work := &works[i]
		g.Go(func() error {
			if err := s.indexOne(ctx, work); err != nil {
				logger.Error("index work %d (%s): %v", work.ID, work.FilePath, err)
				failed.Add(1)
				return nil
			}
			ok.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	return int(ok.Load()), int(failed.Load())
}

// IndexWork indexes a single stored work.
func (s *IndexService) IndexWork(ctx context.Context, id int64) error {
	work, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get work %d: %w", id, err)
	}
	return s.indexOne(ctx, work)
}

func (s *IndexService) indexOne(ctx context.Context, work *domain.Work) error {
	if s.index == nil {
		return domain.ErrSearchUnavailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := os.Stat(work.FilePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("source file %s: %w", work.FilePath, domain.ErrNotFound)
		}
		return fmt.Errorf("source file %s: %w", work.FilePath, err)
	}

	content, err := s.extractor.ExtractText(ctx, work.FilePath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("no content extracted from %s: %w", work.FilePath, domain.ErrInvalidInput)
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	return s.index.Upsert(ctx, work.ID, s.document(work, content))
}

// document builds the index payload. The canonical field carries the
// normalised title, author and content so variant spellings match.
func (s *IndexService) document(work *domain.Work, content string) driven.IndexDocument {
	doc := driven.IndexDocument{
		SourceIdentifier: work.SourceIdentifier,
		Title:            work.Title,
		Author:           work.Author,
		Content:          content,
		PublicationYear:  work.PublicationYear,
		Collection:       work.Collection,
		Genre:            work.Genre,
		Language:         work.Language,
	}
	if s.normaliser != nil {
		doc.Canonical = s.normaliser.Normalise(strings.Join([]string{work.Title, work.Author, content}, " "))
	}
	return doc
}
