package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/folio-archive/folio/internal/config"
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/core/ports/driving"
	"github.com/folio-archive/folio/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// SourceFactory opens the corpus source rooted at dir.
type SourceFactory func(dir string) driven.CorpusSource

// IngestService records corpus files as Works.
type IngestService struct {
	store     driven.WorkStore
	extractor driven.DocumentExtractor
	sources   SourceFactory
	workers   int
	batchSize int
	progress  driving.ProgressFunc
}

// NewIngestService creates an ingestion service. Non-positive pool sizes
// select the defaults.
func NewIngestService(
	store driven.WorkStore,
	extractor driven.DocumentExtractor,
	sources SourceFactory,
	pool config.Pool,
) *IngestService {
	s := &IngestService{
		store:     store,
		extractor: extractor,
		sources:   sources,
		workers:   pool.Workers,
		batchSize: pool.BatchSize,
	}
	if s.workers <= 0 {
		s.workers = config.DefaultWorkers
	}
	if s.batchSize <= 0 {
		s.batchSize = config.DefaultBatchSize
	}
	return s
}

// SetProgress registers a callback invoked after every finished file.
func (s *IngestService) SetProgress(fn driving.ProgressFunc) {
	s.progress = fn
}

// Ingest processes every XML file under dir.
func (s *IngestService) Ingest(ctx context.Context, dir string) (driving.IngestReport, error) {
	if s.sources == nil {
		return driving.IngestReport{}, errors.New("ingest: corpus source not configured")
	}

	source := s.sources(dir)
	defer source.Close()

	files, err := source.Files(ctx)
	if err != nil {
		return driving.IngestReport{}, fmt.Errorf("listing corpus: %w", err)
	}
	logger.Info("Found %d XML files under %s", len(files), dir)

	return s.IngestFiles(ctx, files)
}

// extraction is one worker's result.
type extraction struct {
	path     string
	metadata *domain.Metadata
	err      error
}

// IngestFiles processes an explicit list of files. Extraction runs on the
// worker pool; deduplication, staging and commits happen on the calling
// goroutine in the order results arrive.
func (s *IngestService) IngestFiles(ctx context.Context, paths []string) (driving.IngestReport, error) {
	run := &ingestRun{
		IngestService: s,
		report:        driving.IngestReport{RunID: uuid.NewString(), Total: len(paths)},
		seen:          make(map[string]bool),
	}
	logger.Section("Ingest " + run.report.RunID)

	results := make(chan extraction)
	go func() {
		defer close(results)
		var g errgroup.Group
		g.SetLimit(s.workers)
		for _, path := range paths {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				md, err := s.extractor.ExtractMetadata(ctx, path)
				results <- extraction{path: path, metadata: md, err: err}
				return nil
			})
		}
		_ = g.Wait()
	}()

	done := 0
	for res := range results {
		run.handle(ctx, res)
		done++
		if s.progress != nil {
			s.progress(done, len(paths))
		}
		if done%s.batchSize == 0 {
			logger.Progress("ingest", done, len(paths))
		}
	}

	run.flush()

	r := run.report
	logger.Info("Ingest %s complete: %d processed, %d skipped, %d errors",
		r.RunID, r.Processed, r.Skipped, r.Errors)

	if err := ctx.Err(); err != nil {
		return r, err
	}
	return r, nil
}

// ingestRun holds the state of one IngestFiles call. Only the draining
// goroutine touches it.
type ingestRun struct {
	*IngestService
	report driving.IngestReport
	seen   map[string]bool
	batch  driven.WorkBatch
}

func (r *ingestRun) handle(ctx context.Context, res extraction) {
	if res.err != nil {
		if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
			return
		}
		logger.Error("%s: %v", res.path, res.err)
		r.report.Errors++
		return
	}
	if res.metadata == nil {
		logger.Error("%s: no metadata header", res.path)
		r.report.Errors++
		return
	}

	work := res.metadata.ToWork(res.path)
	key := work.DedupKey()
	if r.seen[key] {
		logger.Debug("%s: duplicate of an earlier file in this run", res.path)
		r.report.Skipped++
		return
	}
	r.seen[key] = true

	exists, err := r.exists(ctx, &work)
	if err != nil {
		logger.Error("%s: checking for existing work: %v", res.path, err)
		r.report.Errors++
		return
	}
	if exists {
		r.report.Skipped++
		return
	}

	if r.batch == nil {
		batch, err := r.store.Begin(ctx)
		if err != nil {
			logger.Error("%s: %v", res.path, err)
			r.report.Errors++
			return
		}
		r.batch = batch
	}

	if err := r.batch.Create(ctx, &work); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			r.report.Skipped++
			return
		}
		logger.Error("%s: %v", res.path, err)
		r.report.Errors++
		return
	}

	if r.batch.Len() >= r.batchSize {
		r.flush()
	}
}

// exists reports whether the store already holds the work.
func (r *ingestRun) exists(ctx context.Context, work *domain.Work) (bool, error) {
	var err error
	if work.SourceIdentifier != "" {
		_, err = r.store.FindBySourceIdentifier(ctx, work.SourceIdentifier)
	} else {
		_, err = r.store.FindByFilePath(ctx, work.FilePath)
	}
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// flush commits the open batch. A failed commit rolls the batch back and
// counts every staged work as an error.
func (r *ingestRun) flush() {
	if r.batch == nil {
		return
	}
	batch := r.batch
	r.batch = nil

	staged := batch.Len()
	if staged == 0 {
		_ = batch.Rollback()
		return
	}

	if err := batch.Commit(); err != nil {
		logger.Error("ingest %s: commit of %d works failed: %v", r.report.RunID, staged, err)
		if rbErr := batch.Rollback(); rbErr != nil {
			logger.Error("ingest %s: rollback: %v", r.report.RunID, rbErr)
		}
		r.report.Errors += staged
		return
	}
	r.report.Processed += staged
	logger.Debug("ingest %s: committed %d works", r.report.RunID, staged)
}
