package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/folio-archive/folio/internal/config"
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/core/ports/driving"
	"github.com/folio-archive/folio/internal/logger"
)

// Ensure BackfillService implements the interface.
var _ driving.BackfillService = (*BackfillService)(nil)

// BackfillService re-reads EEBO-TCP headers to fill in publication years.
type BackfillService struct {
	store     driven.WorkStore
	extractor driven.DocumentExtractor
	eeboDir   string
	batchSize int
}

// NewBackfillService creates a back-fill service. When eeboDir is set,
// a work whose recorded file is gone is looked up there by base name.
func NewBackfillService(
	store driven.WorkStore,
	extractor driven.DocumentExtractor,
	eeboDir string,
	batchSize int,
) *BackfillService {
	if batchSize <= 0 {
		batchSize = config.DefaultBatchSize
	}
	return &BackfillService{
		store:     store,
		extractor: extractor,
		eeboDir:   eeboDir,
		batchSize: batchSize,
	}
}

// BackfillYears checks every EEBO-TCP work and commits changed years in
// batches. A failed commit loses only that batch.
func (s *BackfillService) BackfillYears(ctx context.Context, batchSize int) (driving.BackfillReport, error) {
	if batchSize <= 0 {
		batchSize = s.batchSize
	}

	works, err := s.store.ListByCollection(ctx, domain.CollectionEEBO)
	if err != nil {
		return driving.BackfillReport{}, fmt.Errorf("listing %s works: %w", domain.CollectionEEBO, err)
	}

	logger.Section("Backfill publication years")
	logger.Info("Checking %d %s works", len(works), domain.CollectionEEBO)

	var report driving.BackfillReport
	for start := 0; start < len(works); start += batchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		end := min(start+batchSize, len(works))
		s.backfillBatch(ctx, works[start:end], &report)
		logger.Progress("backfill", end, len(works))
	}

	logger.Info("Backfill complete: %d updated, %d without a year, %d failed",
		report.Updated, report.NoYear, report.Failed)
	return report, nil
}

func (s *BackfillService) backfillBatch(ctx context.Context, works []domain.Work, report *driving.BackfillReport) {
	batch, err := s.store.Begin(ctx)
	if err != nil {
		logger.Error("backfill: %v", err)
		report.Checked += len(works)
		report.Failed += len(works)
		return
	}
	defer batch.Rollback() //nolint:errcheck

	for i := range works {
		work := &works[i]
		report.Checked++

		year, err := s.readYear(ctx, work)
		switch {
		case err != nil:
			logger.Error("backfill work %d: %v", work.ID, err)
			report.Failed++
			continue
		case year == 0:
			logger.Warn("No year found for work %d: %s", work.ID, work.Title)
			report.NoYear++
			continue
		case year == work.Year():
			continue
		}

		if err := batch.UpdatePublicationYear(ctx, work.ID, year); err != nil {
			logger.Error("backfill work %d: %v", work.ID, err)
			report.Failed++
			continue
		}
		logger.Debug("Work %d: year %d -> %d", work.ID, work.Year(), year)
	}

	staged := batch.Len()
	if staged == 0 {
		return
	}
	if err := batch.Commit(); err != nil {
		logger.Error("backfill: commit of %d updates failed: %v", staged, err)
		report.Failed += staged
		return
	}
	report.Updated += staged
}

// readYear re-extracts the work's header and returns its year, or zero
// when the header carries none.
func (s *BackfillService) readYear(ctx context.Context, work *domain.Work) (int, error) {
	path, err := s.resolve(work.FilePath)
	if err != nil {
		return 0, err
	}

	md, err := s.extractor.ExtractMetadata(ctx, path)
	if err != nil {
		return 0, err
	}
	if md == nil {
		return 0, fmt.Errorf("no header in %s: %w", path, domain.ErrSchemaMismatch)
	}
	if md.PublicationYear == nil {
		return 0, nil
	}
	return *md.PublicationYear, nil
}

// resolve returns path when it exists, else its base name under the
// configured EEBO directory.
func (s *BackfillService) resolve(path string) (string, error) {
	if fileExists(path) {
		return path, nil
	}
	if s.eeboDir != "" {
		alt := filepath.Join(s.eeboDir, filepath.Base(path))
		if fileExists(alt) {
			return alt, nil
		}
	}
	return "", fmt.Errorf("source file %s: %w", path, domain.ErrNotFound)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}
