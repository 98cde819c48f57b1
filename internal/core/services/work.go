package services

import (
	"context"
	"fmt"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

// Ensure WorkService implements the interface.
var _ driving.WorkService = (*WorkService)(nil)

// WorkService reads stored works and renders them from their source files.
type WorkService struct {
	store     driven.WorkStore
	extractor driven.DocumentExtractor
}

// NewWorkService creates a new work service.
func NewWorkService(store driven.WorkStore, extractor driven.DocumentExtractor) *WorkService {
	return &WorkService{
		store:     store,
		extractor: extractor,
	}
}

// Get retrieves a work by ID.
func (s *WorkService) Get(ctx context.Context, id int64) (*domain.Work, error) {
	return s.store.Get(ctx, id)
}

// List returns a page of works ordered by ID.
func (s *WorkService) List(ctx context.Context, offset, limit int) ([]domain.Work, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	return s.store.ListPage(ctx, offset, limit)
}

// Count returns the number of stored works.
func (s *WorkService) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Render extracts the work's Logical Document from its source file.
func (s *WorkService) Render(ctx context.Context, id int64) (*domain.LogicalDocument, error) {
	work, err := s.source(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.extractor.Extract(ctx, work.FilePath)
}

// Text returns the work's flattened reading text.
func (s *WorkService) Text(ctx context.Context, id int64) (string, error) {
	work, err := s.source(ctx, id)
	if err != nil {
		return "", err
	}
	return s.extractor.ExtractText(ctx, work.FilePath)
}

// source loads the work and checks its file is still on disk.
func (s *WorkService) source(ctx context.Context, id int64) (*domain.Work, error) {
	work, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get work %d: %w", id, err)
	}
	if !fileExists(work.FilePath) {
		return nil, fmt.Errorf("source file %s for work %d: %w", work.FilePath, id, domain.ErrNotFound)
	}
	return work, nil
}
