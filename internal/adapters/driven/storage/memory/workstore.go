package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
)

// Ensure WorkStore implements the interface.
var _ driven.WorkStore = (*WorkStore)(nil)

// WorkStore is an in-memory implementation of driven.WorkStore.
// Batches stage their writes and apply them under the store lock on commit.
type WorkStore struct {
	mu     sync.RWMutex
	works  map[int64]domain.Work
	nextID int64

	// FailCommits makes every batch commit fail, for exercising the
	// rollback path.
	FailCommits bool
}

// NewWorkStore creates a new in-memory work store.
func NewWorkStore() *WorkStore {
	return &WorkStore{
		works:  make(map[int64]domain.Work),
		nextID: 1,
	}
}

// Get retrieves a work by ID.
func (s *WorkStore) Get(_ context.Context, id int64) (*domain.Work, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.works[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &w, nil
}

// FindBySourceIdentifier retrieves the work with the given source identifier.
func (s *WorkStore) FindBySourceIdentifier(_ context.Context, sourceID string) (*domain.Work, error) {
	if sourceID == "" {
		return nil, domain.ErrNotFound
	}
	return s.find(func(w domain.Work) bool { return w.SourceIdentifier == sourceID })
}

// FindByFilePath retrieves the first work created from path.
func (s *WorkStore) FindByFilePath(_ context.Context, path string) (*domain.Work, error) {
	return s.find(func(w domain.Work) bool { return w.FilePath == path })
}

func (s *WorkStore) find(match func(domain.Work) bool) (*domain.Work, error) {
	for _, w := range s.sorted() {
		if match(w) {
			return &w, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListPage returns up to limit works ordered by ID, skipping offset.
func (s *WorkStore) ListPage(_ context.Context, offset, limit int) ([]domain.Work, error) {
	all := s.sorted()
	if limit <= 0 || offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// ListByCollection returns all works in a collection ordered by ID.
func (s *WorkStore) ListByCollection(_ context.Context, collection string) ([]domain.Work, error) {
	var out []domain.Work
	for _, w := range s.sorted() {
		if w.Collection == collection {
			out = append(out, w)
		}
	}
	return out, nil
}

// Count returns the number of stored works.
func (s *WorkStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.works), nil
}

// Begin opens a batch.
func (s *WorkStore) Begin(_ context.Context) (driven.WorkBatch, error) {
	return &workBatch{store: s}, nil
}

// Close is a no-op for the memory store.
func (s *WorkStore) Close() error {
	return nil
}

func (s *WorkStore) sorted() []domain.Work {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Work, 0, len(s.works))
	for _, w := range s.works {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type yearUpdate struct {
	id   int64
	year int
}

// workBatch stages creates and year updates until Commit.
type workBatch struct {
	store   *WorkStore
	creates []*domain.Work
	updates []yearUpdate
	done    bool
}

// Create stages a work and reserves its ID.
func (b *workBatch) Create(_ context.Context, work *domain.Work) error {
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if work.SourceIdentifier != "" {
		for _, w := range s.works {
			if w.SourceIdentifier == work.SourceIdentifier {
				return fmt.Errorf("work %q: %w", work.SourceIdentifier, domain.ErrAlreadyExists)
			}
		}
		for _, w := range b.creates {
			if w.SourceIdentifier == work.SourceIdentifier {
				return fmt.Errorf("work %q: %w", work.SourceIdentifier, domain.ErrAlreadyExists)
			}
		}
	}

	now := time.Now().UTC()
	if work.CreatedAt.IsZero() {
		work.CreatedAt = now
	}
	work.UpdatedAt = now
	if work.Format == "" {
		work.Format = domain.FormatXML
	}
	work.ID = s.nextID
	s.nextID++
	b.creates = append(b.creates, work)
	return nil
}

// UpdatePublicationYear stages a year change for a stored work.
func (b *workBatch) UpdatePublicationYear(_ context.Context, id int64, year int) error {
	b.store.mu.RLock()
	_, ok := b.store.works[id]
	b.store.mu.RUnlock()
	if !ok {
		return fmt.Errorf("work %d: %w", id, domain.ErrNotFound)
	}
	b.updates = append(b.updates, yearUpdate{id: id, year: year})
	return nil
}

// Len returns the number of staged writes.
func (b *workBatch) Len() int {
	return len(b.creates) + len(b.updates)
}

// Commit applies the staged writes.
func (b *workBatch) Commit() error {
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if b.done {
		return fmt.Errorf("%w: batch already finished", domain.ErrPersistence)
	}
	if s.FailCommits {
		return fmt.Errorf("%w: commit rejected", domain.ErrPersistence)
	}

	for _, w := range b.creates {
		s.works[w.ID] = *w
	}
	for _, u := range b.updates {
		if w, ok := s.works[u.id]; ok {
			year := u.year
			w.PublicationYear = &year
			w.UpdatedAt = time.Now().UTC()
			s.works[u.id] = w
		}
	}
	b.done = true
	return nil
}

// Rollback discards the staged writes. Safe after Commit.
func (b *workBatch) Rollback() error {
	if b.done {
		return nil
	}
	for _, w := range b.creates {
		w.ID = 0
	}
	b.creates = nil
	b.updates = nil
	b.done = true
	return nil
}
