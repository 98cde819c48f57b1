package services

import (
	"context"
	"sort"
	"sync"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
)

// mockExtractor serves canned results keyed by path.
type mockExtractor struct {
	mu       sync.Mutex
	metadata map[string]*domain.Metadata
	docs     map[string]*domain.LogicalDocument
	texts    map[string]string
	errs     map[string]error
	calls    int
}

func newMockExtractor() *mockExtractor {
	return &mockExtractor{
		metadata: make(map[string]*domain.Metadata),
		docs:     make(map[string]*domain.LogicalDocument),
		texts:    make(map[string]string),
		errs:     make(map[string]error),
	}
}

func (m *mockExtractor) Extract(ctx context.Context, path string) (*domain.LogicalDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.errs[path]; err != nil {
		return nil, err
	}
	doc, ok := m.docs[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

func (m *mockExtractor) ExtractText(ctx context.Context, path string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := m.errs[path]; err != nil {
		return "", err
	}
	text, ok := m.texts[path]
	if !ok {
		return "", domain.ErrNotFound
	}
	return text, nil
}

func (m *mockExtractor) ExtractMetadata(ctx context.Context, path string) (*domain.Metadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := m.errs[path]; err != nil {
		return nil, err
	}
	return m.metadata[path], nil
}

// mockSource is a fixed corpus listing.
type mockSource struct {
	files  []string
	err    error
	closed bool
}

func (m *mockSource) Files(context.Context) ([]string, error) {
	return m.files, m.err
}

func (m *mockSource) Watch(context.Context) (<-chan domain.FileChange, error) {
	ch := make(chan domain.FileChange)
	close(ch)
	return ch, nil
}

func (m *mockSource) Close() error {
	m.closed = true
	return nil
}

// mockIndex records upserts and returns a canned query response.
type mockIndex struct {
	mu        sync.Mutex
	docs      map[int64]driven.IndexDocument
	failIDs   map[int64]bool
	upsertErr error
	resp      *driven.SearchResponse
	queryErr  error
	queries   []driven.SearchQuery
}

func newMockIndex() *mockIndex {
	return &mockIndex{
		docs:    make(map[int64]driven.IndexDocument),
		failIDs: make(map[int64]bool),
	}
}

func (m *mockIndex) Upsert(_ context.Context, workID int64, doc driven.IndexDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failIDs[workID] {
		return domain.ErrIndex
	}
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.docs[workID] = doc
	return nil
}

func (m *mockIndex) Delete(_ context.Context, workID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, workID)
	return nil
}

func (m *mockIndex) Query(_ context.Context, q driven.SearchQuery) (*driven.SearchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if m.resp == nil {
		return &driven.SearchResponse{}, nil
	}
	return m.resp, nil
}

func (m *mockIndex) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs), nil
}

func (m *mockIndex) Close() error {
	return nil
}

func (m *mockIndex) ids() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, 0, len(m.docs))
	for id := range m.docs {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func eeboMetadata(id string, year int) *domain.Metadata {
	md := &domain.Metadata{
		SourceIdentifier: id,
		Title:            "Work " + id,
		Author:           "Anon.",
		Collection:       domain.CollectionEEBO,
		Language:         "eng",
	}
	if year > 0 {
		md.PublicationYear = domain.IntPtr(year)
	}
	return md
}
