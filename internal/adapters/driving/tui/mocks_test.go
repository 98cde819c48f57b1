package tui

import (
	"context"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

// MockSearchService returns one fixed page and records requests.
type MockSearchService struct {
	page     domain.SearchPage
	requests []domain.SearchRequest
}

func (m *MockSearchService) Search(_ context.Context, req domain.SearchRequest) domain.SearchPage {
	m.requests = append(m.requests, req)
	return m.page
}

// MockWorkService serves one rendered work.
type MockWorkService struct {
	works []domain.Work
	doc   *domain.LogicalDocument
}

func (m *MockWorkService) Get(_ context.Context, id int64) (*domain.Work, error) {
	for i := range m.works {
		if m.works[i].ID == id {
			return &m.works[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockWorkService) List(_ context.Context, offset, limit int) ([]domain.Work, error) {
	if offset >= len(m.works) {
		return nil, nil
	}
	return m.works[offset:min(offset+limit, len(m.works))], nil
}

func (m *MockWorkService) Count(_ context.Context) (int, error) {
	return len(m.works), nil
}

func (m *MockWorkService) Render(_ context.Context, id int64) (*domain.LogicalDocument, error) {
	if m.doc == nil {
		return nil, domain.ErrNotFound
	}
	return m.doc, nil
}

func (m *MockWorkService) Text(_ context.Context, _ int64) (string, error) {
	return "", nil
}

// MockSettingsService holds settings in a map.
type MockSettingsService struct {
	values map[string]string
}

func (m *MockSettingsService) List() []driving.Setting {
	return []driving.Setting{{Key: "search.page_size", Value: m.values["search.page_size"]}}
}

func (m *MockSettingsService) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *MockSettingsService) Path() string {
	return "/tmp/folio/config.toml"
}
