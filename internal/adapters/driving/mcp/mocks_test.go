package mcp

import (
	"context"

	"github.com/folio-archive/folio/internal/core/domain"
)

// mockSearchService records the last request and returns a fixed page.
type mockSearchService struct {
	page domain.SearchPage
	last domain.SearchRequest
}

func (m *mockSearchService) Search(_ context.Context, req domain.SearchRequest) domain.SearchPage {
	m.last = req
	return m.page
}

// mockWorkService serves works, documents and texts from maps.
type mockWorkService struct {
	works map[int64]*domain.Work
	docs  map[int64]*domain.LogicalDocument
	texts map[int64]string
	err   error
}

func (m *mockWorkService) Get(_ context.Context, id int64) (*domain.Work, error) {
	if m.err != nil {
		return nil, m.err
	}
	w, ok := m.works[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return w, nil
}

func (m *mockWorkService) List(_ context.Context, offset, limit int) ([]domain.Work, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Work
	for id := int64(1); id <= int64(len(m.works)); id++ {
		if w, ok := m.works[id]; ok {
			out = append(out, *w)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockWorkService) Count(_ context.Context) (int, error) {
	return len(m.works), m.err
}

func (m *mockWorkService) Render(_ context.Context, id int64) (*domain.LogicalDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	d, ok := m.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (m *mockWorkService) Text(_ context.Context, id int64) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	t, ok := m.texts[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	return t, nil
}

// hamletWorks returns a work service holding a single play.
func hamletWorks() *mockWorkService {
	return &mockWorkService{
		works: map[int64]*domain.Work{
			1: {
				ID:              1,
				Title:           "The Tragedie of Hamlet",
				Author:          "William Shakespeare",
				PublicationYear: domain.IntPtr(1623),
				Collection:      domain.CollectionFolio,
			},
		},
		docs: map[int64]*domain.LogicalDocument{
			1: {
				Schema: domain.SchemaPlay,
				Title:  "Hamlet",
				Sections: []domain.Section{{
					Title: "Act 1",
					Sections: []domain.Section{{
						Title: "Scene 1",
						Blocks: []domain.Block{
							{Kind: domain.BlockStageDirection, Text: "Enter Barnardo and Francisco"},
							{Kind: domain.BlockSpeech, Speaker: "Barnardo", Lines: []domain.Line{
								{DropCap: "W", Text: "ho's there?"},
							}},
							{Kind: domain.BlockSpeech, Speaker: "Francisco", Lines: []domain.Line{
								{Text: "Nay answer me:"},
								{Text: "Stand and unfold your selfe."},
							}},
							{Kind: domain.BlockLineBreak},
						},
					}},
				}},
			},
		},
		texts: map[int64]string{1: "Who's there? Nay answer me"},
	}
}
