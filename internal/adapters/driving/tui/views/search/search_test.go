package search

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/folio-archive/folio/internal/adapters/driving/tui/messages"
	"github.com/folio-archive/folio/internal/core/domain"
)

// MockSearchService records requests and answers with page.
type MockSearchService struct {
	page     domain.SearchPage
	requests []domain.SearchRequest
}

func (m *MockSearchService) Search(_ context.Context, req domain.SearchRequest) domain.SearchPage {
	m.requests = append(m.requests, req)
	page := m.page
	page.Page = req.Page
	return page
}

func typeText(v *View, s string) {
	for _, r := range s {
		v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func twoPages() domain.SearchPage {
	return domain.SearchPage{
		Results: []domain.SearchResult{
			{WorkID: 3, Title: "The Tragedie of Hamlet", Score: 2},
			{WorkID: 5, Title: "Hamlet, Prince of Denmarke", Score: 1},
		},
		Total:    4,
		Pages:    2,
		Page:     1,
		PageSize: 2,
	}
}

// submit types query, presses enter and feeds the result back in.
func submit(t *testing.T, v *View, query string) {
	t.Helper()
	typeText(v, query)
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	v.Update(cmd())
}

func TestNewView(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{}, 0)

	require.NotNil(t, v)
	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Query())
	assert.NotNil(t, v.Init())
}

func TestView_TypingFillsQuery(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{}, 0)

	typeText(v, "loue")
	assert.Equal(t, "loue", v.Query())
}

func TestView_EmptyQueryNotSubmitted(t *testing.T) {
	svc := &MockSearchService{}
	v := NewView(nil, nil, svc, 0)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, svc.requests)
}

func TestView_SubmitSearches(t *testing.T) {
	svc := &MockSearchService{page: twoPages()}
	v := NewView(nil, nil, svc, 2)

	submit(t, v, "hamlet")

	require.Len(t, svc.requests, 1)
	assert.Equal(t, domain.SearchRequest{Query: "hamlet", Page: 1, PageSize: 2}, svc.requests[0])
	assert.False(t, v.InputFocused())
	assert.Len(t, v.Results(), 2)
	assert.Contains(t, v.View(), "4 works, page 1 of 2")
}

func TestView_NoResultsStaysInInput(t *testing.T) {
	svc := &MockSearchService{page: domain.SearchPage{Results: []domain.SearchResult{}}}
	v := NewView(nil, nil, svc, 0)

	submit(t, v, "nothing")

	assert.True(t, v.InputFocused())
	assert.Contains(t, v.View(), "No results found.")
}

func TestView_Paging(t *testing.T) {
	svc := &MockSearchService{page: twoPages()}
	v := NewView(nil, nil, svc, 2)
	submit(t, v, "hamlet")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	require.NotNil(t, cmd)
	v.Update(cmd())
	require.Len(t, svc.requests, 2)
	assert.Equal(t, 2, svc.requests[1].Page)
	assert.Equal(t, "hamlet", svc.requests[1].Query)

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'l'}})
	assert.Nil(t, cmd, "no page past the last")

	_, cmd = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	require.NotNil(t, cmd)
	v.Update(cmd())
	assert.Equal(t, 1, svc.requests[2].Page)
}

func TestView_SelectOpensWork(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{page: twoPages()}, 2)
	submit(t, v, "hamlet")

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, v.SelectedIndex())

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.WorkSelected{WorkID: 5, Title: "Hamlet, Prince of Denmarke", Back: messages.ViewSearch}, cmd())
}

func TestView_NewQuery(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{page: twoPages()}, 2)
	submit(t, v, "hamlet")

	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}})
	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Query())
}

func TestView_EscGoesToMenu(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{}, 0)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_NoService(t *testing.T) {
	v := NewView(nil, nil, nil, 0)
	typeText(v, "loue")

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.ErrorOccurred{Err: ErrNoSearchService}, msg)

	v.Update(msg)
	assert.ErrorIs(t, v.Err(), ErrNoSearchService)
	assert.Contains(t, v.View(), "search service not available")
}

func TestView_Reset(t *testing.T) {
	v := NewView(nil, nil, &MockSearchService{page: twoPages()}, 2)
	submit(t, v, "hamlet")

	v.Reset()
	assert.True(t, v.InputFocused())
	assert.Empty(t, v.Query())
	assert.Empty(t, v.Results())
	assert.NotContains(t, v.View(), "works, page")
}
