// Package search provides the query input and result list view.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/folio-archive/folio/internal/adapters/driving/tui/components/list"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/keymap"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/messages"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/styles"
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

// ErrNoSearchService is reported when the view has no search service.
var ErrNoSearchService = errors.New("search service not available")

// View is the search view. It starts in input mode; submitting a query
// switches to results mode, where keys navigate hits and pages.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	input   textinput.Model
	list    *list.ResultList
	service driving.SearchService
	ctx     context.Context

	pageSize int
	request  domain.SearchRequest
	page     domain.SearchPage
	searched bool

	focusInput bool
	err        error
	width      int
	height     int
}

// NewView creates a search view. pageSize 0 uses the service default.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.SearchService, pageSize int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ti := textinput.New()
	ti.Placeholder = "loue, \"to be\", -sermon"
	ti.CharLimit = 256
	ti.Width = 50
	ti.Focus()

	return &View{
		styles:     s,
		keymap:     km,
		input:      ti,
		list:       list.NewResultList(s),
		service:    service,
		ctx:        context.Background(),
		pageSize:   pageSize,
		focusInput: true,
		width:      80,
		height:     24,
	}
}

// WithContext sets the context searches run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts the cursor blinking.
func (v *View) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles keys and search completions.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKey(msg)

	case messages.SearchCompleted:
		v.request = msg.Request
		v.page = msg.Page
		v.searched = true
		v.err = nil
		v.list.SetResults(msg.Page.Results, (msg.Page.Page-1)*msg.Page.PageSize)
		if len(msg.Page.Results) > 0 {
			v.focusInput = false
			v.input.Blur()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if key.Matches(msg, v.keymap.Back) {
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	}

	if v.focusInput {
		if msg.Type == tea.KeyEnter {
			if v.input.Value() == "" {
				return v, nil
			}
			return v, v.search(domain.SearchRequest{
				Query:    v.input.Value(),
				Page:     1,
				PageSize: v.pageSize,
			})
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, v.keymap.Up):
		v.list.MoveUp()
	case key.Matches(msg, v.keymap.Down):
		v.list.MoveDown()
	case key.Matches(msg, v.keymap.Select):
		if res := v.list.SelectedResult(); res != nil {
			selected := messages.WorkSelected{WorkID: res.WorkID, Title: res.Title, Back: messages.ViewSearch}
			return v, func() tea.Msg { return selected }
		}
	case key.Matches(msg, v.keymap.NextPage):
		if v.page.Page < v.page.Pages {
			next := v.request
			next.Page = v.page.Page + 1
			return v, v.search(next)
		}
	case key.Matches(msg, v.keymap.PrevPage):
		if v.page.Page > 1 {
			prev := v.request
			prev.Page = v.page.Page - 1
			return v, v.search(prev)
		}
	case key.Matches(msg, v.keymap.NewQuery):
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}
	return v, nil
}

// search returns a command that runs req against the service.
func (v *View) search(req domain.SearchRequest) tea.Cmd {
	service, ctx := v.service, v.ctx
	return func() tea.Msg {
		if service == nil {
			return messages.ErrorOccurred{Err: ErrNoSearchService}
		}
		return messages.SearchCompleted{Request: req, Page: service.Search(ctx, req)}
	}
}

// View renders the input, the page summary and the hits.
func (v *View) View() string {
	sections := []string{
		v.styles.Title.Render("Search"),
		"",
		v.styles.Input.Render(v.input.View()),
		"",
	}

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.searched {
		if v.page.Total == 0 {
			sections = append(sections, v.styles.Muted.Render("No results found."))
		} else {
			sections = append(sections,
				v.styles.Heading.Render(fmt.Sprintf("%d works, page %d of %d", v.page.Total, v.page.Page, v.page.Pages)),
				"",
				v.list.View(),
			)
		}
		sections = append(sections, "")
	}

	if v.focusInput {
		sections = append(sections, v.styles.Help.Render(keymap.Render(v.keymap.Select, v.keymap.Back)))
	} else {
		sections = append(sections, v.styles.Help.Render(keymap.Render(append(v.keymap.ListHelp(), v.keymap.NewQuery)...)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sizes the input and the list.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = max(width-10, 20)
	v.list.SetDimensions(width, height-10)
}

// Reset returns the view to an empty query in input mode.
func (v *View) Reset() {
	v.input.SetValue("")
	v.input.Focus()
	v.focusInput = true
	v.searched = false
	v.page = domain.SearchPage{}
	v.request = domain.SearchRequest{}
	v.list.SetResults(nil, 0)
	v.err = nil
}

// Query returns the text in the input.
func (v *View) Query() string {
	return v.input.Value()
}

// Page returns the last page received.
func (v *View) Page() domain.SearchPage {
	return v.page
}

// Results returns the hits on the current page.
func (v *View) Results() []domain.SearchResult {
	return v.list.Results()
}

// SelectedIndex returns the cursor position in the hits.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// InputFocused reports whether keys go to the query input.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
