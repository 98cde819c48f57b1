// Package works provides the view that browses stored works by ID.
package works

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/folio-archive/folio/internal/adapters/driving/tui/keymap"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/messages"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/styles"
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

// DefaultPageSize is the number of works listed per page.
const DefaultPageSize = 20

// ErrNoWorkService is reported when the view has no work service.
var ErrNoWorkService = errors.New("work service not available")

// View lists stored works one page at a time.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	service  driving.WorkService
	ctx      context.Context
	pageSize int

	works    []domain.Work
	offset   int
	total    int
	selected int
	loading  bool
	err      error
	width    int
	height   int
}

// NewView creates a works view. pageSize 0 uses DefaultPageSize.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.WorkService, pageSize int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &View{
		styles:   s,
		keymap:   km,
		service:  service,
		ctx:      context.Background(),
		pageSize: pageSize,
		width:    80,
		height:   24,
	}
}

// WithContext sets the context loads run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the first page.
func (v *View) Init() tea.Cmd {
	return v.load(0)
}

func (v *View) load(offset int) tea.Cmd {
	v.loading = true
	service, ctx, limit := v.service, v.ctx, v.pageSize
	return func() tea.Msg {
		if service == nil {
			return messages.WorksLoaded{Offset: offset, Err: ErrNoWorkService}
		}
		total, err := service.Count(ctx)
		if err != nil {
			return messages.WorksLoaded{Offset: offset, Err: fmt.Errorf("counting works: %w", err)}
		}
		works, err := service.List(ctx, offset, limit)
		if err != nil {
			return messages.WorksLoaded{Offset: offset, Err: fmt.Errorf("listing works: %w", err)}
		}
		return messages.WorksLoaded{Offset: offset, Works: works, Total: total}
	}
}

// Update handles keys and loaded pages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.WorksLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.works = msg.Works
		v.offset = msg.Offset
		v.total = msg.Total
		v.selected = 0
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keymap.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case key.Matches(msg, v.keymap.Up):
		if v.selected > 0 {
			v.selected--
		}
	case key.Matches(msg, v.keymap.Down):
		if v.selected < len(v.works)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Select):
		if w := v.SelectedWork(); w != nil {
			selected := messages.WorkSelected{WorkID: w.ID, Title: w.Title, Back: messages.ViewWorks}
			return v, func() tea.Msg { return selected }
		}
	case key.Matches(msg, v.keymap.NextPage):
		if v.offset+v.pageSize < v.total {
			return v, v.load(v.offset + v.pageSize)
		}
	case key.Matches(msg, v.keymap.PrevPage):
		if v.offset > 0 {
			return v, v.load(max(v.offset-v.pageSize, 0))
		}
	}
	return v, nil
}

// View renders the current page.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Works"))
	b.WriteString("\n\n")

	switch {
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.loading && len(v.works) == 0:
		b.WriteString(v.styles.Muted.Render("Loading works..."))
	case len(v.works) == 0:
		b.WriteString(v.styles.Muted.Render("No works ingested yet. Run folio ingest first."))
	default:
		b.WriteString(v.styles.Heading.Render(fmt.Sprintf("Works %d-%d of %d",
			v.offset+1, v.offset+len(v.works), v.total)))
		b.WriteString("\n\n")
		for i := range v.works {
			b.WriteString(v.renderWork(i))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render(keymap.Render(v.keymap.ListHelp()...)))
	return b.String()
}

func (v *View) renderWork(i int) string {
	w := &v.works[i]
	line := fmt.Sprintf("%6d  %s", w.ID, w.Title)
	if year := w.Year(); year != 0 {
		line += fmt.Sprintf(" (%d)", year)
	}
	author := ""
	if w.Author != "" {
		author = " " + v.styles.Muted.Render(w.Author)
	}
	if i == v.selected {
		return "> " + v.styles.Selected.Render(line) + author
	}
	return "  " + v.styles.Normal.Render(line) + author
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Works returns the works on the current page.
func (v *View) Works() []domain.Work {
	return v.works
}

// Offset returns the index of the first work on the page.
func (v *View) Offset() int {
	return v.offset
}

// SelectedWork returns the work under the cursor, or nil.
func (v *View) SelectedWork() *domain.Work {
	if v.selected < 0 || v.selected >= len(v.works) {
		return nil
	}
	return &v.works[v.selected]
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
