// Package reader shows a rendered work in a scrollable viewport.
package reader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/folio-archive/folio/internal/adapters/driving/tui/keymap"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/messages"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/styles"
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

// ErrNoWorkService is reported when the view has no work service.
var ErrNoWorkService = errors.New("work service not available")

// chrome is the number of rows taken by the title, rule and footer.
const chrome = 5

// View renders one work.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	service  driving.WorkService
	ctx      context.Context
	viewport viewport.Model

	workID  int64
	title   string
	back    messages.ViewType
	doc     *domain.LogicalDocument
	loading bool
	err     error
	width   int
	height  int
}

// NewView creates a reader.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.WorkService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &View{
		styles:   s,
		keymap:   km,
		service:  service,
		ctx:      context.Background(),
		viewport: viewport.New(80, 24-chrome),
		back:     messages.ViewMenu,
		width:    80,
		height:   24,
	}
}

// WithContext sets the context renders run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open clears the view and returns the command that renders the work.
func (v *View) Open(sel messages.WorkSelected) tea.Cmd {
	v.workID = sel.WorkID
	v.title = sel.Title
	v.back = sel.Back
	v.doc = nil
	v.err = nil
	v.loading = true
	v.viewport.SetContent("")
	v.viewport.GotoTop()

	service, ctx, id := v.service, v.ctx, sel.WorkID
	return func() tea.Msg {
		if service == nil {
			return messages.WorkRendered{WorkID: id, Err: ErrNoWorkService}
		}
		doc, err := service.Render(ctx, id)
		return messages.WorkRendered{WorkID: id, Document: doc, Err: err}
	}
}

// Update handles rendered works and scrolling keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.WorkRendered:
		if msg.WorkID != v.workID {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = fmt.Errorf("rendering work %d: %w", msg.WorkID, msg.Err)
			return v, nil
		}
		v.doc = msg.Document
		if v.doc != nil && v.doc.Title != "" {
			v.title = v.doc.Title
		}
		v.viewport.SetContent(Render(v.doc, v.styles, v.viewport.Width))
		return v, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keymap.Back):
			back := v.back
			return v, func() tea.Msg { return messages.ViewChanged{View: back} }
		case key.Matches(msg, v.keymap.Top):
			v.viewport.GotoTop()
			return v, nil
		case key.Matches(msg, v.keymap.Bottom):
			v.viewport.GotoBottom()
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the title, the visible text and the scroll position.
func (v *View) View() string {
	title := v.title
	if title == "" {
		title = fmt.Sprintf("Work %d", v.workID)
	}

	var body string
	switch {
	case v.err != nil:
		body = v.styles.Error.Render("Error: " + v.err.Error())
	case v.loading:
		body = v.styles.Muted.Render("Rendering...")
	default:
		body = v.viewport.View()
	}

	footer := fmt.Sprintf("%3.0f%%  %s", v.viewport.ScrollPercent()*100,
		keymap.Render(v.keymap.ReaderHelp()...))

	return lipgloss.JoinVertical(lipgloss.Left,
		v.styles.Title.Render(title),
		v.styles.Muted.Render(strings.Repeat("─", min(max(v.width-4, 10), 60))),
		body,
		"",
		v.styles.Help.Render(footer),
	)
}

// SetDimensions resizes the viewport and re-wraps the text.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = max(height-chrome, 1)
	if v.doc != nil {
		v.viewport.SetContent(Render(v.doc, v.styles, width))
	}
}

// Document returns the rendered work, if loaded.
func (v *View) Document() *domain.LogicalDocument {
	return v.doc
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Render lays a document out as styled text wrapped to width.
func Render(doc *domain.LogicalDocument, s *styles.Styles, width int) string {
	if doc == nil {
		return ""
	}
	r := &renderer{styles: s, width: max(width, 20)}

	if len(doc.Characters) > 0 {
		r.add(0, s.Heading.Render("Characters"))
		for _, c := range doc.Characters {
			r.add(1, s.Speaker.Render(c.Short)+"  "+c.Name)
		}
		r.blank()
	}
	for i := range doc.Sections {
		r.section(&doc.Sections[i], 0)
	}
	return strings.TrimRight(r.b.String(), "\n")
}

type renderer struct {
	styles *styles.Styles
	width  int
	b      strings.Builder
}

func (r *renderer) add(depth int, text string) {
	indent := strings.Repeat("  ", depth)
	wrapped := lipgloss.NewStyle().Width(r.width - len(indent)).Render(text)
	for _, line := range strings.Split(wrapped, "\n") {
		r.b.WriteString(indent)
		r.b.WriteString(strings.TrimRight(line, " "))
		r.b.WriteString("\n")
	}
}

func (r *renderer) blank() {
	r.b.WriteString("\n")
}

func (r *renderer) section(sec *domain.Section, depth int) {
	if sec.Title != "" {
		r.add(depth, r.styles.Heading.Render(sec.Title))
		r.blank()
	}
	for _, b := range sec.Blocks {
		r.block(b, depth+1)
	}
	for i := range sec.Sections {
		r.section(&sec.Sections[i], depth+1)
	}
}

func (r *renderer) block(b domain.Block, depth int) {
	switch b.Kind {
	case domain.BlockSpeech:
		r.add(depth, r.styles.Speaker.Render(b.Speaker))
		for _, l := range b.Lines {
			r.add(depth+1, l.Plain())
		}
	case domain.BlockStageDirection:
		r.add(depth, r.styles.Stage.Render(b.Text))
	case domain.BlockHeading:
		r.add(depth, r.styles.Heading.Render(b.Text))
	case domain.BlockNote:
		r.add(depth, r.styles.Muted.Render("["+b.Text+"]"))
	case domain.BlockHighlight:
		r.add(depth, r.styles.Speaker.Render(b.Text))
	case domain.BlockLineBreak:
		r.blank()
	default:
		r.add(depth, b.Text)
	}
}
