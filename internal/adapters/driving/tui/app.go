package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/folio-archive/folio/internal/adapters/driving/tui/keymap"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/messages"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/styles"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/views/menu"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/views/reader"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/views/search"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/views/settings"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/views/works"
)

// App is the Bubbletea model. It owns one instance of every view and
// routes messages to the active one.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	menuView     *menu.View
	searchView   *search.View
	worksView    *works.View
	readerView   *reader.View
	settingsView *settings.View

	currentView messages.ViewType
	width       int
	height      int
	ready       bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates the application from ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keymap:       km,
		menuView:     menu.NewView(s, km),
		searchView:   search.NewView(s, km, ports.Search, ports.PageSize),
		worksView:    works.NewView(s, km, ports.Works, 0),
		readerView:   reader.NewView(s, km, ports.Works),
		settingsView: settings.NewView(s, km, ports.Settings),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context service calls run under.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.worksView.WithContext(ctx)
	a.readerView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("folio")
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.WorkSelected:
		a.currentView = messages.ViewReader
		return a, a.readerView.Open(msg)

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.WorksLoaded:
		a.worksView, cmd = a.worksView.Update(msg)
		return a, cmd

	case messages.WorkRendered:
		a.readerView, cmd = a.readerView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd
	}

	return a, a.forward(msg)
}

// switchTo activates view and runs its initialisation. Returning from
// the reader keeps the results and position the work was opened from.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	from := a.currentView
	a.currentView = view
	switch view {
	case messages.ViewSearch:
		if from == messages.ViewReader {
			return nil
		}
		a.searchView.Reset()
		return a.searchView.Init()
	case messages.ViewWorks:
		if from == messages.ViewReader && len(a.worksView.Works()) > 0 {
			return nil
		}
		return a.worksView.Init()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewReader, messages.ViewHelp:
	}
	return nil
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewWorks:
		a.worksView, cmd = a.worksView.Update(msg)
	case messages.ViewReader:
		a.readerView, cmd = a.readerView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewWorks:
		return a.worksView.View()
	case messages.ViewReader:
		return a.readerView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Search:
  (type)      Enter a query: words, "quoted phrases", -excluded
  enter       Run the search
  ↑/↓, j/k    Move through results
  ←/→, h/l    Previous / next page
  enter       Read the selected work
  /           New search

Works:
  ↑/↓, j/k    Move through works
  ←/→, h/l    Previous / next page
  enter       Read the selected work

Reader:
  ↑/↓, PgUp/PgDn   Scroll
  g/G              Top / bottom

esc goes back, ctrl+c quits.

` + a.styles.Help.Render("[esc] back to menu")
}

// Run starts the program on the terminal and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// SetDimensions sizes every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.worksView.SetDimensions(width, height)
	a.readerView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}

// CurrentView returns the active view.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Ready reports whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}
