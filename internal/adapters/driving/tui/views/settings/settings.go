// Package settings provides the view that lists and edits configuration.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/folio-archive/folio/internal/adapters/driving/tui/keymap"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/messages"
	"github.com/folio-archive/folio/internal/adapters/driving/tui/styles"
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

// ErrNoSettingsService is reported when the view has no settings service.
var ErrNoSettingsService = errors.New("settings service not available")

// View lists every setting. Selecting one opens an inline editor.
type View struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	service driving.SettingsService
	input   textinput.Model

	settings []driving.Setting
	path     string
	selected int
	editing  bool
	status   string
	err      error
	width    int
	height   int
}

// NewView creates a settings view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 50

	return &View{
		styles:  s,
		keymap:  km,
		service: service,
		input:   ti,
		width:   80,
		height:  24,
	}
}

// Init loads the settings.
func (v *View) Init() tea.Cmd {
	return v.load()
}

func (v *View) load() tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: ErrNoSettingsService}
		}
		return messages.SettingsLoaded{Settings: service.List(), Path: service.Path()}
	}
}

func (v *View) save(k, value string) tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SettingSaved{Key: k, Err: ErrNoSettingsService}
		}
		return messages.SettingSaved{Key: k, Err: service.Set(k, value)}
	}
}

// Update handles loads, saves and keys.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.settings = msg.Settings
		v.path = msg.Path
		v.selected = min(v.selected, max(len(v.settings)-1, 0))
		return v, nil

	case messages.SettingSaved:
		if msg.Err != nil {
			v.err = fmt.Errorf("failed to set %s: %w", msg.Key, msg.Err)
			v.status = ""
			return v, nil
		}
		v.err = nil
		v.status = "Saved " + msg.Key
		return v, v.load()

	case tea.KeyMsg:
		if v.editing {
			return v.handleEditKey(msg)
		}
		return v.handleKey(msg)
	}

	if v.editing {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
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
		if v.selected < len(v.settings)-1 {
			v.selected++
		}
	case key.Matches(msg, v.keymap.Edit):
		if v.selected < len(v.settings) {
			v.editing = true
			v.status = ""
			v.input.SetValue(v.settings[v.selected].Value)
			v.input.CursorEnd()
			return v, v.input.Focus()
		}
	}
	return v, nil
}

func (v *View) handleEditKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case tea.KeyEnter:
		v.editing = false
		v.input.Blur()
		return v, v.save(v.settings[v.selected].Key, strings.TrimSpace(v.input.Value()))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the settings table.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n")
	if v.path != "" {
		b.WriteString(v.styles.Muted.Render(v.path))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, s := range v.settings {
		value := s.Value
		if value == "" {
			value = "(not set)"
		}
		row := fmt.Sprintf("%-24s ", s.Key)
		switch {
		case i == v.selected && v.editing:
			b.WriteString("> " + v.styles.Heading.Render(row) + v.input.View())
		case i == v.selected:
			b.WriteString("> " + v.styles.Selected.Render(row+value))
		default:
			b.WriteString("  " + v.styles.Normal.Render(row) + v.styles.Muted.Render(value))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n")
	} else if v.status != "" {
		b.WriteString(v.styles.Success.Render(v.status))
		b.WriteString("\n")
	}

	if v.editing {
		b.WriteString(v.styles.Help.Render("[enter] save  [esc] cancel"))
	} else {
		b.WriteString(v.styles.Help.Render(keymap.Render(v.keymap.Up, v.keymap.Down, v.keymap.Edit, v.keymap.Back)))
	}
	return b.String()
}

// SetDimensions sets the view size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.Width = max(width-32, 20)
}

// Reset leaves edit mode and clears messages.
func (v *View) Reset() {
	v.editing = false
	v.input.Blur()
	v.status = ""
	v.err = nil
}

// Editing reports whether the inline editor is open.
func (v *View) Editing() bool {
	return v.editing
}

// Settings returns the loaded settings.
func (v *View) Settings() []driving.Setting {
	return v.settings
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
