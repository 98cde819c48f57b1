// Package styles holds the colour palette and lipgloss styles shared by
// the terminal UI and the CLI's rendered output.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/folio-archive/folio/internal/core/ports/driven"
)

// Theme is the colour palette.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Border    lipgloss.Color
}

// DefaultTheme returns the folio palette.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#7C3AED"), // violet
		Secondary: lipgloss.Color("#06B6D4"), // cyan
		Text:      lipgloss.Color("#CDD6F4"),
		Muted:     lipgloss.Color("#6C7086"),
		Success:   lipgloss.Color("#A6E3A1"),
		Warning:   lipgloss.Color("#F9E2AF"),
		Error:     lipgloss.Color("#F38BA8"),
		Border:    lipgloss.Color("#45475A"),
	}
}

// Styles are the pre-built styles derived from a Theme.
type Styles struct {
	theme *Theme

	Title    lipgloss.Style
	Heading  lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Speaker  lipgloss.Style
	Stage    lipgloss.Style
	Match    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Input    lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds styles from theme, falling back to the default palette.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme:    theme,
		Title:    lipgloss.NewStyle().Bold(true).Foreground(theme.Primary),
		Heading:  lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary),
		Normal:   lipgloss.NewStyle().Foreground(theme.Text),
		Muted:    lipgloss.NewStyle().Foreground(theme.Muted),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Background(theme.Primary),
		Speaker:  lipgloss.NewStyle().Bold(true),
		Stage:    lipgloss.NewStyle().Italic(true).Foreground(theme.Muted),
		Match:    lipgloss.NewStyle().Bold(true).Foreground(theme.Warning),
		Success:  lipgloss.NewStyle().Foreground(theme.Success),
		Error:    lipgloss.NewStyle().Foreground(theme.Error),
		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles for the default palette.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the palette the styles were built from.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Highlight renders the spans a search index marked as matches with
// style and drops the markers. An unterminated marker is left as is.
func Highlight(s string, style lipgloss.Style) string {
	var b strings.Builder
	for {
		start := strings.Index(s, driven.HighlightOpen)
		if start < 0 {
			break
		}
		end := strings.Index(s[start:], driven.HighlightClose)
		if end < 0 {
			break
		}
		b.WriteString(s[:start])
		b.WriteString(style.Render(s[start+len(driven.HighlightOpen) : start+end]))
		s = s[start+end+len(driven.HighlightClose):]
	}
	b.WriteString(s)
	return b.String()
}
