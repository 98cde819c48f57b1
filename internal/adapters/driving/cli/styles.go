package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/folio-archive/folio/internal/adapters/driving/tui/styles"
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

var palette = styles.DefaultStyles()

var (
	titleStyle   = palette.Title
	headingStyle = palette.Heading
	mutedStyle   = palette.Muted
	speakerStyle = palette.Speaker
	stageStyle   = palette.Stage
	matchStyle   = palette.Match
	successStyle = palette.Success
	errorStyle   = palette.Error
)

// renderMatches renders highlighted search terms in the match style.
func renderMatches(s string) string {
	return styles.Highlight(s, matchStyle)
}

// countStyle picks the style for a failure count.
func countStyle(n int) lipgloss.Style {
	if n > 0 {
		return errorStyle
	}
	return successStyle
}

type progressReporter interface {
	SetProgress(fn driving.ProgressFunc)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// trackProgress draws an in-place progress line on w while svc runs,
// when svc reports progress and w is a terminal. The returned func
// detaches the callback and ends the line.
func trackProgress(w io.Writer, svc any, label string) func() {
	p, ok := svc.(progressReporter)
	if !ok || !isTerminal(w) {
		return func() {}
	}

	p.SetProgress(func(done, total int) {
		fmt.Fprintf(w, "\r%s %s", headingStyle.Render(label), mutedStyle.Render(fmt.Sprintf("%d/%d", done, total)))
	})
	return func() {
		p.SetProgress(nil)
		fmt.Fprintln(w)
	}
}
