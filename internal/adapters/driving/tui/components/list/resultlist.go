// Package list provides the navigable list of search hits.
package list

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/folio-archive/folio/internal/adapters/driving/tui/styles"
	"github.com/folio-archive/folio/internal/core/domain"
)

// linesPerResult is the height of one rendered hit: title, details and
// preview.
const linesPerResult = 3

// ResultList shows one page of search hits with a cursor.
type ResultList struct {
	styles   *styles.Styles
	results  []domain.SearchResult
	offset   int
	selected int
	width    int
	height   int
}

// NewResultList creates an empty list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{styles: s, width: 80, height: 12}
}

// SetResults replaces the hits. offset is the number of hits on earlier
// pages and numbers the entries.
func (r *ResultList) SetResults(results []domain.SearchResult, offset int) {
	r.results = results
	r.offset = offset
	r.selected = 0
}

// Results returns the current hits.
func (r *ResultList) Results() []domain.SearchResult {
	return r.results
}

// Selected returns the cursor position.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedResult returns the hit under the cursor, or nil when empty.
func (r *ResultList) SelectedResult() *domain.SearchResult {
	if r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves the cursor up one hit.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves the cursor down one hit.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the area the list renders into.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// View renders the visible window of hits around the cursor.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	visible := r.height / linesPerResult
	if visible < 1 {
		visible = 1
	}
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.results))

	blocks := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		blocks = append(blocks, r.renderResult(i))
	}
	return strings.Join(blocks, "\n")
}

func (r *ResultList) renderResult(i int) string {
	res := &r.results[i]

	cursor := "  "
	titleStyle := r.styles.Normal
	if i == r.selected {
		cursor = "> "
		titleStyle = r.styles.Selected
	}

	title := res.Title
	if title == "" {
		title = "(Untitled)"
	}
	title = truncate(fmt.Sprintf("[%d] %s", r.offset+i+1, title), r.width-12)

	lines := []string{
		cursor + titleStyle.Render(title) + " " + r.styles.Muted.Render(fmt.Sprintf("%.2f", res.Score)),
		"    " + r.styles.Muted.Render(truncate(details(res), r.width-6)),
	}
	if len(res.Highlights) > 0 {
		lines = append(lines, "    "+styles.Highlight(res.Highlights[0], r.styles.Match))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// details joins the bibliographic fields a hit carries.
func details(res *domain.SearchResult) string {
	var parts []string
	if res.Author != "" {
		parts = append(parts, res.Author)
	}
	if res.PublicationYear != nil {
		parts = append(parts, strconv.Itoa(*res.PublicationYear))
	}
	if res.Collection != "" {
		parts = append(parts, res.Collection)
	}
	if res.Genre != "" {
		parts = append(parts, res.Genre)
	}
	return strings.Join(parts, " | ")
}

func truncate(s string, limit int) string {
	if limit < 10 {
		limit = 10
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
