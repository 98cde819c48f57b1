// Package messages defines the Bubbletea messages exchanged between the
// TUI's views and the application model.
package messages

import (
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

// ViewType identifies which view is active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the query input and result list.
	ViewSearch
	// ViewWorks browses stored works page by page.
	ViewWorks
	// ViewReader shows one rendered work.
	ViewReader
	// ViewSettings lists and edits configuration.
	ViewSettings
	// ViewHelp lists key bindings.
	ViewHelp
)

var viewNames = map[ViewType]string{
	ViewMenu:     "menu",
	ViewSearch:   "search",
	ViewWorks:    "works",
	ViewReader:   "reader",
	ViewSettings: "settings",
	ViewHelp:     "help",
}

// String returns the view name.
func (v ViewType) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return "unknown"
}

// ViewChanged navigates to View.
type ViewChanged struct {
	View ViewType
}

// SearchCompleted carries one page of search results.
type SearchCompleted struct {
	Request domain.SearchRequest
	Page    domain.SearchPage
}

// WorksLoaded carries a page of stored works.
type WorksLoaded struct {
	Offset int
	Works  []domain.Work
	Total  int
	Err    error
}

// WorkSelected opens a work in the reader. Back is the view the reader
// returns to.
type WorkSelected struct {
	WorkID int64
	Title  string
	Back   ViewType
}

// WorkRendered carries the reading model of a work.
type WorkRendered struct {
	WorkID   int64
	Document *domain.LogicalDocument
	Err      error
}

// SettingsLoaded carries the effective settings.
type SettingsLoaded struct {
	Settings []driving.Setting
	Path     string
	Err      error
}

// SettingSaved reports the outcome of saving one setting.
type SettingSaved struct {
	Key string
	Err error
}

// ErrorOccurred reports a failure to the active view.
type ErrorOccurred struct {
	Err error
}
