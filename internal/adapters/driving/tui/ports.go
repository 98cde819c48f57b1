// Package tui provides folio's interactive terminal interface: search,
// browse and read works, and edit settings.
package tui

import (
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	Search   driving.SearchService
	Works    driving.WorkService
	Settings driving.SettingsService

	// PageSize is the search page size; 0 uses the service default.
	PageSize int
}

// Validate ensures the required ports are set. Settings is optional.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Works == nil {
		return ErrMissingWorkService
	}
	return nil
}
