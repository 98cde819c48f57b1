package mcp

import (
	"github.com/folio-archive/folio/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Search answers search_works.
	Search driving.SearchService

	// Works backs render_work and the works resources. Optional.
	Works driving.WorkService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
