// Package mcp exposes folio search and work rendering over the Model
// Context Protocol, so AI assistants can query the corpus.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingWorkService is returned by work tools and resources when no
// work service is configured.
var ErrMissingWorkService = errors.New("mcp: work service is not configured")
