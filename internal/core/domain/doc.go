// Package domain defines the core entities for Folio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Work: A persisted catalogue record for one source XML file
//   - Metadata: Bibliographic fields read from a file's header
//   - LogicalDocument: The schema-independent reading model of a file
//   - SearchRequest / SearchPage: The query facade's input and output
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
