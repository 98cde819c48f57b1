// Package connectors provides the corpus sources folio reads XML files from.
//
// The filesystem connector walks a corpus directory for XML files and
// watches it for changes.
package connectors
