// Package file provides the TOML file implementation of driven.ConfigStore.
//
// Keys are addressed in dot notation ("ingest.workers"). On disk they are
// written as nested tables:
//
//	[ingest]
//	workers = 4
package file
