// Package sqlite provides the SQLite-backed work catalogue.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Store implements driven.WorkStore;
// batches of inserts and year updates are staged in a transaction and become
// visible together on commit.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// Migrate is exported so other SQLite-backed adapters can version their own schema
// the same way.
//
// # Data Location
//
// By default, the database is stored at ~/.folio/data/metadata.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode. A WorkBatch belongs to one goroutine.
package sqlite
