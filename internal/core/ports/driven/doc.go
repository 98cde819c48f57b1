// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - WorkStore: Work persistence with batched, transactional writes (SQLite)
//   - DocumentExtractor: XML parsing into Logical Documents and Metadata
//   - ConfigStore: Application configuration (TOML)
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SearchIndex: Full-text index (SQLite FTS5). Without it, indexing
//     fails every work and search returns empty pages.
//   - CorpusWatcher: Filesystem change notifications for the watch command.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or extractor package
package driven
