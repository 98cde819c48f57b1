// Package fts implements the search index on SQLite FTS5.
//
// Index keeps one row per work in two tables: indexed_works holds the
// filterable fields (year, collection, genre, language) and works_fts holds
// the weighted text columns title, author, content and canonical. Both are
// keyed by the work's ID, so re-indexing a work replaces it.
//
// Queries are compiled to a MATCH expression ranked with bm25 using the
// query's field boosts. Each word matches as typed, in canonical spelling,
// and for longer words by prefix, which approximates fuzzy matching.
//
// By default, the database is stored at ~/.folio/data/index.db.
package fts
