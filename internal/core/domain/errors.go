package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Extraction Errors.

	// ErrUnparseable indicates a source file is not well-formed XML.
	ErrUnparseable = errors.New("unparseable xml")

	// ErrSchemaMismatch indicates a tree was handed to an extractor for
	// a schema it does not belong to.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrUnsupportedSchema indicates the root element matches no known schema.
	ErrUnsupportedSchema = errors.New("unsupported schema")

	// Infrastructure Errors.

	// ErrPersistence indicates the work store rejected a write or commit.
	ErrPersistence = errors.New("persistence failure")

	// ErrIndex indicates the search index rejected a document.
	ErrIndex = errors.New("index failure")

	// ErrSearchUnavailable indicates the search engine is not configured
	// or cannot be reached.
	ErrSearchUnavailable = errors.New("search engine unavailable")
)
