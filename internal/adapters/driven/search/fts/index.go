package fts

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/folio-archive/folio/internal/adapters/driven/search/fts/migrations"
	"github.com/folio-archive/folio/internal/adapters/driven/storage/sqlite"
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
)

// DatabaseFile is the name of the index database inside the data directory.
const DatabaseFile = "index.db"

// Index is an SQLite FTS5 implementation of driven.SearchIndex.
type Index struct {
	db   *sql.DB
	path string

	// mu serialises index writes. Reads go straight to the database.
	mu sync.Mutex
}

var _ driven.SearchIndex = (*Index)(nil)

// NewIndex opens the search index in dataDir, creating it if needed.
// If dataDir is empty, defaults to ~/.folio/data.
func NewIndex(dataDir string) (*Index, error) {
	db, path, err := sqlite.Open(dataDir, DatabaseFile)
	if err != nil {
		return nil, err
	}
	if err := sqlite.Migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running index migrations: %w", err)
	}
	return &Index{db: db, path: path}, nil
}

// Path returns the database file path.
func (x *Index) Path() string {
	return x.path
}

// Close closes the database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

// Upsert replaces the indexed document for workID.
func (x *Index) Upsert(ctx context.Context, workID int64, doc driven.IndexDocument) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrIndex, err)
	}
	defer tx.Rollback() //nolint:errcheck

	var year sql.NullInt64
	if doc.PublicationYear != nil {
		year = sql.NullInt64{Int64: int64(*doc.PublicationYear), Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO indexed_works (work_id, source_identifier, title, author,
			publication_year, collection, genre, language, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(work_id) DO UPDATE SET
			source_identifier = excluded.source_identifier,
			title = excluded.title,
			author = excluded.author,
			publication_year = excluded.publication_year,
			collection = excluded.collection,
			genre = excluded.genre,
			language = excluded.language,
			indexed_at = excluded.indexed_at
	`, workID, doc.SourceIdentifier, doc.Title, doc.Author, year,
		doc.Collection, doc.Genre, doc.Language, time.Now().UTC()); err != nil {
		return fmt.Errorf("%w: saving work %d: %v", domain.ErrIndex, workID, err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM works_fts WHERE rowid = ?", workID); err != nil {
		return fmt.Errorf("%w: clearing work %d: %v", domain.ErrIndex, workID, err)
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO works_fts (rowid, title, author, content, canonical) VALUES (?, ?, ?, ?, ?)",
		workID, doc.Title, doc.Author, doc.Content, doc.Canonical); err != nil {
		return fmt.Errorf("%w: indexing work %d: %v", domain.ErrIndex, workID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing work %d: %v", domain.ErrIndex, workID, err)
	}
	return nil
}

// Delete removes a work from the index.
func (x *Index) Delete(ctx context.Context, workID int64) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %v", domain.ErrIndex, err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM works_fts WHERE rowid = ?", workID); err != nil {
		return fmt.Errorf("%w: deleting work %d: %v", domain.ErrIndex, workID, err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM indexed_works WHERE work_id = ?", workID); err != nil {
		return fmt.Errorf("%w: deleting work %d: %v", domain.ErrIndex, workID, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing delete of work %d: %v", domain.ErrIndex, workID, err)
	}
	return nil
}

// Count returns the number of indexed works.
func (x *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := x.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM indexed_works").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting indexed works: %w", err)
	}
	return n, nil
}

// Query runs a structured query: one page of hits, the total match count
// and the requested facets over the whole match set.
func (x *Index) Query(ctx context.Context, q driven.SearchQuery) (*driven.SearchResponse, error) {
	c := compile(q)

	var total int
	if err := x.db.QueryRowContext(ctx, "SELECT COUNT(*) "+c.from+c.where(), c.args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("%w: counting matches: %v", domain.ErrSearchUnavailable, err)
	}

	resp := &driven.SearchResponse{Total: total, Facets: map[string][]domain.Bucket{}}

	if q.Size > 0 && total > q.From {
		hits, err := x.hits(ctx, q, c)
		if err != nil {
			return nil, err
		}
		resp.Hits = hits
	}

	for _, name := range q.Facets {
		buckets, err := x.facet(ctx, c, name)
		if err != nil {
			return nil, err
		}
		resp.Facets[name] = buckets
	}

	return resp, nil
}

func (x *Index) hits(ctx context.Context, q driven.SearchQuery, c compiled) ([]driven.SearchHit, error) {
	query := "SELECT m.work_id, m.title, m.author, m.publication_year, m.collection, m.genre, " +
		c.score + " AS score, " + c.snippets(q.Highlight) + " " +
		c.from + c.where() + " ORDER BY " + c.order(q.Sort) + " LIMIT ? OFFSET ?"
	args := append(append([]any{}, c.args...), q.Size, q.From)

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying: %v", domain.ErrSearchUnavailable, err)
	}
	defer rows.Close()

	var hits []driven.SearchHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var h driven.SearchHit
		var year sql.NullInt64
		var title, snippet string
		if err := rows.Scan(&h.WorkID, &h.Title, &h.Author, &year, &h.Collection,
			&h.Genre, &h.Score, &title, &snippet); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		if year.Valid {
			y := int(year.Int64)
			h.PublicationYear = &y
		}
		h.Highlights = highlights(title, snippet)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w", err)
	}
	return hits, nil
}

func (x *Index) facet(ctx context.Context, c compiled, name string) ([]domain.Bucket, error) {
	key, ok := facetKeys[name]
	if !ok {
		return nil, fmt.Errorf("unknown facet %q: %w", name, domain.ErrInvalidInput)
	}

	query := "SELECT " + key.expr + " AS bucket, COUNT(*) " + c.from + c.where(key.filter) +
		" GROUP BY bucket ORDER BY COUNT(*) DESC, bucket"
	rows, err := x.db.QueryContext(ctx, query, c.args...)
	if err != nil {
		return nil, fmt.Errorf("%w: facet %s: %v", domain.ErrSearchUnavailable, name, err)
	}
	defer rows.Close()

	var buckets []domain.Bucket //nolint:prealloc // size unknown from query
	for rows.Next() {
		var b domain.Bucket
		if err := rows.Scan(&b.Key, &b.Count); err != nil {
			return nil, fmt.Errorf("scanning facet %s: %w", name, err)
		}
		buckets = append(buckets, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating facet %s: %w", name, err)
	}
	return buckets, nil
}
