package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/folio-archive/folio/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
)

// DatabaseFile is the name of the catalogue database inside the data directory.
const DatabaseFile = "metadata.db"

// Store is the SQLite-backed work catalogue.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.WorkStore = (*Store)(nil)

// NewStore opens the catalogue in dataDir, creating it if needed.
// If dataDir is empty, defaults to ~/.folio/data.
func NewStore(dataDir string) (*Store, error) {
	db, dbPath, err := Open(dataDir, DatabaseFile)
	if err != nil {
		return nil, err
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := Migrate(db, migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Open opens (creating if needed) the named SQLite file in dataDir with
// WAL journaling. If dataDir is empty, defaults to ~/.folio/data.
func Open(dataDir, name string) (*sql.DB, string, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, "", fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".folio", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, "", fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, name)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}
	return db, dbPath, nil
}

// Migrate applies every NNN_name.up.sql file in fsys newer than the
// recorded schema version, in order.
func Migrate(db *sql.DB, fsys fs.FS) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

const workColumns = `id, source_identifier, title, author, genre, publication_year,
	edition, attribution, eebo_citation, volume_id, collection, language,
	source_library, file_path, format, notes, created_at, updated_at`

// Get retrieves a work by ID.
func (s *Store) Get(ctx context.Context, id int64) (*domain.Work, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+workColumns+` FROM works WHERE id = ?`, id)
	return scanWork(row)
}

// FindBySourceIdentifier retrieves the work with the given source identifier.
func (s *Store) FindBySourceIdentifier(ctx context.Context, sourceID string) (*domain.Work, error) {
	if sourceID == "" {
		return nil, domain.ErrNotFound
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+workColumns+` FROM works WHERE source_identifier = ?`, sourceID)
	return scanWork(row)
}

// FindByFilePath retrieves the first work created from path.
func (s *Store) FindByFilePath(ctx context.Context, path string) (*domain.Work, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+workColumns+` FROM works WHERE file_path = ? ORDER BY id LIMIT 1`, path)
	return scanWork(row)
}

// ListPage returns up to limit works ordered by ID, skipping offset.
func (s *Store) ListPage(ctx context.Context, offset, limit int) ([]domain.Work, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+workColumns+` FROM works ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("querying works: %w", err)
	}
	return scanWorks(rows)
}

// ListByCollection returns all works in a collection ordered by ID.
func (s *Store) ListByCollection(ctx context.Context, collection string) ([]domain.Work, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+workColumns+` FROM works WHERE collection = ? ORDER BY id`, collection)
	if err != nil {
		return nil, fmt.Errorf("querying works: %w", err)
	}
	return scanWorks(rows)
}

// Count returns the number of stored works.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM works").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting works: %w", err)
	}
	return n, nil
}

// Begin opens a transaction that stages writes until Commit.
func (s *Store) Begin(ctx context.Context) (driven.WorkBatch, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: beginning transaction: %v", domain.ErrPersistence, err)
	}
	return &workBatch{tx: tx}, nil
}

// ==================== Work Batch ====================

// workBatch implements driven.WorkBatch over one transaction.
type workBatch struct {
	tx      *sql.Tx
	staged  int
	pending []*domain.Work
}

var _ driven.WorkBatch = (*workBatch)(nil)

// Create inserts the work inside the transaction and assigns its ID.
func (b *workBatch) Create(ctx context.Context, work *domain.Work) error {
	now := time.Now().UTC()
	if work.CreatedAt.IsZero() {
		work.CreatedAt = now
	}
	work.UpdatedAt = now
	if work.Format == "" {
		work.Format = domain.FormatXML
	}

	res, err := b.tx.ExecContext(ctx, `
		INSERT INTO works (source_identifier, title, author, genre, publication_year,
			edition, attribution, eebo_citation, volume_id, collection, language,
			source_library, file_path, format, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, nullString(work.SourceIdentifier), work.Title, work.Author, work.Genre,
		nullInt(work.PublicationYear), work.Edition, work.Attribution, work.EEBOCitation,
		work.VolumeID, work.Collection, work.Language, work.SourceLibrary,
		work.FilePath, work.Format, work.Notes, work.CreatedAt, work.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("work %q: %w", work.SourceIdentifier, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("inserting work: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading work id: %w", err)
	}
	work.ID = id
	b.staged++
	b.pending = append(b.pending, work)
	return nil
}

// UpdatePublicationYear stages a year change.
func (b *workBatch) UpdatePublicationYear(ctx context.Context, id int64, year int) error {
	res, err := b.tx.ExecContext(ctx,
		"UPDATE works SET publication_year = ?, updated_at = ? WHERE id = ?",
		year, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating work %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("work %d: %w", id, domain.ErrNotFound)
	}
	b.staged++
	return nil
}

// Len returns the number of staged writes.
func (b *workBatch) Len() int {
	return b.staged
}

// Commit makes the staged writes durable. IDs assigned by Create are
// cleared again when the commit fails, since those rows never existed.
func (b *workBatch) Commit() error {
	if err := b.tx.Commit(); err != nil {
		b.forget()
		return fmt.Errorf("%w: committing batch: %v", domain.ErrPersistence, err)
	}
	b.pending = nil
	return nil
}

// Rollback discards the staged writes.
func (b *workBatch) Rollback() error {
	err := b.tx.Rollback()
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	b.forget()
	if err != nil {
		return fmt.Errorf("%w: rolling back batch: %v", domain.ErrPersistence, err)
	}
	return nil
}

func (b *workBatch) forget() {
	for _, w := range b.pending {
		w.ID = 0
	}
	b.pending = nil
}

// ==================== Helpers ====================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWork(row *sql.Row) (*domain.Work, error) {
	w, err := scanWorkInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning work: %w", err)
	}
	return w, nil
}

func scanWorks(rows *sql.Rows) ([]domain.Work, error) {
	defer rows.Close()

	var works []domain.Work //nolint:prealloc // size unknown from query
	for rows.Next() {
		w, err := scanWorkInto(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning work: %w", err)
		}
		works = append(works, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating works: %w", err)
	}
	return works, nil
}

func scanWorkInto(row rowScanner) (*domain.Work, error) {
	var w domain.Work
	var sourceID sql.NullString
	var year sql.NullInt64
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&w.ID, &sourceID, &w.Title, &w.Author, &w.Genre, &year,
		&w.Edition, &w.Attribution, &w.EEBOCitation, &w.VolumeID, &w.Collection,
		&w.Language, &w.SourceLibrary, &w.FilePath, &w.Format, &w.Notes,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	w.SourceIdentifier = sourceID.String
	if year.Valid {
		y := int(year.Int64)
		w.PublicationYear = &y
	}
	if createdAt.Valid {
		w.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		w.UpdatedAt = updatedAt.Time
	}
	return &w, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
