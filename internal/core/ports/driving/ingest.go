package driving

import (
	"context"
)

// ProgressFunc receives the number of finished units and the total.
type ProgressFunc func(done, total int)

// IngestReport summarises an ingestion run.
type IngestReport struct {
	// RunID correlates the run's log lines.
	RunID string

	// Total is the number of candidate files found.
	Total int

	// Processed counts works durably committed by this run.
	Processed int

	// Errors counts files that failed extraction, had no header, or
	// were lost to a failed commit.
	Errors int

	// Skipped counts files already present in the store or seen earlier
	// in the same run.
	Skipped int
}

// IngestService walks a corpus and records each file as a Work.
type IngestService interface {
	// Ingest processes every XML file under dir.
	Ingest(ctx context.Context, dir string) (IngestReport, error)

	// IngestFiles processes an explicit list of files.
	IngestFiles(ctx context.Context, paths []string) (IngestReport, error)
}

// IndexReport summarises an indexing run.
type IndexReport struct {
	Total     int
	Succeeded int
	Failed    int
}

// IndexService submits stored works to the search index.
type IndexService interface {
	// IndexAll pages through every stored work in batches of batchSize
	// and indexes each batch with up to workers goroutines. Non-positive
	// arguments select the configured defaults.
	IndexAll(ctx context.Context, batchSize, workers int) (IndexReport, error)

	// IndexWork indexes a single work.
	IndexWork(ctx context.Context, id int64) error
}

// BackfillReport summarises a publication-year back-fill pass.
type BackfillReport struct {
	Checked int
	Updated int
	NoYear  int
	Failed  int
}

// BackfillService re-reads headers to fill in publication years.
type BackfillService interface {
	// BackfillYears checks every EEBO-TCP work, committing year changes
	// every batchSize works. A non-positive batchSize selects the default.
	BackfillYears(ctx context.Context, batchSize int) (BackfillReport, error)
}
