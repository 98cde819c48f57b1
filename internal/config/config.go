// Package config resolves folio's typed settings from a ConfigStore,
// falling back to built-in defaults for unset or invalid values.
package config

import (
	"fmt"
	"strconv"

	"github.com/folio-archive/folio/internal/core/domain"
	"github.com/folio-archive/folio/internal/core/ports/driven"
)

// Config keys.
const (
	KeyEEBODir           = "corpus.eebo_dir"
	KeyPlayDir           = "corpus.play_dir"
	KeyDataDir           = "data.dir"
	KeyIngestWorkers     = "ingest.workers"
	KeyIngestBatchSize   = "ingest.batch_size"
	KeyIndexWorkers      = "index.workers"
	KeyIndexBatchSize    = "index.batch_size"
	KeyIndexRate         = "index.rate_per_second"
	KeySearchPageSize    = "search.page_size"
	KeyVariantsFile      = "normalize.variants_file"
	KeyBackfillBatchSize = "backfill.batch_size"
)

// Defaults.
const (
	DefaultWorkers   = 4
	DefaultBatchSize = 100
)

// Corpus locates the source trees.
type Corpus struct {
	EEBODir string
	PlayDir string
}

// Pool sizes a batched worker pool.
type Pool struct {
	Workers   int
	BatchSize int
}

// Index configures the indexing driver.
type Index struct {
	Pool

	// RatePerSecond throttles index submissions. Zero is unlimited.
	RatePerSecond float64
}

// Settings is the resolved configuration.
type Settings struct {
	DataDir      string
	Corpus       Corpus
	Ingest       Pool
	Index        Index
	Backfill     Pool
	PageSize     int
	VariantsFile string
}

// Defaults returns the settings used when nothing is configured.
// DataDir is left empty; storage adapters then use ~/.folio/data.
func Defaults() Settings {
	return Settings{
		Ingest:   Pool{Workers: DefaultWorkers, BatchSize: DefaultBatchSize},
		Index:    Index{Pool: Pool{Workers: DefaultWorkers, BatchSize: DefaultBatchSize}},
		Backfill: Pool{BatchSize: DefaultBatchSize},
		PageSize: domain.DefaultPageSize,
	}
}

// Load resolves settings from store. A nil store yields the defaults.
func Load(store driven.ConfigStore) Settings {
	s := Defaults()
	if store == nil {
		return s
	}

	s.DataDir = store.GetString(KeyDataDir)
	s.Corpus = Corpus{
		EEBODir: store.GetString(KeyEEBODir),
		PlayDir: store.GetString(KeyPlayDir),
	}
	s.Ingest = Pool{
		Workers:   positive(store, KeyIngestWorkers, s.Ingest.Workers),
		BatchSize: positive(store, KeyIngestBatchSize, s.Ingest.BatchSize),
	}
	s.Index.Pool = Pool{
		Workers:   positive(store, KeyIndexWorkers, s.Index.Workers),
		BatchSize: positive(store, KeyIndexBatchSize, s.Index.BatchSize),
	}
	if rate := store.GetFloat(KeyIndexRate); rate > 0 {
		s.Index.RatePerSecond = rate
	}
	s.Backfill.BatchSize = positive(store, KeyBackfillBatchSize, s.Backfill.BatchSize)
	s.PageSize = positive(store, KeySearchPageSize, s.PageSize)
	if s.PageSize > domain.MaxPageSize {
		s.PageSize = domain.MaxPageSize
	}
	s.VariantsFile = store.GetString(KeyVariantsFile)

	return s
}

func positive(store driven.ConfigStore, key string, fallback int) int {
	if v := store.GetInt(key); v > 0 {
		return v
	}
	return fallback
}

// Known reports whether key is a recognised setting.
func Known(key string) bool {
	_, ok := kinds[key]
	return ok
}

type kind int

const (
	kindString kind = iota
	kindInt
	kindFloat
)

var kinds = map[string]kind{
	KeyEEBODir:           kindString,
	KeyPlayDir:           kindString,
	KeyDataDir:           kindString,
	KeyVariantsFile:      kindString,
	KeyIngestWorkers:     kindInt,
	KeyIngestBatchSize:   kindInt,
	KeyIndexWorkers:      kindInt,
	KeyIndexBatchSize:    kindInt,
	KeyBackfillBatchSize: kindInt,
	KeySearchPageSize:    kindInt,
	KeyIndexRate:         kindFloat,
}

// Parse converts a command-line value to the type stored under key.
func Parse(key, raw string) (any, error) {
	k, ok := kinds[key]
	if !ok {
		return nil, fmt.Errorf("unknown setting %q: %w", key, domain.ErrInvalidInput)
	}

	switch k {
	case kindInt:
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer: %w", key, domain.ErrInvalidInput)
		}
		return v, nil
	case kindFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%s must be a non-negative number: %w", key, domain.ErrInvalidInput)
		}
		return v, nil
	default:
		return raw, nil
	}
}

// Entries lists every recognised key with its resolved value, for display.
func (s Settings) Entries() [][2]string {
	return [][2]string{
		{KeyDataDir, s.DataDir},
		{KeyEEBODir, s.Corpus.EEBODir},
		{KeyPlayDir, s.Corpus.PlayDir},
		{KeyIngestWorkers, strconv.Itoa(s.Ingest.Workers)},
		{KeyIngestBatchSize, strconv.Itoa(s.Ingest.BatchSize)},
		{KeyIndexWorkers, strconv.Itoa(s.Index.Workers)},
		{KeyIndexBatchSize, strconv.Itoa(s.Index.BatchSize)},
		{KeyIndexRate, strconv.FormatFloat(s.Index.RatePerSecond, 'f', -1, 64)},
		{KeyBackfillBatchSize, strconv.Itoa(s.Backfill.BatchSize)},
		{KeySearchPageSize, strconv.Itoa(s.PageSize)},
		{KeyVariantsFile, s.VariantsFile},
	}
}
