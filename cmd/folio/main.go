// Command folio ingests, indexes and searches early-modern English texts.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/folio-archive/folio/internal/adapters/driven/config/file"
	"github.com/folio-archive/folio/internal/adapters/driven/search/fts"
	"github.com/folio-archive/folio/internal/adapters/driven/storage/sqlite"
	"github.com/folio-archive/folio/internal/adapters/driving/cli"
	"github.com/folio-archive/folio/internal/connectors/filesystem"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/core/services"
	"github.com/folio-archive/folio/internal/extractors"
	"github.com/folio-archive/folio/internal/logger"
	"github.com/folio-archive/folio/internal/normalisers/orthography"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configStore, err := file.NewConfigStore(os.Getenv("FOLIO_CONFIG_DIR"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		return err
	}
	settingsService := services.NewSettingsService(configStore)
	cfg := settingsService.Settings()

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening work store: %v\n", err)
		return err
	}
	defer store.Close()

	// Search degrades to empty pages when the index cannot be opened.
	var searchIndex driven.SearchIndex
	if idx, err := fts.NewIndex(cfg.DataDir); err != nil {
		logger.Error("opening search index: %v", err)
	} else {
		searchIndex = idx
		defer idx.Close()
	}

	normaliser, err := orthography.NewFromFile(cfg.VariantsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading spelling variants: %v\n", err)
		return err
	}

	registry := extractors.NewDefaultRegistry()
	sources := func(dir string) driven.CorpusSource {
		return filesystem.New(dir)
	}

	ingestService := services.NewIngestService(store, registry, sources, cfg.Ingest)
	indexService := services.NewIndexService(store, registry, searchIndex, normaliser, cfg.Index)

	cli.Configure(cli.Services{
		Ingest:     ingestService,
		Index:      indexService,
		Search:     services.NewSearchService(searchIndex, normaliser, cfg.PageSize),
		Backfill:   services.NewBackfillService(store, registry, cfg.Corpus.EEBODir, cfg.Backfill.BatchSize),
		Works:      services.NewWorkService(store, registry),
		Settings:   settingsService,
		Watch:      services.NewWatchService(store, sources, ingestService, indexService),
		Extractor:  registry,
		Normaliser: normaliser,
		Config:     cfg,
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}
