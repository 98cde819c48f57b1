// Package cli implements the folio command line.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/folio-archive/folio/internal/config"
	"github.com/folio-archive/folio/internal/core/ports/driven"
	"github.com/folio-archive/folio/internal/core/ports/driving"
	"github.com/folio-archive/folio/internal/logger"
)

var version = "dev"

// Services configured by main before Execute.
var (
	ingestService   driving.IngestService
	indexService    driving.IndexService
	searchService   driving.SearchService
	backfillService driving.BackfillService
	workService     driving.WorkService
	settingsService driving.SettingsService
	watchService    driving.WatchService
	extractor       driven.DocumentExtractor
	normaliser      driven.TextNormaliser
	settings        = config.Defaults()
)

var verbose bool

// Services bundles what the commands need.
type Services struct {
	Ingest     driving.IngestService
	Index      driving.IndexService
	Search     driving.SearchService
	Backfill   driving.BackfillService
	Works      driving.WorkService
	Settings   driving.SettingsService
	Watch      driving.WatchService
	Extractor  driven.DocumentExtractor
	Normaliser driven.TextNormaliser
	Config     config.Settings
}

// Configure installs the services used by every command.
func Configure(s Services) {
	ingestService = s.Ingest
	indexService = s.Index
	searchService = s.Search
	backfillService = s.Backfill
	workService = s.Works
	settingsService = s.Settings
	watchService = s.Watch
	extractor = s.Extractor
	normaliser = s.Normaliser
	settings = s.Config
}

// SetVersion sets the version reported by "folio version".
func SetVersion(v string) {
	version = v
}

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Early-modern English corpus reader and search",
	Long: `folio ingests EEBO-TCP TEI and PlayShakespeare XML files, extracts
their text and metadata, and builds a full-text index that matches across
historical spelling variants.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug and progress logging")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
