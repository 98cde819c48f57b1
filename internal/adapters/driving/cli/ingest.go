package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/folio-archive/folio/internal/core/ports/driving"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Record corpus files as works",
	Long: `Walks a directory for EEBO-TCP and PlayShakespeare XML files and stores
one work per file. Files already stored are skipped, so re-running is safe.

Without a directory, ingests the configured corpus.eebo_dir and
corpus.play_dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	dirs := args
	if len(dirs) == 0 {
		for _, dir := range []string{settings.Corpus.EEBODir, settings.Corpus.PlayDir} {
			if dir != "" {
				dirs = append(dirs, dir)
			}
		}
	}
	if len(dirs) == 0 {
		return errors.New("no directory given and corpus.eebo_dir / corpus.play_dir are not set")
	}

	for _, dir := range dirs {
		done := trackProgress(cmd.ErrOrStderr(), ingestService, "ingest")
		report, err := ingestService.Ingest(cmd.Context(), dir)
		done()

		printIngestReport(cmd, dir, report)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", dir, err)
		}
	}
	return nil
}

func printIngestReport(cmd *cobra.Command, dir string, r driving.IngestReport) {
	cmd.Printf("%s %s\n", titleStyle.Render("Ingested"), dir)
	cmd.Printf("  Files:     %d\n", r.Total)
	cmd.Printf("  Processed: %s\n", successStyle.Render(fmt.Sprint(r.Processed)))
	cmd.Printf("  Skipped:   %d\n", r.Skipped)
	cmd.Printf("  Errors:    %s\n", countStyle(r.Errors).Render(fmt.Sprint(r.Errors)))
	if r.RunID != "" {
		cmd.Printf("  Run:       %s\n", mutedStyle.Render(r.RunID))
	}
}
