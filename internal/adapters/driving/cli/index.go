package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	indexBatchSize int
	indexWorkers   int
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the search index from stored works",
	Long: `Extracts the text of every stored work and submits it to the search
index. Re-indexing a work replaces its previous entry.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().IntVar(&indexBatchSize, "batch-size", 0, "works per batch (0 = configured default)")
	indexCmd.Flags().IntVar(&indexWorkers, "workers", 0, "concurrent workers (0 = configured default)")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexService == nil {
		return errors.New("index service not configured")
	}

	report, err := indexService.IndexAll(cmd.Context(), indexBatchSize, indexWorkers)

	cmd.Println(titleStyle.Render("Indexed"))
	cmd.Printf("  Works:     %d\n", report.Total)
	cmd.Printf("  Succeeded: %s\n", successStyle.Render(fmt.Sprint(report.Succeeded)))
	cmd.Printf("  Failed:    %s\n", countStyle(report.Failed).Render(fmt.Sprint(report.Failed)))

	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}
	return nil
}
