package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var backfillBatchSize int

var backfillCmd = &cobra.Command{
	Use:   "backfill-years",
	Short: "Fill in publication years from EEBO-TCP headers",
	Long: `Re-reads the header of every EEBO-TCP work and stores the publication
year found there when it differs from the recorded one.`,
	Args: cobra.NoArgs,
	RunE: runBackfill,
}

func init() {
	backfillCmd.Flags().IntVar(&backfillBatchSize, "batch-size", 0, "works per commit (0 = configured default)")
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	if backfillService == nil {
		return errors.New("backfill service not configured")
	}

	report, err := backfillService.BackfillYears(cmd.Context(), backfillBatchSize)

	cmd.Println(titleStyle.Render("Publication years"))
	cmd.Printf("  Checked: %d\n", report.Checked)
	cmd.Printf("  Updated: %s\n", successStyle.Render(fmt.Sprint(report.Updated)))
	cmd.Printf("  No year: %d\n", report.NoYear)
	cmd.Printf("  Failed:  %s\n", countStyle(report.Failed).Render(fmt.Sprint(report.Failed)))

	if err != nil {
		return fmt.Errorf("backfill failed: %w", err)
	}
	return nil
}
