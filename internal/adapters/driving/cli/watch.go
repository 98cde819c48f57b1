package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Ingest and index files as they change",
	Long: `Watches a corpus directory and ingests and indexes XML files as they
are added or modified. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchService == nil {
		return errors.New("watch service not configured")
	}

	cmd.Printf("Watching %s %s\n", titleStyle.Render(args[0]), mutedStyle.Render("(Ctrl+C to stop)"))

	err := watchService.Watch(cmd.Context(), args[0])
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
