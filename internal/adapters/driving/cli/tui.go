package cli

import (
	"github.com/spf13/cobra"

	"github.com/folio-archive/folio/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal interface",
	Long: `Launch a full-screen terminal interface to search the corpus, browse
ingested works, read a rendered work and edit settings.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	app, err := tui.NewApp(&tui.Ports{
		Search:   searchService,
		Works:    workService,
		Settings: settingsService,
		PageSize: settings.PageSize,
	})
	if err != nil {
		return err
	}
	return app.WithContext(cmd.Context()).Run()
}
