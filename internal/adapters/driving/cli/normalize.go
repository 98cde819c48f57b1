package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [text...]",
	Short: "Print the canonical spelling of text",
	Long: `Folds historical spelling to the canonical form used for matching:
long s, u/v and i/j are regularised, diacritics are stripped and known
variant spellings are replaced.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}

func runNormalize(cmd *cobra.Command, args []string) error {
	if normaliser == nil {
		return errors.New("normaliser not configured")
	}
	cmd.Println(normaliser.Normalise(strings.Join(args, " ")))
	return nil
}
