package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/volumediscount/internal/function"
)

var runInput string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the discount function on a RunInput document",
	Long: `Read a RunInput document (shop metafield + cart) and write the RunResult.
No network access is needed. The output is always a RunResult document; when the
input cannot be decoded an empty result is written and the command fails.

Examples:
  volumediscount run < input.json
  volumediscount run --input input.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if runInput != "" && runInput != "-" {
			f, err := os.Open(runInput)
			if err != nil {
				return fmt.Errorf("failed to open input: %w", err)
			}
			defer f.Close()
			in = f
		}

		if err := function.RunJSON(in, cmd.OutOrStdout()); err != nil {
			l := logger(cmd)
			l.Error().Err(err).Msg("function input rejected")
			return err
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "RunInput file (default stdin)")
	rootCmd.AddCommand(runCmd)
}
