package commands

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/volumediscount/internal/cli"
	"github.com/TimurManjosov/volumediscount/internal/client"
	"github.com/TimurManjosov/volumediscount/internal/obs"
)

var (
	// Global flags
	baseURL string
	apiKey  string
	env     string
	format  string
	quiet   bool
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "volumediscount",
	Short: "CLI tool for the volume discount function",
	Long: `volumediscount runs the "buy N, get X% off" cart discount function locally
and manages a shop's discount settings through the volume discount API.

Examples:
  volumediscount run < input.json
  volumediscount settings get gid://shopify/Shop/1
  volumediscount settings set gid://shopify/Shop/1 --product gid://shopify/Product/9 --percent-off 15
  volumediscount evaluate gid://shopify/Shop/1 --cart cart.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Base URL of the volume discount API")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Admin API key for settings writes")
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "Environment from the config file (dev, prod)")
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
}

// logger writes human readable diagnostics to stderr.
func logger(cmd *cobra.Command) zerolog.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	var w io.Writer = os.Stderr
	if cmd != nil {
		w = cmd.ErrOrStderr()
	}
	return obs.NewLoggerTo(w, "console", level)
}

// apiClient resolves the target environment and builds a client for it.
func apiClient(cmd *cobra.Command) (*client.Client, error) {
	envCfg, envName, err := cli.GetEnvConfig(env, baseURL, apiKey)
	if err != nil {
		return nil, err
	}
	l := logger(cmd)
	l.Debug().Str("env", envName).Str("base_url", envCfg.BaseURL).Msg("using API")
	return client.NewClient(envCfg.BaseURL, envCfg.APIKey), nil
}
