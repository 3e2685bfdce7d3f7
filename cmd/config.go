package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after merging defaults, the config file,
REPOMIRROR_* environment variables and command-line flags.

Examples:
  repomirror config show
  REPOMIRROR_HTTP_TIMEOUT=1m repomirror config show --output json`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowOutput = newOutputFlag("yaml", "yaml", "json")

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().VarP(configShowOutput, "output", "o", "output format")
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	source := configUsed
	if source == "" {
		source = "defaults and environment"
	}

	_, _ = fmt.Fprintf(os.Stderr, "# source: %s\n", source)

	return writeStructured(os.Stdout, configShowOutput.value, cfg)
}
