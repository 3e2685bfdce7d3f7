package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inovacc/repomirror/internal/cli"
	"github.com/inovacc/repomirror/internal/progress"
)

var discoverCmd = &cobra.Command{
	Use:   "discover <profile>",
	Short: "List the repositories a sync would mirror",
	Long: `Discover every repository of a profile and show where each one would be
mirrored and whether a sync would clone or update it. Nothing is written.

Examples:
  repomirror discover work
  repomirror discover work --output yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscover,
}

var (
	discoverDir    string
	discoverOutput = newOutputFlag("table", "table", "json", "yaml")
)

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().StringVar(&discoverDir, "dir", "", "mirror base directory (default: mirror.base_dir or ~/repomirror)")
	discoverCmd.Flags().VarP(discoverOutput, "output", "o", "output format")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	p, err := loadProfile(st, args[0])
	if err != nil {
		return err
	}

	dir, err := mirrorDir(discoverDir)
	if err != nil {
		return err
	}

	var sink progress.Sink = progress.Discard
	if cli.IsTerminal(os.Stderr) {
		sink = cli.NewPrinter(os.Stderr)
	}

	plan, err := newService(dir, logger).Plan(cmd.Context(), p, sink)
	if err != nil {
		return err
	}

	if discoverOutput.value != "table" {
		return writeStructured(os.Stdout, discoverOutput.value, plan)
	}

	if len(plan) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No repositories found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "REPOSITORY\tACTION\tPATH")
	_, _ = fmt.Fprintln(w, "----------\t------\t----")

	for _, r := range plan {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", r.Repo.FullName(), r.Action, r.Path)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	_, _ = fmt.Fprintf(os.Stdout, "\n%d repositories\n", len(plan))

	return nil
}
