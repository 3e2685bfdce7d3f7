package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [profile]",
	Short: "Show past sync runs",
	Long: `Show past sync runs, newest first. Without a profile every run is listed.

Examples:
  repomirror history
  repomirror history work --limit 5 --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

var (
	historyLimit  int
	historyOutput = newOutputFlag("table", "table", "json", "yaml")
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs (0 for all)")
	historyCmd.Flags().VarP(historyOutput, "output", "o", "output format")
}

func runHistory(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var profileID string

	if len(args) == 1 {
		p, err := st.GetProfile(args[0])
		if err != nil {
			return err
		}

		profileID = p.ID
	}

	runs, err := st.ListRuns(profileID, historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if historyOutput.value != "table" {
		return writeStructured(os.Stdout, historyOutput.value, runs)
	}

	if len(runs) == 0 {
		_, _ = fmt.Fprintln(os.Stdout, "No sync runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "STARTED\tPROFILE\tDURATION\tTOTAL\tCLONED\tUPDATED\tUNCHANGED\tFAILED\tSTATUS")

	for _, r := range runs {
		status := "ok"

		switch {
		case !r.Completed():
			status = "aborted: " + truncate(r.Error, 40)
		case r.Warning != "":
			status = "warning"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%d\t%d\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.ProfileName,
			r.FinishedAt.Sub(r.StartedAt).Round(time.Second),
			r.Total, r.Cloned, r.Updated, r.Unchanged, r.Failed,
			status,
		)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}

// truncate shortens s to maxLen runes with an ellipsis
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	return string(runes[:maxLen-3]) + "..."
}
