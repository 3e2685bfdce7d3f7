package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Long: `List all profiles. Tokens are never printed.

Examples:
  repomirror profile list
  repomirror profile list --json`,
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	RunE:    runProfileList,
}

var profileListJSON bool

func init() {
	profileCmd.AddCommand(profileListCmd)

	profileListCmd.Flags().BoolVar(&profileListJSON, "json", false, "Output as JSON")
}

func runProfileList(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	profiles, err := st.ListProfiles()
	if err != nil {
		return fmt.Errorf("failed to list profiles: %w", err)
	}

	if len(profiles) == 0 {
		if profileListJSON {
			_, _ = fmt.Fprintln(os.Stdout, "[]")
			return nil
		}

		_, _ = fmt.Fprintln(os.Stdout, "No profiles configured.")
		_, _ = fmt.Fprintln(os.Stdout, "\nCreate a profile with: repomirror profile add <name> --kind github --url <url>")

		return nil
	}

	if profileListJSON {
		for i := range profiles {
			profiles[i] = profiles[i].Redacted()
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		return enc.Encode(profiles)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(w, "NAME\tKIND\tURL\tTOKEN\tLAST SYNC")
	_, _ = fmt.Fprintln(w, "----\t----\t---\t-----\t---------")

	for _, p := range profiles {
		token := "stored"
		if p.Token == "" {
			token = "env"
		}

		lastSync := "never"
		if p.LastSyncAt != nil {
			lastSync = p.LastSyncAt.Local().Format(time.DateTime)
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.Kind, p.BaseURL, token, lastSync)
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}

	return nil
}
