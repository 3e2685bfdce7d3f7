package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cloneCmd = &cobra.Command{
	Use:   "clone <profile>",
	Short: "Clone the repository a profile's URL points at",
	Long: `Clone the single repository named by the profile's base URL, with the
profile's credentials, into <dir>/<repository name>.

Examples:
  repomirror clone tool --dir ~/src`,
	Args: cobra.ExactArgs(1),
	RunE: runClone,
}

var cloneDir string

func init() {
	rootCmd.AddCommand(cloneCmd)

	cloneCmd.Flags().StringVar(&cloneDir, "dir", ".", "target directory")
}

func runClone(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	p, err := loadProfile(st, args[0])
	if err != nil {
		return err
	}

	dir, err := expandPath(cloneDir)
	if err != nil {
		return err
	}

	path, err := newService(dir, logger).CloneProfile(cmd.Context(), p, dir)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Cloned into %s\n", path)

	return nil
}
