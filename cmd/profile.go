package cmd

import (
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage provider profiles",
	Long: `Manage the provider accounts repomirror discovers and mirrors.

A profile holds the provider kind (github or gitlab), the account or instance
base URL, an access token and, for GitLab, the discovery mode.

Available Commands:
  add      Create a profile
  list     List profiles
  show     Show one profile
  remove   Delete a profile and its sync history`,
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
