package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a profile",
	Long: `Delete a profile and its sync history.

Mirrored repositories on disk are left untouched.

Examples:
  repomirror profile remove old-profile
  repomirror profile remove old-profile --force`,
	Aliases: []string{"rm", "delete"},
	Args:    cobra.ExactArgs(1),
	RunE:    runProfileRemove,
}

var profileRemoveForce bool

func init() {
	profileCmd.AddCommand(profileRemoveCmd)

	profileRemoveCmd.Flags().BoolVarP(&profileRemoveForce, "force", "f", false, "Skip confirmation")
}

func runProfileRemove(_ *cobra.Command, args []string) error {
	name := args[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	profile, err := st.GetProfile(name)
	if err != nil {
		return err
	}

	if !profileRemoveForce {
		_, _ = fmt.Fprintf(os.Stdout, "Delete profile '%s' (%s)? (y/N): ", profile.Name, profile.BaseURL)

		var confirm string
		if _, err := fmt.Scanln(&confirm); err != nil || (confirm != "y" && confirm != "Y") {
			_, _ = fmt.Fprintln(os.Stdout, "Cancelled.")
			return nil
		}
	}

	if err := st.DeleteProfile(profile.ID); err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	logger.Info("profile deleted", zap.String("profile", profile.Name))

	_, _ = fmt.Fprintf(os.Stdout, "Profile '%s' deleted\n", profile.Name)

	return nil
}
