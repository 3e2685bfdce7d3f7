package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inovacc/repomirror/internal/cli"
	"github.com/inovacc/repomirror/internal/giturl"
	"github.com/inovacc/repomirror/internal/model"
	"github.com/inovacc/repomirror/internal/provider"
)

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a profile",
	Long: `Create a profile for a GitHub or GitLab account.

The base URL names the account: its last path segment becomes the folder the
account is mirrored into. For GitHub Enterprise or self-hosted GitLab, use the
instance host.

When --token is omitted and stdin is a terminal, the token is prompted for
without echo. An empty token is resolved at sync time from GITHUB_TOKEN,
GH_TOKEN or the gh CLI (GitHub), or GITLAB_TOKEN (GitLab).

Examples:
  repomirror profile add me --kind github --url https://github.com/octocat
  repomirror profile add work --kind gitlab --url https://gitlab.example.com/platform --gitlab-mode bash-style
  repomirror profile add ci --kind github --url https://github.com/acme --token ghp_xxxxxxxxxxxx`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileAdd,
}

var (
	profileAddKind     kindFlag
	profileAddMode     gitlabModeFlag
	profileAddURL      string
	profileAddToken    string
	profileAddUsername string
)

func init() {
	profileCmd.AddCommand(profileAddCmd)

	profileAddCmd.Flags().Var(&profileAddKind, "kind", "provider kind")
	profileAddCmd.Flags().StringVar(&profileAddURL, "url", "", "account or instance base URL")
	profileAddCmd.Flags().StringVar(&profileAddToken, "token", "", "access token")
	profileAddCmd.Flags().StringVar(&profileAddUsername, "username", "", "username for credentialed clone URLs")
	profileAddCmd.Flags().Var(&profileAddMode, "gitlab-mode", "GitLab discovery mode")

	_ = profileAddCmd.MarkFlagRequired("kind")
	_ = profileAddCmd.MarkFlagRequired("url")
}

func runProfileAdd(cmd *cobra.Command, args []string) error {
	if _, err := giturl.ParseHTTP(profileAddURL); err != nil {
		return &provider.URLError{URL: profileAddURL, Err: err}
	}

	if profileAddKind.value == "" {
		return errors.New("--kind is required")
	}

	if profileAddMode.value != "" && profileAddKind.value != model.KindGitLab {
		return errors.New("--gitlab-mode only applies to gitlab profiles")
	}

	token := profileAddToken
	if !cmd.Flags().Changed("token") && cli.IsTerminal(os.Stdin) {
		secret, err := cli.ReadSecret(os.Stdin, os.Stderr, "Token (empty to use environment or gh CLI): ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}

		token = secret
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	profile := &model.Profile{
		Name:       args[0],
		Token:      token,
		BaseURL:    profileAddURL,
		Kind:       profileAddKind.value,
		Username:   profileAddUsername,
		GitLabMode: profileAddMode.value,
	}

	if err := st.SaveProfile(profile); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	logger.Info("profile created", zap.String("profile", profile.Name), zap.String("kind", string(profile.Kind)))

	_, _ = fmt.Fprintf(os.Stdout, "Profile '%s' created (%s, %s)\n", profile.Name, profile.Kind, profile.BaseURL)

	if token == "" {
		_, _ = fmt.Fprintln(os.Stdout, "No token stored; it will be resolved from the environment at sync time.")
	}

	return nil
}
