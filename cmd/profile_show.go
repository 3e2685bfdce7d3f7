package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/inovacc/repomirror/internal/layout"
	"github.com/inovacc/repomirror/internal/model"
)

var profileShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one profile",
	Long: `Show a profile with its token redacted and the folder it mirrors into.

Examples:
  repomirror profile show work
  repomirror profile show work --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runProfileShow,
}

var profileShowOutput = newOutputFlag("yaml", "yaml", "json")

func init() {
	profileCmd.AddCommand(profileShowCmd)

	profileShowCmd.Flags().VarP(profileShowOutput, "output", "o", "output format")
}

type profileView struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Kind        string `json:"kind" yaml:"kind"`
	BaseURL     string `json:"base_url" yaml:"base_url"`
	Username    string `json:"username,omitempty" yaml:"username,omitempty"`
	GitLabMode  string `json:"gitlab_mode,omitempty" yaml:"gitlab_mode,omitempty"`
	Token       string `json:"token" yaml:"token"`
	AccountRoot string `json:"account_root" yaml:"account_root"`
	LastSyncAt  string `json:"last_sync_at,omitempty" yaml:"last_sync_at,omitempty"`
	CreatedAt   string `json:"created_at" yaml:"created_at"`
}

func runProfileShow(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	p, err := st.GetProfile(args[0])
	if err != nil {
		return err
	}

	view := profileView{
		ID:          p.ID,
		Name:        p.Name,
		Kind:        string(p.Kind),
		BaseURL:     p.BaseURL,
		Username:    p.Username,
		Token:       p.Redacted().Token,
		AccountRoot: layout.AccountRoot(*p),
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}

	if view.Token == "" {
		view.Token = "(from environment)"
	}

	if p.Kind == model.KindGitLab {
		view.GitLabMode = string(p.EffectiveGitLabMode())
	}

	if p.LastSyncAt != nil {
		view.LastSyncAt = p.LastSyncAt.Format(time.RFC3339)
	}

	return writeStructured(os.Stdout, profileShowOutput.value, view)
}
