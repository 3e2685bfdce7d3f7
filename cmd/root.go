package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inovacc/repomirror/internal/application"
	"github.com/inovacc/repomirror/internal/config"
	"github.com/inovacc/repomirror/internal/logging"
	"github.com/inovacc/repomirror/internal/model"
)

var (
	configFile string
	logLevel   string
	logFormat  string

	cfg        = model.DefaultConfig()
	configUsed string
	logger     = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   application.AppName,
	Short: "Mirror every repository of a GitHub or GitLab account",
	Long: `Repomirror discovers every repository an access token can see on GitHub
or GitLab and keeps a local mirror of them in sync.

Each profile holds a provider kind, a base URL and a token. Repositories are
laid out under <dir>/<account>/: personal repositories at the top, other
owners under organisations/<owner>/ and nested namespaces under FORKS/.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command and exits 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./repomirror.yaml or the application directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: console or json")
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.NewLoader(config.DefaultSearchPaths()...).Load(configFile)
	if err != nil {
		return err
	}

	cfg = loaded.Config
	configUsed = loaded.FileUsed

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}

	l, err := logging.NewFactory().New(logging.Level(cfg.Log.Level), logging.Format(cfg.Log.Format))
	if err != nil {
		return err
	}

	logger = l.Named(application.AppName)
	logger.Debug("configuration loaded", zap.String("file", configUsed))

	return nil
}
