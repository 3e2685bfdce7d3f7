package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inovacc/repomirror/internal/cli"
	"github.com/inovacc/repomirror/internal/mirror"
	"github.com/inovacc/repomirror/internal/model"
	"github.com/inovacc/repomirror/internal/progress"
	"github.com/inovacc/repomirror/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync <profile>",
	Short: "Discover and mirror every repository of a profile",
	Long: `Discover every repository the profile's token can see, then clone the
missing ones and pull the ones already present.

Repositories are processed one at a time. A failing repository is reported and
the run continues. Interrupting (Ctrl+C or 'q') stops before the next
repository; a git process already running is allowed to finish.

Examples:
  repomirror sync work
  repomirror sync work --dir /srv/mirror
  repomirror sync work --no-tui
  repomirror sync work --output json > report.json`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

var (
	syncDir    string
	syncNoTUI  bool
	syncOutput = newOutputFlag("text", "text", "json", "yaml")
)

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().StringVar(&syncDir, "dir", "", "mirror base directory (default: mirror.base_dir or ~/repomirror)")
	syncCmd.Flags().BoolVar(&syncNoTUI, "no-tui", false, "print progress lines instead of the interactive view")
	syncCmd.Flags().VarP(syncOutput, "output", "o", "report format")
}

func runSync(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	p, err := loadProfile(st, args[0])
	if err != nil {
		return err
	}

	dir, err := mirrorDir(syncDir)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer cancel()

	interactive := !syncNoTUI && syncOutput.value == "text" && cli.IsTerminal(os.Stdout) && cli.IsTerminal(os.Stdin)

	var (
		result mirror.SyncResult
		runErr error
	)

	if interactive {
		result, runErr = syncInteractive(ctx, cancel, p, dir)
	} else {
		out := os.Stdout
		if syncOutput.value != "text" {
			out = os.Stderr
		}

		result, runErr = newService(dir, logger).Sync(ctx, p, cli.NewPrinter(out))
	}

	recordRun(st, p, result, runErr)

	if syncOutput.value != "text" {
		if err := writeStructured(os.Stdout, syncOutput.value, result); err != nil {
			return err
		}

		return runErr
	}

	if result.Summary.Total > 0 || runErr == nil {
		_, _ = fmt.Fprintln(os.Stdout)
		cli.RenderSummary(os.Stdout, p.Name, result.Summary, cli.IsTerminal(os.Stdout))
	}

	if errors.Is(runErr, context.Canceled) {
		_, _ = fmt.Fprintln(os.Stdout, "\nSync cancelled.")
		return nil
	}

	return runErr
}

// syncInteractive runs the sync behind the bubbletea view. Quitting the view
// cancels ctx and waits for the in-flight repository.
func syncInteractive(ctx context.Context, cancel context.CancelFunc, p model.Profile, dir string) (mirror.SyncResult, error) {
	events := make(chan progress.Event)
	view := cli.NewSyncModel(fmt.Sprintf("Syncing %s into %s", p.Name, dir), events, cancel)
	program := tea.NewProgram(view)

	// logs below error would tear the view
	quiet := logger.WithOptions(zap.IncreaseLevel(zapcore.ErrorLevel))

	svc := newService(dir, quiet, mirror.WithObserver(func(s mirror.RunSummary) {
		program.Send(cli.TallyMsg{Summary: s})
	}))

	var (
		result mirror.SyncResult
		runErr error
		done   = make(chan struct{})
	)

	go func() {
		defer close(done)

		result, runErr = svc.Sync(ctx, p, progress.NewChannel(ctx, events))
		close(events)
		program.Send(cli.DoneMsg{Result: result, Err: runErr})
	}()

	if _, err := program.Run(); err != nil {
		cancel()
		<-done

		return result, fmt.Errorf("progress view: %w", err)
	}

	<-done

	return result, runErr
}

// recordRun stores the run and, for a completed one, the profile's last sync.
// Store failures are logged; they never fail the sync.
func recordRun(st store.Store, p model.Profile, result mirror.SyncResult, runErr error) {
	run := &model.Run{
		ProfileID:   p.ID,
		ProfileName: p.Name,
		StartedAt:   result.StartedAt,
		FinishedAt:  result.FinishedAt,
		Total:       result.Summary.Total,
		Cloned:      result.Summary.Cloned,
		Updated:     result.Summary.Updated,
		Unchanged:   result.Summary.Unchanged,
		Failed:      result.Summary.Failed,
		Warning:     result.Summary.Warning,
	}

	if runErr != nil {
		run.Error = runErr.Error()
	}

	if err := st.RecordRun(run); err != nil {
		logger.Warn("failed to record run", zap.String("profile", p.Name), zap.Error(err))
	}

	if result.LastSyncAt == nil {
		return
	}

	if err := st.UpdateLastSync(p.ID, *result.LastSyncAt); err != nil {
		logger.Warn("failed to update last sync", zap.String("profile", p.Name), zap.Error(err))
	}
}
