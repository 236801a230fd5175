package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lockfreeze/lockfreeze/internal/cli/tui"
	"github.com/lockfreeze/lockfreeze/internal/config"
	"github.com/lockfreeze/lockfreeze/internal/events"
	"github.com/lockfreeze/lockfreeze/internal/graph"
	"github.com/lockfreeze/lockfreeze/internal/metrics"
	"github.com/lockfreeze/lockfreeze/internal/orchestrator"
)

// ErrRunFailed signals a nonzero aggregate status. The diagnostics have
// already been printed by the time it is returned.
var ErrRunFailed = errors.New("freeze failed")

// RunOptions holds flags for the run command
type RunOptions struct {
	Repo        string // Repository name selecting the run mode
	BaseDir     string // Directory holding the input files (default: cwd)
	OutDir      string // Output directory (default: base dir)
	Compiler    string // Compiler command override
	Parallelism int    // Worker pool size override
	DryRun      bool   // Print the job plan without executing
	NoTUI       bool   // Disable TUI even when stdout is a TTY
}

// NewRunCmd creates the run command
func NewRunCmd(app *App) *cobra.Command {
	var opts RunOptions

	cmd := &cobra.Command{
		Use:   "run <repo> [outdir]",
		Short: "Regenerate the lock files for a repository",
		Long: `Run regenerates the pinned lock files for the named repository
(sentry or getsentry).

When an output directory is given and differs from the base directory,
the existing lock files are copied there first so the compiler keeps
already-satisfied pins instead of upgrading them.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Repo = args[0]
			if len(args) > 1 {
				opts.OutDir = args[1]
			}
			return app.RunFreeze(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.BaseDir, "base", "", "Base directory (default: current directory)")
	cmd.Flags().StringVar(&opts.Compiler, "compiler", "", "Compiler command (overrides config)")
	cmd.Flags().IntVarP(&opts.Parallelism, "parallelism", "p", 0, "Worker pool size (overrides config)")
	cmd.Flags().BoolVarP(&opts.DryRun, "dry-run", "n", false, "Print the job plan without executing")
	cmd.Flags().BoolVar(&opts.NoTUI, "no-tui", false, "Disable interactive TUI (use plain output)")

	return cmd
}

// RunFreeze executes the freeze run described by opts
func (a *App) RunFreeze(ctx context.Context, cmd *cobra.Command, opts RunOptions) error {
	mode, err := graph.ModeForRepo(opts.Repo)
	if err != nil {
		return err
	}

	baseDir := opts.BaseDir
	if baseDir == "" {
		baseDir, err = os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
	}

	cfg, err := config.Load(baseDir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.Compiler != "" {
		cfg.Compiler.Command = opts.Compiler
	}
	if opts.Parallelism > 0 {
		cfg.Parallelism = opts.Parallelism
	}
	if a.logLevel == "" {
		a.logger = newLogger(cfg.LogLevel)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	handler := NewSignalHandler(cancel)
	handler.OnShutdown(func() {
		fmt.Fprintln(os.Stderr, "\nShutting down; running jobs will finish...")
	})
	handler.Start()
	defer handler.Stop()

	bus := events.NewBus()
	defer bus.Close()
	bus.Subscribe(events.LogHandler(a.logger))

	recorder := metrics.NewRecorder(metrics.LogSink{Logger: a.logger})

	useTUI := !opts.NoTUI && !opts.DryRun && term.IsTerminal(int(os.Stdout.Fd()))

	// With the TUI active, failure reports are buffered and replayed
	// after the program exits so they are not drawn over.
	var reportOut io.Writer = cmd.OutOrStdout()
	var reportBuf bytes.Buffer
	if useTUI {
		reportOut = &reportBuf
	}

	orch := orchestrator.New(orchestrator.Config{
		Mode:        mode,
		BaseDir:     baseDir,
		OutDir:      opts.OutDir,
		Compiler:    cfg.Compiler.Command,
		Parallelism: cfg.Parallelism,
		DryRun:      opts.DryRun,
		Out:         reportOut,
	}, orchestrator.Dependencies{
		Bus:     bus,
		Metrics: recorder,
	})

	var res *orchestrator.Result
	if useTUI {
		model := tui.NewModel(cfg.Parallelism)
		program := tea.NewProgram(model)
		bridge := tui.NewBridge(program)
		bus.Subscribe(bridge.Handler())

		done := make(chan struct{})
		go func() {
			res = orch.Run(ctx)
			close(done)
			bridge.SendDone()
		}()

		if _, err := program.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		}
		// Quitting the TUI does not kill running jobs; wait for the
		// run to settle before reporting.
		<-done
		if reportBuf.Len() > 0 {
			fmt.Fprint(cmd.OutOrStdout(), reportBuf.String())
		}
	} else {
		res = orch.Run(ctx)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nFreeze complete:\n")
	fmt.Fprintf(cmd.OutOrStdout(), "  Jobs:     %d\n", res.TotalJobs)
	fmt.Fprintf(cmd.OutOrStdout(), "  Failed:   %d\n", res.Failed)
	fmt.Fprintf(cmd.OutOrStdout(), "  Duration: %s\n", res.Duration.Round(time.Millisecond))

	if res.Status != 0 {
		return ErrRunFailed
	}
	return nil
}
