package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// VersionInfo holds build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Logger configured from the --log flag
	logger zerolog.Logger

	// Runtime flags
	logLevel string

	// Version information
	versionInfo VersionInfo
}

// New creates a new CLI application
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "lockfreeze",
		Short: "Regenerate pinned dependency lock files",
		Long: `Lockfreeze regenerates the requirements lock files by running the
dependency compiler in parallel, stamping each result with a provenance
header, and reporting every failure before deciding the exit status.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.rootCmd.PersistentFlags().StringVar(&a.logLevel, "log", "",
		"Log level: debug, info, warn, error (overrides config)")

	a.rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		a.logger = newLogger(a.logLevel)
	}

	a.rootCmd.AddCommand(NewRunCmd(a))
	a.rootCmd.AddCommand(NewVersionCmd(a))
}

// newLogger builds the console logger for the given level. An empty or
// unknown level falls back to info.
func newLogger(level string) zerolog.Logger {
	lvl := zerolog.InfoLevel
	switch level {
	case "debug":
		lvl = zerolog.DebugLevel
	case "info":
		lvl = zerolog.InfoLevel
	case "warn":
		lvl = zerolog.WarnLevel
	case "error":
		lvl = zerolog.ErrorLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()
}
