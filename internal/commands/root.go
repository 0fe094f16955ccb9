package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/balkashynov/rtracker/internal/config"
	"github.com/balkashynov/rtracker/internal/db"
	"github.com/balkashynov/rtracker/internal/store"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// now is the clock used by every command
var now = func() time.Time { return time.Now().UTC() }

// rootOptions holds the global flags
type rootOptions struct {
	file    string
	backend string
	verbose bool
	logger  *slog.Logger
}

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "rtracker",
		Short: "A command line interface that tracks your time",
		Long: `rtracker records when a task starts and stops and reports how long it took.

Entries live in a single file, $RTRACKERFILE or ~/.local/share/rtracker by default.
The last entry is the current one: stop, continue and status act on it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			opts.logger = slog.New(handler)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.file, "file", "", "Storage file (overrides $"+config.EnvFile+")")
	rootCmd.PersistentFlags().StringVar(&opts.backend, "backend", "", "Storage backend: csv or sqlite (overrides $"+config.EnvBackend+")")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log diagnostics to stderr")

	rootCmd.AddCommand(newStartCmd(opts))
	rootCmd.AddCommand(newStopCmd(opts))
	rootCmd.AddCommand(newContinueCmd(opts))
	rootCmd.AddCommand(newStatusCmd(opts))
	rootCmd.AddCommand(newReportCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// withLog wraps a command function to open the entry log first
func withLog(opts *rootOptions, fn func(*cobra.Command, []string, *store.Log) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logger := opts.logger
		if logger == nil {
			logger = slog.Default()
		}

		cfg, err := config.Load(config.Options{File: opts.file, Backend: opts.backend})
		if err != nil {
			return err
		}
		logger.Debug("resolved config", slog.String("path", cfg.StoragePath), slog.String("backend", cfg.Backend))

		backend, closeFn, err := openBackend(cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := closeFn(); err != nil {
				logger.Warn("failed to close store", slog.String("error", err.Error()))
			}
		}()

		return fn(cmd, args, store.NewLog(backend, logger))
	}
}

// openBackend picks the storage backend named by cfg
func openBackend(cfg config.Config) (store.Backend, func() error, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := db.Open(cfg.StoragePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.BackendCSV:
		return store.NewCSVStore(cfg.StoragePath), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported backend %q", cfg.Backend)
	}
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
