package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/scratchpad/internal/config"
	"github.com/aretw0/scratchpad/internal/logging"
	"github.com/aretw0/scratchpad/internal/platform"
	"github.com/aretw0/scratchpad/pkg/core"
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error { return e.err }

// app is the state shared by every command of one invocation.
type app struct {
	configFile string
	verbose    bool

	cfg      *config.Config
	logger   *slog.Logger
	store    *core.Store
	location string

	// writeErr collects failures the store reports through its handler.
	writeErr error
}

// execute runs the command tree and returns the exit code.
func execute(args []string) int {
	cmd, a := newRootCommand()
	defer a.close()

	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)

		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		return 1
	}
	return 0
}

func newRootCommand() (*cobra.Command, *app) {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "scratchpad",
		Short: "Keep feedback notes next to your component stories",
		Long: `Scratchpad keeps free-text notes keyed by story identifier.

All notes live as one JSON document, either in a directory (fs), a SQLite
database (sqlite), or only for the current process (memory). Without --path,
the nearest .scratchpad directory above the working directory is used, else
the per-user configuration directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default: .scratchpad.yaml)")
	pf.String("log-level", config.LogLevelWarn, "log level: debug, info, warn, error")
	pf.String("log-format", config.LogFormatText, "log format: text, json")
	pf.String("adapter", config.AdapterFS, "storage adapter: fs, sqlite, memory")
	pf.String("path", "", "storage location (default: auto-discovered)")
	pf.Bool("read-only", false, "refuse every write")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &exitError{code: 2, err: err}
	})

	cmd.AddCommand(
		newGetCommand(a),
		newSetCommand(a),
		newDeleteCommand(a),
		newListCommand(a),
		newCountCommand(a),
		newClearCommand(a),
		newExportCommand(a),
		newEditCommand(a),
		newWatchCommand(a),
		newStatusCommand(a),
		newVersionCommand(),
	)

	return cmd, a
}

// setup loads configuration, builds the logger and opens the store.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd, a.configFile)
	if err != nil {
		return &exitError{code: 2, err: err}
	}
	if a.verbose {
		cfg.LogLevel = config.LogLevelDebug
	}
	a.cfg = cfg

	// The editor owns the terminal.
	if cmd.Name() == "edit" {
		a.logger = logging.Discard()
	} else {
		a.logger = logging.SetupWithWriter(cfg, cmd.ErrOrStderr())
	}

	a.location = cfg.Path
	if a.location == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		a.location = platform.DefaultLocation(cwd, config.DefaultPath())
	}

	a.logger.Debug("configuration loaded",
		slog.String("adapter", cfg.Adapter),
		slog.String("path", a.location),
		slog.String("configFile", cfg.ConfigFile),
	)

	store, err := platform.New(a.location,
		platform.WithAdapter(cfg.Adapter),
		platform.WithLogger(a.logger),
		platform.WithReadOnly(cfg.ReadOnly),
		platform.WithDevSafety(cfg.DevSafety),
		platform.WithErrorHandler(func(err error) {
			a.writeErr = errors.Join(a.writeErr, err)
		}),
	)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.store = store

	return nil
}

// result returns the write failures reported since the last call.
func (a *app) result() error {
	err := a.writeErr
	a.writeErr = nil
	return err
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil && a.logger != nil {
		a.logger.Warn("failed to close store", "error", err)
	}
	a.store = nil
}
