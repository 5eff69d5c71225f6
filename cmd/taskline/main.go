// Command taskline is a keyboard-driven task list for the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"taskline/internal/config"
	"taskline/internal/logging"
	"taskline/internal/script"
	"taskline/internal/session"
	"taskline/internal/storage"
	"taskline/internal/task"
	"taskline/internal/ui"
)

// Version information, set by the release build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// runTUI is swapped out in tests.
var runTUI = ui.Run

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "taskline",
		Short: "A keyboard-driven task list for the terminal",
		Long: `taskline keeps a single list of tasks with priorities and due dates,
saved to <install dir>/db/task-storage.json by default.

Run without a subcommand to open the interactive list. Press ? inside it
for the key reference.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return runApp(cmd.Context(), cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default "+config.Path()+")")
	flags.String("data-dir", "", "directory holding the task store")
	flags.String("backend", "", "storage backend: json or sqlite")
	flags.String("scripts-dir", "", "directory scanned for helper scripts")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-file", "", "log file used while the list is open")

	root.AddCommand(
		newVersionCmd(),
		newPathsCmd(),
		newBackupCmd(),
		newRestoreCmd(),
		newExportCmd(),
		newImportCmd(),
	)
	return root
}

// loadConfig reads the config file, then layers TASKLINE_* variables and
// any flags the user set on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}
	v, err := config.NewOverrides(cmd.Flags())
	if err != nil {
		return nil, err
	}
	cfg.ApplyOverrides(v)
	return cfg, nil
}

// consoleLogger is the stderr logger used by subcommands.
func consoleLogger(cmd *cobra.Command, cfg *config.Config) (*log.Logger, error) {
	return logging.Console(cmd.ErrOrStderr(), cfg.Logging)
}

// openStore opens the configured backend and loads it into a store without
// seeding. The caller closes the returned backend.
func openStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (*task.Store, io.Closer, error) {
	backend, err := storage.Open(cfg.Storage.Backend, cfg.GetDataDir(), logger)
	if err != nil {
		return nil, nil, err
	}
	store := task.NewStore(backend, logger)
	store.SetLocale(cfg.UX.Locale)
	if err := store.Open(ctx, false); err != nil {
		_ = backend.Close()
		return nil, nil, err
	}
	return store, backend, nil
}

// runApp wires storage, logging and scripts, runs the TUI, and flushes
// pending writes before returning.
func runApp(ctx context.Context, cfg *config.Config) (err error) {
	fileLog, err := logging.OpenFile(cfg.GetLogFile(), cfg.Logging)
	if err != nil {
		return err
	}
	defer fileLog.Close()
	logger := fileLog.Logger

	backend, err := storage.Open(cfg.Storage.Backend, cfg.GetDataDir(), logger)
	if err != nil {
		logger.Error("open storage", "err", err)
		return err
	}
	defer func() {
		if cerr := backend.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	queue := storage.NewQueue(backend, logger)
	store := task.NewStore(queue, logger)
	store.SetLocale(cfg.UX.Locale)
	if err := store.Open(ctx, cfg.UX.SeedTasks); err != nil {
		// The list starts empty; the unreadable file has been moved aside.
		logger.Warn("load tasks", "err", err)
	}
	logger.Info("started", "version", version, "tasks", store.Len(), "backend", cfg.Storage.Backend)

	runner := script.NewRunner(cfg.Scripts.Interpreters, map[string]string{
		"TASKLINE_DATA_DIR": cfg.GetDataDir(),
	})
	if cfg.Scripts.Timeout > 0 {
		runner.Timeout = cfg.Scripts.Timeout
	}

	appCfg := &ui.AppConfig{
		Keys: session.NewKeyMap(&cfg.Keys),
		Session: session.Options{
			StatusTTL:        cfg.UX.StatusTTL,
			ScriptStatusTTL:  cfg.UX.ScriptStatusTTL,
			ConfirmDeletions: cfg.UX.ConfirmDeletions,
		},
		VisibleTasks: cfg.UX.VisibleTasks,
		ScriptsDir:   cfg.GetScriptsDir(),
		Interpreters: cfg.Scripts.Interpreters,
		Runner:       runner,
		Logger:       logger,
	}

	runErr := runTUI(store, ui.NewStyles(cfg), appCfg)
	if runErr != nil {
		logger.Error("run", "err", runErr)
	}
	if cerr := queue.Close(); cerr != nil {
		logger.Error("flush writes", "err", cerr)
		runErr = errors.Join(runErr, cerr)
	}
	logger.Info("stopped", "tasks", store.Len())
	return runErr
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskline %s\ncommit: %s\nbuilt:  %s\n", version, commit, date)
		},
	}
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the files taskline reads and writes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfgPath, _ := cmd.Flags().GetString("config")
			if cfgPath == "" {
				cfgPath = config.Path()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "config:   %s\n", cfgPath)
			fmt.Fprintf(out, "data:     %s\n", cfg.GetDataDir())
			fmt.Fprintf(out, "store:    %s\n", storage.DataFile(cfg.Storage.Backend, cfg.GetDataDir()))
			fmt.Fprintf(out, "log:      %s\n", cfg.GetLogFile())
			fmt.Fprintf(out, "scripts:  %s\n", cfg.GetScriptsDir())
			return nil
		},
	}
}
