// Package cli wires configuration, storage and the screens behind the tada
// command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/kv"
	"github.com/idilsaglam/tada/internal/logging"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/tui"
	"github.com/idilsaglam/tada/internal/ui"
)

// errUsage marks errors that should exit with code 2.
var errUsage = errors.New("usage")

type usageError struct{ msg string }

func (e usageError) Error() string        { return e.msg }
func (e usageError) Is(target error) bool { return target == errUsage }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

// App carries root flags and the resolved configuration.
type App struct {
	ConfigPath string
	Backend    string
	DataDir    string
	Theme      string
	LogLevel   string
	NoColor    bool

	cfg config.Config
}

// Run executes the command line and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}
	ui.Fail(stderr, err.Error())
	if errors.Is(err, errUsage) {
		return 2
	}
	return 1
}

// NewRootCmd builds the tada command tree. Without a subcommand it starts
// the TUI.
func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:           "tada",
		Short:         "Named todo lists, kept in a local snapshot",
		SilenceUsage:  true,
		SilenceErrors: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  tada

  # Scriptable commands
  tada lists add Groceries
  tada lists ls --search groc
  tada todos add <list-id> Buy milk
`),
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usagef("unknown command %q for tada", args[0])
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.resolve(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{msg: err.Error()}
	})

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.toml (default: $TADA_CONFIG or the user config dir)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (file|bolt|sqlite|redis|memory)")
	cmd.PersistentFlags().StringVar(&app.DataDir, "dir", "", "Data directory for file, bolt and sqlite backends")
	cmd.PersistentFlags().StringVar(&app.Theme, "theme", "", "Output theme (classic|neon|mono)")
	cmd.PersistentFlags().StringVar(&app.LogLevel, "log-level", "", "Log level (debug|info|warn|error)")
	cmd.PersistentFlags().BoolVar(&app.NoColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(newListsCmd(app))
	cmd.AddCommand(newTodosCmd(app))
	cmd.AddCommand(newExportCmd(app))
	return cmd
}

// resolve loads config and lets explicitly set flags win over it.
func (a *App) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(a.ConfigPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("backend") {
		cfg.Backend = a.Backend
	}
	if flags.Changed("dir") {
		cfg.DataDir = a.DataDir
	}
	if flags.Changed("theme") {
		cfg.Theme = a.Theme
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return usageError{msg: err.Error()}
	}
	a.cfg = cfg

	ui.SetTheme(cfg.Theme)
	if a.NoColor || strings.EqualFold(cfg.Theme, "mono") {
		ui.SetColorForcing(false, true)
	}
	return nil
}

func (a *App) openStore(ctx context.Context, logger *log.Logger) (*store.Store, error) {
	backend, err := kv.Open(ctx, a.cfg.KVOptions())
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", a.cfg.Backend, err)
	}
	st := store.New(ctx, backend,
		store.WithKey(a.cfg.Key),
		store.WithLogger(logger),
		store.WithQueueSize(a.cfg.QueueSize),
		store.WithRetries(a.cfg.WriteRetries, a.cfg.RetryDelay),
	)
	if err := st.WaitHydrated(ctx); err != nil {
		_ = st.Close(context.Background())
		return nil, fmt.Errorf("hydrate: %w", err)
	}
	return st, nil
}

// withStore opens the store with a stderr logger, runs fn, and closes the
// store so every queued write lands before the process exits.
func (a *App) withStore(cmd *cobra.Command, fn func(st *store.Store) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger, err := logging.New(cmd.ErrOrStderr(), a.cfg.LogLevel)
	if err != nil {
		return usageError{msg: err.Error()}
	}
	st, err := a.openStore(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if cerr := st.Close(closeCtx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(st)
}

func runTUI(ctx context.Context, a *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger, closer, err := logging.OpenFile(a.cfg.DataDir, a.cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	st, err := a.openStore(ctx, logger)
	if err != nil {
		return err
	}
	runErr := tui.Run(st, tui.Options{PageSize: a.cfg.PageSize})

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := st.Close(closeCtx); err != nil && runErr == nil {
		return err
	}
	return runErr
}

func exactArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}
