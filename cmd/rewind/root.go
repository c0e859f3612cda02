package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/config/loader"
	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/plugin/lua"
	"github.com/dshills/rewind/internal/store"
)

// metricsNamespace prefixes every exported metric.
const metricsNamespace = "rewind"

// rootOptions holds the persistent flags shared by all commands.
type rootOptions struct {
	configPath  string
	preloadPath string
	reducerPath string
	logLevel    string

	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "rewind",
		Short: "Undo/redo history for a counter reducer",
		Long: `rewind wraps a counter reducer with an undo/redo history and drives it
from action scripts or an interactive terminal view.

Settings come from an optional TOML or YAML file (--config) overridden by
REWIND_* environment variables.

Examples:
  rewind replay actions.rw                 # Replay a script
  echo "INCREMENT" | rewind replay -       # Replay from stdin
  rewind replay --preload saved.yaml -     # Start from a saved history
  rewind replay --reducer double.lua -     # Use a Lua reducer
  rewind tui --config rewind.toml --watch  # Interactive, reload on change
  rewind config --format yaml              # Show effective settings`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateLogLevel(opts.logLevel); err != nil {
				return err
			}
			opts.logger = app.NewLogger(cmd.ErrOrStderr(), opts.logLevel)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to settings file (toml or yaml)")
	flags.StringVarP(&opts.preloadPath, "preload", "p", "", "Initial state or saved history file (toml or yaml)")
	flags.StringVarP(&opts.reducerPath, "reducer", "r", "", "Lua script defining reduce(state, action) to use instead of the built-in counter")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newReplayCmd(opts),
		newTUICmd(opts),
		newConfigCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func validateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", level)
	}
}

// settings loads the settings file and environment overrides.
func (o *rootOptions) settings() (config.Settings, error) {
	return config.Load(config.DefaultSource(o.configPath))
}

// preload reads the --preload file, if any.
func (o *rootOptions) preload() (engine.Input[int], error) {
	if o.preloadPath == "" {
		return engine.Empty[int](), nil
	}
	return app.LoadPreload(loader.DefaultFS(), o.preloadPath)
}

// counterSession is a store and the base reducer it was built from.
type counterSession struct {
	store *store.Store[int]
	base  engine.BaseReducer[int]
	close func()
}

// newSession builds the counter store from settings, the preload file and
// the optional Lua reducer, registering its metrics with reg. The caller
// must call close.
func (o *rootOptions) newSession(reg prometheus.Registerer) (*counterSession, error) {
	s, err := o.settings()
	if err != nil {
		return nil, err
	}
	in, err := o.preload()
	if err != nil {
		return nil, err
	}

	sess := &counterSession{base: app.Count, close: func() {}}
	if o.reducerPath != "" {
		r, err := lua.Load(o.reducerPath)
		if err != nil {
			return nil, err
		}
		sess.base = r.Reduce
		sess.close = r.Close
	}

	sess.store = store.New[int](app.NewUndoable(sess.base, s, o.logger), in,
		store.WithLogger(o.logger),
		store.WithMetrics(store.NewMetrics(reg, metricsNamespace)),
	)
	return sess, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "rewind %s\n", version)
			fmt.Fprintf(w, "Commit: %s\n", commit)
			fmt.Fprintf(w, "Built: %s\n", date)
		},
	}
}

func newConfigCmd(root *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective settings",
		Long: `Print the settings rewind would run with after merging the settings
file and REWIND_* environment variables. The output is a valid settings
file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := root.settings()
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), s, loader.Format(strings.ToLower(format)))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(loader.FormatTOML), "Output format (toml or yaml)")
	return cmd
}
