package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/config/watcher"
)

type tuiOptions struct {
	watch       bool
	metricsAddr string
	logFile     string
}

func newTUICmd(root *rootOptions) *cobra.Command {
	var opts tuiOptions

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Drive the counter from an interactive terminal view",
		Long: `Show the counter's history in the terminal and change it with the keyboard.

Keys:
  + - (or up/down)      increment / decrement
  u r (or left/right)   undo / redo
  < >                   jump three steps back / forward
  c                     clear history
  0                     reset the counter
  i                     reinitialize
  q, Esc                quit

With --watch, the settings file is reloaded whenever it changes and the
new reducer is swapped in without losing the history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), root, &opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload settings when the --config file changes")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of discarding them")
	return cmd
}

func runTUI(ctx context.Context, root *rootOptions, opts *tuiOptions) error {
	if opts.watch && root.configPath == "" {
		return errors.New("--watch needs a settings file (--config)")
	}

	// Log output would corrupt the screen
	logOut := io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	root.logger = app.NewLogger(logOut, root.logLevel)

	reg := prometheus.NewRegistry()
	sess, err := root.newSession(reg)
	if err != nil {
		return err
	}
	defer sess.close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	ui := app.NewTUI(screen, sess.store, sess.base, root.logger)

	var w *watcher.Watcher
	if opts.watch {
		if w, err = watchSettings(root, ui); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	if opts.metricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, opts.metricsAddr, reg, root.logger)
		})
	}

	if w != nil {
		g.Go(func() error {
			if err := w.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("settings watcher: %w", err)
			}
			return nil
		})
	}

	// Quitting the TUI stops the watcher and the metrics server
	g.Go(func() error {
		defer cancel()
		return ui.Run(gctx)
	})

	return g.Wait()
}

// watchSettings reloads the settings file into ui on every change.
func watchSettings(root *rootOptions, ui *app.TUI) (*watcher.Watcher, error) {
	w, err := watcher.New(watcher.WithLogger(root.logger))
	if err != nil {
		return nil, fmt.Errorf("creating settings watcher: %w", err)
	}
	if err := w.Watch(root.configPath); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", root.configPath, err)
	}
	root.logger.Debug("watching settings", "files", w.WatchedFiles())

	w.OnChange(func(ev watcher.Event) {
		root.logger.Info("settings changed", "path", ev.Path, "op", ev.Op.String())
		if ev.Op == watcher.OpRemove || ev.Op == watcher.OpRename {
			ui.SetStatus("settings file removed; keeping current settings")
			return
		}

		s, err := root.settings()
		if err != nil {
			root.logger.Warn("settings reload failed", "error", err)
			ui.SetStatus("reload failed: " + err.Error())
			return
		}
		if err := ui.Reload(s); err != nil {
			root.logger.Error("reducer swap failed", "error", err)
			ui.SetStatus("reload failed: " + err.Error())
		}
	})
	return w, nil
}

// serveMetrics exposes reg over HTTP until ctx is done.
func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("serving metrics", "addr", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown", "error", err)
	}
	return nil
}
