package main

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/dshills/rewind/internal/app"
	"github.com/dshills/rewind/internal/engine/action"
)

type replayOptions struct {
	metrics bool
}

func newReplayCmd(root *rootOptions) *cobra.Command {
	var opts replayOptions

	cmd := &cobra.Command{
		Use:   "replay [script|-]",
		Short: "Apply a script of actions and print each history",
		Long: `Apply a script of actions to the counter, one per line, and print the
history after each one. Lines that leave the history unchanged are marked
with "=". Blank lines and lines starting with '#' are ignored. Without a
script, or with "-", actions are read from stdin.

Counter actions: INCREMENT, DECREMENT, ADD n, SET n, RESET
History actions: UNDO, REDO, JUMP n, JUMP_TO_PAST i, JUMP_TO_FUTURE i,
                 CLEAR_HISTORY

Examples:
  rewind replay actions.rw
  rewind replay --metrics actions.rw         # Print store metrics`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, root, &opts, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.metrics, "metrics", "m", false, "Print store metrics after the replay")
	return cmd
}

func runReplay(cmd *cobra.Command, root *rootOptions, opts *replayOptions, args []string) error {
	actions, err := readScript(cmd, args)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	sess, err := root.newSession(reg)
	if err != nil {
		return err
	}
	defer sess.close()

	out := cmd.OutOrStdout()
	h, err := app.Replay(cmd.Context(), sess.store, actions, out)
	if err != nil {
		return err
	}
	root.logger.Debug("replay finished", "actions", len(actions), "history", h.String())

	if opts.metrics {
		fmt.Fprintln(out)
		return writeMetrics(out, reg)
	}
	return nil
}

// readScript parses the script named by args, or stdin.
func readScript(cmd *cobra.Command, args []string) ([]action.Action, error) {
	if len(args) == 0 || args[0] == "-" {
		return app.ParseScript(cmd.InOrStdin(), "stdin")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()

	return app.ParseScript(f, args[0])
}

// writeMetrics prints every metric in reg in the Prometheus text format.
func writeMetrics(w io.Writer, reg prometheus.Gatherer) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
