package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dshills/rewind/internal/engine/action"
	"github.com/dshills/rewind/internal/engine/history"
	"github.com/dshills/rewind/internal/store"
)

// Replay dispatches actions in order and writes one line per action with
// the resulting history. Unchanged results are marked with "=". It stops
// at the first reducer failure or when ctx is done.
func Replay(ctx context.Context, s *store.Store[int], actions []action.Action, w io.Writer) (*history.History[int], error) {
	h := s.State()
	if _, err := fmt.Fprintf(w, "%-20s   %s\n", "(initial)", h); err != nil {
		return h, err
	}

	for i, a := range actions {
		if err := ctx.Err(); err != nil {
			return h, err
		}

		next, err := s.Dispatch(a)
		if err != nil {
			return h, fmt.Errorf("action %d (%s): %w", i+1, a, err)
		}

		mark := " "
		if next == h {
			mark = "="
		}
		if _, err := fmt.Fprintf(w, "%-20s %s %s\n", a, mark, next); err != nil {
			return next, err
		}
		h = next
	}

	return h, nil
}
