// Package app is the demo domain driven by the rewind command: a counter
// whose every change can be undone, replayed from scripts or driven from a
// terminal UI.
package app

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dshills/rewind/internal/config"
	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/engine/action"
)

// Counter action types.
const (
	TypeIncrement = "INCREMENT"
	TypeDecrement = "DECREMENT"
	TypeAdd       = "ADD"
	TypeSet       = "SET"
	TypeReset     = "RESET"
)

// Count is the counter's base reducer. INCREMENT and DECREMENT step by one,
// ADD n and SET n take an integer payload, RESET returns to zero. Anything
// else, including a malformed payload, leaves n unchanged.
func Count(n int, a action.Action) int {
	switch a.Type {
	case TypeIncrement:
		return n + 1
	case TypeDecrement:
		return n - 1
	case TypeReset:
		return 0
	case TypeAdd:
		if d, err := intPayload(a); err == nil {
			return n + d
		}
	case TypeSet:
		if v, err := intPayload(a); err == nil {
			return v
		}
	}
	return n
}

// intPayload reads an integer from an int or string payload.
func intPayload(a action.Action) (int, error) {
	switch p := a.Payload.(type) {
	case int:
		return p, nil
	case int64:
		return int(p), nil
	case string:
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %s %q", ErrInvalidPayload, a.Type, p)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s %v", ErrInvalidPayload, a.Type, a.Payload)
	}
}

// NewCounter builds the undoable counter reducer from settings.
func NewCounter(s config.Settings, logger *slog.Logger) *engine.Undoable[int] {
	return NewUndoable(Count, s, logger)
}

// NewUndoable wraps any integer base reducer, such as a Lua script, with
// history configured from settings. A nil base means Count.
func NewUndoable(base engine.BaseReducer[int], s config.Settings, logger *slog.Logger) *engine.Undoable[int] {
	if base == nil {
		base = Count
	}
	return engine.New(base, 0, config.Options[int](s, logger)...)
}
