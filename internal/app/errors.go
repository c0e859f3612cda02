package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the TUI should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrInvalidPreload indicates a preload file that is neither a history
	// nor a raw state.
	ErrInvalidPreload = errors.New("invalid preload")

	// ErrInvalidPayload indicates an action payload the counter cannot use.
	ErrInvalidPayload = errors.New("invalid payload")
)

// ScriptError reports a line of a replay script that could not be parsed.
type ScriptError struct {
	Source string
	Line   int
	Err    error
}

func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Source, e.Line, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
