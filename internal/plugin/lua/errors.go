package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua reducer operations.
var (
	// ErrClosed is returned when calling a closed reducer.
	ErrClosed = errors.New("lua reducer is closed")

	// ErrNoReduce is returned when a script does not define reduce.
	ErrNoReduce = errors.New("lua script does not define a reduce function")

	// ErrTimeout is returned when a script runs longer than its timeout.
	ErrTimeout = errors.New("lua execution timeout")

	// ErrBadResult is returned when reduce returns something other than an
	// integer or nil.
	ErrBadResult = errors.New("lua reduce returned a non-integer")
)

// CallError describes a failed reduce call.
type CallError struct {
	Script string
	Action string
	Err    error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: reduce %s: %v", e.Script, e.Action, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
