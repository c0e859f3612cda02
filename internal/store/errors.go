package store

import "errors"

// Store errors.
var (
	// ErrPanic indicates the reducer panicked. The state is left unchanged.
	ErrPanic = errors.New("store: reducer panic")

	// ErrNilReducer indicates a nil reducer was passed to ReplaceReducer.
	ErrNilReducer = errors.New("store: nil reducer")
)
