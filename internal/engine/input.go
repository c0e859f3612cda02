package engine

import (
	"github.com/dshills/rewind/internal/engine/history"
)

type inputKind uint8

const (
	inputEmpty inputKind = iota
	inputState
	inputHistory
)

// Input is what a host hands a reducer on initialization: nothing, a raw
// state, or a history it already holds. The zero value is Empty.
type Input[S any] struct {
	kind    inputKind
	state   S
	history *history.History[S]
}

// Empty means the host has no initial value.
func Empty[S any]() Input[S] {
	return Input[S]{}
}

// FromState wraps a raw initial state.
func FromState[S any](s S) Input[S] {
	return Input[S]{kind: inputState, state: s}
}

// FromHistory wraps an existing history. A nil history is Empty.
func FromHistory[S any](h *history.History[S]) Input[S] {
	if h == nil {
		return Empty[S]()
	}
	return Input[S]{kind: inputHistory, history: h}
}

// InputOf classifies an untyped value. It recognizes *History[S],
// History[S] and S; nil is Empty. The second result is false for anything
// else.
func InputOf[S any](v any) (Input[S], bool) {
	switch x := v.(type) {
	case nil:
		return Empty[S](), true
	case *history.History[S]:
		return FromHistory(x), true
	case history.History[S]:
		return FromHistory(&x), true
	case S:
		return FromState(x), true
	default:
		return Empty[S](), false
	}
}

// IsEmpty reports whether the input carries no value.
func (in Input[S]) IsEmpty() bool {
	return in.kind == inputEmpty
}

// IsHistory reports whether the input carries a history.
func (in Input[S]) IsHistory() bool {
	return in.kind == inputHistory
}

// State returns the raw state, if the input carries one.
func (in Input[S]) State() (S, bool) {
	return in.state, in.kind == inputState
}

// History returns the history, if the input carries one.
func (in Input[S]) History() (*history.History[S], bool) {
	return in.history, in.kind == inputHistory
}
