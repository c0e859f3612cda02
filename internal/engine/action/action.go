// Package action defines the actions understood by the undoable reducer.
//
// Actions are a tagged union: Kind selects between a forwarded action, which
// is handed to the base reducer, and one of the history control actions,
// which never reach the base reducer.
//
// Control actions are identified by Kind, not by their Type string. An
// application action built with New whose Type happens to be "UNDO" is still
// forwarded. Only Parse, which turns untyped input (scripts, command lines)
// into actions, maps the reserved type names onto control kinds.
package action

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags an action.
type Kind uint8

const (
	// KindForward is an action passed through to the base reducer.
	KindForward Kind = iota

	// KindUndo steps back one entry.
	KindUndo

	// KindRedo steps forward one entry.
	KindRedo

	// KindJump moves by a signed number of steps.
	KindJump

	// KindJumpToPast moves to an index in the past.
	KindJumpToPast

	// KindJumpToFuture moves to an index in the future.
	KindJumpToFuture

	// KindClearHistory drops past and future.
	KindClearHistory
)

// Reserved action types.
const (
	TypeUndo         = "UNDO"
	TypeRedo         = "REDO"
	TypeJump         = "JUMP"
	TypeJumpToPast   = "JUMP_TO_PAST"
	TypeJumpToFuture = "JUMP_TO_FUTURE"
	TypeClearHistory = "CLEAR_HISTORY"

	// TypeInit is dispatched by the store when it is created.
	TypeInit = "@@INIT"

	// TypeReplace is dispatched by the store after a reducer swap.
	TypeReplace = "@@REPLACE"
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindForward:
		return "forward"
	case KindUndo:
		return "undo"
	case KindRedo:
		return "redo"
	case KindJump:
		return "jump"
	case KindJumpToPast:
		return "jump_to_past"
	case KindJumpToFuture:
		return "jump_to_future"
	case KindClearHistory:
		return "clear_history"
	default:
		return "unknown"
	}
}

// Action is a single message handed to a reducer.
type Action struct {
	// Kind selects the transition.
	Kind Kind

	// Type names the action. For forwarded actions this is what the base
	// reducer switches on.
	Type string

	// Index is the target for KindJumpToPast and KindJumpToFuture.
	Index int

	// Steps is the signed distance for KindJump.
	Steps int

	// Payload carries application data for forwarded actions.
	Payload any
}

// New creates a forwarded action.
func New(typ string, payload any) Action {
	return Action{Kind: KindForward, Type: typ, Payload: payload}
}

// Undo creates an undo action.
func Undo() Action {
	return Action{Kind: KindUndo, Type: TypeUndo}
}

// Redo creates a redo action.
func Redo() Action {
	return Action{Kind: KindRedo, Type: TypeRedo}
}

// Jump creates an action that moves steps entries. Negative steps move
// into the past.
func Jump(steps int) Action {
	return Action{Kind: KindJump, Type: TypeJump, Steps: steps}
}

// JumpToPast creates an action that makes past[index] the present.
func JumpToPast(index int) Action {
	return Action{Kind: KindJumpToPast, Type: TypeJumpToPast, Index: index}
}

// JumpToFuture creates an action that makes future[index] the present.
func JumpToFuture(index int) Action {
	return Action{Kind: KindJumpToFuture, Type: TypeJumpToFuture, Index: index}
}

// ClearHistory creates an action that drops past and future.
func ClearHistory() Action {
	return Action{Kind: KindClearHistory, Type: TypeClearHistory}
}

// IsControl reports whether the action is handled by the history itself.
func (a Action) IsControl() bool {
	return a.Kind != KindForward
}

// String renders the action the way Parse reads it.
func (a Action) String() string {
	switch a.Kind {
	case KindJump:
		return fmt.Sprintf("%s %d", a.Type, a.Steps)
	case KindJumpToPast, KindJumpToFuture:
		return fmt.Sprintf("%s %d", a.Type, a.Index)
	default:
		if a.Payload != nil {
			return fmt.Sprintf("%s %v", a.Type, a.Payload)
		}
		return a.Type
	}
}

// Parse builds an action from a textual line such as "UNDO", "JUMP -2" or
// "INCREMENT". Reserved type names become control actions; anything else is
// forwarded with the remainder of the line as a string payload.
func Parse(line string) (Action, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Action{}, ErrEmptyAction
	}
	typ := fields[0]
	args := fields[1:]

	switch typ {
	case TypeUndo:
		return Undo(), nil
	case TypeRedo:
		return Redo(), nil
	case TypeClearHistory:
		return ClearHistory(), nil
	case TypeJump, TypeJumpToPast, TypeJumpToFuture:
		if len(args) != 1 {
			return Action{}, &ParseError{Line: line, Message: typ + " takes exactly one integer argument"}
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return Action{}, &ParseError{Line: line, Message: "invalid integer " + strconv.Quote(args[0]), Err: err}
		}
		switch typ {
		case TypeJump:
			return Jump(n), nil
		case TypeJumpToPast:
			return JumpToPast(n), nil
		default:
			return JumpToFuture(n), nil
		}
	}

	if len(args) > 0 {
		return New(typ, strings.Join(args, " ")), nil
	}
	return New(typ, nil), nil
}
