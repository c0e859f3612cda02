package engine

import (
	"context"
	"log/slog"
	"slices"

	"github.com/dshills/rewind/internal/engine/action"
	"github.com/dshills/rewind/internal/engine/history"
)

// Re-export commonly used types for convenience.
type (
	// History is the past/present/future timeline.
	History[S any] = history.History[S]

	// Action is a message handed to a reducer.
	Action = action.Action
)

// BaseReducer is a pure state transition unaware of history.
type BaseReducer[S any] func(state S, a action.Action) S

// Reducer is what a host store drives: Init once with whatever it holds,
// then Reduce for every dispatched action.
type Reducer[S any] interface {
	Init(in Input[S], a action.Action) *history.History[S]
	Reduce(h *history.History[S], a action.Action) *history.History[S]
}

// Undoable wraps a base reducer with undo/redo history.
//
// An Undoable holds no mutable state; its methods are safe to call from
// several goroutines as long as the base reducer and hooks are.
type Undoable[S any] struct {
	base      BaseReducer[S]
	initial   S
	cfg       Config[S]
	initTypes map[string]bool
}

// New creates an undoable reducer around base. initial is the state base
// starts from when nothing else is known, the equivalent of the base
// reducer's default state.
func New[S any](base BaseReducer[S], initial S, opts ...Option[S]) *Undoable[S] {
	cfg := DefaultConfig[S]()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg = cfg.resolved()

	initTypes := make(map[string]bool, len(cfg.InitTypes))
	for _, t := range cfg.InitTypes {
		initTypes[t] = true
	}

	return &Undoable[S]{
		base:      base,
		initial:   initial,
		cfg:       cfg,
		initTypes: initTypes,
	}
}

// Config returns a copy of the resolved configuration.
func (u *Undoable[S]) Config() Config[S] {
	cfg := u.cfg
	cfg.InitTypes = slices.Clone(cfg.InitTypes)
	return cfg
}

// Init builds the first history from what the host holds. A history is
// adopted as is; a raw state becomes the present unless IgnoreInitialState
// is set; otherwise the base reducer is run on its initial state with a.
func (u *Undoable[S]) Init(in Input[S], a action.Action) *history.History[S] {
	var h *history.History[S]
	switch in.kind {
	case inputHistory:
		h = in.history
	case inputState:
		if u.cfg.IgnoreInitialState {
			h = u.seed(a)
		} else {
			h = history.New(in.state)
		}
	default:
		h = u.seed(a)
	}
	u.trace("init", a, nil, h)
	return h
}

// Reduce applies a to h and returns the resulting history. A nil h is
// treated as an uninitialized store. The returned pointer equals h exactly
// when nothing changed.
func (u *Undoable[S]) Reduce(h *history.History[S], a action.Action) *history.History[S] {
	if h == nil {
		return u.Init(Empty[S](), a)
	}

	if u.initTypes[a.Type] {
		next := u.seed(a)
		u.trace("reinit", a, h, next)
		return next
	}

	var next *history.History[S]
	switch a.Kind {
	case action.KindUndo:
		next = history.Undo(h)
	case action.KindRedo:
		next = history.Redo(h)
	case action.KindJump:
		next = history.Jump(h, a.Steps)
	case action.KindJumpToPast:
		next = history.JumpToPast(h, a.Index)
	case action.KindJumpToFuture:
		next = history.JumpToFuture(h, a.Index)
	case action.KindClearHistory:
		next = history.Clear(h)
	case action.KindForward:
		next = u.forward(h, a)
	default:
		next = h
	}

	u.trace(a.Kind.String(), a, h, next)
	return next
}

// forward runs the base reducer and folds its result into h.
func (u *Undoable[S]) forward(h *history.History[S], a action.Action) *history.History[S] {
	in := h.LatestUnfiltered()
	res := u.base(in, a)

	if !u.cfg.NeverSkipReducer && u.cfg.Equal(res, in) {
		return h
	}
	if !u.cfg.Filter(a, res, h) {
		if u.cfg.SyncFilter {
			return h.WithPresent(res)
		}
		return h.WithLatestUnfiltered(res)
	}
	return history.Insert(h, res, u.cfg.Limit, u.cfg.GroupBy(a, res, h))
}

// seed returns a fresh history around the base reducer's initial state.
func (u *Undoable[S]) seed(a action.Action) *history.History[S] {
	return history.New(u.base(u.initial, a))
}

func (u *Undoable[S]) trace(op string, a action.Action, before, after *history.History[S]) {
	if !u.cfg.Debug {
		return
	}
	u.cfg.Logger.LogAttrs(context.Background(), slog.LevelDebug, "undoable "+op,
		slog.String("action", a.Type),
		slog.Bool("changed", before != after),
		slog.Int("past", len(after.Past)),
		slog.Int("future", len(after.Future)),
		slog.Bool("filtered", after.HasUnfiltered()),
	)
}

// Reducer interface implementation.
var _ Reducer[int] = (*Undoable[int])(nil)
