// Package store is a minimal host container for undoable reducers.
//
// A Store owns the current history, runs every dispatched action through
// its reducer and tells subscribers about the result. It is the reference
// integration for the engine package: it initializes the reducer with a
// typed engine.Input and, when the reducer is replaced, hands the new one
// the history it already holds so nothing is lost.
package store

import (
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/engine/action"
	"github.com/dshills/rewind/internal/engine/history"
)

// Listener is called after each dispatch with the state before and after.
// prev == next when the action changed nothing.
type Listener[S any] func(prev, next *history.History[S], a action.Action)

type subscriber[S any] struct {
	id string
	fn Listener[S]
}

// Store holds a history and the reducer that produces it.
// All methods are safe for concurrent use; dispatches are serialized.
type Store[S any] struct {
	mu      sync.Mutex
	reducer engine.Reducer[S]
	state   *history.History[S]
	subs    []subscriber[S]
	opts    options
}

// New creates a store, initializing r with preload and the init action.
func New[S any](r engine.Reducer[S], preload engine.Input[S], opts ...Option) *Store[S] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store[S]{
		reducer: r,
		opts:    o,
	}
	s.state = r.Init(preload, action.New(action.TypeInit, nil))
	s.opts.metrics.observe(len(s.state.Past), len(s.state.Future))
	return s
}

// State returns the current history.
func (s *Store[S]) State() *history.History[S] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Present is shorthand for State().Present.
func (s *Store[S]) Present() S {
	return s.State().Present
}

// Dispatch runs a through the reducer and returns the new history. If the
// reducer panics the state is kept and an error wrapping ErrPanic is
// returned.
func (s *Store[S]) Dispatch(a action.Action) (*history.History[S], error) {
	start := time.Now()

	s.mu.Lock()
	prev := s.state
	next, err := s.reduce(prev, a)
	if err == nil {
		s.state = next
	} else {
		next = prev
	}
	subs := s.subs
	s.mu.Unlock()

	s.opts.metrics.recordDispatch(a, prev == next, time.Since(start), err)
	if err != nil {
		s.opts.logger.Error("dispatch failed", "action", a.Type, "error", err)
		return prev, err
	}
	s.opts.metrics.observe(len(next.Past), len(next.Future))

	for _, sub := range subs {
		sub.fn(prev, next, a)
	}
	return next, nil
}

// MustDispatch dispatches a and panics on error.
func (s *Store[S]) MustDispatch(a action.Action) *history.History[S] {
	h, err := s.Dispatch(a)
	if err != nil {
		panic(err)
	}
	return h
}

// ReplaceReducer swaps in r. The new reducer is initialized with the
// current history, which it adopts, and subscribers are notified with the
// replace action. If r panics while adopting the history, the old reducer
// and state are kept and an error wrapping ErrPanic is returned.
func (s *Store[S]) ReplaceReducer(r engine.Reducer[S]) error {
	if isNil(r) {
		return ErrNilReducer
	}
	a := action.New(action.TypeReplace, nil)

	s.mu.Lock()
	prev := s.state
	next, err := guard(a, func() *history.History[S] {
		return r.Init(engine.FromHistory(prev), a)
	})
	if err != nil {
		s.mu.Unlock()
		s.opts.logger.Error("reducer replacement failed", "error", err)
		return err
	}
	s.reducer = r
	s.state = next
	subs := s.subs
	s.mu.Unlock()

	s.opts.metrics.recordReplace()
	s.opts.metrics.observe(len(next.Past), len(next.Future))
	s.opts.logger.Debug("reducer replaced", "past", len(next.Past), "future", len(next.Future))

	for _, sub := range subs {
		sub.fn(prev, next, a)
	}
	return nil
}

// Subscribe registers l and returns its id and a function that removes it.
func (s *Store[S]) Subscribe(l Listener[S]) (string, func()) {
	id := uuid.New().String()

	s.mu.Lock()
	// Copy so a dispatch in flight keeps iterating the old slice.
	subs := make([]subscriber[S], len(s.subs), len(s.subs)+1)
	copy(subs, s.subs)
	s.subs = append(subs, subscriber[S]{id: id, fn: l})
	s.mu.Unlock()

	return id, func() { s.Unsubscribe(id) }
}

// Unsubscribe removes the listener with the given id.
// It returns false if no such listener exists.
func (s *Store[S]) Unsubscribe(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id != id {
			continue
		}
		subs := make([]subscriber[S], 0, len(s.subs)-1)
		subs = append(subs, s.subs[:i]...)
		s.subs = append(subs, s.subs[i+1:]...)
		return true
	}
	return false
}

// reduce calls the reducer with panic recovery. Callers hold s.mu.
func (s *Store[S]) reduce(h *history.History[S], a action.Action) (*history.History[S], error) {
	return guard(a, func() *history.History[S] {
		return s.reducer.Reduce(h, a)
	})
}

// guard runs fn and turns a panic into an error wrapping ErrPanic.
func guard[S any](a action.Action, fn func() *history.History[S]) (next *history.History[S], err error) {
	defer func() {
		if r := recover(); r != nil {
			stack := make([]byte, 4096)
			n := runtime.Stack(stack, false)
			err = fmt.Errorf("%w for %s: %v\n%s", ErrPanic, a.Type, r, stack[:n])
		}
	}()
	return fn(), nil
}

// isNil reports whether r is nil or an interface holding a nil pointer.
func isNil(r any) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Pointer, reflect.Func, reflect.Map, reflect.Slice, reflect.Interface, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// options configures a Store.
type options struct {
	logger  *slog.Logger
	metrics *Metrics
}

func defaultOptions() options {
	return options{logger: slog.Default()}
}

// Option configures a Store.
type Option func(*options)

// WithLogger sets the logger for dispatch failures and replacements.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMetrics records dispatch statistics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
