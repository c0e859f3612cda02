package history

import (
	"fmt"
	"slices"
)

// GroupKey tags the present entry for grouping. nil means ungrouped.
type GroupKey = any

// History is the past/present/future timeline for states of type S.
// Values are treated as immutable once built.
type History[S any] struct {
	// Past holds accepted states, oldest first.
	Past []S

	// Present is the current state.
	Present S

	// Future holds undone states, the next redo first.
	Future []S

	// Group is the key recorded with Present, if any.
	Group GroupKey

	// latest is the last base reducer output, recorded or not.
	latest    S
	hasLatest bool
}

// New creates a history with only a present state.
func New[S any](present S) *History[S] {
	return &History[S]{Present: present}
}

// From creates a history from explicit past and future slices.
// The slices are copied.
func From[S any](past []S, present S, future []S) *History[S] {
	return &History[S]{
		Past:    clip(slices.Clone(past)),
		Present: present,
		Future:  clip(slices.Clone(future)),
	}
}

// CanUndo returns true if there is a past state to return to.
func (h *History[S]) CanUndo() bool {
	return len(h.Past) > 0
}

// CanRedo returns true if there is an undone state to restore.
func (h *History[S]) CanRedo() bool {
	return len(h.Future) > 0
}

// Len returns the total number of states in the timeline.
func (h *History[S]) Len() int {
	return len(h.Past) + 1 + len(h.Future)
}

// LatestUnfiltered returns the last state produced by the base reducer,
// including outputs that were filtered out of the timeline. It is Present
// when nothing has been filtered since the last recorded change.
func (h *History[S]) LatestUnfiltered() S {
	if h.hasLatest {
		return h.latest
	}
	return h.Present
}

// HasUnfiltered reports whether a filtered-out state is pending.
func (h *History[S]) HasUnfiltered() bool {
	return h.hasLatest
}

// WithLatestUnfiltered returns a copy of h that remembers s as the latest
// base reducer output without touching the timeline.
func (h *History[S]) WithLatestUnfiltered(s S) *History[S] {
	next := *h
	next.latest = s
	next.hasLatest = true
	return &next
}

// WithPresent returns a copy of h with a different present and no pending
// unfiltered state. Past, Future and Group are shared.
func (h *History[S]) WithPresent(s S) *History[S] {
	return &History[S]{
		Past:    h.Past,
		Present: s,
		Future:  h.Future,
		Group:   h.Group,
	}
}

// String renders the timeline for logs and the command line.
func (h *History[S]) String() string {
	if h == nil {
		return "<nil>"
	}
	return fmt.Sprintf("past=%v present=%v future=%v", h.Past, h.Present, h.Future)
}

// clip returns nil for an empty slice and otherwise limits capacity to
// length so appends never write into a shared array.
func clip[S any](s []S) []S {
	if len(s) == 0 {
		return nil
	}
	return s[:len(s):len(s)]
}
