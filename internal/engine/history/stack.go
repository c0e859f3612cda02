package history

import (
	"slices"
)

// Insert records next as the new present.
//
// The old present is pushed onto Past unless limit is zero. When limit is
// positive and Past is already full, the oldest entries are evicted first so
// Past never holds more than limit states. Future is always cleared: a new
// change abandons the undone branch.
//
// If group is non-nil and equal to h.Group, the present is replaced in place
// and Past is left untouched.
func Insert[S any](h *History[S], next S, limit int, group GroupKey) *History[S] {
	if group != nil && SameGroup(group, h.Group) {
		return &History[S]{
			Past:    h.Past,
			Present: next,
			Group:   h.Group,
		}
	}

	var past []S
	switch {
	case limit == 0:
		// Recording disabled.
	case limit < 0:
		past = slices.Concat(h.Past, []S{h.Present})
	default:
		kept := h.Past
		if len(kept) >= limit {
			kept = kept[len(kept)-limit+1:]
		}
		past = slices.Concat(kept, []S{h.Present})
	}

	return &History[S]{
		Past:    clip(past),
		Present: next,
		Group:   group,
	}
}

// Undo moves the present into Future and restores the last past state.
// It returns h unchanged when there is nothing to undo.
func Undo[S any](h *History[S]) *History[S] {
	n := len(h.Past)
	if n == 0 {
		return h
	}
	return &History[S]{
		Past:    clip(h.Past[:n-1]),
		Present: h.Past[n-1],
		Future:  clip(slices.Concat([]S{h.Present}, h.Future)),
	}
}

// Redo moves the present into Past and restores the next future state.
// It returns h unchanged when there is nothing to redo.
func Redo[S any](h *History[S]) *History[S] {
	if len(h.Future) == 0 {
		return h
	}
	return &History[S]{
		Past:    clip(slices.Concat(h.Past, []S{h.Present})),
		Present: h.Future[0],
		Future:  clip(h.Future[1:]),
	}
}

// JumpToPast makes Past[index] the present. States after it, and the old
// present, move into Future in chronological order. Out-of-range indices
// return h unchanged.
func JumpToPast[S any](h *History[S], index int) *History[S] {
	if index < 0 || index >= len(h.Past) {
		return h
	}
	return &History[S]{
		Past:    clip(h.Past[:index]),
		Present: h.Past[index],
		Future:  clip(slices.Concat(h.Past[index+1:], []S{h.Present}, h.Future)),
	}
}

// JumpToFuture makes Future[index] the present. The old present and the
// future states before index move into Past. Out-of-range indices return h
// unchanged.
func JumpToFuture[S any](h *History[S], index int) *History[S] {
	if index < 0 || index >= len(h.Future) {
		return h
	}
	return &History[S]{
		Past:    clip(slices.Concat(h.Past, []S{h.Present}, h.Future[:index])),
		Present: h.Future[index],
		Future:  clip(h.Future[index+1:]),
	}
}

// Jump moves steps entries through the timeline: positive into the future,
// negative into the past. A jump that would run off either end does nothing.
func Jump[S any](h *History[S], steps int) *History[S] {
	switch {
	case steps > 0:
		return JumpToFuture(h, steps-1)
	case steps < 0:
		return JumpToPast(h, len(h.Past)+steps)
	default:
		return h
	}
}

// Clear drops Past and Future and keeps the present.
func Clear[S any](h *History[S]) *History[S] {
	return &History[S]{Present: h.Present}
}
