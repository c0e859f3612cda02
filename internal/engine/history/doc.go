// Package history provides the immutable undo/redo timeline used by the
// undoable reducer.
//
// A History holds three pieces of state:
//
//   - Past: accepted states, oldest first
//   - Present: the current state
//   - Future: undone states, the next redo first
//
// # Transitions
//
// Every transition is a pure function from one *History to another:
//
//	h := history.New(0)
//	h = history.Insert(h, 1, -1, nil) // past [0], present 1
//	h = history.Undo(h)               // present 0, future [1]
//	h = history.Redo(h)               // past [0], present 1
//
// A transition that changes nothing returns its argument unchanged, so
// callers can use pointer identity to detect change. A transition that does
// change something never writes into the slices of its argument; returned
// slices may share backing arrays with the input but have their capacity
// clipped so appends always copy.
//
// # Limits
//
// Insert takes a limit on the length of Past. A negative limit is unbounded,
// zero disables recording entirely and a positive limit evicts the oldest
// entries first.
//
// # Grouping
//
// Insert also takes a group key. When the key is non-nil and equal to the
// key recorded with the present entry, the present is replaced instead of
// pushed, which collapses a run of related changes (a drag, a burst of
// typing) into a single undo step.
package history
