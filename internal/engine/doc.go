// Package engine turns a plain reducer into an undoable one.
//
// A base reducer is a pure function from (state, action) to a new state.
// New wraps it so that every accepted result is recorded in a history.History
// and the control actions from the action package move through that history
// without ever calling the base reducer.
//
// # Basic Usage
//
//	counter := func(n int, a action.Action) int {
//	    switch a.Type {
//	    case "INCREMENT":
//	        return n + 1
//	    case "DECREMENT":
//	        return n - 1
//	    }
//	    return n
//	}
//
//	u := engine.New(counter, 0, engine.WithLimit[int](100))
//
//	h := u.Reduce(nil, action.New(action.TypeInit, nil)) // present 0
//	h = u.Reduce(h, action.New("INCREMENT", nil))        // past [0], present 1
//	h = u.Reduce(h, action.Undo())                       // present 0, future [1]
//
// # Transition Order
//
// Reduce classifies each action in this order:
//
//  1. nil history: initialize (see Init)
//  2. action type in InitTypes: reset to the base reducer's initial state
//  3. control action: undo, redo, jump, jump to past/future, clear
//  4. anything else: run the base reducer and record the result unless it is
//     unchanged or rejected by the filter
//
// # Filtering
//
// A rejected result does not touch Past or Future and, unless SyncFilter is
// set, does not replace Present either. It is remembered as the latest
// unfiltered state and the base reducer continues from it, so the next
// accepted action carries the filtered changes into the timeline.
//
// # Host Boundary
//
// Hosts initialize with an Input: Empty, FromState or FromHistory. A host
// that swaps reducers passes FromHistory with what it holds and the new
// reducer adopts it, so past, present and future survive the swap.
//
// # Errors
//
// Nothing in this package returns an error or panics on bad input.
// Out-of-range jumps, undo with an empty past and redo with an empty future
// all return the history unchanged.
package engine
