package filter

import (
	"github.com/dshills/rewind/internal/engine/action"
	"github.com/dshills/rewind/internal/engine/history"
)

// GroupFunc returns the group key for a new state. A nil key always creates
// a new history entry; a key equal to the present entry's key replaces it.
type GroupFunc[S any] func(a action.Action, next S, h *history.History[S]) history.GroupKey

// GroupByActionType groups consecutive actions of the same listed type.
// Actions of other types are ungrouped.
func GroupByActionType[S any](types ...string) GroupFunc[S] {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return func(a action.Action, _ S, _ *history.History[S]) history.GroupKey {
		if set[a.Type] {
			return a.Type
		}
		return nil
	}
}

// GroupByMatching groups consecutive actions whose type matches one of ms. The key
// is the action type, so two different matching types still start separate
// entries.
func GroupByMatching[S any](ms ...Matcher) GroupFunc[S] {
	return func(a action.Action, _ S, _ *history.History[S]) history.GroupKey {
		if matchAny(ms, a.Type) {
			return a.Type
		}
		return nil
	}
}

// NoGroup never groups.
func NoGroup[S any](action.Action, S, *history.History[S]) history.GroupKey {
	return nil
}
