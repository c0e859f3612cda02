package filter

import (
	"reflect"

	"github.com/dshills/rewind/internal/engine/action"
	"github.com/dshills/rewind/internal/engine/history"
)

// DistinctState creates a filter that rejects a transition when next equals
// the current present. The first comparator given is used; without one,
// states are compared structurally with reflect.DeepEqual.
func DistinctState[S any](equal ...func(a, b S) bool) Predicate[S] {
	eq := DeepEqual[S]
	if len(equal) > 0 && equal[0] != nil {
		eq = equal[0]
	}
	return func(_ action.Action, next S, h *history.History[S]) bool {
		return !eq(next, h.Present)
	}
}

// DeepEqual compares two states structurally.
func DeepEqual[S any](a, b S) bool {
	return reflect.DeepEqual(a, b)
}

// Identical compares two states the way a change check should: pointers,
// maps, slices and funcs by identity, everything else with ==. States whose
// type cannot be compared are never identical, so they always count as a
// change.
func Identical[S any](a, b S) (same bool) {
	va, vb := any(a), any(b)
	if va == nil || vb == nil {
		return va == nil && vb == nil
	}
	t := reflect.TypeOf(va)
	if t != reflect.TypeOf(vb) {
		return false
	}
	switch t.Kind() {
	case reflect.Slice:
		ra, rb := reflect.ValueOf(va), reflect.ValueOf(vb)
		return ra.Pointer() == rb.Pointer() && ra.Len() == rb.Len()
	case reflect.Map, reflect.Func:
		return reflect.ValueOf(va).Pointer() == reflect.ValueOf(vb).Pointer()
	}
	if !t.Comparable() {
		return false
	}
	// Comparable structs can still hold uncomparable values in interface
	// fields.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return va == vb
}
