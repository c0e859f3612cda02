package history

import "reflect"

// SameGroup reports whether two group keys name the same group.
// nil never matches, not even another nil.
//
// Keys of comparable types are compared with ==; other keys fall back to
// reflect.DeepEqual so slice or map keys cannot panic.
func SameGroup(a, b GroupKey) bool {
	if a == nil || b == nil {
		return false
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	if !ta.Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}
