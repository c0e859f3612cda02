package history

import "reflect"

// shaped is implemented by every History instantiation.
type shaped interface {
	historyShape()
}

func (History[S]) historyShape() {}

// IsHistory reports whether v looks like a history.
//
// Typed values (History or a non-nil *History of any state type) always
// qualify. Untyped values, such as maps decoded from YAML or TOML, qualify
// when they have exactly the keys "past", "present" and "future" and both
// past and future are sequences.
func IsHistory(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(shaped); ok {
		rv := reflect.ValueOf(v)
		return rv.Kind() != reflect.Pointer || !rv.IsNil()
	}

	m, ok := v.(map[string]any)
	if !ok || len(m) != 3 {
		return false
	}
	if _, ok := m["present"]; !ok {
		return false
	}
	return isSequence(m["past"]) && isSequence(m["future"])
}

func isSequence(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Slice, reflect.Array:
		return true
	default:
		return false
	}
}
