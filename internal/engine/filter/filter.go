// Package filter provides the predicates that decide which base reducer
// results become history entries, and the grouping functions that decide
// when consecutive results collapse into one entry.
package filter

import (
	"regexp"

	"github.com/dshills/rewind/internal/engine/action"
	"github.com/dshills/rewind/internal/engine/history"
)

// Predicate decides whether the transition to next should be recorded.
// h is the history before the transition.
type Predicate[S any] func(a action.Action, next S, h *history.History[S]) bool

// Matcher tests an action type.
type Matcher interface {
	Match(actionType string) bool
}

// exact matches one action type literally.
type exact string

func (e exact) Match(actionType string) bool {
	return string(e) == actionType
}

// pattern matches action types against a regular expression.
type pattern struct {
	re *regexp.Regexp
}

func (p pattern) Match(actionType string) bool {
	return p.re.MatchString(actionType)
}

// Exact returns a matcher for a single action type.
func Exact(actionType string) Matcher {
	return exact(actionType)
}

// Regexp returns a matcher that accepts action types matched by re.
func Regexp(re *regexp.Regexp) Matcher {
	return pattern{re: re}
}

// MustRegexp compiles expr and returns a matcher for it.
// It panics if expr is not a valid regular expression.
func MustRegexp(expr string) Matcher {
	return pattern{re: regexp.MustCompile(expr)}
}

// Types converts action type names to exact matchers.
func Types(types ...string) []Matcher {
	ms := make([]Matcher, len(types))
	for i, t := range types {
		ms[i] = exact(t)
	}
	return ms
}

func matchAny(ms []Matcher, actionType string) bool {
	for _, m := range ms {
		if m != nil && m.Match(actionType) {
			return true
		}
	}
	return false
}

// ExcludeAction creates a filter that rejects the listed action types.
func ExcludeAction[S any](types ...string) Predicate[S] {
	return ExcludeMatching[S](Types(types...)...)
}

// IncludeAction creates a filter that accepts only the listed action types.
func IncludeAction[S any](types ...string) Predicate[S] {
	return IncludeMatching[S](Types(types...)...)
}

// ExcludeMatching creates a filter that rejects actions whose type matches
// any of ms.
func ExcludeMatching[S any](ms ...Matcher) Predicate[S] {
	return func(a action.Action, _ S, _ *history.History[S]) bool {
		return !matchAny(ms, a.Type)
	}
}

// IncludeMatching creates a filter that accepts only actions whose type
// matches one of ms. With no matchers nothing is accepted.
func IncludeMatching[S any](ms ...Matcher) Predicate[S] {
	return func(a action.Action, _ S, _ *history.History[S]) bool {
		return matchAny(ms, a.Type)
	}
}

// CombineFilters combines predicates with logical AND. nil predicates are
// skipped; with none left the result accepts everything.
func CombineFilters[S any](preds ...Predicate[S]) Predicate[S] {
	active := make([]Predicate[S], 0, len(preds))
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	return func(a action.Action, next S, h *history.History[S]) bool {
		for _, p := range active {
			if !p(a, next, h) {
				return false
			}
		}
		return true
	}
}

// Not inverts a predicate.
func Not[S any](p Predicate[S]) Predicate[S] {
	return func(a action.Action, next S, h *history.History[S]) bool {
		return !p(a, next, h)
	}
}

// AcceptAll records every transition.
func AcceptAll[S any](action.Action, S, *history.History[S]) bool {
	return true
}
