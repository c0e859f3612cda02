package engine

import (
	"log/slog"

	"github.com/dshills/rewind/internal/engine/filter"
)

// Option configures an Undoable during creation.
type Option[S any] func(*Config[S])

// WithConfig replaces the whole configuration. Options after it still apply.
func WithConfig[S any](cfg Config[S]) Option[S] {
	return func(c *Config[S]) {
		*c = cfg
	}
}

// WithLimit sets the maximum number of past states.
// Negative means unbounded; zero disables recording.
func WithLimit[S any](limit int) Option[S] {
	return func(c *Config[S]) {
		c.Limit = limit
	}
}

// WithFilter sets the filter. Several filters are combined with AND.
func WithFilter[S any](preds ...filter.Predicate[S]) Option[S] {
	return func(c *Config[S]) {
		if len(preds) == 1 {
			c.Filter = preds[0]
			return
		}
		c.Filter = filter.CombineFilters(preds...)
	}
}

// WithGroupBy sets the grouping function.
func WithGroupBy[S any](fn filter.GroupFunc[S]) Option[S] {
	return func(c *Config[S]) {
		c.GroupBy = fn
	}
}

// WithInitTypes replaces the list of action types that reset history.
// Calling it with no types disables reinitialization.
func WithInitTypes[S any](types ...string) Option[S] {
	return func(c *Config[S]) {
		c.InitTypes = append([]string(nil), types...)
	}
}

// WithDebug enables debug logging of every transition.
func WithDebug[S any](enabled bool) Option[S] {
	return func(c *Config[S]) {
		c.Debug = enabled
	}
}

// WithNeverSkipReducer records results even when the base reducer returns
// its input unchanged.
func WithNeverSkipReducer[S any]() Option[S] {
	return func(c *Config[S]) {
		c.NeverSkipReducer = true
	}
}

// WithSyncFilter lets filtered-out results update the present.
func WithSyncFilter[S any]() Option[S] {
	return func(c *Config[S]) {
		c.SyncFilter = true
	}
}

// WithIgnoreInitialState seeds the present from the base reducer even when
// the host supplies a raw initial state.
func WithIgnoreInitialState[S any]() Option[S] {
	return func(c *Config[S]) {
		c.IgnoreInitialState = true
	}
}

// WithEqual sets the comparison used to detect unchanged results.
func WithEqual[S any](eq func(a, b S) bool) Option[S] {
	return func(c *Config[S]) {
		c.Equal = eq
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger[S any](logger *slog.Logger) Option[S] {
	return func(c *Config[S]) {
		c.Logger = logger
	}
}
