package engine

import (
	"log/slog"
	"slices"

	"github.com/dshills/rewind/internal/engine/filter"
)

// Default configuration values.
const (
	// DefaultLimit keeps every past state.
	DefaultLimit = -1

	// TypeInit is the namespaced init type owned by this package.
	TypeInit = "@@rewind/INIT"
)

// DefaultInitTypes returns the action types that reinitialize history when
// no WithInitTypes option is given.
func DefaultInitTypes() []string {
	return []string{"@@INIT", TypeInit}
}

// Config is the resolved configuration of an Undoable. Every field has a
// default; see DefaultConfig.
type Config[S any] struct {
	// Limit bounds the length of Past. Negative is unbounded, zero disables
	// recording. Default: DefaultLimit.
	Limit int

	// Filter decides whether a base reducer result is recorded.
	// Default: accept everything.
	Filter filter.Predicate[S]

	// GroupBy assigns group keys to new states. Default: no grouping.
	GroupBy filter.GroupFunc[S]

	// InitTypes lists the action types that reset history.
	// Default: DefaultInitTypes.
	InitTypes []string

	// Debug logs every transition at debug level.
	Debug bool

	// NeverSkipReducer records base reducer results even when they are
	// identical to the input state.
	NeverSkipReducer bool

	// SyncFilter makes filtered-out results update Present (but never Past
	// or Future). By default Present keeps the last recorded state and the
	// filtered result is only remembered as the latest unfiltered state.
	SyncFilter bool

	// IgnoreInitialState discards a raw initial state supplied by the host
	// and seeds Present from the base reducer instead. Supplied histories are
	// still adopted.
	IgnoreInitialState bool

	// Equal reports whether the base reducer left the state unchanged.
	// Default: filter.Identical.
	Equal func(a, b S) bool

	// Logger receives debug output. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig[S any]() Config[S] {
	return Config[S]{
		Limit:     DefaultLimit,
		InitTypes: DefaultInitTypes(),
	}
}

// resolved fills nil hooks with their defaults and detaches InitTypes from
// the caller's slice.
func (c Config[S]) resolved() Config[S] {
	if c.Filter == nil {
		c.Filter = filter.AcceptAll[S]
	}
	if c.GroupBy == nil {
		c.GroupBy = filter.NoGroup[S]
	}
	if c.Equal == nil {
		c.Equal = filter.Identical[S]
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	c.InitTypes = slices.Clone(c.InitTypes)
	return c
}
