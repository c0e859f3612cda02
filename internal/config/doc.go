// Package config turns settings files and environment variables into
// engine options.
//
// Settings are layered with later sources overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. REWIND_* environment    │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Settings file           │  ← --config rewind.toml / rewind.yaml
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - watcher: File watching for live reload
//
// # Basic Usage
//
//	s, err := config.Load(config.DefaultSource("rewind.toml"))
//	if err != nil {
//	    return err
//	}
//	u := engine.New(reduce, initial, config.Options[State](s, logger)...)
//
// # Configuration Files
//
//	limit = 50
//	init_types = ["RESET"]
//
//	[filter]
//	exclude = ["DECREMENT"]
//	exclude_patterns = ["^@@"]
//	distinct = true
//
//	[group]
//	types = ["DRAG"]
//
// init_types and every list under [filter] and [group] also accept a single
// string.
//
// # Error Handling
//
// Files that do not parse fail with a *loader.ParseError. Values of the
// wrong shape fail with one *ValidationError per key, joined, each
// wrapping a sentinel such as ErrInvalidLimit or ErrInvalidPattern.
package config
