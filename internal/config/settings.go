package config

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"regexp"
	"slices"

	"github.com/dshills/rewind/internal/engine"
)

// Settings is the file and environment form of an undoable reducer's
// configuration. Hooks that cannot be expressed in a file (custom
// predicates, equality) are left to code.
type Settings struct {
	// Limit bounds the past. -1 is unbounded, 0 disables recording.
	Limit int `toml:"limit" yaml:"limit"`

	// InitTypes replaces the default init types when non-nil. An empty,
	// non-nil list disables reinitialization.
	InitTypes []string `toml:"init_types" yaml:"init_types"`

	Debug              bool `toml:"debug" yaml:"debug"`
	NeverSkipReducer   bool `toml:"never_skip_reducer" yaml:"never_skip_reducer"`
	SyncFilter         bool `toml:"sync_filter" yaml:"sync_filter"`
	IgnoreInitialState bool `toml:"ignore_initial_state" yaml:"ignore_initial_state"`

	Filter FilterSettings `toml:"filter" yaml:"filter"`
	Group  GroupSettings  `toml:"group" yaml:"group"`
}

// FilterSettings selects which actions are recorded.
type FilterSettings struct {
	Exclude         []string `toml:"exclude" yaml:"exclude"`
	Include         []string `toml:"include" yaml:"include"`
	ExcludePatterns []string `toml:"exclude_patterns" yaml:"exclude_patterns"`
	IncludePatterns []string `toml:"include_patterns" yaml:"include_patterns"`

	// Distinct skips results structurally equal to the present.
	Distinct bool `toml:"distinct" yaml:"distinct"`
}

// GroupSettings selects actions whose consecutive results collapse into a
// single history entry.
type GroupSettings struct {
	Types    []string `toml:"types" yaml:"types"`
	Patterns []string `toml:"patterns" yaml:"patterns"`
}

// Default returns the settings equivalent to engine.DefaultConfig.
func Default() Settings {
	return Settings{Limit: engine.DefaultLimit}
}

// Parse validates a decoded settings map. Every problem is reported; the
// returned error joins one *ValidationError per offending key.
func Parse(data map[string]any) (Settings, error) {
	p := &parser{}
	s := Default()

	for _, key := range slices.Sorted(maps.Keys(data)) {
		v := data[key]
		switch key {
		case "limit":
			s.Limit = p.limit(key, v)
		case "init_types":
			s.InitTypes = p.stringList(key, v, ErrInvalidInitTypes)
			if s.InitTypes == nil {
				s.InitTypes = []string{}
			}
		case "debug":
			s.Debug = p.boolean(key, v)
		case "never_skip_reducer":
			s.NeverSkipReducer = p.boolean(key, v)
		case "sync_filter":
			s.SyncFilter = p.boolean(key, v)
		case "ignore_initial_state":
			s.IgnoreInitialState = p.boolean(key, v)
		case "filter":
			p.section(key, v, func(k string, v any) {
				path := key + "." + k
				switch k {
				case "exclude":
					s.Filter.Exclude = p.stringList(path, v, ErrTypeMismatch)
				case "include":
					s.Filter.Include = p.stringList(path, v, ErrTypeMismatch)
				case "exclude_patterns":
					s.Filter.ExcludePatterns = p.patterns(path, v)
				case "include_patterns":
					s.Filter.IncludePatterns = p.patterns(path, v)
				case "distinct":
					s.Filter.Distinct = p.boolean(path, v)
				default:
					p.unknown(path, v)
				}
			})
		case "group":
			p.section(key, v, func(k string, v any) {
				path := key + "." + k
				switch k {
				case "types":
					s.Group.Types = p.stringList(path, v, ErrTypeMismatch)
				case "patterns":
					s.Group.Patterns = p.patterns(path, v)
				default:
					p.unknown(path, v)
				}
			})
		default:
			p.unknown(key, v)
		}
	}

	if len(p.errs) > 0 {
		return Settings{}, errors.Join(p.errs...)
	}
	return s, nil
}

// parser accumulates validation errors while reading a settings map.
type parser struct {
	errs []error
}

func (p *parser) fail(path, msg string, v any, code ValidationErrorCode, err error) {
	p.errs = append(p.errs, &ValidationError{
		Path:    path,
		Message: msg,
		Value:   v,
		Code:    code,
		Err:     err,
	})
}

func (p *parser) unknown(path string, v any) {
	p.fail(path, "unknown setting", v, ErrCodeUnknownSetting, ErrUnknownSetting)
}

func (p *parser) section(path string, v any, fn func(key string, v any)) {
	m, ok := v.(map[string]any)
	if !ok {
		p.fail(path, fmt.Sprintf("expected a table, got %T", v), v, ErrCodeTypeMismatch, ErrTypeMismatch)
		return
	}
	for _, k := range slices.Sorted(maps.Keys(m)) {
		fn(k, m[k])
	}
}

func (p *parser) boolean(path string, v any) bool {
	b, ok := v.(bool)
	if !ok {
		p.fail(path, fmt.Sprintf("expected a boolean, got %T", v), v, ErrCodeTypeMismatch, ErrTypeMismatch)
	}
	return b
}

func (p *parser) limit(path string, v any) int {
	n, ok := toInt(v)
	if !ok {
		p.fail(path, fmt.Sprintf("expected an integer, got %T", v), v, ErrCodeTypeMismatch, ErrInvalidLimit)
		return engine.DefaultLimit
	}
	if n < -1 {
		p.fail(path, "must be -1 (unbounded), 0 or positive", v, ErrCodeOutOfRange, ErrInvalidLimit)
		return engine.DefaultLimit
	}
	return n
}

// stringList accepts a single string or a list of strings.
func (p *parser) stringList(path string, v any, sentinel error) []string {
	switch x := v.(type) {
	case string:
		return []string{x}
	case []string:
		return slices.Clone(x)
	case []any:
		out := make([]string, 0, len(x))
		for i, item := range x {
			s, ok := item.(string)
			if !ok {
				p.fail(fmt.Sprintf("%s[%d]", path, i), fmt.Sprintf("expected a string, got %T", item), item, ErrCodeTypeMismatch, sentinel)
				continue
			}
			out = append(out, s)
		}
		return out
	default:
		p.fail(path, fmt.Sprintf("expected a string or a list of strings, got %T", v), v, ErrCodeTypeMismatch, sentinel)
		return nil
	}
}

func (p *parser) patterns(path string, v any) []string {
	exprs := p.stringList(path, v, ErrTypeMismatch)
	for i, expr := range exprs {
		if _, err := regexp.Compile(expr); err != nil {
			p.fail(fmt.Sprintf("%s[%d]", path, i), err.Error(), expr, ErrCodePatternMismatch,
				fmt.Errorf("%w: %w", ErrInvalidPattern, err))
		}
	}
	return exprs
}

// toInt accepts the integer types produced by the TOML, YAML and env
// loaders, and floats with no fractional part.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case uint64:
		if n > math.MaxInt {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}
