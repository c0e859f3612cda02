package config

import (
	"log/slog"
	"regexp"

	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/engine/filter"
)

// Options converts settings into engine options for state type S.
// Patterns must already be valid, which Parse guarantees.
func Options[S any](s Settings, logger *slog.Logger) []engine.Option[S] {
	opts := []engine.Option[S]{
		engine.WithLimit[S](s.Limit),
		engine.WithDebug[S](s.Debug),
	}
	if logger != nil {
		opts = append(opts, engine.WithLogger[S](logger))
	}
	if s.InitTypes != nil {
		opts = append(opts, engine.WithInitTypes[S](s.InitTypes...))
	}
	if s.NeverSkipReducer {
		opts = append(opts, engine.WithNeverSkipReducer[S]())
	}
	if s.SyncFilter {
		opts = append(opts, engine.WithSyncFilter[S]())
	}
	if s.IgnoreInitialState {
		opts = append(opts, engine.WithIgnoreInitialState[S]())
	}

	if preds := filters[S](s.Filter); len(preds) > 0 {
		opts = append(opts, engine.WithFilter(preds...))
	}

	var group []filter.Matcher
	group = append(group, filter.Types(s.Group.Types...)...)
	group = append(group, matchers(s.Group.Patterns)...)
	if len(group) > 0 {
		opts = append(opts, engine.WithGroupBy(filter.GroupByMatching[S](group...)))
	}

	return opts
}

func filters[S any](f FilterSettings) []filter.Predicate[S] {
	var preds []filter.Predicate[S]

	if len(f.Exclude) > 0 || len(f.ExcludePatterns) > 0 {
		ms := append(filter.Types(f.Exclude...), matchers(f.ExcludePatterns)...)
		preds = append(preds, filter.ExcludeMatching[S](ms...))
	}
	if len(f.Include) > 0 || len(f.IncludePatterns) > 0 {
		ms := append(filter.Types(f.Include...), matchers(f.IncludePatterns)...)
		preds = append(preds, filter.IncludeMatching[S](ms...))
	}
	if f.Distinct {
		preds = append(preds, filter.DistinctState[S]())
	}

	return preds
}

func matchers(exprs []string) []filter.Matcher {
	ms := make([]filter.Matcher, 0, len(exprs))
	for _, expr := range exprs {
		ms = append(ms, filter.Regexp(regexp.MustCompile(expr)))
	}
	return ms
}
