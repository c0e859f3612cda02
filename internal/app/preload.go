package app

import (
	"fmt"
	"math"

	"github.com/dshills/rewind/internal/config/loader"
	"github.com/dshills/rewind/internal/engine"
	"github.com/dshills/rewind/internal/engine/history"
)

// LoadPreload reads the counter's initial value from a TOML or YAML file.
//
// A file with exactly the keys past, present and future is a saved history
// and is adopted as is. A file with the single key state is a raw value.
func LoadPreload(fsys loader.FileSystem, path string) (engine.Input[int], error) {
	data, err := loader.LoadFile(fsys, path)
	if err != nil {
		return engine.Empty[int](), err
	}

	in, err := decodePreload(data)
	if err != nil {
		return engine.Empty[int](), fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

func decodePreload(data map[string]any) (engine.Input[int], error) {
	if history.IsHistory(data) {
		past, err := intList(data["past"])
		if err != nil {
			return engine.Empty[int](), fmt.Errorf("past: %w", err)
		}
		present, err := toInt(data["present"])
		if err != nil {
			return engine.Empty[int](), fmt.Errorf("present: %w", err)
		}
		future, err := intList(data["future"])
		if err != nil {
			return engine.Empty[int](), fmt.Errorf("future: %w", err)
		}
		return engine.FromHistory(history.From(past, present, future)), nil
	}

	if v, ok := data["state"]; ok && len(data) == 1 {
		n, err := toInt(v)
		if err != nil {
			return engine.Empty[int](), fmt.Errorf("state: %w", err)
		}
		return engine.FromState(n), nil
	}

	return engine.Empty[int](), fmt.Errorf("%w: want past/present/future or state keys", ErrInvalidPreload)
}

func intList(v any) ([]int, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidPreload, v)
	}
	out := make([]int, len(items))
	for i, item := range items {
		n, err := toInt(item)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == math.Trunc(n) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("%w: expected an integer, got %v (%T)", ErrInvalidPreload, v, v)
}
