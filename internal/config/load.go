package config

import (
	"fmt"

	"github.com/dshills/rewind/internal/config/loader"
)

// Source describes where settings come from. Later sources win.
type Source struct {
	// FS reads Path. Default: the OS file system.
	FS loader.FileSystem

	// Path is a TOML or YAML settings file. Empty skips the file.
	Path string

	// Env overrides file values. Nil skips the environment.
	Env loader.Loader
}

// DefaultSource reads path and REWIND_* environment variables.
func DefaultSource(path string) Source {
	return Source{
		FS:   loader.DefaultFS(),
		Path: path,
		Env:  loader.NewEnvLoader(loader.EnvPrefix),
	}
}

// Load reads, merges and validates the settings described by src.
func Load(src Source) (Settings, error) {
	merged := map[string]any{}

	if src.Path != "" {
		data, err := loader.LoadFile(src.FS, src.Path)
		if err != nil {
			return Settings{}, fmt.Errorf("loading settings: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	if src.Env != nil {
		data, err := src.Env.Load()
		if err != nil {
			return Settings{}, fmt.Errorf("loading environment: %w", err)
		}
		merged = loader.DeepMerge(merged, data)
	}

	s, err := Parse(merged)
	if err != nil {
		if src.Path != "" {
			return Settings{}, fmt.Errorf("invalid settings in %s: %w", src.Path, err)
		}
		return Settings{}, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}
