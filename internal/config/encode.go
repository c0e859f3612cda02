package config

import (
	"fmt"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dshills/rewind/internal/config/loader"
	"github.com/dshills/rewind/internal/engine"
)

// Encode writes s in the given format. Default init types are written out
// so the output parses back to settings with the same effect.
func Encode(w io.Writer, s Settings, format loader.Format) error {
	if s.InitTypes == nil {
		s.InitTypes = engine.DefaultInitTypes()
	}
	switch format {
	case loader.FormatTOML:
		return toml.NewEncoder(w).Encode(s)
	case loader.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", loader.ErrUnsupportedFormat, format)
	}
}
