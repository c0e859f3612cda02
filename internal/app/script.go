package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/rewind/internal/engine/action"
)

// ParseScript reads one action per line. Blank lines and lines starting
// with '#' are skipped. source names the script in errors.
func ParseScript(r io.Reader, source string) ([]action.Action, error) {
	var actions []action.Action

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		a, err := action.Parse(text)
		if err != nil {
			return nil, &ScriptError{Source: source, Line: line, Err: err}
		}
		actions = append(actions, a)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}

	return actions, nil
}
