package action

import (
	"errors"
	"fmt"
)

// ErrEmptyAction indicates a blank line was given to Parse.
var ErrEmptyAction = errors.New("empty action")

// ParseError describes a line Parse could not turn into an action.
type ParseError struct {
	Line    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse action %q: %s", e.Line, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
