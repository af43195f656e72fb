package view

import (
	"errors"
	"fmt"
)

// ErrInvalidTemplateName is returned for empty names and names that try to
// climb out of the views directory.
var ErrInvalidTemplateName = errors.New("view: invalid template name")

// Error wraps any failure that happens while rendering Template.
type Error struct {
	Template string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("view: failed to render %q: %v", e.Template, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
