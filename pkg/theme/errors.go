package theme

import (
	"errors"
	"fmt"
)

// ErrorKind classifies theme failures.
type ErrorKind int

const (
	// KindInvalidConfiguration covers bad constructor input, missing manifest
	// fields and missing directories.
	KindInvalidConfiguration ErrorKind = iota + 1
	// KindThemeNotFound means a name is not present in the registry.
	KindThemeNotFound
	// KindTemplateNotFound means the chain was exhausted without a match.
	KindTemplateNotFound
	// KindCircularInheritance means the parent chain revisited a theme.
	KindCircularInheritance
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidConfiguration:
		return "invalid configuration"
	case KindThemeNotFound:
		return "theme not found"
	case KindTemplateNotFound:
		return "template not found"
	case KindCircularInheritance:
		return "circular inheritance"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is checks against *Error values.
var (
	ErrInvalidConfiguration = &Error{Kind: KindInvalidConfiguration}
	ErrThemeNotFound        = &Error{Kind: KindThemeNotFound}
	ErrTemplateNotFound     = &Error{Kind: KindTemplateNotFound}
	ErrCircularInheritance  = &Error{Kind: KindCircularInheritance}
)

// Error is the single error type returned by this package. Theme and Path are
// filled when they are known for the failing call.
type Error struct {
	Kind    ErrorKind
	Theme   string
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil {
		return fmt.Sprintf("theme: %s: %v", msg, e.Err)
	}
	return "theme: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can compare against the
// package sentinels.
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return other.Kind == e.Kind
}

// KindOf returns the kind carried by err, or 0 when err is not a theme error.
func KindOf(err error) ErrorKind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return 0
}

func invalidConfig(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidConfiguration, Message: fmt.Sprintf(format, args...)}
}

func themeNotFound(name string) *Error {
	return &Error{
		Kind:    KindThemeNotFound,
		Theme:   name,
		Message: fmt.Sprintf("theme %q not registered", name),
	}
}

func templateNotFound(name, rel string) *Error {
	return &Error{
		Kind:    KindTemplateNotFound,
		Theme:   name,
		Path:    rel,
		Message: fmt.Sprintf("template %q not found for theme %q", rel, name),
	}
}

func circularInheritance(name string) *Error {
	return &Error{
		Kind:    KindCircularInheritance,
		Theme:   name,
		Message: fmt.Sprintf("circular theme inheritance detected at %q", name),
	}
}
