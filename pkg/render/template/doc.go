// Package template defines the renderer-agnostic template contract used by the
// view layer. Implementations live in subpackages; gotemplate wraps pongo2.
package template
