package template

import (
	"io"
)

// TemplateRenderer mirrors the github.com/goliatone/go-template engine
// contract, extended with RenderSource so callers that locate files
// themselves (theme resolution) can hand the engine raw template bytes.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	// RenderSource compiles source under the cache key name and executes it.
	RenderSource(name string, source []byte, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
	// ResetCache drops every compiled template.
	ResetCache()
}
