package view

import (
	"fmt"
	"time"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-view/pkg/render/template/gotemplate"
)

// bindFuncs installs the core template functions into ctx. They are bound per
// render so theme_asset always sees the builder of the View doing the render.
func (v *View) bindFuncs(ctx map[string]any) {
	ctx["theme_asset"] = v.themeAsset
	ctx["view"] = v.viewFunc
	ctx["fragment"] = v.fragmentFunc
}

func (v *View) themeAsset(path string) (string, error) {
	if v.builder == nil {
		return path, nil
	}
	return v.builder.Asset(path)
}

func (v *View) viewFunc(name string, data ...any) (*pongo2.Value, error) {
	values, err := templateData(data)
	if err != nil {
		return nil, err
	}
	out, err := v.Render(name, values)
	if err != nil {
		return nil, err
	}
	return gotemplate.SafeHTML(out), nil
}

func (v *View) fragmentFunc(key string, ttlSeconds int, name string, data ...any) (*pongo2.Value, error) {
	values, err := templateData(data)
	if err != nil {
		return nil, err
	}
	ttl := time.Duration(ttlSeconds) * time.Second
	out, err := v.FragmentTemplate(key, ttl, name, values)
	if err != nil {
		return nil, err
	}
	return gotemplate.SafeHTML(out), nil
}

// templateData accepts the optional trailing data argument of view() and
// fragment(). Templates pass maps from the render context.
func templateData(args []any) (map[string]any, error) {
	if len(args) == 0 || args[0] == nil {
		return nil, nil
	}
	if len(args) > 1 {
		return nil, fmt.Errorf("view: expected at most one data argument, got %d", len(args))
	}
	switch data := args[0].(type) {
	case map[string]any:
		return data, nil
	case pongo2.Context:
		return map[string]any(data), nil
	default:
		return nil, fmt.Errorf("view: data argument must be a map, got %T", args[0])
	}
}
