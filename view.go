package view

import (
	"errors"

	gotheme "github.com/goliatone/go-theme"

	pkgview "github.com/goliatone/go-view/pkg/view"
	"github.com/goliatone/go-view/pkg/theme"
)

// View aliases pkg/view.View so callers can stay on the root import.
type View = pkgview.View

// Config aliases pkg/view.Config.
type Config = pkgview.Config

// ThemeBuilder aliases theme.Builder, the per-request theme selector.
type ThemeBuilder = theme.Builder

// ThemeRegistry aliases theme.Registry.
type ThemeRegistry = theme.Registry

// InitThemes discovers every theme folder under themesDir and returns a
// Builder with defaultTheme active.
func InitThemes(themesDir, defaultTheme string, options ...theme.BootstrapOption) (*ThemeBuilder, error) {
	return theme.InitFromDirectory(themesDir, defaultTheme, options...)
}

// NewView builds a View that renders from viewsPath without themes.
func NewView(viewsPath string, cfgOptions []pkgview.ConfigOption, options ...pkgview.Option) (*View, error) {
	cfg, err := pkgview.NewConfig(viewsPath, cfgOptions...)
	if err != nil {
		return nil, err
	}
	return pkgview.New(cfg, options...)
}

// NewThemedView bootstraps themes from themesDir and returns a View bound to
// defaultTheme. The default theme's views directory doubles as the base for
// include and extends lookups.
func NewThemedView(themesDir, defaultTheme string, cfgOptions []pkgview.ConfigOption, options ...pkgview.Option) (*View, error) {
	builder, err := theme.InitFromDirectory(themesDir, defaultTheme)
	if err != nil {
		return nil, err
	}
	cfg, err := builder.Registry().Get(defaultTheme)
	if err != nil {
		return nil, err
	}
	options = append([]pkgview.Option{pkgview.WithThemeBuilder(builder)}, options...)
	return NewView(cfg.Path(), cfgOptions, options...)
}

// ThemeProvider exposes the themes known to builder as a go-theme provider.
func ThemeProvider(builder *ThemeBuilder) (gotheme.ThemeProvider, error) {
	if builder == nil {
		return nil, errors.New("view: theme builder is nil")
	}
	return theme.NewThemeProvider(builder.Registry())
}
