package theme

import (
	"os"
	"path/filepath"
	"strings"
)

// Config describes a single theme. It is immutable once constructed; use
// NewConfig to build one.
type Config struct {
	name         string
	path         string
	parent       string
	assetBaseURL string
}

// NewConfig validates and normalises a theme definition. path must be an
// existing directory and is cleaned of trailing separators. assetBaseURL is
// stored without its trailing slash. An empty parent means the theme is a
// root of its chain.
func NewConfig(name, path, parent, assetBaseURL string) (Config, error) {
	if name == "" {
		return Config{}, invalidConfig("theme name cannot be empty")
	}
	if path == "" {
		return Config{}, invalidConfig("theme %q path cannot be empty", name)
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		cfgErr := invalidConfig("theme %q path %q must be an existing directory", name, path)
		cfgErr.Theme, cfgErr.Path, cfgErr.Err = name, path, err
		return Config{}, cfgErr
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		cfgErr := invalidConfig("theme %q path %q cannot be made absolute", name, path)
		cfgErr.Theme, cfgErr.Path, cfgErr.Err = name, path, err
		return Config{}, cfgErr
	}

	base := strings.TrimRight(assetBaseURL, "/")
	if base == "" {
		return Config{}, invalidConfig("theme %q asset base URL cannot be empty", name)
	}

	return Config{
		name:         name,
		path:         abs,
		parent:       parent,
		assetBaseURL: base,
	}, nil
}

// MustConfig panics when NewConfig fails. Useful for init-time wiring.
func MustConfig(name, path, parent, assetBaseURL string) Config {
	cfg, err := NewConfig(name, path, parent, assetBaseURL)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Name returns the unique theme identifier.
func (c Config) Name() string { return c.name }

// Path returns the theme's views directory as an absolute path.
func (c Config) Path() string { return c.path }

// Parent returns the parent theme name, or "" for a root theme.
func (c Config) Parent() string { return c.parent }

// HasParent reports whether the theme inherits from another theme.
func (c Config) HasParent() bool { return c.parent != "" }

// AssetBaseURL returns the public base URL for the theme's assets.
func (c Config) AssetBaseURL() string { return c.assetBaseURL }
