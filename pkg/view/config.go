package view

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-view/pkg/render/template/gotemplate"
)

const defaultExtension = ".html"

// Config holds renderer settings. Build it with NewConfig.
type Config struct {
	viewsPath     string
	debug         bool
	extension     string
	fragmentCache Cache
}

// ConfigOption customises a Config.
type ConfigOption func(*Config)

// WithDebug disables compiled template caching.
func WithDebug(debug bool) ConfigOption {
	return func(cfg *Config) {
		cfg.debug = debug
	}
}

// WithExtension sets the extension appended to logical template names
// (default ".html").
func WithExtension(ext string) ConfigOption {
	return func(cfg *Config) {
		if normalized := gotemplate.NormalizeExtension(ext); normalized != "" {
			cfg.extension = normalized
		}
	}
}

// WithFragmentCache sets the store used by Fragment. Defaults to NullCache.
func WithFragmentCache(cache Cache) ConfigOption {
	return func(cfg *Config) {
		if cache != nil {
			cfg.fragmentCache = cache
		}
	}
}

// NewConfig validates viewsPath, the directory used when no theme is active
// and as the base for include/extends lookups.
func NewConfig(viewsPath string, options ...ConfigOption) (Config, error) {
	info, err := os.Stat(viewsPath)
	if err != nil || !info.IsDir() {
		return Config{}, fmt.Errorf("view: views path %q is not a directory", viewsPath)
	}
	cfg := Config{
		viewsPath:     filepath.Clean(viewsPath),
		extension:     defaultExtension,
		fragmentCache: NullCache{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return cfg, nil
}

func (c Config) ViewsPath() string    { return c.viewsPath }
func (c Config) Debug() bool          { return c.debug }
func (c Config) Extension() string    { return c.extension }
func (c Config) FragmentCache() Cache { return c.fragmentCache }
