package theme

import (
	"sort"
	"sync"
)

// Registry stores theme configs by name. Add overwrites an existing entry with
// the same name (last write wins). It is built once and read many times.
type Registry struct {
	mu     sync.RWMutex
	themes map[string]Config
}

// NewRegistry creates an empty registry, optionally seeded with configs.
func NewRegistry(configs ...Config) *Registry {
	r := &Registry{themes: make(map[string]Config, len(configs))}
	for _, cfg := range configs {
		r.Add(cfg)
	}
	return r
}

// Add registers cfg under its name, replacing any previous entry.
func (r *Registry) Add(cfg Config) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.themes == nil {
		r.themes = make(map[string]Config)
	}
	r.themes[cfg.Name()] = cfg
}

// Has reports whether a theme is registered.
func (r *Registry) Has(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.themes[name]
	return ok
}

// Get returns the config for name or an ErrThemeNotFound error.
func (r *Registry) Get(name string) (Config, error) {
	if r == nil {
		return Config{}, themeNotFound(name)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	cfg, ok := r.themes[name]
	if !ok {
		return Config{}, themeNotFound(name)
	}
	return cfg, nil
}

// Names returns the registered theme names in sorted order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered themes.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.themes)
}
