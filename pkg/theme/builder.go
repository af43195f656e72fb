package theme

import "fmt"

// Builder tracks the active theme for one request or session and delegates
// lookups to a Resolver. The active theme is held by name, not by Config, so
// a registry that drops a theme surfaces as ErrThemeNotFound on next use.
//
// A Builder is not safe for concurrent mutation. Create one per request, or
// Clone a bootstrapped Builder.
type Builder struct {
	registry    *Registry
	resolver    *Resolver
	activeTheme string
}

// NewBuilder validates defaultTheme against the registry and returns a
// Builder with it active. A nil resolver is replaced with NewResolver().
func NewBuilder(registry *Registry, resolver *Resolver, defaultTheme string) (*Builder, error) {
	if defaultTheme == "" {
		return nil, invalidConfig("default theme cannot be empty")
	}
	if !registry.Has(defaultTheme) {
		err := themeNotFound(defaultTheme)
		err.Message = fmt.Sprintf("default theme %q is not registered", defaultTheme)
		return nil, err
	}
	if resolver == nil {
		resolver = NewResolver()
	}
	return &Builder{
		registry:    registry,
		resolver:    resolver,
		activeTheme: defaultTheme,
	}, nil
}

// Current returns the active theme name.
func (b *Builder) Current() string {
	return b.activeTheme
}

// UseTheme switches the active theme. The previous theme stays active when
// name is empty or unregistered.
func (b *Builder) UseTheme(name string) error {
	if name == "" {
		return invalidConfig("theme name cannot be empty")
	}
	if !b.registry.Has(name) {
		return themeNotFound(name)
	}
	b.activeTheme = name
	return nil
}

// Template resolves relativePath through the active theme's chain.
func (b *Builder) Template(relativePath string) (string, error) {
	return b.resolver.ResolveTemplate(b.registry, b.activeTheme, relativePath)
}

// Asset returns the public URL of relativePath for the active theme.
func (b *Builder) Asset(relativePath string) (string, error) {
	return b.resolver.BuildAssetURL(b.registry, b.activeTheme, relativePath)
}

// Chain returns the active theme's inheritance chain, e.g.
// ["tenant-a", "dark", "default"].
func (b *Builder) Chain() ([]string, error) {
	return b.resolver.Chain(b.registry, b.activeTheme)
}

// Candidates lists the paths Template would check for relativePath.
func (b *Builder) Candidates(relativePath string) ([]string, error) {
	return b.resolver.ResolveCandidates(b.registry, b.activeTheme, relativePath)
}

// Registry exposes the backing registry, e.g. for listing themes in an admin
// screen.
func (b *Builder) Registry() *Registry {
	return b.registry
}

// Clone returns an independent Builder sharing the registry and resolver.
// Switching themes on the clone does not affect b.
func (b *Builder) Clone() *Builder {
	clone := *b
	return &clone
}
