package theme

import (
	"fmt"

	gotheme "github.com/goliatone/go-theme"
)

const manifestVersion = "1.0.0"

// Manifests converts every registered theme into a go-theme manifest so the
// discovered themes can drive go-theme selectors. The asset base URL becomes
// the manifest's asset prefix; the parent name is exposed as the "parent"
// token because go-theme manifests have no inheritance field.
func (r *Registry) Manifests() []*gotheme.Manifest {
	names := r.Names()
	out := make([]*gotheme.Manifest, 0, len(names))
	for _, name := range names {
		cfg, err := r.Get(name)
		if err != nil {
			continue
		}
		tokens := map[string]string{}
		if cfg.HasParent() {
			tokens["parent"] = cfg.Parent()
		}
		out = append(out, &gotheme.Manifest{
			Name:    cfg.Name(),
			Version: manifestVersion,
			Tokens:  tokens,
			Assets: gotheme.Assets{
				Prefix: cfg.AssetBaseURL(),
			},
		})
	}
	return out
}

// NewThemeProvider registers the registry's manifests with a fresh go-theme
// registry.
func NewThemeProvider(reg *Registry) (gotheme.ThemeProvider, error) {
	provider := gotheme.NewRegistry()
	for _, manifest := range reg.Manifests() {
		if err := provider.Register(manifest); err != nil {
			return nil, fmt.Errorf("theme: register %q with go-theme: %w", manifest.Name, err)
		}
	}
	return provider, nil
}
