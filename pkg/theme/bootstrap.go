package theme

import (
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// BootstrapOption configures directory discovery.
type BootstrapOption func(*bootstrapConfig)

type bootstrapConfig struct {
	logger   hclog.Logger
	resolver *Resolver
}

// WithLogger routes discovery diagnostics to logger.
func WithLogger(logger hclog.Logger) BootstrapOption {
	return func(cfg *bootstrapConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithResolver sets the resolver handed to the returned Builder.
func WithResolver(resolver *Resolver) BootstrapOption {
	return func(cfg *bootstrapConfig) {
		if resolver != nil {
			cfg.resolver = resolver
		}
	}
}

func newBootstrapConfig(options []BootstrapOption) *bootstrapConfig {
	cfg := &bootstrapConfig{logger: hclog.NewNullLogger()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}
	if cfg.resolver == nil {
		cfg.resolver = NewResolver()
	}
	return cfg
}

// InitFromDirectory discovers every theme under baseDir and returns a Builder
// with defaultTheme active. See LoadRegistry for the discovery rules.
func InitFromDirectory(baseDir, defaultTheme string, options ...BootstrapOption) (*Builder, error) {
	cfg := newBootstrapConfig(options)

	registry, err := loadRegistry(baseDir, cfg)
	if err != nil {
		return nil, err
	}
	return NewBuilder(registry, cfg.resolver, defaultTheme)
}

// LoadRegistry scans the immediate subdirectories of baseDir, one theme per
// subdirectory. Folders without a manifest are skipped. A malformed manifest,
// a missing assets_url or a missing views directory aborts the scan and no
// registry is returned.
func LoadRegistry(baseDir string, options ...BootstrapOption) (*Registry, error) {
	return loadRegistry(baseDir, newBootstrapConfig(options))
}

func loadRegistry(baseDir string, cfg *bootstrapConfig) (*Registry, error) {
	logger := cfg.logger

	if baseDir == "" {
		return nil, invalidConfig("themes base directory cannot be empty")
	}
	if !isDir(baseDir) {
		return nil, wrapConfigErr(nil, baseDir, "themes base directory %q is invalid or does not exist", baseDir)
	}
	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}

	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return nil, wrapConfigErr(err, baseDir, "scan themes directory %q", baseDir)
	}

	registry := NewRegistry()
	for _, entry := range entries {
		themeDir := filepath.Join(baseDir, entry.Name())
		// os.Stat follows symlinks to directories.
		if !isDir(themeDir) {
			continue
		}

		manifest, found, err := LoadManifest(themeDir)
		if err != nil {
			return nil, err
		}
		if !found {
			logger.Debug("skipping folder without manifest", "dir", themeDir)
			continue
		}

		if !isDir(manifest.ViewsPath) {
			return nil, wrapConfigErr(nil, manifest.ViewsPath, "theme %q views_path %q does not exist", manifest.Name, manifest.ViewsPath)
		}

		config, err := NewConfig(manifest.Name, manifest.ViewsPath, manifest.Parent, manifest.AssetsURL)
		if err != nil {
			return nil, err
		}
		if registry.Has(config.Name()) {
			logger.Warn("theme registered twice, keeping the last one", "theme", config.Name(), "manifest", manifest.Source)
		}
		registry.Add(config)
		logger.Debug("registered theme",
			"theme", config.Name(),
			"parent", config.Parent(),
			"views", config.Path(),
			"assets", config.AssetBaseURL(),
		)
	}

	logger.Debug("theme discovery complete", "dir", baseDir, "themes", registry.Len())
	return registry, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
