package theme

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// FileChecker reports whether a regular file exists at path. A false result
// with a nil error means "not here, keep walking"; a non-nil error aborts the
// resolution.
type FileChecker func(path string) (bool, error)

// ResolverOption customises a Resolver.
type ResolverOption func(*Resolver)

// WithFileChecker swaps the filesystem predicate used by ResolveTemplate.
func WithFileChecker(fn FileChecker) ResolverOption {
	return func(r *Resolver) {
		if fn != nil {
			r.isFile = fn
		}
	}
}

// Resolver walks theme parent chains. It holds no per-call state; every
// method takes the registry and the starting theme explicitly, so a single
// Resolver can serve concurrent requests.
type Resolver struct {
	isFile FileChecker
}

// NewResolver constructs a Resolver backed by the local filesystem unless a
// custom FileChecker is supplied.
func NewResolver(options ...ResolverOption) *Resolver {
	r := &Resolver{isFile: regularFileExists}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// ResolveTemplate returns the absolute path of relativePath in the nearest
// theme of the chain starting at themeName that contains it.
func (r *Resolver) ResolveTemplate(reg *Registry, themeName, relativePath string) (string, error) {
	rel := trimLeadingSeparators(relativePath)
	var found string

	err := r.walk(reg, themeName, func(cfg Config) (bool, error) {
		candidate := filepath.Join(cfg.Path(), rel)
		ok, err := r.checker()(candidate)
		if err != nil {
			return false, fmt.Errorf("theme: stat %q: %w", candidate, err)
		}
		if ok {
			found = candidate
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return "", err
	}
	if found == "" {
		return "", templateNotFound(themeName, relativePath)
	}
	return found, nil
}

// ResolveCandidates lists, in lookup order, every path ResolveTemplate would
// check for relativePath. The filesystem is not consulted.
func (r *Resolver) ResolveCandidates(reg *Registry, themeName, relativePath string) ([]string, error) {
	rel := trimLeadingSeparators(relativePath)
	var candidates []string

	err := r.walk(reg, themeName, func(cfg Config) (bool, error) {
		candidates = append(candidates, filepath.Join(cfg.Path(), rel))
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// BuildAssetURL joins the theme's asset base URL with relativeAssetPath. Only
// the named theme is consulted and the filesystem is never touched, since
// assets are often served from a CDN or a separate static pipeline.
func (r *Resolver) BuildAssetURL(reg *Registry, themeName, relativeAssetPath string) (string, error) {
	cfg, err := reg.Get(themeName)
	if err != nil {
		return "", err
	}
	url := cfg.AssetBaseURL() + "/" + strings.TrimLeft(relativeAssetPath, "/")
	return filepath.ToSlash(url), nil
}

// Chain returns the inheritance chain of themeName, child first and root last.
func (r *Resolver) Chain(reg *Registry, themeName string) ([]string, error) {
	var chain []string
	err := r.walk(reg, themeName, func(cfg Config) (bool, error) {
		chain = append(chain, cfg.Name())
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return chain, nil
}

// walk visits each theme from themeName up to its root. visit returns true to
// stop early. Revisiting a theme yields ErrCircularInheritance.
func (r *Resolver) walk(reg *Registry, themeName string, visit func(Config) (bool, error)) error {
	visited := make(map[string]struct{})

	current := themeName
	for {
		if _, seen := visited[current]; seen {
			return circularInheritance(current)
		}
		visited[current] = struct{}{}

		cfg, err := reg.Get(current)
		if err != nil {
			return err
		}

		done, err := visit(cfg)
		if err != nil {
			return err
		}
		if done || !cfg.HasParent() {
			return nil
		}
		current = cfg.Parent()
	}
}

func (r *Resolver) checker() FileChecker {
	if r == nil || r.isFile == nil {
		return regularFileExists
	}
	return r.isFile
}

func regularFileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func trimLeadingSeparators(p string) string {
	return strings.TrimLeft(p, `/`+string(filepath.Separator))
}
