package view

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	gotemplatepkg "github.com/goliatone/go-template"
	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-view/pkg/render/template/gotemplate"
	"github.com/goliatone/go-view/pkg/theme"
)

const fragmentKeyPrefix = "view_fragment:"

// Option customises a View.
type Option func(*View)

// WithThemeBuilder switches the View to theme mode: template names resolve
// through the builder's active theme chain.
func WithThemeBuilder(builder *theme.Builder) Option {
	return func(v *View) {
		v.builder = builder
	}
}

// WithTemplateFuncs registers extra functions callable from every template.
// Names that collide with theme_asset, view or fragment are shadowed.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(v *View) {
		if v.funcs == nil {
			v.funcs = make(map[string]any, len(funcs))
		}
		maps.Copy(v.funcs, funcs)
	}
}

// WithRenderHooks runs go-template hook chains around every render,
// nested view() and fragment() renders included.
func WithRenderHooks(chains ...*gotemplatepkg.HookChain) Option {
	return func(v *View) {
		v.hooks = append(v.hooks, chains...)
	}
}

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger hclog.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

type sharedData struct {
	mu     sync.RWMutex
	values map[string]any
}

func (s *sharedData) snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.values)
}

// View renders templates by logical name. A View is safe for concurrent use;
// per-request theme switches should go through WithTheme.
type View struct {
	cfg     Config
	engine  *gotemplate.Engine
	builder *theme.Builder
	funcs   map[string]any
	hooks   []*gotemplatepkg.HookChain
	logger  hclog.Logger
	shared  *sharedData
}

// New builds a View from cfg.
func New(cfg Config, options ...Option) (*View, error) {
	if cfg.viewsPath == "" {
		return nil, errors.New("view: config has no views path, use NewConfig")
	}

	v := &View{
		cfg:    cfg,
		logger: hclog.NewNullLogger(),
		shared: &sharedData{values: make(map[string]any)},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(v)
	}

	engine, err := gotemplate.New(
		gotemplate.WithBaseDir(cfg.viewsPath),
		gotemplate.WithExtension(cfg.extension),
		gotemplate.WithDebug(cfg.debug),
		gotemplate.WithTemplateFunc(v.funcs),
		gotemplate.WithRenderHooks(v.hooks...),
	)
	if err != nil {
		return nil, fmt.Errorf("view: create engine: %w", err)
	}
	v.engine = engine

	return v, nil
}

// Config returns the configuration the View was built with.
func (v *View) Config() Config {
	return v.cfg
}

// ThemeBuilder returns the attached builder, or nil outside theme mode.
func (v *View) ThemeBuilder() *theme.Builder {
	return v.builder
}

// WithTheme returns a copy of v bound to builder. The copy shares the engine,
// shared data and fragment cache with v.
func (v *View) WithTheme(builder *theme.Builder) *View {
	clone := *v
	clone.builder = builder
	return &clone
}

// Share makes value visible as key in every subsequent render.
func (v *View) Share(key string, value any) {
	v.shared.mu.Lock()
	defer v.shared.mu.Unlock()
	v.shared.values[key] = value
}

// Render renders the template called name with data merged over the shared
// values. name is a logical path like "home/index"; the configured extension
// is appended when missing.
func (v *View) Render(name string, data map[string]any) (string, error) {
	templateName, err := v.normalizeName(name)
	if err != nil {
		return "", &Error{Template: name, Err: err}
	}

	out, err := v.render(templateName, data)
	if err != nil {
		return "", &Error{Template: name, Err: err}
	}
	return out, nil
}

// Display renders name and writes the result to w.
func (v *View) Display(w io.Writer, name string, data map[string]any) error {
	out, err := v.Render(name, data)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Fragment returns the cached output stored under key, or calls produce and
// caches its result for ttl. Empty cached values count as a miss.
func (v *View) Fragment(key string, ttl time.Duration, produce func() (string, error)) (string, error) {
	if produce == nil {
		return "", fmt.Errorf("view: fragment %q has no producer", key)
	}

	cache := v.cfg.fragmentCache
	cacheKey := fragmentKeyPrefix + key

	cached, ok, err := cache.Get(cacheKey)
	if err != nil {
		v.logger.Warn("fragment cache read failed", "key", cacheKey, "error", err)
	} else if ok && cached != "" {
		return cached, nil
	}

	html, err := produce()
	if err != nil {
		return "", err
	}

	if err := cache.Set(cacheKey, html, ttl); err != nil {
		v.logger.Warn("fragment cache write failed", "key", cacheKey, "error", err)
	}
	return html, nil
}

// FragmentTemplate is Fragment with a template render as the producer.
func (v *View) FragmentTemplate(key string, ttl time.Duration, name string, data map[string]any) (string, error) {
	return v.Fragment(key, ttl, func() (string, error) {
		return v.Render(name, data)
	})
}

// ClearCache empties the fragment cache and drops compiled templates.
func (v *View) ClearCache() error {
	v.engine.ResetCache()
	if err := v.cfg.fragmentCache.Clear(); err != nil {
		return fmt.Errorf("view: clear fragment cache: %w", err)
	}
	return nil
}

func (v *View) render(templateName string, data map[string]any) (string, error) {
	ctx := v.shared.snapshot()
	maps.Copy(ctx, data)

	if v.builder == nil {
		v.bindFuncs(ctx)
		v.logger.Debug("rendering view", "template", templateName)
		return v.engine.RenderTemplate(templateName, ctx)
	}

	file, err := v.builder.Template(templateName)
	if err != nil {
		return "", err
	}
	chain, err := v.builder.Chain()
	if err != nil {
		return "", err
	}
	source, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read view file %q: %w", file, err)
	}

	ctx["_theme_name"] = v.builder.Current()
	ctx["_theme_chain"] = chain
	v.bindFuncs(ctx)

	v.logger.Debug("rendering themed view", "template", templateName, "theme", v.builder.Current(), "file", file)
	return v.engine.RenderSource(file, source, ctx)
}

func (v *View) normalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(filepath.ToSlash(name))
	trimmed = strings.TrimLeft(trimmed, "/")
	if trimmed == "" {
		return "", ErrInvalidTemplateName
	}
	for _, segment := range strings.Split(trimmed, "/") {
		if segment == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidTemplateName, name)
		}
	}
	if !strings.HasSuffix(trimmed, v.cfg.extension) {
		trimmed += v.cfg.extension
	}
	return trimmed, nil
}
