package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	gotemplatepkg "github.com/goliatone/go-template"

	"github.com/goliatone/go-view/pkg/render/template"
)

const defaultExtension = ".html"

// Option configures the engine before construction.
type Option func(*config)

type config struct {
	name       string
	baseDir    string
	templates  fs.FS
	extension  string
	debug      bool
	templateFn map[string]any
	globalData map[string]any
	hooks      []*gotemplatepkg.HookChain
}

// WithBaseDir loads named templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads named templates from an fs.FS.
func WithFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templates = files
	}
}

// WithExtension overrides the extension appended to bare template names.
func WithExtension(ext string) Option {
	return func(cfg *config) {
		if normalized := NormalizeExtension(ext); normalized != "" {
			cfg.extension = normalized
		}
	}
}

// WithDebug disables compiled template caching so edits on disk show up on
// the next render.
func WithDebug(debug bool) Option {
	return func(cfg *config) {
		cfg.debug = debug
	}
}

// WithSetName names the underlying pongo2 template set (shows up in errors).
func WithSetName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.name = trimmed
		}
	}
}

// WithTemplateFunc registers helper functions or filters when the engine loads.
// pongo2.FilterFunction values become filters; other funcs become globals.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(cfg *config) {
		if len(funcs) == 0 {
			return
		}
		if cfg.templateFn == nil {
			cfg.templateFn = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFn[strings.TrimSpace(name)] = fn
		}
	}
}

// WithGlobalData seeds global context values available to every template.
func WithGlobalData(data map[string]any) Option {
	return func(cfg *config) {
		if len(data) == 0 {
			return
		}
		if cfg.globalData == nil {
			cfg.globalData = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globalData[strings.TrimSpace(key)] = value
		}
	}
}

// WithRenderHooks runs go-template hook chains around every render. Pre
// hooks see the template name and may replace HookContext.Data before it is
// converted; post hooks receive the rendered Output and return the final
// text. Chains run in the order given.
func WithRenderHooks(chains ...*gotemplatepkg.HookChain) Option {
	return func(cfg *config) {
		for _, chain := range chains {
			if chain != nil {
				cfg.hooks = append(cfg.hooks, chain)
			}
		}
	}
}

// NormalizeExtension trims ext and ensures a leading dot. Empty input stays
// empty.
func NormalizeExtension(ext string) string {
	trimmed := strings.TrimSpace(ext)
	if trimmed == "" {
		return ""
	}
	if !strings.HasPrefix(trimmed, ".") {
		trimmed = "." + trimmed
	}
	return trimmed
}

type sourceEntry struct {
	source string
	tmpl   *pongo2.Template
}

// Engine satisfies template.TemplateRenderer using a pongo2 template set.
//
// mu guards the compiled template caches. globalsMu guards globals, which
// is replaced on write and copied into each render's context, so no lock is
// held while a template executes.
type Engine struct {
	mu        sync.RWMutex
	globalsMu sync.RWMutex

	templateSet *pongo2.TemplateSet
	templates   map[string]*pongo2.Template
	sources     map[string]sourceEntry
	globals     pongo2.Context
	hooks       *gotemplatepkg.HookChain
	tplExt      string
	debug       bool
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New constructs an Engine. At least one of WithBaseDir or WithFS is required.
func New(options ...Option) (*Engine, error) {
	cfg := &config{
		name:      "view",
		extension: defaultExtension,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	if cfg.baseDir == "" && cfg.templates == nil {
		return nil, errors.New("gotemplate: need to provide either base dir or fs.FS")
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}

	set := pongo2.NewSet(cfg.name, loaders...)
	set.Debug = cfg.debug

	engine := &Engine{
		templateSet: set,
		templates:   make(map[string]*pongo2.Template),
		sources:     make(map[string]sourceEntry),
		globals:     pongo2.Context{},
		tplExt:      cfg.extension,
		debug:       cfg.debug,
	}

	if len(cfg.hooks) > 0 {
		engine.hooks = gotemplatepkg.NewHookChain()
		for _, chain := range cfg.hooks {
			engine.hooks.AddPreHook(chain.AsPreHook())
			engine.hooks.AddPostHook(chain.AsPostHook())
		}
	}

	if err := engine.GlobalContext(cfg.globalData); err != nil {
		return nil, fmt.Errorf("gotemplate: apply global data: %w", err)
	}
	for name, fn := range cfg.templateFn {
		if err := engine.registerTemplateFunc(name, fn); err != nil {
			return nil, fmt.Errorf("gotemplate: register template func %q: %w", name, err)
		}
	}

	return engine, nil
}

// Extension returns the extension appended to bare template names.
func (e *Engine) Extension() string {
	return e.tplExt
}

// Render treats name as inline template content when it contains template
// tags, otherwise as a template name.
func (e *Engine) Render(name string, data any, out ...io.Writer) (string, error) {
	if isTemplateContent(name) {
		return e.RenderString(name, data, out...)
	}
	return e.RenderTemplate(name, data, out...)
}

// RenderTemplate loads name (extension appended when missing) through the
// configured loaders and executes it.
func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}
	templatePath := name
	if !strings.HasSuffix(templatePath, e.tplExt) {
		templatePath += e.tplExt
	}

	tmpl, err := e.getTemplate(templatePath)
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, templatePath, data, out)
}

// RenderString compiles and executes templateContent without caching.
func (e *Engine) RenderString(templateContent string, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	tmpl, err := e.templateSet.FromString(templateContent)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.execute(tmpl, "string", data, out)
}

// RenderSource compiles source and caches it under name. A cached entry is
// reused only while the source is unchanged; debug engines never cache.
func (e *Engine) RenderSource(name string, source []byte, data any, out ...io.Writer) (string, error) {
	if e == nil || e.templateSet == nil {
		return "", errors.New("gotemplate: engine is nil")
	}

	tmpl, err := e.getSource(name, string(source))
	if err != nil {
		return "", err
	}
	return e.execute(tmpl, name, data, out)
}

// RegisterFilter registers a pongo2 filter. pongo2 filters are process-wide,
// so registering an existing name fails.
func (e *Engine) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}

	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var paramVal any
		if param != nil {
			paramVal = param.Interface()
		}
		result, err := fn(in.Interface(), paramVal)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	}

	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext merges data into the globals visible to every template.
func (e *Engine) GlobalContext(data any) error {
	if e == nil || e.templateSet == nil {
		return errors.New("gotemplate: engine is nil")
	}
	if data == nil {
		return nil
	}

	globalCtx, err := convertToContext(data)
	if err != nil {
		return err
	}

	e.updateGlobals(globalCtx)
	return nil
}

// updateGlobals swaps in a copy of the globals with values applied. Renders
// already holding the previous map keep using it.
func (e *Engine) updateGlobals(values pongo2.Context) {
	e.globalsMu.Lock()
	defer e.globalsMu.Unlock()

	next := make(pongo2.Context, len(e.globals)+len(values))
	next.Update(e.globals)
	next.Update(values)
	e.globals = next
}

func (e *Engine) renderContext(data any) (pongo2.Context, error) {
	viewContext, err := convertToContext(data)
	if err != nil {
		return nil, err
	}

	e.globalsMu.RLock()
	globals := e.globals
	e.globalsMu.RUnlock()

	ctx := make(pongo2.Context, len(globals)+len(viewContext))
	ctx.Update(globals)
	ctx.Update(viewContext)
	return ctx, nil
}

// ResetCache drops all compiled templates held by the engine and the
// pongo2 set's file cache, so extended and included files are re-read too.
func (e *Engine) ResetCache() {
	if e == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.templates = make(map[string]*pongo2.Template)
	e.sources = make(map[string]sourceEntry)
	if e.templateSet != nil {
		e.templateSet.CleanCache()
	}
}

func (e *Engine) execute(tmpl *pongo2.Template, label string, data any, out []io.Writer) (string, error) {
	var hookCtx *gotemplatepkg.HookContext
	if e.hooks != nil {
		hookCtx = &gotemplatepkg.HookContext{
			TemplateName: label,
			Data:         data,
			Metadata:     map[string]any{},
			IsPreHook:    true,
		}
		if err := e.hooks.ExecutePreHooks(hookCtx); err != nil {
			return "", fmt.Errorf("gotemplate: pre hook for %q: %w", label, err)
		}
		data = hookCtx.Data
	}

	viewContext, err := e.renderContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(viewContext, &buf); err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", label, err)
	}

	rendered := buf.String()
	if hookCtx != nil {
		hookCtx.IsPreHook = false
		hookCtx.Output = rendered
		rendered, err = e.hooks.ExecutePostHooks(hookCtx)
		if err != nil {
			return "", fmt.Errorf("gotemplate: post hook for %q: %w", label, err)
		}
	}
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return "", err
		}
	}
	return rendered, nil
}

func (e *Engine) registerTemplateFunc(name string, fn any) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || fn == nil {
		return nil
	}

	if filter, ok := fn.(pongo2.FilterFunction); ok {
		if pongo2.FilterExists(trimmed) {
			return nil
		}
		return pongo2.RegisterFilter(trimmed, filter)
	}

	if !isCallable(fn) {
		return fmt.Errorf("gotemplate: %q is not a function", trimmed)
	}

	e.updateGlobals(pongo2.Context{trimmed: fn})
	return nil
}

func (e *Engine) getTemplate(path string) (*pongo2.Template, error) {
	if e.debug {
		tmpl, err := e.templateSet.FromFile(path)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
		}
		return tmpl, nil
	}

	e.mu.RLock()
	if tmpl, ok := e.templates[path]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[path]; ok {
		return tmpl, nil
	}

	tmpl, err := e.templateSet.FromFile(path)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", path, err)
	}

	e.templates[path] = tmpl
	return tmpl, nil
}

func (e *Engine) getSource(name, source string) (*pongo2.Template, error) {
	if !e.debug {
		e.mu.RLock()
		entry, ok := e.sources[name]
		e.mu.RUnlock()
		if ok && entry.source == source {
			return entry.tmpl, nil
		}
	}

	tmpl, err := e.templateSet.FromString(source)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: parse template %q: %w", name, err)
	}

	if !e.debug {
		e.mu.Lock()
		e.sources[name] = sourceEntry{source: source, tmpl: tmpl}
		e.mu.Unlock()
	}
	return tmpl, nil
}

func isTemplateContent(s string) bool {
	return strings.Contains(s, "{{") || strings.Contains(s, "{%")
}
