package template_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	gotemplatepkg "github.com/goliatone/go-template"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-view/pkg/render/template/gotemplate"
)

func TestGoTemplateEngine_NestedRenderWithConcurrentGlobalContext(t *testing.T) {
	var engine *gotemplate.Engine

	nest := func() (string, error) {
		done := make(chan error, 1)
		go func() {
			done <- engine.GlobalContext(map[string]any{"late": "yes"})
		}()
		select {
		case err := <-done:
			if err != nil {
				return "", err
			}
		case <-time.After(2 * time.Second):
			return "", errors.New("GlobalContext blocked behind a running render")
		}
		return engine.RenderString("{{ 1 }}{{ late }}", nil)
	}
	engine = newEngine(t, gotemplate.WithTemplateFunc(map[string]any{"nest": nest}))

	type result struct {
		out string
		err error
	}
	finished := make(chan result, 1)
	go func() {
		out, err := engine.RenderString("[{{ nest() }}]", nil)
		finished <- result{out, err}
	}()

	select {
	case res := <-finished:
		if res.err != nil {
			t.Fatalf("render: %v", res.err)
		}
		if res.out != "[1yes]" {
			t.Fatalf("unexpected output %q", res.out)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("nested render did not finish")
	}
}

func TestGoTemplateEngine_GlobalContextKeepsEarlierValues(t *testing.T) {
	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{"a": "1"}))
	if err := engine.GlobalContext(map[string]any{"b": "2"}); err != nil {
		t.Fatalf("global context: %v", err)
	}

	got, err := engine.RenderString("{{ a }}{{ b }}{{ c }}", map[string]any{"c": "3", "a": "local"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "local23" {
		t.Fatalf("render data should override globals, got %q", got)
	}
}

func TestGoTemplateEngine_RenderHooks(t *testing.T) {
	var seen []string
	chain := gotemplatepkg.NewHookChain(
		gotemplatepkg.WithPreHooksChain(func(ctx *gotemplatepkg.HookContext) error {
			seen = append(seen, ctx.TemplateName)
			if !ctx.IsPreHook {
				t.Fatalf("pre hook called with IsPreHook=false")
			}
			ctx.Data = map[string]any{"name": "hooked"}
			ctx.Metadata["stage"] = "pre"
			return nil
		}),
		gotemplatepkg.WithPostHooksChain(func(ctx *gotemplatepkg.HookContext) (string, error) {
			if ctx.Metadata["stage"] != "pre" {
				t.Fatalf("metadata not carried to post hook: %#v", ctx.Metadata)
			}
			return strings.ToUpper(ctx.Output), nil
		}),
	)
	engine := newEngine(t, gotemplate.WithRenderHooks(chain))

	var buf bytes.Buffer
	got, err := engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, &buf)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "HELLO, HOOKED!\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if buf.String() != got {
		t.Fatalf("writer should receive hooked output, got %q", buf.String())
	}
	if diff := cmp.Diff([]string{"hello.html"}, seen); diff != "" {
		t.Fatalf("hook template names mismatch (-want +got):\n%s", diff)
	}
}

func TestGoTemplateEngine_RenderHookError(t *testing.T) {
	denied := errors.New("denied")
	chain := gotemplatepkg.NewHookChain(
		gotemplatepkg.WithPreHooksChain(func(*gotemplatepkg.HookContext) error { return denied }),
	)
	engine := newEngine(t, gotemplate.WithRenderHooks(chain))

	var buf bytes.Buffer
	if _, err := engine.RenderString("x", nil, &buf); !errors.Is(err, denied) {
		t.Fatalf("expected hook error, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing should be written when a hook fails, got %q", buf.String())
	}
}

func TestGoTemplateEngine_NumericValuesKeepTheirKind(t *testing.T) {
	engine := newEngine(t)

	got, err := engine.RenderString("{{ a }} {{ b }} {{ c }} {{ nested.d }}", map[string]any{
		"a":      int32(3),
		"b":      uint(4),
		"c":      uint64(5),
		"nested": map[string]any{"d": int16(6)},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "3 4 5 6" {
		t.Fatalf("integers should print without decimals, got %q", got)
	}
}
