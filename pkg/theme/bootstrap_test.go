package theme_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-view/pkg/testsupport"
	"github.com/goliatone/go-view/pkg/theme"
)

func TestInitFromDirectory(t *testing.T) {
	base := testsupport.WriteThemeTree(t,
		testsupport.ThemeFixture{
			Dir:          "default",
			ManifestFile: "manifest.json",
			Manifest:     `{"assets_url": "/themes/default/"}`,
			Files:        map[string]string{"views/home.html": "default home"},
		},
		testsupport.ThemeFixture{
			Dir:          "dark",
			ManifestFile: "manifest.yaml",
			Manifest:     "name: dark\nparent: default\nassets_url: https://cdn.example.com/dark\n",
			Files:        map[string]string{"views/about.html": "dark about"},
		},
		testsupport.ThemeFixture{
			Dir:   "scratch",
			Files: map[string]string{"notes.txt": "not a theme"},
		},
	)
	testsupport.MustWriteFile(t, filepath.Join(base, "README.md"), "loose file")

	b, err := theme.InitFromDirectory(base, "dark")
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	if diff := cmp.Diff([]string{"dark", "default"}, b.Registry().Names()); diff != "" {
		t.Fatalf("registered themes mismatch (-want +got):\n%s", diff)
	}

	home, err := b.Template("home.html")
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if want := filepath.Join(base, "default", "views", "home.html"); home != want {
		t.Fatalf("template mismatch: want %s, got %s", want, home)
	}

	asset, err := b.Asset("css/app.css")
	if err != nil {
		t.Fatalf("asset: %v", err)
	}
	if asset != "https://cdn.example.com/dark/css/app.css" {
		t.Fatalf("asset mismatch: %s", asset)
	}

	cfg, err := b.Registry().Get("default")
	if err != nil {
		t.Fatalf("get default: %v", err)
	}
	if cfg.AssetBaseURL() != "/themes/default" {
		t.Fatalf("asset base should be trimmed: %s", cfg.AssetBaseURL())
	}
}

func TestInitFromDirectory_DefaultMustBeRegistered(t *testing.T) {
	base := testsupport.WriteThemeTree(t, testsupport.ThemeFixture{
		Dir:          "default",
		ManifestFile: "manifest.json",
		Manifest:     `{"assets_url": "/a"}`,
		Files:        map[string]string{"views/.keep": ""},
	})

	if _, err := theme.InitFromDirectory(base, "missing"); !errors.Is(err, theme.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := theme.InitFromDirectory(base, ""); !errors.Is(err, theme.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestInitFromDirectory_InvalidBaseDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	testsupport.MustWriteFile(t, file, "x")

	for _, dir := range []string{"", filepath.Join(t.TempDir(), "missing"), file} {
		if _, err := theme.InitFromDirectory(dir, "default"); !errors.Is(err, theme.ErrInvalidConfiguration) {
			t.Fatalf("dir %q: expected ErrInvalidConfiguration, got %v", dir, err)
		}
	}
}

func TestLoadRegistry_YAMLTakesPriorityOverJSON(t *testing.T) {
	base := testsupport.WriteThemeTree(t, testsupport.ThemeFixture{
		Dir: "brand",
		Files: map[string]string{
			"manifest.yaml": "assets_url: /from-yaml\n",
			"manifest.json": `{"assets_url": "/from-json"}`,
			"views/.keep":   "",
		},
	})

	reg, err := theme.LoadRegistry(base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg, err := reg.Get("brand")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cfg.AssetBaseURL() != "/from-yaml" {
		t.Fatalf("expected YAML manifest to win, got %s", cfg.AssetBaseURL())
	}
}

func TestLoadRegistry_ViewsPath(t *testing.T) {
	absViews := t.TempDir()
	base := testsupport.WriteThemeTree(t,
		testsupport.ThemeFixture{
			Dir:          "relative",
			ManifestFile: "manifest.yml",
			Manifest:     "assets_url: /r\nviews_path: templates\n",
			Files:        map[string]string{"templates/.keep": ""},
		},
		testsupport.ThemeFixture{
			Dir:          "absolute",
			ManifestFile: "manifest.json",
			Manifest:     `{"assets_url": "/a", "views_path": ` + jsonString(absViews) + `}`,
		},
	)

	reg, err := theme.LoadRegistry(base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	rel, _ := reg.Get("relative")
	if want := filepath.Join(base, "relative", "templates"); rel.Path() != want {
		t.Fatalf("relative views path: want %s, got %s", want, rel.Path())
	}
	abs, _ := reg.Get("absolute")
	if abs.Path() != filepath.Clean(absViews) {
		t.Fatalf("absolute views path: want %s, got %s", absViews, abs.Path())
	}
}

func TestLoadRegistry_Failures(t *testing.T) {
	tests := []struct {
		name    string
		fixture testsupport.ThemeFixture
	}{
		{
			name: "missing assets_url",
			fixture: testsupport.ThemeFixture{
				Dir: "t", ManifestFile: "manifest.json", Manifest: `{"name": "t"}`,
				Files: map[string]string{"views/.keep": ""},
			},
		},
		{
			name: "empty assets_url",
			fixture: testsupport.ThemeFixture{
				Dir: "t", ManifestFile: "manifest.yaml", Manifest: "assets_url: ''\n",
				Files: map[string]string{"views/.keep": ""},
			},
		},
		{
			name: "missing views directory",
			fixture: testsupport.ThemeFixture{
				Dir: "t", ManifestFile: "manifest.json", Manifest: `{"assets_url": "/t"}`,
			},
		},
		{
			name: "malformed json",
			fixture: testsupport.ThemeFixture{
				Dir: "t", ManifestFile: "manifest.json", Manifest: `{"assets_url":`,
				Files: map[string]string{"views/.keep": ""},
			},
		},
		{
			name: "json list instead of mapping",
			fixture: testsupport.ThemeFixture{
				Dir: "t", ManifestFile: "manifest.json", Manifest: `["assets_url"]`,
				Files: map[string]string{"views/.keep": ""},
			},
		},
		{
			name: "yaml scalar instead of mapping",
			fixture: testsupport.ThemeFixture{
				Dir: "t", ManifestFile: "manifest.yaml", Manifest: "just a string\n",
				Files: map[string]string{"views/.keep": ""},
			},
		},
		{
			name: "empty yaml",
			fixture: testsupport.ThemeFixture{
				Dir: "t", ManifestFile: "manifest.yaml", Manifest: "",
				Files: map[string]string{"views/.keep": ""},
			},
		},
		{
			name: "non-string parent",
			fixture: testsupport.ThemeFixture{
				Dir: "t", ManifestFile: "manifest.yaml", Manifest: "assets_url: /t\nparent: 42\n",
				Files: map[string]string{"views/.keep": ""},
			},
		},
		{
			name: "empty views_path",
			fixture: testsupport.ThemeFixture{
				Dir: "t", ManifestFile: "manifest.json", Manifest: `{"assets_url": "/t", "views_path": ""}`,
				Files: map[string]string{"views/.keep": ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := testsupport.WriteThemeTree(t, tt.fixture)
			reg, err := theme.LoadRegistry(base)
			if !errors.Is(err, theme.ErrInvalidConfiguration) {
				t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
			}
			if reg != nil {
				t.Fatalf("no partial registry may be returned")
			}
		})
	}
}

func TestLoadRegistry_MalformedManifestAbortsEverything(t *testing.T) {
	base := testsupport.WriteThemeTree(t,
		testsupport.ThemeFixture{
			Dir: "a-good", ManifestFile: "manifest.json", Manifest: `{"assets_url": "/good"}`,
			Files: map[string]string{"views/.keep": ""},
		},
		testsupport.ThemeFixture{
			Dir: "b-bad", ManifestFile: "manifest.yaml", Manifest: "- not\n- a\n- mapping\n",
			Files: map[string]string{"views/.keep": ""},
		},
	)

	if _, err := theme.InitFromDirectory(base, "a-good"); !errors.Is(err, theme.ErrInvalidConfiguration) {
		t.Fatalf("expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestLoadRegistry_LogsSkippedFolders(t *testing.T) {
	base := testsupport.WriteThemeTree(t, testsupport.ThemeFixture{
		Dir:   "scratch",
		Files: map[string]string{"notes.txt": ""},
	})

	var buf bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "theme",
		Output: &buf,
		Level:  hclog.Debug,
	})

	reg, err := theme.LoadRegistry(base, theme.WithLogger(logger))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if reg.Len() != 0 {
		t.Fatalf("expected empty registry, got %v", reg.Names())
	}
	if !strings.Contains(buf.String(), "skipping folder without manifest") {
		t.Fatalf("expected skip to be logged, got %q", buf.String())
	}
}

func TestLoadRegistry_FollowsSymlinkedThemes(t *testing.T) {
	target := testsupport.WriteThemeTree(t, testsupport.ThemeFixture{
		Dir: "shared", ManifestFile: "manifest.json", Manifest: `{"name": "shared", "assets_url": "/s"}`,
		Files: map[string]string{"views/.keep": ""},
	})
	base := t.TempDir()
	if err := os.Symlink(filepath.Join(target, "shared"), filepath.Join(base, "linked")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	reg, err := theme.LoadRegistry(base)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reg.Has("shared") {
		t.Fatalf("expected symlinked theme to be registered, got %v", reg.Names())
	}
}

func TestLoadManifest_Defaults(t *testing.T) {
	dir := testsupport.NewDir(t, map[string]string{
		"manifest.json": `{"assets_url": "/x", "parent": null}`,
	})

	m, found, err := theme.LoadManifest(dir)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	if !found {
		t.Fatalf("expected manifest to be found")
	}
	want := theme.Manifest{
		Name:      filepath.Base(dir),
		ViewsPath: filepath.Join(dir, "views"),
		AssetsURL: "/x",
		Source:    filepath.Join(dir, "manifest.json"),
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}

	_, found, err = theme.LoadManifest(t.TempDir())
	if err != nil || found {
		t.Fatalf("empty dir: expected not found without error, got found=%v err=%v", found, err)
	}
}

func jsonString(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}
