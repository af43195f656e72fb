package theme

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Recognised manifest keys.
const (
	manifestKeyName      = "name"
	manifestKeyParent    = "parent"
	manifestKeyViewsPath = "views_path"
	manifestKeyAssetsURL = "assets_url"

	defaultViewsDir = "views"
)

// manifestFormats lists manifest file names in lookup priority order:
// structured YAML first, JSON as the fallback.
var manifestFormats = []struct {
	file   string
	decode func([]byte) (any, error)
}{
	{file: "manifest.yaml", decode: decodeYAML},
	{file: "manifest.yml", decode: decodeYAML},
	{file: "manifest.json", decode: decodeJSON},
}

// Manifest is the decoded content of a theme manifest with defaults applied.
type Manifest struct {
	Name      string
	Parent    string
	ViewsPath string
	AssetsURL string
	// Source is the manifest file the values were read from.
	Source string
}

// LoadManifest looks for a manifest inside themeDir. The boolean result is
// false when no manifest file exists, which callers treat as "not a theme".
// A manifest that exists but does not decode to a mapping is an
// ErrInvalidConfiguration error.
func LoadManifest(themeDir string) (Manifest, bool, error) {
	for _, format := range manifestFormats {
		path := filepath.Join(themeDir, format.file)
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Manifest{}, false, wrapConfigErr(err, path, "stat manifest %q", path)
		}
		if !info.Mode().IsRegular() {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return Manifest{}, false, wrapConfigErr(err, path, "read manifest %q", path)
		}
		decoded, err := format.decode(data)
		if err != nil {
			return Manifest{}, false, wrapConfigErr(err, path, "%s in %q is not valid", format.file, themeDir)
		}
		raw, ok := decoded.(map[string]any)
		if !ok {
			return Manifest{}, false, wrapConfigErr(nil, path, "%s in %q must be a mapping", format.file, themeDir)
		}

		manifest, err := manifestFromMap(raw, themeDir)
		if err != nil {
			return Manifest{}, false, err
		}
		manifest.Source = path
		return manifest, true, nil
	}
	return Manifest{}, false, nil
}

func manifestFromMap(raw map[string]any, themeDir string) (Manifest, error) {
	var m Manifest
	var err error

	name, ok, err := stringField(raw, manifestKeyName, themeDir)
	if err != nil {
		return Manifest{}, err
	}
	if !ok {
		name = filepath.Base(themeDir)
	}
	m.Name = name

	if m.Parent, _, err = stringField(raw, manifestKeyParent, themeDir); err != nil {
		return Manifest{}, err
	}

	viewsPath, ok, err := stringField(raw, manifestKeyViewsPath, themeDir)
	if err != nil {
		return Manifest{}, err
	}
	switch {
	case !ok:
		viewsPath = filepath.Join(themeDir, defaultViewsDir)
	case viewsPath == "":
		return Manifest{}, wrapConfigErr(nil, themeDir, "theme %q views_path cannot be empty", m.Name)
	case !filepath.IsAbs(viewsPath):
		viewsPath = filepath.Join(themeDir, viewsPath)
	}
	m.ViewsPath = viewsPath

	if m.AssetsURL, _, err = stringField(raw, manifestKeyAssetsURL, themeDir); err != nil {
		return Manifest{}, err
	}
	if m.AssetsURL == "" {
		return Manifest{}, wrapConfigErr(nil, themeDir, "theme %q must define a non-empty %q in its manifest", m.Name, manifestKeyAssetsURL)
	}

	return m, nil
}

// stringField reads key from raw. Absent and null values report ok=false;
// non-string values are configuration errors.
func stringField(raw map[string]any, key, themeDir string) (string, bool, error) {
	value, exists := raw[key]
	if !exists || value == nil {
		return "", false, nil
	}
	str, isString := value.(string)
	if !isString {
		return "", false, wrapConfigErr(nil, themeDir, "manifest key %q in %q must be a string, got %T", key, themeDir, value)
	}
	return str, true, nil
}

func decodeYAML(data []byte) (any, error) {
	var out any
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeJSON(data []byte) (any, error) {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func wrapConfigErr(cause error, path, format string, args ...any) *Error {
	return &Error{
		Kind:    KindInvalidConfiguration,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Err:     cause,
	}
}
