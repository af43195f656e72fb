// Package theme resolves templates and asset URLs through a chain of theme
// definitions. A theme may name a parent; lookups start at the active theme
// and fall back to ancestors until a file is found. The child's own file
// always wins.
//
// Themes are usually discovered with InitFromDirectory, which scans a base
// directory for subfolders carrying a manifest.yaml, manifest.yml or
// manifest.json file:
//
//	builder, err := theme.InitFromDirectory("/srv/app/themes", "default")
//	if err != nil {
//		return err
//	}
//	if err := builder.UseTheme(r.URL.Query().Get("theme")); err != nil {
//		// fall back or surface the error
//	}
//	file, err := builder.Template("home/index.html")
//
// Registry and Resolver are safe to share across goroutines once built. A
// Builder carries the active theme for a single request and must not be
// mutated concurrently; use Clone to derive a per-request copy.
package theme
