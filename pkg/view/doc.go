// Package view is a thin façade over the pongo2 template engine. It renders
// logical template names either from a single views directory or, when a
// theme.Builder is attached, from the file the active theme chain resolves.
//
// Templates rendered through a View can call:
//
//	{{ theme_asset("css/app.css") }}           public URL for the active theme
//	{{ view("partials/nav") }}                 render another template inline
//	{{ fragment("sidebar", 300, "partials/sidebar") }}
//
// and read _theme_name and _theme_chain when a theme is active.
package view
