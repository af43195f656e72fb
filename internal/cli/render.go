package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-view/pkg/fragmentcache"
	"github.com/goliatone/go-view/pkg/view"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var (
		viewsPath string
		cachePath string
		debug     bool
		sets      []string
	)

	cmd := &cobra.Command{
		Use:   "render <template>",
		Short: "Render a template with the active theme",
		Example: `  themeview render home --theme dark --set title=Welcome
  themeview render partials/nav --views ./themes/default/views`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := parseSets(sets)
			if err != nil {
				return err
			}

			builder, err := opts.builder(cmd)
			if err != nil {
				return err
			}

			if viewsPath == "" {
				root, err := builder.Registry().Get(opts.defaultTheme)
				if err != nil {
					return err
				}
				viewsPath = root.Path()
			}

			cfgOptions := []view.ConfigOption{view.WithDebug(debug)}
			if cachePath != "" {
				cache, err := fragmentcache.OpenSQLite(cachePath)
				if err != nil {
					return err
				}
				defer cache.Close()
				cfgOptions = append(cfgOptions, view.WithFragmentCache(cache))
			}

			cfg, err := view.NewConfig(viewsPath, cfgOptions...)
			if err != nil {
				return err
			}
			v, err := view.New(cfg,
				view.WithThemeBuilder(builder),
				view.WithLogger(opts.logger(cmd.ErrOrStderr())),
			)
			if err != nil {
				return err
			}

			return v.Display(cmd.OutOrStdout(), args[0], data)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&viewsPath, "views", "", "base directory for include/extends (defaults to the default theme's views)")
	flags.StringVar(&cachePath, "fragment-cache", "", "SQLite file used to cache fragment() output between runs")
	flags.BoolVar(&debug, "debug", false, "disable compiled template caching")
	flags.StringArrayVar(&sets, "set", nil, "template variable as key=value (repeatable)")
	return cmd
}

func parseSets(sets []string) (map[string]any, error) {
	data := make(map[string]any, len(sets))
	for _, raw := range sets {
		key, value, ok := strings.Cut(raw, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", raw)
		}
		data[key] = value
	}
	return data, nil
}
