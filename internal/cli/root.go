// Package cli implements the themeview command: inspect a themes directory,
// resolve templates and assets through inheritance, and render views.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-view/pkg/theme"
)

type rootOptions struct {
	themesDir    string
	defaultTheme string
	activeTheme  string
	pick         bool
	verbose      bool
}

// NewRootCmd builds the themeview command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "themeview",
		Short: "Inspect and render hierarchical view themes",
		Long: `themeview discovers theme folders under a themes directory, follows
parent links to resolve templates and asset URLs, and renders views with the
resulting theme chain.`,
		SilenceUsage: true,
	}

	opts.bindFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		newListCmd(opts),
		newChainCmd(opts),
		newResolveCmd(opts),
		newAssetCmd(opts),
		newRenderCmd(opts),
		newExportCmd(opts),
	)
	return cmd
}

func (o *rootOptions) bindFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&o.themesDir, "themes-dir", "d", "themes", "directory holding one folder per theme")
	flags.StringVar(&o.defaultTheme, "default", "default", "default theme name")
	flags.StringVarP(&o.activeTheme, "theme", "t", "", "theme to activate (defaults to --default)")
	flags.BoolVar(&o.pick, "pick", false, "choose the active theme interactively")
	flags.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
}

func (o *rootOptions) logger(w io.Writer) hclog.Logger {
	level := hclog.Warn
	if o.verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "themeview",
		Output: w,
		Level:  level,
	})
}

func (o *rootOptions) registry(cmd *cobra.Command) (*theme.Registry, error) {
	return theme.LoadRegistry(o.themesDir, theme.WithLogger(o.logger(cmd.ErrOrStderr())))
}

// builder loads the registry and activates the theme chosen by --theme or
// --pick on top of --default.
func (o *rootOptions) builder(cmd *cobra.Command) (*theme.Builder, error) {
	reg, err := o.registry(cmd)
	if err != nil {
		return nil, err
	}

	builder, err := theme.NewBuilder(reg, nil, o.defaultTheme)
	if err != nil {
		return nil, err
	}

	active := strings.TrimSpace(o.activeTheme)
	if o.pick {
		active, err = selectTheme(reg.Names(), builder.Current())
		if err != nil {
			return nil, fmt.Errorf("pick theme: %w", err)
		}
	}
	if active != "" && active != builder.Current() {
		if err := builder.UseTheme(active); err != nil {
			return nil, err
		}
	}
	return builder, nil
}
