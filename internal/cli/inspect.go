package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List discovered themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := opts.registry(cmd)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tPARENT\tASSETS\tVIEWS")
			for _, name := range reg.Names() {
				cfg, err := reg.Get(name)
				if err != nil {
					return err
				}
				parent := cfg.Parent()
				if parent == "" {
					parent = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", cfg.Name(), parent, cfg.AssetBaseURL(), cfg.Path())
			}
			return tw.Flush()
		},
	}
}

func newChainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chain",
		Short: "Print the inheritance chain of the active theme",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			builder, err := opts.builder(cmd)
			if err != nil {
				return err
			}
			chain, err := builder.Chain()
			if err != nil {
				return err
			}
			for _, name := range chain {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	var explain bool

	cmd := &cobra.Command{
		Use:   "resolve <template>",
		Short: "Resolve a template path through the active theme chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := opts.builder(cmd)
			if err != nil {
				return err
			}

			if explain {
				candidates, err := builder.Candidates(args[0])
				if err != nil {
					return err
				}
				for _, candidate := range candidates {
					mark := " "
					if info, statErr := os.Stat(candidate); statErr == nil && info.Mode().IsRegular() {
						mark = "x"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", mark, candidate)
				}
			}

			path, err := builder.Template(args[0])
			if err != nil {
				return err
			}
			if !explain {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "list every candidate path and whether it exists")
	return cmd
}

func newAssetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "asset <path>",
		Short: "Print the public URL of an asset for the active theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder, err := opts.builder(cmd)
			if err != nil {
				return err
			}
			url, err := builder.Asset(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
}
