package cli

import (
	"bytes"
	"fmt"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-view/pkg/theme"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		validate bool
		output   string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print discovered themes as go-theme manifests (YAML)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := opts.registry(cmd)
			if err != nil {
				return err
			}
			if validate {
				if _, err := theme.NewThemeProvider(reg); err != nil {
					return err
				}
			}

			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			enc.SetIndent(2)
			if err := enc.Encode(reg.Manifests()); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := atomic.WriteFile(output, &buf); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Manifests written to %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write manifests to a file instead of stdout")
	cmd.Flags().BoolVar(&validate, "validate", false, "register the manifests with a go-theme registry first")
	return cmd
}
