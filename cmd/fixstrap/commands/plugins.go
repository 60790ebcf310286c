package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPluginsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List available collector plugins",
		Long: `List the collector plugins the installer knows about.

Each plugin is shown with its distribution name and the monorepo
subdirectory it is built from.`,
		Example: `  # List plugins from the built-in manifest
  fixstrap plugins

  # List plugins from a custom manifest
  fixstrap plugins --manifest ./manifest.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			man, err := loadManifest()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PLUGIN\tDISTRIBUTION\tSUBDIRECTORY")
			for _, spec := range man.PluginSpecs() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", spec.Name, spec.DisplayName(), spec.RelPath())
			}
			return w.Flush()
		},
	}

	return cmd
}
