package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fixstrap/fixstrap/pkg/manifest"
)

var (
	// Global flags
	manifestPath string
	verbose      bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fixstrap",
		Short: "Fixstrap - Fix Inventory installer",
		Long: `Fixstrap installs Fix Inventory into a dedicated Python environment.

Features:
  - Automatic Python runtime discovery
  - Isolated virtual environment provisioning
  - Local checkout or remote git installs per package
  - Collector plugin installation
  - Persistent install history`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "", "package manifest file (defaults to the built-in manifest)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	// Add subcommands
	rootCmd.AddCommand(newInstallCommand())
	rootCmd.AddCommand(newPluginsCommand())
	rootCmd.AddCommand(newHistoryCommand())

	return rootCmd
}

// loadManifest resolves the package manifest: an explicit file when given,
// the built-in one otherwise.
func loadManifest() (*manifest.Manifest, error) {
	loader, err := manifest.NewLoader()
	if err != nil {
		return nil, err
	}
	if manifestPath != "" {
		return loader.LoadFile(manifestPath)
	}
	return loader.Default()
}
