package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fixstrap/fixstrap/pkg/engine"
	"github.com/fixstrap/fixstrap/pkg/installer"
	"github.com/fixstrap/fixstrap/pkg/runner"
	"github.com/fixstrap/fixstrap/pkg/stores"
	"github.com/fixstrap/fixstrap/pkg/telemetry"
)

func newInstallCommand() *cobra.Command {
	var (
		installPath string
		branch      string
		pythonBin   string
		gitInstall  bool
		devMode     bool
		noPlugins   bool
		noVenv      bool
		yes         bool
		traceFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Install Fix Inventory",
		Long: `Install Fix Inventory into the given directory.

This command:
  - Selects a Python runtime (newest preferred)
  - Provisions a virtual environment (reused if already present)
  - Bootstraps and upgrades pip
  - Installs the core components in order
  - Optionally installs the collector plugins

Packages with a checkout under the install directory are installed editable
from that checkout; everything else is installed from the upstream git
repository at the chosen branch.`,
		Example: `  # Standard install with plugins
  fixstrap install --path /opt/fix

  # Developer install from a specific branch, core only
  fixstrap install --path ~/src/fixinventory --branch my-feature --dev --no-plugins

  # Force remote installs into the ambient interpreter
  fixstrap install --path /opt/fix --git --no-venv --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(installPath)
			if err != nil {
				return fmt.Errorf("failed to resolve install path: %w", err)
			}

			cfg := &engine.InstallConfig{
				InstallPath:     absPath,
				Branch:          branch,
				RuntimeOverride: pythonBin,
				UseVenv:         !noVenv,
				DevMode:         devMode,
				InstallPlugins:  !noPlugins,
				GitInstall:      gitInstall,
				Unattended:      yes,
			}
			if err := installer.ValidateConfig(cfg); err != nil {
				return err
			}

			man, err := loadManifest()
			if err != nil {
				return err
			}

			if !cfg.Unattended {
				if !confirmInstall(cmd, cfg, len(man.Core), len(man.Plugins)) {
					fmt.Println("Aborted.")
					return nil
				}
			}

			tcfg := telemetry.DefaultConfig()
			if verbose {
				tcfg.Logging.Level = "debug"
			}
			logger, err := telemetry.NewLogger(tcfg.Logging)
			if err != nil {
				return err
			}

			var tracer *telemetry.Tracer
			if traceFlag {
				tracer, err = telemetry.NewTracer(telemetry.TracingConfig{Enabled: true, SamplingRate: 1.0},
					tcfg.ServiceName, tcfg.ServiceVersion)
				if err != nil {
					return err
				}
				defer tracer.Shutdown(cmd.Context())
			}

			// History is ancillary: a broken store logs a warning and the
			// install proceeds without recording.
			history := openHistory(cfg.InstallPath)
			if history != nil {
				defer history.Close()
			}

			inst := installer.New(installer.Options{
				Config:   cfg,
				Manifest: man,
				Runner:   &runner.ExecRunner{Stream: true},
				History:  history,
				Logger:   logger,
				Tracer:   tracer,
			})

			if err := inst.Run(cmd.Context()); err != nil {
				return err
			}

			log.Info().Str("run_id", inst.RunID()).Msg("Installation succeeded")
			return nil
		},
	}

	cmd.Flags().StringVarP(&installPath, "path", "p", "", "installation directory")
	cmd.Flags().StringVarP(&branch, "branch", "b", engine.DefaultBranch, "branch to install from")
	cmd.Flags().StringVar(&pythonBin, "python", "", "Python interpreter to use (skips discovery)")
	cmd.Flags().BoolVar(&gitInstall, "git", false, "install from git even when a local checkout exists")
	cmd.Flags().BoolVar(&devMode, "dev", false, "install development dependencies first")
	cmd.Flags().BoolVar(&noPlugins, "no-plugins", false, "skip collector plugins")
	cmd.Flags().BoolVar(&noVenv, "no-venv", false, "use the ambient interpreter instead of a virtual environment")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&traceFlag, "trace", false, "emit a trace span per phase and package")
	cmd.MarkFlagRequired("path")

	return cmd
}

// confirmInstall shows a short summary and asks for approval.
func confirmInstall(cmd *cobra.Command, cfg *engine.InstallConfig, cores, plugins int) bool {
	fmt.Printf("Installing Fix Inventory (branch %s) into %s\n", cfg.Branch, cfg.InstallPath)
	fmt.Printf("  core components: %d\n", cores)
	if cfg.InstallPlugins {
		fmt.Printf("  plugins:         %d\n", plugins)
	} else {
		fmt.Println("  plugins:         skipped")
	}
	if !cfg.UseVenv {
		fmt.Println("  WARNING: installing into the ambient interpreter (--no-venv)")
	}
	fmt.Print("Continue? [y/N]: ")

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// openHistory opens the install history database under the install directory.
// Any failure is logged and reported as a nil store.
func openHistory(installPath string) *stores.SQLiteStore {
	dir := filepath.Join(installPath, ".fixstrap")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn().Err(err).Msg("Failed to create history directory, continuing without history")
		return nil
	}

	store, err := stores.NewSQLiteStore(stores.Config{Path: filepath.Join(dir, "history.db")})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to open history store, continuing without history")
		return nil
	}
	ctx := context.Background()
	if err := store.Init(ctx); err != nil {
		log.Warn().Err(err).Msg("Failed to initialize history store, continuing without history")
		return nil
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		log.Warn().Err(err).Msg("Failed to migrate history store, continuing without history")
		return nil
	}
	return store
}
