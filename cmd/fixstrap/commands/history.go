package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/fixstrap/fixstrap/pkg/stores"
)

func newHistoryCommand() *cobra.Command {
	var (
		installPath string
		runID       string
		limit       int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past installation runs",
		Long: `Show the recorded installation runs for an install directory,
newest first. With --run, show the per-package results of one run.`,
		Example: `  # Recent runs
  fixstrap history --path /opt/fix

  # Packages installed by one run
  fixstrap history --path /opt/fix --run 2f1c...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(installPath)
			if err != nil {
				return fmt.Errorf("failed to resolve install path: %w", err)
			}

			dbPath := filepath.Join(absPath, ".fixstrap", "history.db")
			if _, err := os.Stat(dbPath); err != nil {
				return fmt.Errorf("no install history at %s", absPath)
			}

			store, err := stores.NewSQLiteStore(stores.Config{Path: dbPath})
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := store.Init(ctx); err != nil {
				return err
			}
			defer store.Close()

			if runID != "" {
				return printRunPackages(cmd, store, runID)
			}
			return printRuns(cmd, store, limit)
		},
	}

	cmd.Flags().StringVarP(&installPath, "path", "p", "", "installation directory")
	cmd.Flags().StringVar(&runID, "run", "", "show packages of a single run")
	cmd.Flags().IntVar(&limit, "limit", 20, "max runs to show")
	cmd.MarkFlagRequired("path")

	return cmd
}

func printRuns(cmd *cobra.Command, store *stores.SQLiteStore, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit, 0)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tSTARTED\tSTATUS\tBRANCH\tRUNTIME\tERROR")
	for _, run := range runs {
		errMsg := ""
		if run.Error != nil {
			errMsg = *run.Error
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			run.ID, run.StartedAt.Format(time.RFC3339), run.Status, run.Branch, run.Runtime, errMsg)
	}
	return w.Flush()
}

func printRunPackages(cmd *cobra.Command, store *stores.SQLiteStore, runID string) error {
	run, err := store.GetRun(cmd.Context(), runID)
	if err != nil {
		return err
	}
	pkgs, err := store.ListPackagesByRun(cmd.Context(), run.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (%s, branch %s, runtime %s)\n\n", run.ID, run.Status, run.Branch, run.Runtime)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PACKAGE\tKIND\tTARGET\tRESULT\tSOURCE")
	for _, pkg := range pkgs {
		kind := "core"
		if pkg.Plugin {
			kind = "plugin"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", pkg.Package, kind, pkg.Target, pkg.Result, pkg.Source)
	}
	return w.Flush()
}
