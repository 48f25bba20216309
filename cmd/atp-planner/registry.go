package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/atp-planner-api/internal/planner"
	"github.com/noah-isme/atp-planner-api/internal/repository"
	"github.com/noah-isme/atp-planner-api/pkg/database"
)

func registryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and manage the reference calendar",
	}
	cmd.AddCommand(registryValidateCmd(), registryExportCmd(), registrySeedCmd())
	return cmd
}

func registryValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the reference source and check the exception registry",
		RunE: func(cmd *cobra.Command, args []string) error {
			reference, closeFn, err := loadReference(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			snap, err := reference.Snapshot()
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(snap.Data)
			}

			fmt.Fprintf(stdout, "Reference %s (%s) is valid\n", snap.Data.Version, cfg.Reference.Source)
			fmt.Fprintf(stdout, "Exceptions: %d, subjects: %d, phases: %d\n\n",
				len(snap.Data.Exceptions), len(snap.Data.Standards), len(snap.Data.Phases))

			w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tDEFAULT\tVARIANT\tSTART\tEND")
			for _, cat := range snap.Registry.Categories() {
				for _, opt := range cat.Options {
					start, end, ok := snap.Registry.VariantRange(cat.ID, opt.ID)
					span := "-\t-"
					if ok {
						span = fmt.Sprintf("%s\t%s", planner.LongDate(start), planner.LongDate(end))
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cat.ID, cat.Default, opt.ID, span)
				}
			}
			return w.Flush()
		},
	}
}

func registryExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the reference data as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, closeFn, err := referenceLoader(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			data, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}
			raw, err := repository.EncodeReferenceYAML(data)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = stdout.Write(raw)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
			if err := os.WriteFile(out, raw, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			logr.Info("reference exported", zap.String("path", out), zap.String("version", data.Version))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	return cmd
}

func registrySeedCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Validate the reference source and store it in the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, closeFn, err := referenceLoader(cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			data, err := loader.Load(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := planner.NewRegistry(data.Exceptions, data.Categories); err != nil {
				return fmt.Errorf("reference calendar is invalid: %w", err)
			}
			if dryRun {
				fmt.Fprintf(stdout, "[DRY RUN] %d exceptions, %d categories, %d subjects would be stored\n",
					len(data.Exceptions), len(data.Categories), len(data.Standards))
				return nil
			}

			db, err := database.NewPostgres(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := repository.NewReferenceRepository(db).Replace(cmd.Context(), data); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Stored reference %s: %d exceptions, %d categories, %d subjects\n",
				data.Version, len(data.Exceptions), len(data.Categories), len(data.Standards))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate only")
	return cmd
}
