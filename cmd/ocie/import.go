package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	var imagesDir string
	cmd := &cobra.Command{
		Use:   "import <equipment.json>",
		Short: "Load equipment records from a JSON file",
		Long: `Import reads a JSON array of equipment records and adds each one to the
catalog. Records whose image is a bare filename have that file uploaded from
--images first. Records with a partial NSN already in the catalog are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening import file: %w", err)
			}
			defer f.Close()

			svc, _, err := a.openCatalog(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.DB.Close()

			res, err := svc.Import(cmd.Context(), f, imagesDir)
			if err != nil {
				return err
			}

			slog.Info("import finished",
				"total", res.Total,
				"added", res.Added,
				"duplicates", res.Duplicates,
				"failed", res.Failed,
			)
			if res.Failed > 0 {
				return fmt.Errorf("%d of %d records failed", res.Failed, res.Total)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&imagesDir, "images", "i", "", "directory holding the referenced image files")
	return cmd
}
