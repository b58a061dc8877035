package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dowan1041/ocie-helper/internal/catalog"
	"github.com/dowan1041/ocie-helper/internal/store"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <out.xlsx>",
		Short: "Write the catalog to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			database, err := a.openDatabase()
			if err != nil {
				return err
			}
			defer database.Close()

			items, err := store.ListEquipment(cmd.Context(), database)
			if err != nil {
				return err
			}

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			if err := catalog.WriteXLSX(f, items); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("closing export file: %w", err)
			}

			slog.Info("catalog exported", "path", args[0], "items", len(items))
			return nil
		},
	}
}
