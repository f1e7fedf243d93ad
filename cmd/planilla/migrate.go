package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			slog.Info("Database is up to date",
				"driver", a.cfg.Database.Driver,
				"path", a.cfg.Database.SQLitePath)
			return nil
		},
	}
}
