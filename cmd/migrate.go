package main

import (
	"context"
	"database/sql"
	"fmt"
	root "intake"
	"intake/internal/config"
	"intake/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCommand brings the products schema (goose) and the job queue tables
// (river) to their latest versions.
func migrateCommand(cfg *config.Config) *cobra.Command {
	var skipQueue bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the database to the latest version",
		RunE: func(*cobra.Command, []string) error {
			ctx := context.Background()

			strg, closeStrg := getPostgres(ctx, cfg)
			defer closeStrg()

			applied, err := root.Migrate(ctx, strg.DB.(*sql.DB))
			if err != nil {
				return fmt.Errorf("could not migrate products schema: %w", err)
			}
			logger.Info(ctx, "products schema migrated", zap.Int("applied", applied))

			if skipQueue {
				return nil
			}

			applied, err = strg.MigrateQueue(ctx)
			if err != nil {
				return err //nolint: wrapcheck
			}
			logger.Info(ctx, "job queue migrated", zap.Int("applied", applied))

			return nil
		},
	}
	cmd.Flags().BoolVar(&skipQueue, "skip-queue", false, "only migrate the products schema")

	return cmd
}
