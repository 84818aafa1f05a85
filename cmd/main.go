// Package main is the intake CLI: the HTTP service, schema migrations, operator
// token issuing and a keyboard-wedge console.
package main

import (
	"context"
	"fmt"
	"intake/internal/config"
	"intake/pkg/logger"
	"intake/pkg/storage/postgres"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func postgresOptions(cfg *config.Config) postgres.Options {
	db := cfg.Database

	return postgres.Options{
		Username:           db.Username,
		Password:           db.Password,
		Host:               db.Host,
		Port:               db.Port,
		Database:           db.DatabaseName,
		SslMode:            db.SslMode,
		ConnMaxLifetime:    db.ConnMaxLifetime,
		ConnMaxIdleTime:    db.ConnMaxIdleTime,
		MaxOpenConnections: db.MaxOpenConnections,
		MaxIdleConnections: db.MaxIdleConnections,
	}
}

// getPostgres connects to the configured database or exits. The returned func
// closes the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func()) {
	pgsql, err := postgres.New(ctx, postgresOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not create postgres storage", zap.Error(err))
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err := pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}
}

// rootCommand loads the config file named by --config before any subcommand
// runs. Subcommands share cfg and only read it once they execute.
func rootCommand(cfg *config.Config) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "intake",
		Short:         "Barcode intake service for point-of-sale terminals",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err //nolint: wrapcheck
			}
			*cfg = *loaded

			logger.Setup(cfg.Environment)

			return logger.SetLevel(cfg.LogLevel) //nolint: wrapcheck
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "config file path")

	root.AddCommand(
		migrateCommand(cfg),
		serveCommand(cfg),
		JWTCommand(cfg),
		wedgeCommand(cfg),
	)

	return root
}

func main() {
	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync(ctx)

			panic(p)
		}
	}()

	err := rootCommand(&config.Config{}).Execute()
	logger.Sync(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "intake:", err) //nolint: forbidigo
		os.Exit(1)                             //nolint: gocritic
	}
}
