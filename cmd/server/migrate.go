package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"estate-ledger/internal/platform/config"
	"estate-ledger/internal/platform/database"
	"estate-ledger/internal/platform/logger"
	"estate-ledger/migrations"
)

const migrateTimeout = 2 * time.Minute

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert the database schema",
	}
	cmd.AddCommand(
		migrateDirectionCmd("up", "Apply all pending migrations", database.Up),
		migrateDirectionCmd("down", "Revert every applied migration", database.Down),
	)
	return cmd
}

func migrateDirectionCmd(use, short string, dir database.Direction) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.Database.URL == "" {
				return fmt.Errorf("DATABASE_URL is required to run migrations")
			}
			log := logger.New(cfg.LogLevel)

			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			pool, err := database.New(ctx, cfg.Database, nil)
			if err != nil {
				return err
			}
			defer pool.Close() //nolint:errcheck // process is exiting

			return database.Migrate(ctx, pool.DB(), migrations.FS, dir, log)
		},
	}
}
