package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-tracker/internal/db"
	"github.com/jonathan/interview-tracker/internal/observability"
)

var resetConfirmed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runMigration(cmd, "up", (*db.Migrator).Up)
	},
}

var migrateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop every table and re-apply all migrations",
	Long:  `Roll back every migration and apply them again. All data is lost; --yes is required.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !resetConfirmed {
			return errors.New("refusing to reset the database without --yes")
		}
		return runMigration(cmd, "reset", (*db.Migrator).Reset)
	},
}

func init() {
	migrateResetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "Confirm that all data will be deleted")
	migrateCmd.AddCommand(migrateUpCmd, migrateResetCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runMigration(cmd *cobra.Command, action string, apply func(*db.Migrator, context.Context) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	migrator := db.NewMigrator(cfg.DatabaseURL)
	if err := apply(migrator, ctx); err != nil {
		return fmt.Errorf("migrate %s: %w", action, err)
	}
	version, err := migrator.Version(ctx)
	if err != nil {
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintMigration(action, version)
	return nil
}
