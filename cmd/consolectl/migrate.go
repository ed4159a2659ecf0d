package main

import (
	"fmt"

	"modelfang-console/internal/database"

	"github.com/spf13/cobra"
)

var (
	runMigrations = database.RunMigrations
	rollbackAll   = database.RollbackAll
)

func migrateCmd() *cobra.Command {
	var dbURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the embedded database migrations",
	}
	cmd.PersistentFlags().StringVar(&dbURL, "database-url", "", "Postgres URL (default $DATABASE_URL)")

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL(dbURL)
			if err != nil {
				return err
			}
			if err := runMigrations(url); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}

	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back every migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, err := databaseURL(dbURL)
			if err != nil {
				return err
			}
			if err := rollbackAll(url); err != nil {
				return fmt.Errorf("migrate down: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
			return nil
		},
	}

	cmd.AddCommand(up, down)
	return cmd
}
