// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/permkit/permkit/internal/store"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	var down bool
	var force int

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Run all pending database migrations against the PostgreSQL database.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMigrate(cmd, down, force)
		},
	}

	cmd.Flags().BoolVar(&down, "down", false, "roll back all migrations (drops all tables)")
	cmd.Flags().IntVar(&force, "force", -1, "force the migration version without running migrations")

	return cmd
}

func runMigrate(cmd *cobra.Command, down bool, force int) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer migrator.Close() //nolint:errcheck // best effort on shutdown

	switch {
	case force >= 0:
		if err := migrator.Force(force); err != nil {
			return err
		}
		cmd.Printf("Forced migration version to %d\n", force)
	case down:
		if err := migrator.Down(); err != nil {
			return err
		}
		cmd.Println("Rolled back all migrations")
	default:
		if err := migrator.Up(); err != nil {
			return err
		}
		cmd.Println("Migrations completed successfully")
	}
	return nil
}
