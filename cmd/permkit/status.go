// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	authpg "github.com/permkit/permkit/internal/auth/postgres"
	"github.com/permkit/permkit/internal/store"
)

// Default timeout for the status command.
const defaultStatusTimeout = 10 * time.Second

// NewStatusCmd creates the status subcommand.
func NewStatusCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show schema version and user count",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultStatusTimeout, "timeout for database operations")

	return cmd
}

func runStatus(cmd *cobra.Command, timeout time.Duration) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	migrator, err := store.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	version, dirty, err := migrator.Version()
	closeErr := migrator.Close()
	if err != nil {
		return err
	}
	if closeErr != nil {
		return closeErr
	}

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	count, err := authpg.NewUserRepository(st.Pool()).Count(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Schema version: %d (dirty: %v)\n", version, dirty)
	cmd.Printf("Registered users: %d\n", count)
	return nil
}
