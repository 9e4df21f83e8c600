// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/permkit/permkit/internal/auth"
	"github.com/permkit/permkit/internal/store"
)

// Default timeout for seed command.
const defaultSeedTimeout = 30 * time.Second

// NewSeedCmd creates the seed subcommand.
func NewSeedCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Initialize the schema and seed the default administrator",
		Long: `Creates the schema if absent and, when the user table is empty, seeds
the default administrator account. Idempotent: running it against an
initialized store is a no-op.

The seeded credentials are well known; changing the administrator
password immediately afterwards is a required post-install step.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSeed(cmd, timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultSeedTimeout, "timeout for database operations (e.g., 30s, 1m)")

	return cmd
}

func runSeed(cmd *cobra.Command, timeout time.Duration) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	// Use cmd.Context() to respect SIGINT/SIGTERM signals.
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	cmd.Println("Connecting to database...")
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	st, err := store.Initialize(ctx, cfg.DatabaseURL, hasher, slog.Default())
	if err != nil {
		return err
	}
	defer st.Close()

	cmd.Println("Store initialized")
	return nil
}
