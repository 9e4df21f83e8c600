// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package main

import (
	"context"
	"log/slog"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/permkit/permkit/internal/auth"
	authpg "github.com/permkit/permkit/internal/auth/postgres"
	"github.com/permkit/permkit/internal/config"
	"github.com/permkit/permkit/internal/logging"
	"github.com/permkit/permkit/internal/store"
	"github.com/permkit/permkit/internal/xdg"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the permkit CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permkit",
		Short: "permkit - user authentication and session store",
		Long: `permkit manages a persistent store of usernames, salted password
hashes, and session keys. It registers users, verifies credentials,
rotates passwords, and records login sessions.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	cmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string (falls back to DATABASE_URL)")
	cmd.PersistentFlags().Int("bcrypt-cost", auth.DefaultBcryptCost, "bcrypt work factor for password hashing")
	cmd.PersistentFlags().String("log-format", "json", "log output format: json or text")

	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewUserCmd())
	cmd.AddCommand(NewLoginCmd())
	cmd.AddCommand(NewStatusCmd())

	return cmd
}

// loadConfig resolves the effective configuration and installs the default
// logger before any command logic runs. Without --config, the XDG config
// file is used when present.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := configFile
	if path == "" {
		path = xdg.DefaultConfigFile()
	}
	cfg, err := config.Load(path, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	logging.SetDefault("permkit", version, cfg.LogFormat)
	return cfg, nil
}

func requireDatabaseURL(cfg *config.Config) error {
	if cfg.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").
			Errorf("database URL is required (set --database-url or DATABASE_URL)")
	}
	return nil
}

// openService connects to the store and assembles the auth service with its
// dependencies built once, up front. Callers own closing the store.
func openService(ctx context.Context, cfg *config.Config) (*store.Store, *auth.Service, error) {
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	users := authpg.NewUserRepository(st.Pool())
	sessions := authpg.NewSessionRepository(st.Pool())
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)

	svc, err := auth.NewService(users, sessions, hasher, slog.Default())
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	return st, svc, nil
}
