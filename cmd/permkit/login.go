// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// Default timeout for the login command.
const defaultLoginTimeout = 30 * time.Second

// NewLoginCmd creates the login subcommand, a demonstration entry point
// that verifies credentials and prints the issued session key.
func NewLoginCmd() *cobra.Command {
	var password string
	var remember bool
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in a user and print the session key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, args[0], password, remember, timeout)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password for the user")
	cmd.Flags().BoolVar(&remember, "remember", false, "mark the session as long-lived (advisory)")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultLoginTimeout, "timeout for database operations")

	return cmd
}

func runLogin(cmd *cobra.Command, username, password string, remember bool, timeout time.Duration) error {
	if password == "" {
		return oops.Code("CONFIG_INVALID").Errorf("--password is required")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	st, svc, err := openService(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	key, err := svc.UserLogin(ctx, username, password, remember)
	if err != nil {
		return err
	}

	cmd.Printf("Welcome %s, your session key is %s\n", username, key)
	return nil
}
