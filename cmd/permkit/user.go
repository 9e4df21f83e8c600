// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package main

import (
	"context"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"
)

// Default timeout for user commands.
const defaultUserTimeout = 30 * time.Second

// NewUserCmd creates the user subcommand group.
func NewUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	cmd.AddCommand(newUserAddCmd())
	cmd.AddCommand(newUserPasswdCmd())
	cmd.AddCommand(newUserProfileCmd())

	return cmd
}

func newUserAddCmd() *cobra.Command {
	var password string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserAdd(cmd, args[0], password, timeout)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password for the new user")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultUserTimeout, "timeout for database operations")

	return cmd
}

func runUserAdd(cmd *cobra.Command, username, password string, timeout time.Duration) error {
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

	user, err := svc.AddUser(ctx, username, password)
	if err != nil {
		return err
	}

	cmd.Printf("Created user %s (id %d)\n", user.Username, user.ID)
	return nil
}

func newUserPasswdCmd() *cobra.Command {
	var password string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "passwd <username>",
		Short: "Change a user's password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserPasswd(cmd, args[0], password, timeout)
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultUserTimeout, "timeout for database operations")

	return cmd
}

func runUserPasswd(cmd *cobra.Command, username, password string, timeout time.Duration) error {
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

	if err := svc.UpdatePassword(ctx, username, password); err != nil {
		return err
	}

	cmd.Printf("Password updated for %s\n", username)
	return nil
}
