// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/permkit/permkit/internal/auth"
	authpg "github.com/permkit/permkit/internal/auth/postgres"
	"github.com/permkit/permkit/internal/config"
	"github.com/permkit/permkit/internal/store"
)

func newUserProfileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage user profile details",
	}

	cmd.AddCommand(newUserProfileSetCmd())
	cmd.AddCommand(newUserProfileShowCmd())

	return cmd
}

func newUserProfileSetCmd() *cobra.Command {
	var forename, surname, email string
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "set <username>",
		Short: "Create or replace a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserProfileSet(cmd, args[0], forename, surname, email, timeout)
		},
	}

	cmd.Flags().StringVar(&forename, "forename", "", "forename")
	cmd.Flags().StringVar(&surname, "surname", "", "surname")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().DurationVar(&timeout, "timeout", defaultUserTimeout, "timeout for database operations")

	return cmd
}

func runUserProfileSet(cmd *cobra.Command, username, forename, surname, email string, timeout time.Duration) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	st, user, err := openUser(ctx, cfg, username)
	if err != nil {
		return err
	}
	defer st.Close()

	profile := &auth.Profile{UserID: user.ID}
	if forename != "" {
		profile.Forename = &forename
	}
	if surname != "" {
		profile.Surname = &surname
	}
	if email != "" {
		profile.Email = &email
	}

	profiles := authpg.NewProfileRepository(st.Pool())
	if err := profiles.Upsert(ctx, profile); err != nil {
		return err
	}

	cmd.Printf("Profile updated for %s\n", username)
	return nil
}

func newUserProfileShowCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "show <username>",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserProfileShow(cmd, args[0], timeout)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", defaultUserTimeout, "timeout for database operations")

	return cmd
}

func runUserProfileShow(cmd *cobra.Command, username string, timeout time.Duration) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := requireDatabaseURL(cfg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	st, user, err := openUser(ctx, cfg, username)
	if err != nil {
		return err
	}
	defer st.Close()

	profiles := authpg.NewProfileRepository(st.Pool())
	profile, err := profiles.Get(ctx, user.ID)
	if errors.Is(err, auth.ErrNotFound) {
		cmd.Printf("No profile for %s\n", username)
		return nil
	}
	if err != nil {
		return err
	}

	cmd.Printf("Username: %s (id %d)\n", user.Username, user.ID)
	cmd.Printf("Forename: %s\n", strOrDash(profile.Forename))
	cmd.Printf("Surname:  %s\n", strOrDash(profile.Surname))
	cmd.Printf("Email:    %s\n", strOrDash(profile.Email))
	return nil
}

// openUser opens the store and resolves a username to its user row.
func openUser(ctx context.Context, cfg *config.Config, username string) (*store.Store, *auth.User, error) {
	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	users := authpg.NewUserRepository(st.Pool())
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	return st, user, nil
}

func strOrDash(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
