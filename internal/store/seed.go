// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/permkit/permkit/internal/auth"
)

// Default administrator credentials seeded on first run. Shipping a
// well-known credential is an inherited weakness of the schema this module
// replaces: changing the password immediately after install is a required
// manual step, and the seed logs a warning to that effect.
const (
	DefaultAdminUsername = "admin"
	DefaultAdminPassword = "default"
)

// SeedAdmin creates the default administrator account when the user table
// is empty. It is idempotent: a non-empty table or a concurrent seed that
// already created the account are both treated as success.
func SeedAdmin(ctx context.Context, users auth.UserRepository, svc *auth.Service, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	count, err := users.Count(ctx)
	if err != nil {
		return oops.Code("SEED_FAILED").
			With("operation", "count users").
			Wrap(err)
	}
	if count > 0 {
		return nil
	}

	if _, err := svc.AddUser(ctx, DefaultAdminUsername, DefaultAdminPassword); err != nil {
		// Lost a race against another process seeding the same store.
		if errors.Is(err, auth.ErrDuplicateUsername) {
			return nil
		}
		return oops.Code("SEED_FAILED").
			With("operation", "create default admin").
			Wrap(err)
	}

	logger.Warn("seeded default administrator account; change its password immediately",
		"username", DefaultAdminUsername)
	return nil
}
