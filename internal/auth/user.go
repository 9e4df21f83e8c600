// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package auth

import (
	"context"
	"time"

	"github.com/samber/oops"
)

// User represents a registered account. Timestamps are Unix milliseconds to
// stay wire-compatible with pre-existing stores.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	DateAdded    int64
	LastLogin    int64
}

// ValidateUsername validates a username. Usernames are case-sensitive and
// immutable after creation; the only structural requirement is that they
// are non-empty.
func ValidateUsername(username string) error {
	if username == "" {
		return oops.Code("AUTH_INVALID_USERNAME").Errorf("username cannot be empty")
	}
	return nil
}

// NewUser creates a User with a validated username and password hash. The
// ID is assigned by the store on insert; LastLogin starts at zero and is
// only ever set by a successful login.
func NewUser(username, passwordHash string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("AUTH_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		DateAdded:    time.Now().UnixMilli(),
		LastLogin:    0,
	}, nil
}

// UserRepository manages credential persistence.
type UserRepository interface {
	// Create stores a new user and assigns its ID.
	// Returns ErrDuplicateUsername if the username is taken.
	Create(ctx context.Context, user *User) error

	// GetByUsername retrieves a user by exact username match.
	// Returns ErrNotFound if no such user exists.
	GetByUsername(ctx context.Context, username string) (*User, error)

	// UpdatePassword replaces the password hash for an existing user.
	// Returns ErrNotFound if the username does not exist.
	UpdatePassword(ctx context.Context, username, passwordHash string) error

	// TouchLastLogin sets the last_login timestamp (Unix milliseconds).
	// Returns ErrNotFound if the username does not exist.
	TouchLastLogin(ctx context.Context, username string, ts int64) error

	// Count reports the number of registered users.
	Count(ctx context.Context) (int64, error)
}
