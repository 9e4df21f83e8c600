// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package auth

import "context"

// Profile holds optional user detail fields. At most one profile exists per
// user; none of the fields carry invariants beyond the user relation. The
// login flow never touches profiles.
type Profile struct {
	UserID   int64
	Forename *string
	Surname  *string
	Email    *string
}

// ProfileRepository manages profile persistence.
type ProfileRepository interface {
	// Get retrieves the profile for a user.
	// Returns ErrNotFound if the user has no profile.
	Get(ctx context.Context, userID int64) (*Profile, error)

	// Upsert creates or replaces the profile for a user.
	Upsert(ctx context.Context, profile *Profile) error

	// Delete removes the profile for a user.
	// Returns ErrNotFound if the user has no profile.
	Delete(ctx context.Context, userID int64) error
}
