// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/samber/oops"

	"github.com/permkit/permkit/internal/auth"
)

// ProfileRepository implements auth.ProfileRepository using PostgreSQL.
type ProfileRepository struct {
	db DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Get retrieves the profile for a user.
func (r *ProfileRepository) Get(ctx context.Context, userID int64) (*auth.Profile, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, user_forename, user_surname, user_email
		FROM user_details
		WHERE user_id = $1
	`, userID)

	profile := &auth.Profile{}
	err := row.Scan(&profile.UserID, &profile.Forename, &profile.Surname, &profile.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PROFILE_NOT_FOUND").
			With("user_id", userID).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PROFILE_GET_FAILED").
			With("operation", "get profile").
			With("user_id", userID).
			Wrap(err)
	}
	return profile, nil
}

// Upsert creates or replaces the profile for a user.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *auth.Profile) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_details (user_id, user_forename, user_surname, user_email)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			user_forename = $2,
			user_surname = $3,
			user_email = $4
	`,
		profile.UserID,
		profile.Forename,
		profile.Surname,
		profile.Email,
	)
	if err != nil {
		return oops.Code("PROFILE_UPSERT_FAILED").
			With("operation", "upsert profile").
			With("user_id", profile.UserID).
			Wrap(err)
	}
	return nil
}

// Delete removes the profile for a user.
func (r *ProfileRepository) Delete(ctx context.Context, userID int64) error {
	result, err := r.db.Exec(ctx, `
		DELETE FROM user_details WHERE user_id = $1
	`, userID)
	if err != nil {
		return oops.Code("PROFILE_DELETE_FAILED").
			With("operation", "delete profile").
			With("user_id", userID).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PROFILE_NOT_FOUND").
			With("user_id", userID).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// Compile-time interface check.
var _ auth.ProfileRepository = (*ProfileRepository)(nil)
