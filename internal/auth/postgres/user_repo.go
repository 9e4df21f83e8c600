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

// UserRepository implements auth.UserRepository using PostgreSQL.
type UserRepository struct {
	db DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user and assigns its ID from the identity column.
func (r *UserRepository) Create(ctx context.Context, user *auth.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, user_password, date_added, last_login)
		VALUES ($1, $2, $3, $4)
		RETURNING user_id
	`,
		user.Username,
		user.PasswordHash,
		user.DateAdded,
		user.LastLogin,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("USER_DUPLICATE").
				With("username", user.Username).
				Wrap(auth.ErrDuplicateUsername)
		}
		return oops.Code("USER_CREATE_FAILED").
			With("operation", "insert user").
			With("username", user.Username).
			Wrap(err)
	}
	return nil
}

// GetByUsername retrieves a user by exact, case-sensitive username match.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, username, user_password, date_added, last_login
		FROM users
		WHERE username = $1
	`, username)

	user := &auth.User{}
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.DateAdded, &user.LastLogin)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_FAILED").
			With("operation", "get user by username").
			With("username", username).
			Wrap(err)
	}
	return user, nil
}

// UpdatePassword replaces the stored password hash for a user.
func (r *UserRepository) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET user_password = $2
		WHERE username = $1
	`, username, passwordHash)
	if err != nil {
		return oops.Code("USER_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("username", username).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// TouchLastLogin sets the last_login stamp for a user.
func (r *UserRepository) TouchLastLogin(ctx context.Context, username string, ts int64) error {
	result, err := r.db.Exec(ctx, `
		UPDATE users SET last_login = $2
		WHERE username = $1
	`, username, ts)
	if err != nil {
		return oops.Code("USER_TOUCH_LOGIN_FAILED").
			With("operation", "update last_login").
			With("username", username).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("username", username).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// Count reports the number of registered users.
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, oops.Code("USER_COUNT_FAILED").
			With("operation", "count users").
			Wrap(err)
	}
	return count, nil
}

// Compile-time interface check.
var _ auth.UserRepository = (*UserRepository)(nil)
