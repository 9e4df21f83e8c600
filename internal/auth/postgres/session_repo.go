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

// SessionRepository implements auth.SessionRepository using PostgreSQL.
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

const insertSessionSQL = `
	INSERT INTO user_sessions (user_id, session_key, creation_date, remember)
	VALUES ($1, $2, $3, $4)
`

// rememberFlag maps the advisory bool onto the 0/1 integer column.
func rememberFlag(remember bool) int64 {
	if remember {
		return 1
	}
	return 0
}

// Create stores a new session row.
func (r *SessionRepository) Create(ctx context.Context, session *auth.Session) error {
	_, err := r.db.Exec(ctx, insertSessionSQL,
		session.UserID,
		session.Key,
		session.CreationDate,
		rememberFlag(session.Remember),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("SESSION_DUPLICATE_KEY").
				With("user_id", session.UserID).
				Wrap(auth.ErrDuplicateSessionKey)
		}
		return oops.Code("SESSION_CREATE_FAILED").
			With("operation", "insert session").
			With("user_id", session.UserID).
			Wrap(err)
	}
	return nil
}

// RecordLogin stamps the owning user's last_login and inserts the session
// row in a single transaction, so the session never exists without the
// login stamp and vice versa.
func (r *SessionRepository) RecordLogin(ctx context.Context, session *auth.Session) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return oops.Code("SESSION_RECORD_FAILED").
			With("operation", "begin transaction").
			Wrap(err)
	}
	defer func() { _ = tx.Rollback(ctx) }() //nolint:errcheck // no-op after commit

	result, err := tx.Exec(ctx, `
		UPDATE users SET last_login = $2
		WHERE user_id = $1
	`, session.UserID, session.CreationDate)
	if err != nil {
		return oops.Code("SESSION_RECORD_FAILED").
			With("operation", "update last_login").
			With("user_id", session.UserID).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("USER_NOT_FOUND").
			With("user_id", session.UserID).
			Wrap(auth.ErrNotFound)
	}

	_, err = tx.Exec(ctx, insertSessionSQL,
		session.UserID,
		session.Key,
		session.CreationDate,
		rememberFlag(session.Remember),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return oops.Code("SESSION_DUPLICATE_KEY").
				With("user_id", session.UserID).
				Wrap(auth.ErrDuplicateSessionKey)
		}
		return oops.Code("SESSION_RECORD_FAILED").
			With("operation", "insert session").
			With("user_id", session.UserID).
			Wrap(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return oops.Code("SESSION_RECORD_FAILED").
			With("operation", "commit transaction").
			With("user_id", session.UserID).
			Wrap(err)
	}
	return nil
}

// GetByKey retrieves a session by its key.
func (r *SessionRepository) GetByKey(ctx context.Context, key string) (*auth.Session, error) {
	row := r.db.QueryRow(ctx, `
		SELECT user_id, session_key, creation_date, remember
		FROM user_sessions
		WHERE session_key = $1
	`, key)

	session, err := scanSession(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("SESSION_NOT_FOUND").Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("SESSION_GET_FAILED").
			With("operation", "get session by key").
			Wrap(err)
	}
	return session, nil
}

// ListByUser retrieves all sessions for a user, newest first. Sessions are
// discovered by scanning; users hold no session list of their own.
func (r *SessionRepository) ListByUser(ctx context.Context, userID int64) ([]*auth.Session, error) {
	rows, err := r.db.Query(ctx, `
		SELECT user_id, session_key, creation_date, remember
		FROM user_sessions
		WHERE user_id = $1
		ORDER BY creation_date DESC
	`, userID)
	if err != nil {
		return nil, oops.Code("SESSION_LIST_FAILED").
			With("operation", "list sessions by user").
			With("user_id", userID).
			Wrap(err)
	}
	defer rows.Close()

	var sessions []*auth.Session
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, oops.Code("SESSION_SCAN_FAILED").
				With("operation", "scan session row").
				Wrap(err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, oops.Code("SESSION_ROWS_ERROR").
			With("operation", "iterate session rows").
			Wrap(err)
	}

	return sessions, nil
}

// scanSession scans a single row into a Session.
// Callers are responsible for handling pgx.ErrNoRows.
func scanSession(row pgx.Row) (*auth.Session, error) {
	var (
		session  auth.Session
		remember int64
	)
	err := row.Scan(&session.UserID, &session.Key, &session.CreationDate, &remember)
	if err != nil {
		return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
	}
	session.Remember = remember != 0
	return &session, nil
}

// Compile-time interface check.
var _ auth.SessionRepository = (*SessionRepository)(nil)
