// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// SessionKeyBytes is the entropy of a session key. 32 bytes = 64 hex chars,
// far beyond the 128-bit floor needed for unguessable keys.
const SessionKeyBytes = 32

// Session represents one successful login. Sessions are append-only: they
// are never mutated, expired, or deleted by this system. The Remember flag
// is advisory data for callers and carries no enforcement here.
type Session struct {
	UserID       int64
	Key          string
	CreationDate int64
	Remember     bool
}

// NewSession creates a validated Session stamped with the current time.
func NewSession(userID int64, key string, remember bool) (*Session, error) {
	if userID <= 0 {
		return nil, oops.Code("SESSION_INVALID_USER").Errorf("user ID must be positive")
	}
	if key == "" {
		return nil, oops.Code("SESSION_INVALID_KEY").Errorf("session key cannot be empty")
	}
	return &Session{
		UserID:       userID,
		Key:          key,
		CreationDate: time.Now().UnixMilli(),
		Remember:     remember,
	}, nil
}

// GenerateSessionKey creates a cryptographically random, opaque session key.
// Keys are unique across all sessions with overwhelming probability; the
// session store's primary-key constraint backstops the remainder.
func GenerateSessionKey() (string, error) {
	keyBytes := make([]byte, SessionKeyBytes)
	if _, err := rand.Read(keyBytes); err != nil {
		return "", oops.Code("SESSION_KEY_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", SessionKeyBytes).
			Wrap(err)
	}
	return hex.EncodeToString(keyBytes), nil
}

// SessionRepository manages session persistence.
type SessionRepository interface {
	// Create stores a new session row.
	// Returns ErrDuplicateSessionKey if the key already exists.
	Create(ctx context.Context, session *Session) error

	// RecordLogin stores the session and stamps the owning user's
	// last_login with the session's creation time, atomically. Neither
	// write is visible if the other fails.
	RecordLogin(ctx context.Context, session *Session) error

	// GetByKey retrieves a session by its key.
	// Returns ErrNotFound if no such session exists.
	GetByKey(ctx context.Context, key string) (*Session, error)

	// ListByUser retrieves all sessions belonging to a user, newest first.
	ListByUser(ctx context.Context, userID int64) ([]*Session, error)
}
