// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"
)

// Service provides authentication operations.
type Service struct {
	users    UserRepository
	sessions SessionRepository
	hasher   PasswordHasher
	logger   *slog.Logger
}

// NewService creates a new Service. The logger may be nil, in which case the
// default logger is used.
func NewService(users UserRepository, sessions SessionRepository, hasher PasswordHasher, logger *slog.Logger) (*Service, error) {
	if users == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("user repository is required")
	}
	if sessions == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("session repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_DEPS").Errorf("password hasher is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// dummyPasswordHash is used when a user doesn't exist to keep verification
// cost consistent and prevent timing-based username enumeration. It is a
// syntactically valid bcrypt hash whose digest no password can produce.
//
//nolint:gosec // G101: intentionally fake hash, not a credential.
const dummyPasswordHash = "$2a$10$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// verifyCredentials looks up the user and checks the password against the
// stored hash, or against the dummy hash when the user is unknown so both
// cases cost the same. The returned bool is the match result; "unknown user"
// and "wrong password" are identical to the caller.
func (s *Service) verifyCredentials(ctx context.Context, username, password string) (*User, bool, error) {
	user, lookupErr := s.users.GetByUsername(ctx, username)
	targetHash := dummyPasswordHash
	if lookupErr != nil {
		if !errors.Is(lookupErr, ErrNotFound) {
			return nil, false, oops.Code("AUTH_CHECK_FAILED").
				With("operation", "get user by username").
				Wrap(lookupErr)
		}
		user = nil
	} else {
		targetHash = user.PasswordHash
	}

	valid, verifyErr := s.hasher.Verify(password, targetHash)
	if verifyErr != nil {
		// Dummy-hash verification errors are just a non-match.
		if user == nil {
			return nil, false, nil
		}
		return nil, false, oops.Code("AUTH_CHECK_FAILED").
			With("operation", "verify password").
			Wrap(verifyErr)
	}

	if user == nil || !valid {
		return nil, false, nil
	}
	return user, true, nil
}

// AddUser registers a new user. The password is hashed before it touches the
// store and is never logged.
func (s *Service) AddUser(ctx context.Context, username, password string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user, err := NewUser(username, hash)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	usersRegistered.Inc()
	s.logger.Info("user registered", "username", username, "user_id", user.ID)
	return user, nil
}

// CheckPassword reports whether the password matches the stored hash for
// the username. An unknown username is a plain false, not an error, so the
// response shape never reveals whether an account exists. Storage failures
// still propagate.
func (s *Service) CheckPassword(ctx context.Context, username, password string) (bool, error) {
	_, ok, err := s.verifyCredentials(ctx, username, password)
	return ok, err
}

// UpdatePassword derives a new salted hash and replaces the stored one
// wholesale. Returns ErrNotFound for an unknown username.
func (s *Service) UpdatePassword(ctx context.Context, username, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, username, hash); err != nil {
		return err
	}

	s.logger.Info("password updated", "username", username)
	return nil
}

// UserLogin verifies the credentials and, on success, issues a fresh random
// session key and records the session. The last_login stamp and the session
// row are written in one transaction; a rejected login has no side effects
// beyond the verification read.
func (s *Service) UserLogin(ctx context.Context, username, password string, remember bool) (string, error) {
	user, ok, err := s.verifyCredentials(ctx, username, password)
	if err != nil {
		recordLogin(loginResultError)
		return "", err
	}
	if !ok {
		recordLogin(loginResultRejected)
		return "", oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrAuthenticationFailed)
	}

	// Opportunistic hash upgrade when the work factor has been raised.
	// Login succeeds regardless of the outcome.
	if s.hasher.NeedsUpgrade(user.PasswordHash) {
		if newHash, hashErr := s.hasher.Hash(password); hashErr == nil {
			if upErr := s.users.UpdatePassword(ctx, username, newHash); upErr != nil {
				s.logger.Warn("password hash upgrade failed", "username", username, "error", upErr.Error())
			}
		}
	}

	key, err := GenerateSessionKey()
	if err != nil {
		recordLogin(loginResultError)
		return "", err
	}

	session, err := NewSession(user.ID, key, remember)
	if err != nil {
		recordLogin(loginResultError)
		return "", err
	}

	if err := s.sessions.RecordLogin(ctx, session); err != nil {
		recordLogin(loginResultError)
		return "", oops.Code("AUTH_SESSION_RECORD_FAILED").
			With("operation", "record login session").
			Wrap(err)
	}

	recordLogin(loginResultSuccess)
	s.logger.Info("login succeeded", "username", username, "user_id", user.ID, "remember", remember)
	return key, nil
}

// RecordSession inserts a session row directly, for collaborators that have
// already verified the user by other means. Unlike UserLogin it does not
// touch last_login.
func (s *Service) RecordSession(ctx context.Context, session *Session) error {
	if session == nil {
		return oops.Code("SESSION_INVALID").Errorf("session cannot be nil")
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return err
	}
	return nil
}
