// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permkit/permkit/internal/auth"
)

// mockUserRepoLogging serves one fixed user and can fail password updates.
type mockUserRepoLogging struct {
	user      *auth.User
	updateErr error
}

func (m *mockUserRepoLogging) Create(_ context.Context, _ *auth.User) error {
	return nil
}

func (m *mockUserRepoLogging) GetByUsername(_ context.Context, username string) (*auth.User, error) {
	if m.user == nil || m.user.Username != username {
		return nil, auth.ErrNotFound
	}
	userCopy := *m.user
	return &userCopy, nil
}

func (m *mockUserRepoLogging) UpdatePassword(_ context.Context, _, _ string) error {
	return m.updateErr
}

func (m *mockUserRepoLogging) TouchLastLogin(_ context.Context, _ string, _ int64) error {
	return nil
}

func (m *mockUserRepoLogging) Count(_ context.Context) (int64, error) {
	return 1, nil
}

// mockSessionRepoLogging records the last session it was handed.
type mockSessionRepoLogging struct {
	session *auth.Session
}

func (m *mockSessionRepoLogging) Create(_ context.Context, s *auth.Session) error {
	m.session = s
	return nil
}

func (m *mockSessionRepoLogging) RecordLogin(_ context.Context, s *auth.Session) error {
	m.session = s
	return nil
}

func (m *mockSessionRepoLogging) GetByKey(_ context.Context, _ string) (*auth.Session, error) {
	if m.session == nil {
		return nil, auth.ErrNotFound
	}
	return m.session, nil
}

func (m *mockSessionRepoLogging) ListByUser(_ context.Context, _ int64) ([]*auth.Session, error) {
	if m.session != nil {
		return []*auth.Session{m.session}, nil
	}
	return nil, nil
}

// mockHasherLogging accepts only "correctpassword" and flags every hash as
// needing an upgrade so the rehash path runs.
type mockHasherLogging struct{}

func (m *mockHasherLogging) Hash(_ string) (string, error) {
	return "$2a$10$rehashedrehashedrehashedrehashedrehashedrehashedrehas", nil
}

func (m *mockHasherLogging) Verify(password, _ string) (bool, error) {
	return password == "correctpassword", nil
}

func (m *mockHasherLogging) NeedsUpgrade(_ string) bool {
	return true
}

// logEntry represents a parsed JSON log entry.
type logEntry struct {
	Level    string `json:"level"`
	Msg      string `json:"msg"`
	Username string `json:"username"`
	Error    string `json:"error"`
}

func loggingService(t *testing.T, users auth.UserRepository, sessions auth.SessionRepository, buf *bytes.Buffer) *auth.Service {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	svc, err := auth.NewService(users, sessions, &mockHasherLogging{}, logger)
	require.NoError(t, err)
	return svc
}

func TestService_UserLogin_LogsHashUpgradeFailure(t *testing.T) {
	userRepo := &mockUserRepoLogging{
		user:      &auth.User{ID: 3, Username: "testuser", PasswordHash: "$2a$08$weakweakweakweakweakweakweakweakweakweakweakweakweakw"},
		updateErr: errors.New("database connection lost"),
	}

	var buf bytes.Buffer
	svc := loggingService(t, userRepo, &mockSessionRepoLogging{}, &buf)

	key, err := svc.UserLogin(context.Background(), "testuser", "correctpassword", false)
	require.NoError(t, err, "login succeeds even when the rehash write fails")
	assert.NotEmpty(t, key)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var warned bool
	for _, line := range lines {
		var entry logEntry
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry.Level == "WARN" {
			warned = true
			assert.Contains(t, entry.Msg, "upgrade")
			assert.Equal(t, "testuser", entry.Username)
			assert.Contains(t, entry.Error, "database connection lost")
		}
	}
	assert.True(t, warned, "expected a WARN entry for the failed rehash")
}

func TestService_NeverLogsPasswords(t *testing.T) {
	userRepo := &mockUserRepoLogging{
		user: &auth.User{ID: 3, Username: "testuser", PasswordHash: "$2a$10$storedstoredstoredstoredstoredstoredstoredstoredstore"},
	}

	var buf bytes.Buffer
	svc := loggingService(t, userRepo, &mockSessionRepoLogging{}, &buf)

	ctx := context.Background()
	_, _ = svc.AddUser(ctx, "newuser", "correctpassword")
	_, _ = svc.CheckPassword(ctx, "testuser", "correctpassword")
	_ = svc.UpdatePassword(ctx, "testuser", "correctpassword")
	_, _ = svc.UserLogin(ctx, "testuser", "correctpassword", true)
	_, _ = svc.UserLogin(ctx, "testuser", "wrongpassword", false)

	logged := buf.String()
	assert.NotContains(t, logged, "correctpassword")
	assert.NotContains(t, logged, "wrongpassword")
}
