// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/permkit/permkit/internal/auth"
	"github.com/permkit/permkit/internal/auth/mocks"
	"github.com/permkit/permkit/pkg/errutil"
)

func seedService(t *testing.T, users auth.UserRepository) *auth.Service {
	t.Helper()
	svc, err := auth.NewService(users, mocks.NewMockSessionRepository(t), auth.NewBcryptHasher(auth.MinBcryptCost), nil)
	require.NoError(t, err)
	return svc
}

func TestSeedAdmin_EmptyStore(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository(t)

	users.On("Count", ctx).Return(int64(0), nil)

	var created *auth.User
	users.On("Create", ctx, mock.AnythingOfType("*auth.User")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*auth.User)
		created.ID = 1
	}).Return(nil)

	svc := seedService(t, users)
	require.NoError(t, SeedAdmin(ctx, users, svc, nil))

	require.NotNil(t, created)
	assert.Equal(t, DefaultAdminUsername, created.Username)

	// The seeded hash must verify the default password.
	ok, err := auth.NewBcryptHasher(auth.MinBcryptCost).Verify(DefaultAdminPassword, created.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSeedAdmin_ExistingUsers(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository(t)

	users.On("Count", ctx).Return(int64(3), nil)

	svc := seedService(t, users)
	require.NoError(t, SeedAdmin(ctx, users, svc, nil))
	// No Create call expected; the mock asserts that on cleanup.
}

func TestSeedAdmin_LostRaceIsSuccess(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository(t)

	users.On("Count", ctx).Return(int64(0), nil)
	users.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(auth.ErrDuplicateUsername)

	svc := seedService(t, users)
	assert.NoError(t, SeedAdmin(ctx, users, svc, nil))
}

func TestSeedAdmin_CountFailure(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository(t)

	users.On("Count", ctx).Return(int64(0), errors.New("connection refused"))

	svc := seedService(t, users)
	err := SeedAdmin(ctx, users, svc, nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SEED_FAILED")
}

func TestSeedAdmin_CreateFailure(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUserRepository(t)

	users.On("Count", ctx).Return(int64(0), nil)
	users.On("Create", ctx, mock.AnythingOfType("*auth.User")).Return(errors.New("disk full"))

	svc := seedService(t, users)
	err := SeedAdmin(ctx, users, svc, nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "SEED_FAILED")
}
