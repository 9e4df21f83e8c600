// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permkit/permkit/internal/auth"
)

func TestHashPassword(t *testing.T) {
	hasher := auth.NewBcryptHasher(auth.MinBcryptCost)

	t.Run("produces valid hash", func(t *testing.T) {
		hash, err := hasher.Hash("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"))
	})

	t.Run("different passwords produce different hashes", func(t *testing.T) {
		hash1, err := hasher.Hash("password1")
		require.NoError(t, err)
		hash2, err := hasher.Hash("password2")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("same password produces different hashes (salt)", func(t *testing.T) {
		hash1, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		hash2, err := hasher.Hash("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := hasher.Hash("")
		assert.ErrorIs(t, err, auth.ErrEmptyPassword)
	})
}

func TestVerifyPassword(t *testing.T) {
	hasher := auth.NewBcryptHasher(auth.MinBcryptCost)

	t.Run("correct password verifies", func(t *testing.T) {
		hash, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("correctpassword", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("incorrect password fails", func(t *testing.T) {
		hash, err := hasher.Hash("correctpassword")
		require.NoError(t, err)

		ok, err := hasher.Verify("wrongpassword", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("invalid hash format returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", "not-a-valid-hash")
		assert.Error(t, err)
	})

	t.Run("empty hash returns error", func(t *testing.T) {
		_, err := hasher.Verify("password", "")
		assert.Error(t, err)
	})
}

func TestNeedsUpgrade(t *testing.T) {
	hasher := auth.NewBcryptHasher(12)

	t.Run("lower cost hash needs upgrade", func(t *testing.T) {
		hash, err := auth.NewBcryptHasher(auth.MinBcryptCost).Hash("password")
		require.NoError(t, err)
		assert.True(t, hasher.NeedsUpgrade(hash))
	})

	t.Run("current cost hash does not need upgrade", func(t *testing.T) {
		hash, err := hasher.Hash("password")
		require.NoError(t, err)
		assert.False(t, hasher.NeedsUpgrade(hash))
	})

	t.Run("unparseable hash needs upgrade", func(t *testing.T) {
		assert.True(t, hasher.NeedsUpgrade("garbage"))
	})
}

func TestNewBcryptHasherCostFloor(t *testing.T) {
	hasher := auth.NewBcryptHasher(4)

	hash, err := hasher.Hash("password")
	require.NoError(t, err)
	assert.False(t, auth.NewBcryptHasher(auth.DefaultBcryptCost).NeedsUpgrade(hash))
}
