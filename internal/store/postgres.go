// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

// Package store provides storage bootstrap: the connection pool, schema
// migrations, and the first-run administrator seed.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/permkit/permkit/internal/auth"
	"github.com/permkit/permkit/internal/auth/postgres"
)

// Connection retry parameters. Startup rides out a database that is still
// coming up, e.g. under an orchestrator.
const (
	pingRetryBase = 500 * time.Millisecond
	pingRetryMax  = 5
)

// Store holds an open connection pool to the persisted state. It is the
// handle external collaborators operate against; construct it once at
// process start and pass it down explicitly.
type Store struct {
	pool *pgxpool.Pool
}

// Open connects to PostgreSQL and verifies the connection with an
// exponential-backoff ping.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("STORE_OPEN_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(pingRetryMax, retry.NewExponential(pingRetryBase))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, oops.Code("STORE_OPEN_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	return &Store{pool: pool}, nil
}

// Pool exposes the underlying connection pool for repository construction.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Initialize opens the store, applies all pending migrations, and seeds the
// default administrator on an empty user table. This is the single entry
// point for collaborators that want a ready-to-use store from a storage
// location string.
func Initialize(ctx context.Context, databaseURL string, hasher auth.PasswordHasher, logger *slog.Logger) (*Store, error) {
	st, err := Open(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	migrator, err := NewMigrator(databaseURL)
	if err != nil {
		st.Close()
		return nil, err
	}
	migrateErr := migrator.Up()
	if closeErr := migrator.Close(); closeErr != nil && migrateErr == nil {
		migrateErr = closeErr
	}
	if migrateErr != nil {
		st.Close()
		return nil, migrateErr
	}

	users := postgres.NewUserRepository(st.pool)
	sessions := postgres.NewSessionRepository(st.pool)
	svc, err := auth.NewService(users, sessions, hasher, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	if err := SeedAdmin(ctx, users, svc, logger); err != nil {
		st.Close()
		return nil, err
	}

	return st, nil
}
