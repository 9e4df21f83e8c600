// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

//go:build integration

package store_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/permkit/permkit/internal/auth"
	authpg "github.com/permkit/permkit/internal/auth/postgres"
	"github.com/permkit/permkit/internal/store"
)

// setupPostgresContainer starts a PostgreSQL container and initializes the
// store against it, running migrations and the admin seed.
func setupPostgresContainer() (*store.Store, func(), error) {
	ctx := context.Background()

	container, err := pgcontainer.Run(ctx,
		"postgres:16-alpine",
		pgcontainer.WithDatabase("permkit_test"),
		pgcontainer.WithUsername("permkit"),
		pgcontainer.WithPassword("permkit"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, nil, err
	}

	st, err := store.Initialize(ctx, connStr, auth.NewBcryptHasher(auth.MinBcryptCost), nil)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, nil, err
	}

	cleanup := func() {
		st.Close()
		_ = container.Terminate(ctx)
	}
	return st, cleanup, nil
}

var _ = Describe("Store", Ordered, func() {
	var (
		st      *store.Store
		cleanup func()
		svc     *auth.Service
		users   *authpg.UserRepository
	)

	BeforeAll(func() {
		var err error
		st, cleanup, err = setupPostgresContainer()
		Expect(err).NotTo(HaveOccurred())

		users = authpg.NewUserRepository(st.Pool())
		sessions := authpg.NewSessionRepository(st.Pool())
		svc, err = auth.NewService(users, sessions, auth.NewBcryptHasher(auth.MinBcryptCost), nil)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterAll(func() {
		if cleanup != nil {
			cleanup()
		}
	})

	ctx := context.Background()

	It("seeds the default administrator", func() {
		ok, err := svc.CheckPassword(ctx, store.DefaultAdminUsername, store.DefaultAdminPassword)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("registers and authenticates a new user", func() {
		_, err := svc.AddUser(ctx, "integration_user", "hunter2hunter2")
		Expect(err).NotTo(HaveOccurred())

		ok, err := svc.CheckPassword(ctx, "integration_user", "hunter2hunter2")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = svc.CheckPassword(ctx, "integration_user", "wrong")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("rejects a duplicate username", func() {
		_, err := svc.AddUser(ctx, "integration_user", "otherpassword")
		Expect(err).To(MatchError(auth.ErrDuplicateUsername))
	})

	It("rotates a password", func() {
		Expect(svc.UpdatePassword(ctx, "integration_user", "rotated")).To(Succeed())

		ok, err := svc.CheckPassword(ctx, "integration_user", "hunter2hunter2")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())

		ok, err = svc.CheckPassword(ctx, "integration_user", "rotated")
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("records a session and stamps last_login on login", func() {
		key, err := svc.UserLogin(ctx, "integration_user", "rotated", true)
		Expect(err).NotTo(HaveOccurred())
		Expect(key).To(HaveLen(auth.SessionKeyBytes * 2))

		sessions := authpg.NewSessionRepository(st.Pool())
		session, err := sessions.GetByKey(ctx, key)
		Expect(err).NotTo(HaveOccurred())
		Expect(session.Remember).To(BeTrue())

		user, err := users.GetByUsername(ctx, "integration_user")
		Expect(err).NotTo(HaveOccurred())
		Expect(user.LastLogin).To(Equal(session.CreationDate))
	})

	It("rejects a login with bad credentials and writes nothing", func() {
		user, err := users.GetByUsername(ctx, "integration_user")
		Expect(err).NotTo(HaveOccurred())
		before := user.LastLogin

		_, err = svc.UserLogin(ctx, "integration_user", "badpassword", false)
		Expect(err).To(MatchError(auth.ErrAuthenticationFailed))

		user, err = users.GetByUsername(ctx, "integration_user")
		Expect(err).NotTo(HaveOccurred())
		Expect(user.LastLogin).To(Equal(before))
	})

	It("stores and retrieves a profile", func() {
		user, err := users.GetByUsername(ctx, "integration_user")
		Expect(err).NotTo(HaveOccurred())

		email := "integration@example.com"
		profiles := authpg.NewProfileRepository(st.Pool())
		Expect(profiles.Upsert(ctx, &auth.Profile{UserID: user.ID, Email: &email})).To(Succeed())

		profile, err := profiles.Get(ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(profile.Email).To(HaveValue(Equal(email)))
	})
})
