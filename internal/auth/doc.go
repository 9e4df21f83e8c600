// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

// Package auth provides the credential, profile, and session domain for
// permkit.
//
// # Domain Types
//
// Domain types (User, Profile, Session) should be created using their
// constructors:
//   - NewUser - creates a User with a validated username and password hash
//   - NewSession - creates a Session with a validated user and key
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Service
//
// Service coordinates the repositories and the password hasher. It exposes
// AddUser, CheckPassword, UpdatePassword, UserLogin, and RecordSession, and
// is created with NewService, which validates its dependencies.
//
// Unknown usernames are indistinguishable from wrong passwords on every
// verification path: CheckPassword returns a plain false and UserLogin a
// uniform credential error.
package auth
