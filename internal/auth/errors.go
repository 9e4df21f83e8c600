// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateUsername is returned when registering a username that is
// already taken.
var ErrDuplicateUsername = errors.New("username already exists")

// ErrDuplicateSessionKey is returned when a session key collides with an
// existing row. With 256-bit random keys this indicates a broken key source,
// not bad luck.
var ErrDuplicateSessionKey = errors.New("session key already exists")

// ErrAuthenticationFailed is returned by UserLogin for a wrong password or
// an unknown username. The two cases are deliberately indistinguishable.
var ErrAuthenticationFailed = errors.New("invalid username or password")
