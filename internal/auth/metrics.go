// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics for the authentication flow.
var (
	// loginAttempts counts logins by outcome.
	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "permkit_login_attempts_total",
		Help: "Total number of login attempts",
	}, []string{"result"})

	// usersRegistered counts successful registrations.
	usersRegistered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "permkit_users_registered_total",
		Help: "Total number of users registered",
	})
)

// Login outcome labels.
const (
	loginResultSuccess  = "success"
	loginResultRejected = "rejected"
	loginResultError    = "error"
)

func recordLogin(result string) {
	loginAttempts.WithLabelValues(result).Inc()
}
