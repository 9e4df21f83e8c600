// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Permkit Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/permkit/permkit/pkg/errutil"
)

func TestLogError_WithOopsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("TEST_ERROR").
		With("key", "value").
		Errorf("something failed")

	errutil.LogError(logger, "operation failed", err)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Equal(t, "operation failed", logEntry["msg"])
	assert.Equal(t, "TEST_ERROR", logEntry["code"])

	ctx, ok := logEntry["context"].(map[string]any)
	require.True(t, ok, "expected context attribute")
	assert.Equal(t, "value", ctx["key"])
}

func TestLogError_WithStandardError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := errors.New("standard error")

	errutil.LogError(logger, "operation failed", err)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Contains(t, logEntry["error"], "standard error")
}

func TestAssertErrorCode(t *testing.T) {
	err := oops.Code("SOME_CODE").Errorf("boom")
	errutil.AssertErrorCode(t, err, "SOME_CODE")
}

func TestAssertErrorCode_WrappedError(t *testing.T) {
	inner := errors.New("inner")
	err := oops.Code("WRAPPED_CODE").Wrap(inner)
	errutil.AssertErrorCode(t, err, "WRAPPED_CODE")
	assert.ErrorIs(t, err, inner)
}

func TestAssertErrorContext(t *testing.T) {
	err := oops.Code("CTX_CODE").With("username", "alice").Errorf("boom")
	errutil.AssertErrorContext(t, err, "username", "alice")
}
