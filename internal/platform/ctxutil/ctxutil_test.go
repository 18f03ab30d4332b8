// Copyright (c) 2026 Lectern. All rights reserved.
// Author: dev@lectern.pub

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lectern-pub/lectern/internal/platform/ctxutil"
	"github.com/lectern-pub/lectern/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// 1. Initially should return the default logger
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_ServiceClaims verifies that ServiceClaims can be stored in context.
*/
func TestContext_ServiceClaims(t *testing.T) {
	ctx := context.Background()
	claims := &sec.ServiceClaims{
		Service: "jats-importer",
		Scope:   "ingest",
	}

	// 1. Initially should be nil
	assert.Nil(t, ctxutil.GetServiceClaims(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithServiceClaims(ctx, claims)
	retrieved := ctxutil.GetServiceClaims(ctx)

	assert.NotNil(t, retrieved)
	assert.Equal(t, "jats-importer", retrieved.Service)
	assert.Equal(t, "ingest", retrieved.Scope)
}
