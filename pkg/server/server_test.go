// Copyright (c) 2025, Foodgram Project Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNew(t *testing.T) {
	s := New(WithHandler(okHandler()))
	require.NotNil(t, s)
	assert.NotNil(t, s.config)
	assert.NotNil(t, s.httpServer)
	assert.NotNil(t, s.rateLimiter)
}

func TestWithName(t *testing.T) {
	s := New(WithName("gateway-test"))
	assert.Equal(t, "gateway-test", s.config.Name)
}

func TestWithAddress(t *testing.T) {
	s := New(WithAddress(":18080"))
	assert.Equal(t, ":18080", s.httpServer.Addr)
}

func TestReadyLifecycle(t *testing.T) {
	s := New()
	assert.False(t, s.Ready())
	s.setReady(true)
	assert.True(t, s.Ready())
	s.setReady(false)
	assert.False(t, s.Ready())
}

func TestRequestIDGenerated(t *testing.T) {
	s := New(WithHandler(okHandler()))

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRequestIDPassthrough(t *testing.T) {
	s := New(WithHandler(okHandler()))

	const id = "f47ac10b-58cc-4372-a567-0e02b2c3d479"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", id)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, id, rec.Header().Get("X-Request-Id"))
}

func TestRequestIDInvalidReplaced(t *testing.T) {
	s := New(WithHandler(okHandler()))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", "not-a-uuid")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	got := rec.Header().Get("X-Request-Id")
	assert.NotEmpty(t, got)
	assert.NotEqual(t, "not-a-uuid", got)
}

func TestRateLimitRejects(t *testing.T) {
	s := New(
		WithHandler(okHandler()),
		WithRateLimit(1, 1),
	)

	// First request consumes the burst.
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Second is rejected.
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRateLimitDisabled(t *testing.T) {
	s := New(
		WithHandler(okHandler()),
		WithRateLimit(0, 0),
	)

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestPanicRecovery(t *testing.T) {
	s := New(WithHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("handler exploded")
	})))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL")
}

func TestRunAndShutdown(t *testing.T) {
	s := New(
		WithHandler(okHandler()),
		WithAddress("127.0.0.1:0"),
	)

	ctx, cancel := context.WithCancel(t.Context())

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Give the listener a moment, then trigger graceful shutdown.
	time.Sleep(50 * time.Millisecond)
	assert.True(t, s.Ready())
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.False(t, s.Ready())
}

func TestRunBindFailureNotReady(t *testing.T) {
	// Occupy a port so the server cannot bind it.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = ln.Close() }()

	s := New(
		WithHandler(okHandler()),
		WithAddress(ln.Addr().String()),
	)

	err = s.Run(t.Context())
	assert.Error(t, err)
	assert.False(t, s.Ready(), "a server that never bound must not report ready")
}
