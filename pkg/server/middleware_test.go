package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBodyLimitRejectsDeclaredOversize(t *testing.T) {
	var reached bool
	h := BodyLimit(1024, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/media/", strings.NewReader(strings.Repeat("x", 2048)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, reached, "oversized request must not reach the handler")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYLOAD_TOO_LARGE")
}

func TestBodyLimitAbortsStreamingOversize(t *testing.T) {
	// No Content-Length: the cap must still hold once the body streams past it.
	h := BodyLimit(16, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := io.ReadAll(r.Body)
		require.Error(t, err)

		var maxErr *http.MaxBytesError
		assert.ErrorAs(t, err, &maxErr)
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))

	body := io.NopCloser(strings.NewReader(strings.Repeat("y", 64)))
	req := httptest.NewRequest(http.MethodPost, "/media/", body)
	req.ContentLength = -1

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBodyLimitAllowsSmallBodies(t *testing.T) {
	h := BodyLimit(1024, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "small payload", string(data))
		w.WriteHeader(http.StatusCreated)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/recipes/", strings.NewReader("small payload"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestBodyLimitDisabled(t *testing.T) {
	h := BodyLimit(0, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Len(t, data, 4096)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/admin/", strings.NewReader(strings.Repeat("z", 4096)))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouteLabel(t *testing.T) {
	ctx := withRouteHolder(t.Context())

	assert.Equal(t, "unmatched", RouteLabel(ctx))

	SetRouteLabel(ctx, "/api/")
	assert.Equal(t, "/api/", RouteLabel(ctx))

	// Without a holder, setting is a no-op and reads stay unmatched.
	bare := t.Context()
	SetRouteLabel(bare, "/media/")
	assert.Equal(t, "unmatched", RouteLabel(bare))
}

func TestResponseWriterTracksStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusAccepted)
	rw.WriteHeader(http.StatusTeapot) // ignored

	n, err := rw.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, http.StatusAccepted, rw.Status())
	assert.Equal(t, int64(5), rw.Bytes())
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestResponseWriterImplicitOK(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	_, err := rw.Write([]byte("body"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rw.Status())
}
