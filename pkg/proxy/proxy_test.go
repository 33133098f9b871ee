package proxy

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-ops/foodgate/pkg/static"
)

func TestHostPreservedAndPathForwarded(t *testing.T) {
	var gotHost, gotPath, gotRealIP, gotProto string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHost = r.Host
		gotPath = r.URL.Path
		gotRealIP = r.Header.Get("X-Real-IP")
		gotProto = r.Header.Get("X-Forwarded-Proto")
		w.WriteHeader(http.StatusOK)
	}))
	defer upstream.Close()

	p, err := New(upstream.URL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "http://foodgram.example/api/recipes/42/", nil)
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "foodgram.example", gotHost, "inbound Host must be preserved")
	assert.Equal(t, "/api/recipes/42/", gotPath, "path must pass through unchanged")
	assert.Equal(t, "192.0.2.1", gotRealIP)
	assert.Equal(t, "http", gotProto)
}

func TestForwardedForAppended(t *testing.T) {
	var gotXFF string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotXFF = r.Header.Get("X-Forwarded-For")
	}))
	defer upstream.Close()

	p, err := New(upstream.URL)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/tags/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, req)

	assert.Equal(t, "203.0.113.7, 192.0.2.1", gotXFF)

	// Multi-hop chains stay intact with the client IP appended last.
	req = httptest.NewRequest(http.MethodGet, "/api/tags/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 198.51.100.2")
	p.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.7, 198.51.100.2, 192.0.2.1", gotXFF)
}

func TestUpstreamServerErrorReplacedByErrorPage(t *testing.T) {
	for _, status := range []int{
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
	} {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", status)
		}))

		dir := t.TempDir()
		pagePath := filepath.Join(dir, "50x.html")
		require.NoError(t, os.WriteFile(pagePath, []byte("<html>outage</html>"), 0o600))

		p, err := New(upstream.URL, WithErrorPage(&static.ErrorPage{Path: pagePath}))
		require.NoError(t, err)

		rec := httptest.NewRecorder()
		p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes/", nil))

		assert.Equal(t, status, rec.Code, "status %d must be preserved", status)
		assert.Equal(t, "<html>outage</html>", rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "upstream exploded")

		upstream.Close()
	}
}

func TestClientErrorsPassThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such recipe", http.StatusNotFound)
	}))
	defer upstream.Close()

	p, err := New(upstream.URL, WithErrorPage(&static.ErrorPage{}))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes/999/", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "no such recipe")
}

func TestDialFailureServes502ErrorPage(t *testing.T) {
	// Closed server: connection refused.
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	p, err := New(upstream.URL, WithErrorPage(&static.ErrorPage{}))
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes/", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "temporarily unable")
}

func TestErrorObserver(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	var observed []int
	p, err := New(upstream.URL,
		WithErrorPage(&static.ErrorPage{}),
		WithErrorObserver(func(status int) { observed = append(observed, status) }),
	)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	p.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/recipes/", nil))

	assert.Equal(t, []int{http.StatusServiceUnavailable}, observed)
}

func TestInvalidUpstream(t *testing.T) {
	_, err := New("backend:9090")
	assert.Error(t, err)

	_, err = New("://nope")
	assert.Error(t, err)
}

func TestTarget(t *testing.T) {
	p, err := New("http://backend:9090")
	require.NoError(t, err)
	assert.Equal(t, "http://backend:9090", p.Target())
}
