package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-ops/foodgate/pkg/route"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader("").Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, ":9091", cfg.AdminListen)
	assert.Equal(t, "http://backend:9090", cfg.Upstream)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotZero(t, cfg.RateLimit)

	table, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, 5, table.Len())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("FOODGATE_LISTEN", ":8080")
	t.Setenv("FOODGATE_UPSTREAM", "http://api:9000")

	cfg, err := NewLoader("").Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "http://api:9000", cfg.Upstream)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foodgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9090"
upstream: "http://backend:9090"
staticRoot: /srv/static
mediaRoot: /srv/media
docsRoot: /srv/docs
logLevel: debug
`), 0o600))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/static", cfg.StaticRoot)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadExplicitRoutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foodgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
routes:
  - prefix: /api/
    kind: proxy
    upstream: http://backend:9090
  - prefix: /
    kind: static
    root: /srv/static
`), 0o600))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	table, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	rule, ok := table.Match("/api/recipes/")
	require.True(t, ok)
	assert.Equal(t, route.KindProxy, rule.Kind)
}

func TestLoadInvalidRoutes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foodgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
routes:
  - prefix: /api/
    kind: proxy
`), 0o600))

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "nope.yaml")).Load()
	assert.Error(t, err)
}

func TestLoadCaches(t *testing.T) {
	l := NewLoader("")
	first, err := l.Load()
	require.NoError(t, err)

	second, err := l.Load()
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Same(t, first, l.Current())
}

func TestWatchReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "foodgate.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logLevel: info\n"), 0o600))

	l := NewLoader(path)
	_, err := l.Load()
	require.NoError(t, err)

	reloaded := make(chan *Config, 1)
	l.OnChange(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	l.Watch()

	require.NoError(t, os.WriteFile(path, []byte("logLevel: debug\n"), 0o600))

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Same(t, cfg, l.Current())
	case <-time.After(5 * time.Second):
		t.Fatal("config change was not observed")
	}
}
