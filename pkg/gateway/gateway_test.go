package gateway

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram-ops/foodgate/pkg/config"
)

func TestRunGracefulShutdown(t *testing.T) {
	t.Setenv("FOODGATE_LISTEN", "127.0.0.1:0")
	t.Setenv("FOODGATE_ADMINLISTEN", "127.0.0.1:0")
	t.Setenv("FOODGATE_STATICROOT", t.TempDir())
	t.Setenv("FOODGATE_MEDIAROOT", t.TempDir())
	t.Setenv("FOODGATE_DOCSROOT", t.TempDir())

	g := New(config.NewLoader(""), WithVersion("test"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- g.Run(ctx)
	}()

	time.Sleep(200 * time.Millisecond)
	assert.Len(t, g.Routes(), 5)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("gateway did not shut down")
	}
}

func TestRunInvalidConfig(t *testing.T) {
	t.Setenv("FOODGATE_UPSTREAM", "not-a-url")

	g := New(config.NewLoader(""))
	err := g.Run(context.Background())
	assert.Error(t, err)
}

func TestReloadKeepsTableOnError(t *testing.T) {
	env := newTestEnv(t)
	rt := env.handler.(*router)

	g := &Gateway{router: rt, version: "test"}
	g.reload(&config.Config{Upstream: "://bad"})

	// The previous table stays active.
	assert.Len(t, g.Routes(), 5)
}
