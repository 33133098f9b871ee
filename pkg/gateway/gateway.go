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

package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/foodgram-ops/foodgate/pkg/admin"
	"github.com/foodgram-ops/foodgate/pkg/config"
	"github.com/foodgram-ops/foodgate/pkg/defaults"
	"github.com/foodgram-ops/foodgate/pkg/logging"
	"github.com/foodgram-ops/foodgate/pkg/route"
	"github.com/foodgram-ops/foodgate/pkg/server"
)

// Name is the service name used in logs and the admin surface.
const Name = "foodgate"

// Gateway ties together the data plane server, the admin listener, and
// the hot-reloading configuration.
type Gateway struct {
	loader  *config.Loader
	version string
	router  *router
	srv     *server.Server
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithVersion sets the version reported in logs and the admin surface.
func WithVersion(version string) Option {
	return func(g *Gateway) {
		g.version = version
	}
}

// New creates a Gateway around the given configuration loader.
func New(loader *config.Loader, opts ...Option) *Gateway {
	g := &Gateway{
		loader:  loader,
		version: "dev",
		router:  &router{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Routes returns the active routing table in match order.
func (g *Gateway) Routes() []route.Rule {
	return g.router.routes()
}

// Run loads the configuration, starts the data plane and admin
// listeners, and blocks until the context is canceled or a listener
// fails. Routing table changes in the config file are applied without
// restarting.
func (g *Gateway) Run(ctx context.Context) error {
	cfg, err := g.loader.Load()
	if err != nil {
		return err
	}

	logging.SetDefaultStructuredLoggerWithLevel(Name, g.version, cfg.LogLevel)

	th, err := buildTableHandler(cfg)
	if err != nil {
		return err
	}
	g.router.swap(th)

	g.srv = server.New(
		server.WithName(Name),
		server.WithVersion(g.version),
		server.WithAddress(cfg.Listen),
		server.WithHandler(g.router),
		server.WithRateLimit(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst),
		server.WithSystemdNotify(),
	)

	g.loader.OnChange(g.reload)
	g.loader.Watch()

	slog.Info("gateway starting",
		"version", g.version,
		"listen", cfg.Listen,
		"admin", cfg.AdminListen,
		"routes", th.table.Len(),
	)

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return g.srv.Run(egCtx)
	})

	if cfg.AdminListen != "" {
		adminSrv := g.newAdminServer(cfg)
		eg.Go(func() error {
			return runAdmin(egCtx, adminSrv)
		})
	}

	return eg.Wait()
}

// reload rebuilds the routing table from a fresh config snapshot. The
// listener addresses are fixed at startup; only the table swaps.
func (g *Gateway) reload(cfg *config.Config) {
	th, err := buildTableHandler(cfg)
	if err != nil {
		slog.Error("routing table reload failed, keeping active table", "error", err)
		return
	}
	g.router.swap(th)
	slog.Info("routing table reloaded", "routes", th.table.Len())
}

func (g *Gateway) newAdminServer(cfg *config.Config) *http.Server {
	handler := admin.NewHandler(admin.Options{
		Name:           Name,
		Version:        g.version,
		Ready:          g.srv.Ready,
		Routes:         g.Routes,
		AllowedOrigins: cfg.AdminAllowedOrigins,
	})

	return &http.Server{
		Addr:              cfg.AdminListen,
		Handler:           handler,
		ReadTimeout:       defaults.ServerReadTimeout,
		ReadHeaderTimeout: defaults.ServerReadHeaderTimeout,
		WriteTimeout:      defaults.ServerWriteTimeout,
		IdleTimeout:       defaults.ServerIdleTimeout,
		ErrorLog:          logging.NewLogLogger(slog.LevelWarn),
	}
}

// runAdmin serves the admin listener until the context is canceled.
func runAdmin(ctx context.Context, srv *http.Server) error {
	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), defaults.ServerShutdownTimeout)
		defer cancel()
		slog.Info("admin listener shutting down")
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
