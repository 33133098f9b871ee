/*
Copyright © 2025 Foodgram Project
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/foodgram-ops/foodgate/pkg/config"
	"github.com/foodgram-ops/foodgate/pkg/gateway"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the edge gateway",
		Description: `Run the edge gateway that fronts the Foodgram deployment.

The gateway routes by longest path prefix:

  /api/docs/  - API documentation (static, redoc.html fallback)
  /api/       - backend API (proxied, 20MB body cap)
  /admin/     - backend admin (proxied)
  /media/     - uploaded media (static)
  /           - frontend SPA (static, index.html fallback, proxy last)

Proxied requests keep the original Host header and carry X-Real-IP and
X-Forwarded-* headers. Upstream 500/502/503/504 responses are replaced
by the error page with the status preserved.

Configuration comes from an optional YAML file plus FOODGATE_* env
overrides. Routing table changes in the file apply without a restart.

# Examples

Run with built-in defaults (listen :9090, admin :9091):
  foodgate serve

Run with a config file and debug logging:
  foodgate --log-level debug serve --config /etc/foodgate/foodgate.yaml

Override the listen addresses:
  foodgate serve --listen :8080 --admin-listen :8081`,
		Flags: []cli.Flag{
			configFlag,
			&cli.StringFlag{
				Name:  "listen",
				Usage: "Data plane listen address (overrides config)",
			},
			&cli.StringFlag{
				Name:  "admin-listen",
				Usage: "Admin listener address (overrides config, empty disables)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			loader := config.NewLoader(cmd.String("config"))

			cfg, err := loader.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if addr := cmd.String("listen"); addr != "" {
				cfg.Listen = addr
			}
			if cmd.IsSet("admin-listen") {
				cfg.AdminListen = cmd.String("admin-listen")
			}

			g := gateway.New(loader, gateway.WithVersion(version))
			return g.Run(ctx)
		},
	}
}
