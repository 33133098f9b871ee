/*
Copyright © 2025 Foodgram Project
SPDX-License-Identifier: Apache-2.0
*/

// foodgated runs the gateway alone, without the CLI surface. Intended
// for container images and systemd units.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/foodgram-ops/foodgate/pkg/config"
	"github.com/foodgram-ops/foodgate/pkg/gateway"
)

// overridden during build with ldflags
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := gateway.New(config.NewLoader(os.Getenv("FOODGATE_CONFIG")), gateway.WithVersion(version))
	if err := g.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
