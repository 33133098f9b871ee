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
)

func routesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "routes",
		EnableShellCompletion: true,
		Usage:                 "Print the effective routing table",
		Description: `Print the routing table the gateway would serve with, in match
order (most specific prefix first). Useful for reviewing a config file
before deploying it.

# Examples

Print the built-in table:
  foodgate routes

Print the table from a config file as JSON:
  foodgate routes --config foodgate.yaml --format json

Write the table to a file:
  foodgate routes -o routes.yaml`,
		Flags: []cli.Flag{
			configFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.NewLoader(cmd.String("config")).Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			table, err := cfg.Table()
			if err != nil {
				return fmt.Errorf("failed to build routing table: %w", err)
			}

			return writeResult(ctx, cmd, table.Rules())
		},
	}
}
