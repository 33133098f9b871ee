/*
Copyright © 2025 Foodgram Project
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/foodgram-ops/foodgate/pkg/check"
	"github.com/foodgram-ops/foodgate/pkg/compose"
	"github.com/foodgram-ops/foodgate/pkg/envfile"
)

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Check deployment artifacts against the production contract",
		Commands: []*cli.Command{
			checkComposeCmd(),
			checkEnvCmd(),
		},
	}
}

func checkComposeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "compose",
		EnableShellCompletion: true,
		Usage:                 "Check a Compose manifest against the production topology",
		Description: `Check a Docker Compose manifest against the expected production
topology:

  - exactly the services db, backend, frontend, and gateway
  - exactly the volumes pg_data_production, static_production,
    and media_production
  - every image is a valid, fully-qualifiable reference
  - the gateway publishes host port 9090 and nothing else does
  - db reads its env file; backend depends on db

The manifest may be a local path or an HTTP/HTTPS URL.

# Examples

Check the production manifest:
  foodgate check compose -f docker-compose.production.yml

Fail in CI when the topology drifts:
  foodgate check compose -f docker-compose.production.yml --fail-on-error

Emit the report as JSON:
  foodgate check compose -f docker-compose.production.yml --format json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "file",
				Aliases:  []string{"f"},
				Value:    "docker-compose.production.yml",
				Usage:    "Compose manifest to check",
				Required: false,
			},
			failOnErrorFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.String("file")

			slog.Info("checking compose topology", "file", path)

			report, err := compose.NewChecker(compose.WithVersion(version)).CheckFile(path)
			if err != nil {
				return fmt.Errorf("failed to check %q: %w", path, err)
			}

			return finishCheck(ctx, cmd, report)
		},
	}
}

func checkEnvCmd() *cli.Command {
	return &cli.Command{
		Name:                  "env",
		EnableShellCompletion: true,
		Usage:                 "Check a .env file against the backend contract",
		Description: `Check a .env file against the environment contract the backend
image reads at startup: Postgres credentials and endpoint, the Django
secret, the debug flag, and host allowlists.

Failures are missing or empty required variables and values the backend
cannot parse. Warnings flag debug mode enabled in production and the
backend's built-in default secret.

# Examples

Check the production env file:
  foodgate check env -f .env

Fail in CI on contract violations:
  foodgate check env -f .env --fail-on-error`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Value:   ".env",
				Usage:   "Env file to check",
			},
			failOnErrorFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.String("file")

			slog.Info("checking environment contract", "file", path)

			report, err := envfile.NewChecker(envfile.WithVersion(version)).CheckFile(path)
			if err != nil {
				return fmt.Errorf("failed to check %q: %w", path, err)
			}

			return finishCheck(ctx, cmd, report)
		},
	}
}

// finishCheck writes the report and applies --fail-on-error.
func finishCheck(ctx context.Context, cmd *cli.Command, report *check.Report) error {
	if err := writeResult(ctx, cmd, report); err != nil {
		return fmt.Errorf("failed to serialize check report: %w", err)
	}

	slog.Info("check completed",
		"kind", report.Kind,
		"status", report.Summary.Status,
		"passed", report.Summary.Passed,
		"failed", report.Summary.Failed,
		"warnings", report.Summary.Warnings,
		"duration", report.Summary.Duration)

	if cmd.Bool("fail-on-error") && report.Failed() {
		return fmt.Errorf("check failed: %d finding(s) did not pass", report.Summary.Failed)
	}
	return nil
}
