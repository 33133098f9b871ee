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

package compose

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/foodgram-ops/foodgate/pkg/check"
)

const (
	// ReportKind identifies compose topology check reports.
	ReportKind = "ComposeCheck"

	// GatewayHostPort is the host port the gateway service must publish.
	GatewayHostPort = 9090
)

// ExpectedServices are the services the production topology must
// declare, and no others.
var ExpectedServices = []string{"db", "backend", "frontend", "gateway"}

// ExpectedVolumes are the named volumes the production topology must
// declare, and no others.
var ExpectedVolumes = []string{"pg_data_production", "static_production", "media_production"}

// Checker validates a Compose manifest against the production topology.
type Checker struct {
	version string
}

// Option is a functional option for configuring Checker instances.
type Option func(*Checker)

// WithVersion sets the tool version recorded in reports.
func WithVersion(version string) Option {
	return func(c *Checker) {
		c.version = version
	}
}

// NewChecker creates a Checker with the provided options.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckFile loads the manifest at path and checks it.
func (c *Checker) CheckFile(path string) (*check.Report, error) {
	m, err := Load(path)
	if err != nil {
		return nil, err
	}
	return c.Check(m, path), nil
}

// Check evaluates the manifest against the expected topology.
func (c *Checker) Check(m *Manifest, source string) *check.Report {
	report := check.NewReport(ReportKind, c.version, source)

	c.checkServices(m, report)
	c.checkVolumes(m, report)
	c.checkImages(m, report)
	c.checkGatewayPort(m, report)
	c.checkWiring(m, report)

	report.Finalize()

	slog.Debug("compose topology check completed",
		"source", source,
		"passed", report.Summary.Passed,
		"failed", report.Summary.Failed,
		"warnings", report.Summary.Warnings,
		"status", report.Summary.Status)

	return report
}

// checkServices verifies the service set matches exactly.
func (c *Checker) checkServices(m *Manifest, report *check.Report) {
	for _, name := range ExpectedServices {
		if _, ok := m.Services[name]; ok {
			report.Pass("services."+name, "declared", "declared")
		} else {
			report.Fail("services."+name, "declared", "missing",
				fmt.Sprintf("service %q is not declared", name))
		}
	}

	for _, name := range sortedKeys(m.Services) {
		if !contains(ExpectedServices, name) {
			report.Fail("services."+name, "not declared", "declared",
				fmt.Sprintf("unexpected service %q", name))
		}
	}
}

// checkVolumes verifies the named volume set matches exactly.
func (c *Checker) checkVolumes(m *Manifest, report *check.Report) {
	for _, name := range ExpectedVolumes {
		if _, ok := m.Volumes[name]; ok {
			report.Pass("volumes."+name, "declared", "declared")
		} else {
			report.Fail("volumes."+name, "declared", "missing",
				fmt.Sprintf("volume %q is not declared", name))
		}
	}

	for _, name := range sortedKeys(m.Volumes) {
		if !contains(ExpectedVolumes, name) {
			report.Fail("volumes."+name, "not declared", "declared",
				fmt.Sprintf("unexpected volume %q", name))
		}
	}
}

// checkImages verifies every service image parses as a normalized
// reference. Services built locally instead of pulled get a warning.
func (c *Checker) checkImages(m *Manifest, report *check.Report) {
	for _, name := range sortedKeys(m.Services) {
		svc := m.Services[name]
		field := "services." + name + ".image"

		if svc.Image == "" {
			if svc.Build != nil {
				report.Warn(field, "image reference", "build",
					"service is built locally; production should pull a published image")
			} else {
				report.Fail(field, "image reference", "",
					"service declares neither image nor build")
			}
			continue
		}

		ref, err := ParseImageRef(svc.Image)
		if err != nil {
			report.Fail(field, "valid image reference", svc.Image, err.Error())
			continue
		}

		if ref.Tag == "latest" && !strings.Contains(svc.Image, ":") {
			report.Warn(field, "pinned tag", svc.Image,
				"untagged image resolves to :latest; pin a tag for reproducible deploys")
		} else {
			report.Pass(field, "valid image reference", ref.String())
		}
	}
}

// checkGatewayPort verifies the gateway publishes the expected host port
// and nothing else exposes host ports.
func (c *Checker) checkGatewayPort(m *Manifest, report *check.Report) {
	gw, ok := m.Services["gateway"]
	if !ok {
		return // already reported by checkServices
	}

	expected := fmt.Sprintf("host port %d", GatewayHostPort)
	ports := gw.PublishedPorts()
	if containsInt(ports, GatewayHostPort) {
		report.Pass("services.gateway.ports", expected, fmt.Sprint(ports))
	} else {
		report.Fail("services.gateway.ports", expected, fmt.Sprint(ports),
			"gateway must publish the public entrypoint port")
	}

	for _, name := range sortedKeys(m.Services) {
		if name == "gateway" {
			continue
		}
		if ports := m.Services[name].PublishedPorts(); len(ports) > 0 {
			report.Warn("services."+name+".ports", "no published ports", fmt.Sprint(ports),
				"only the gateway should be reachable from the host")
		}
	}
}

// checkWiring verifies the db env file and the backend dependency on db.
func (c *Checker) checkWiring(m *Manifest, report *check.Report) {
	if db, ok := m.Services["db"]; ok {
		if len(db.EnvFile) > 0 {
			report.Pass("services.db.env_file", "declared", strings.Join(db.EnvFile, ","))
		} else {
			report.Fail("services.db.env_file", "declared", "missing",
				"db must read credentials from the env file")
		}
	}

	if backend, ok := m.Services["backend"]; ok {
		if backend.DependsOn.Contains("db") {
			report.Pass("services.backend.depends_on", "db", strings.Join(backend.DependsOn, ","))
		} else {
			report.Fail("services.backend.depends_on", "db", strings.Join(backend.DependsOn, ","),
				"backend must start after the database")
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}
