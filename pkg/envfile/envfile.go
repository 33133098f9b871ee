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

package envfile

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/foodgram-ops/foodgate/pkg/check"
	apperrors "github.com/foodgram-ops/foodgate/pkg/errors"
)

const (
	// ReportKind identifies environment contract check reports.
	ReportKind = "EnvCheck"

	// defaultSecretKey is the placeholder the backend falls back to when
	// SECRET_KEY is unset. Deploying with it is a misconfiguration.
	defaultSecretKey = "secret_key"
)

// RequiredKeys are the variables the backend image reads at startup.
// All of them must be present and non-empty.
var RequiredKeys = []string{
	"POSTGRES_DB",
	"POSTGRES_USER",
	"POSTGRES_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"SECRET_KEY",
	"DEBUG",
	"ALLOWED_HOSTS",
	"CSRF_TRUSTED_ORIGINS",
}

// Env is the parsed contents of a .env file.
type Env struct {
	values map[string]string
}

// Load reads a .env file from path.
func Load(path string) (*Env, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, apperrors.WrapWithContext(apperrors.ErrCodeInvalidEnvironment,
			"failed to read env file", err, map[string]any{"path": path})
	}

	values := make(map[string]string)
	for _, key := range v.AllKeys() {
		values[strings.ToUpper(key)] = v.GetString(key)
	}
	return &Env{values: values}, nil
}

// Get returns the value for key and whether it was declared.
func (e *Env) Get(key string) (string, bool) {
	v, ok := e.values[strings.ToUpper(key)]
	return v, ok
}

// Len returns the number of declared variables.
func (e *Env) Len() int {
	return len(e.values)
}

// Checker validates a .env file against the backend contract.
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

// CheckFile loads the env file at path and checks it.
func (c *Checker) CheckFile(path string) (*check.Report, error) {
	env, err := Load(path)
	if err != nil {
		return nil, err
	}
	return c.Check(env, path), nil
}

// Check evaluates the env values against the backend contract.
func (c *Checker) Check(env *Env, source string) *check.Report {
	report := check.NewReport(ReportKind, c.version, source)

	for _, key := range RequiredKeys {
		value, ok := env.Get(key)
		if !ok {
			report.Fail(key, "declared and non-empty", "",
				fmt.Sprintf("%s is not declared", key))
			continue
		}
		if strings.TrimSpace(value) == "" {
			report.Fail(key, "declared and non-empty", "",
				fmt.Sprintf("%s is empty", key))
			continue
		}
		report.Pass(key, "declared and non-empty", redact(key, value))
	}

	c.checkDebug(env, report)
	c.checkPort(env, report)
	c.checkSecret(env, report)

	report.Finalize()

	slog.Debug("environment contract check completed",
		"source", source,
		"passed", report.Summary.Passed,
		"failed", report.Summary.Failed,
		"warnings", report.Summary.Warnings,
		"status", report.Summary.Status)

	return report
}

// checkDebug verifies DEBUG parses the way the backend parses it
// (int then bool) and warns when debug mode is on in production.
func (c *Checker) checkDebug(env *Env, report *check.Report) {
	value, ok := env.Get("DEBUG")
	if !ok || value == "" {
		return // missing already reported
	}

	n, err := strconv.Atoi(value)
	if err != nil || (n != 0 && n != 1) {
		report.Fail("DEBUG.value", "0 or 1", value,
			"backend parses DEBUG as an integer flag")
		return
	}
	if n == 1 {
		report.Warn("DEBUG.value", "0", value,
			"debug mode enabled in a production env file")
		return
	}
	report.Pass("DEBUG.value", "0 or 1", value)
}

// checkPort verifies DB_PORT is a usable TCP port.
func (c *Checker) checkPort(env *Env, report *check.Report) {
	value, ok := env.Get("DB_PORT")
	if !ok || value == "" {
		return
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 65535 {
		report.Fail("DB_PORT.value", "1-65535", value, "DB_PORT must be a TCP port")
		return
	}
	report.Pass("DB_PORT.value", "1-65535", value)
}

// checkSecret warns when SECRET_KEY is the backend's built-in default.
func (c *Checker) checkSecret(env *Env, report *check.Report) {
	value, ok := env.Get("SECRET_KEY")
	if !ok || value == "" {
		return
	}

	if value == defaultSecretKey {
		report.Warn("SECRET_KEY.value", "unique secret", "[default]",
			"SECRET_KEY is the backend's built-in default")
		return
	}
	report.Pass("SECRET_KEY.value", "unique secret", "[set]")
}

// redact hides credential values in report output.
func redact(key, value string) string {
	switch key {
	case "POSTGRES_PASSWORD", "SECRET_KEY":
		return "[redacted]"
	default:
		return value
	}
}
