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

package check

import (
	"time"
)

// Status represents the overall outcome of a deployment check.
type Status string

const (
	// StatusPass indicates all findings passed.
	StatusPass Status = "pass"

	// StatusFail indicates one or more findings failed.
	StatusFail Status = "fail"

	// StatusWarn indicates no failures but at least one warning.
	StatusWarn Status = "warn"
)

// FindingStatus represents the outcome of a single finding.
type FindingStatus string

const (
	// FindingPassed indicates the expectation was satisfied.
	FindingPassed FindingStatus = "passed"

	// FindingFailed indicates the expectation was not satisfied.
	FindingFailed FindingStatus = "failed"

	// FindingWarning indicates a suspicious but non-fatal condition.
	FindingWarning FindingStatus = "warning"
)

// Finding represents the result of evaluating a single expectation.
type Finding struct {
	// Name is the fully qualified expectation name (e.g., "services.gateway.ports").
	Name string `json:"name" yaml:"name"`

	// Expected is the value or condition the check looked for.
	Expected string `json:"expected" yaml:"expected"`

	// Actual is the value found in the checked source.
	Actual string `json:"actual,omitempty" yaml:"actual,omitempty"`

	// Status is the outcome of this expectation.
	Status FindingStatus `json:"status" yaml:"status"`

	// Message provides additional context, especially for failures.
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
}

// Summary contains aggregate statistics about a check run.
type Summary struct {
	Passed   int           `json:"passed" yaml:"passed"`
	Failed   int           `json:"failed" yaml:"failed"`
	Warnings int           `json:"warnings" yaml:"warnings"`
	Total    int           `json:"total" yaml:"total"`
	Status   Status        `json:"status" yaml:"status"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// Report represents the complete outcome of a deployment check.
type Report struct {
	// Kind identifies the check that produced the report
	// (e.g., "ComposeCheck", "EnvCheck").
	Kind string `json:"kind" yaml:"kind"`

	// Version is the tool version that ran the check.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`

	// Source is the path of the file that was checked.
	Source string `json:"source" yaml:"source"`

	// Created is when the check ran.
	Created time.Time `json:"created" yaml:"created"`

	// Summary contains aggregate check statistics.
	Summary Summary `json:"summary" yaml:"summary"`

	// Findings contains per-expectation details.
	Findings []Finding `json:"findings" yaml:"findings"`

	start time.Time
}

// NewReport creates a Report for the given check kind and source.
func NewReport(kind, version, source string) *Report {
	now := time.Now()
	return &Report{
		Kind:     kind,
		Version:  version,
		Source:   source,
		Created:  now.UTC(),
		Findings: make([]Finding, 0),
		start:    now,
	}
}

// Pass records a satisfied expectation.
func (r *Report) Pass(name, expected, actual string) {
	r.add(Finding{Name: name, Expected: expected, Actual: actual, Status: FindingPassed})
}

// Fail records an unsatisfied expectation.
func (r *Report) Fail(name, expected, actual, message string) {
	r.add(Finding{Name: name, Expected: expected, Actual: actual, Status: FindingFailed, Message: message})
}

// Warn records a suspicious but non-fatal condition.
func (r *Report) Warn(name, expected, actual, message string) {
	r.add(Finding{Name: name, Expected: expected, Actual: actual, Status: FindingWarning, Message: message})
}

func (r *Report) add(f Finding) {
	r.Findings = append(r.Findings, f)
	switch f.Status {
	case FindingPassed:
		r.Summary.Passed++
	case FindingFailed:
		r.Summary.Failed++
	case FindingWarning:
		r.Summary.Warnings++
	}
	r.Summary.Total++
}

// Finalize computes the overall status and duration. Call once, after
// all findings have been recorded.
func (r *Report) Finalize() {
	r.Summary.Duration = time.Since(r.start)
	switch {
	case r.Summary.Failed > 0:
		r.Summary.Status = StatusFail
	case r.Summary.Warnings > 0:
		r.Summary.Status = StatusWarn
	default:
		r.Summary.Status = StatusPass
	}
}

// Failed reports whether the check produced any failed findings.
func (r *Report) Failed() bool {
	return r.Summary.Failed > 0
}
