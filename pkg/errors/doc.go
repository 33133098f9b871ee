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

// Package errors provides structured error types for foodgate.
//
// Errors carry a machine-readable code, a human-readable message, an
// optional wrapped cause, and optional key/value context. They integrate
// with the standard errors.Is/errors.As chain via Unwrap.
//
// Usage:
//
//	if err := checker.Validate(m); err != nil {
//	    return errors.Wrap(errors.ErrCodeInvalidManifest, "topology check failed", err)
//	}
package errors
