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

package defaults

import "time"

// Server timeouts for the gateway listeners.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// Generous because proxied media responses can be large.
	ServerWriteTimeout = 60 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Upstream timeouts for proxied requests to the backend service.
const (
	// UpstreamDialTimeout is the timeout for establishing upstream connections.
	UpstreamDialTimeout = 5 * time.Second

	// UpstreamResponseHeaderTimeout is the timeout for the upstream to start responding.
	UpstreamResponseHeaderTimeout = 30 * time.Second

	// UpstreamIdleConnTimeout is the timeout for idle upstream connections in the pool.
	UpstreamIdleConnTimeout = 90 * time.Second

	// UpstreamKeepAlive is the keep-alive duration for upstream connections.
	UpstreamKeepAlive = 30 * time.Second

	// UpstreamTLSHandshakeTimeout is the timeout for upstream TLS handshakes.
	UpstreamTLSHandshakeTimeout = 5 * time.Second
)

// HTTP client timeouts for outbound requests (manifest fetches).
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second
)

// Request limits.
const (
	// MaxUploadBytes is the request body cap applied to upload routes,
	// matching the deployment's client_max_body_size of 20MB.
	MaxUploadBytes = 20 << 20

	// RateLimit is the default sustained request rate per gateway instance.
	RateLimit = 100

	// RateLimitBurst is the default burst size for the request rate limiter.
	RateLimitBurst = 200
)
