// Package server provides the HTTP listener harness shared by the gateway
// data plane and the admin listener: middleware chain (metrics, request ID,
// panic recovery, rate limiting, access logging), request body caps,
// readiness tracking, graceful shutdown, and optional systemd readiness
// notification.
package server
