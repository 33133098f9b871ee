// Package admin serves the operational endpoints of the gateway on a
// separate listener: liveness, readiness, Prometheus metrics, and a
// read-only dump of the active routing table.
package admin
