// Package gateway assembles the edge gateway: the routing table built
// from configuration, the data plane server with its middleware chain,
// and the admin listener. The routing table hot-reloads when the
// config file changes.
package gateway
