// Package check defines the shared report format produced by the
// deployment checkers (compose topology and environment contract).
package check
