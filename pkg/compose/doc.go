// Package compose parses Docker Compose manifests into a typed model
// and checks them against the expected production topology: the exact
// service and volume sets, valid image references, the published
// gateway port, and the db/backend wiring.
package compose
