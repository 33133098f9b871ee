// Package config loads gateway configuration from an optional YAML
// file with FOODGATE_* environment overrides, and hot-reloads the
// routing table when the file changes.
package config
