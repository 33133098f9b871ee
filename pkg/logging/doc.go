// Package logging provides structured logging utilities for foodgate components.
//
// # Overview
//
// This package wraps the standard library slog package with gateway-specific
// defaults and conventions for consistent logging across the daemon and CLI.
// It supports environment-based log level configuration, module/version
// context injection, and automatic source location tracking for debug logs.
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("foodgated", version)
//
//	    slog.Info("proxying request", "path", "/api/recipes/")
//	    slog.Error("upstream dial failed", "error", err)
//	}
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug foodgate serve
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "gateway started",
//	    "module": "foodgated",
//	    "version": "v1.0.0",
//	    "listen": ":9090"
//	}
package logging
