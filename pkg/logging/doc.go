// Package logging provides structured logging utilities for langpop components.
//
// # Overview
//
// This package wraps the standard library slog package with project defaults
// so the CLI and the dataset server log the same way. Records are JSON on
// stderr, carry module and version attributes, and include the source
// location at debug level.
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
//	func main() {
//	    logging.SetDefaultStructuredLogger("langpopd", version)
//	    slog.Info("serving dataset", "path", path)
//	}
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("langpop", "v1.0.0", "warn")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls verbosity when no explicit
// level is given:
//
//	LOG_LEVEL=debug langpopd
//
// # Output Format
//
//	{
//	    "time": "2026-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "merge complete",
//	    "module": "langpop",
//	    "version": "v1.0.0",
//	    "collisions": 12,
//	    "processed": 4096
//	}
package logging
