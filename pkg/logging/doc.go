// Package logging provides structured logging setup for clustersnap.
//
// It wraps the standard library slog package with project defaults: JSON
// output to stderr, module/version context on every record, LOG_LEVEL
// environment configuration, and source location tracking at debug level.
//
// Typical use in main:
//
//	logging.SetDefaultStructuredLoggerWithLevel("clustersnap", version, logLevel)
//	slog.Info("starting collection", "namespaces", namespaces)
//
// Supported levels (case-insensitive): DEBUG, INFO (default), WARN/WARNING,
// and ERROR.
package logging
