// Package logger provides structured logging for the demo server.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, JSON/text handlers, runtime level changes
//   - context.go: context propagation of the logger and request ID
//
// The level is held in a shared slog.LevelVar so a configuration reload can
// change verbosity without rebuilding loggers.
package logger
