// Package log provides a small structured logging facade for the embed
// encoding steps, backed by zerolog. Steps log fit and bake events with
// the standard attribute keys defined in attributes.go; hosts that want
// different behavior can swap the package-level logger.
package log

// Logger is the structured logging interface used by the encoding
// steps. Fields are alternating key/value pairs, as in log/slog.
type Logger interface {
	// Debug logs detailed diagnostic information, e.g. per-column fit
	// progress. Usually disabled outside development.
	Debug(msg string, fields ...any)

	// Info logs general operational information about training and
	// application of steps.
	Info(msg string, fields ...any)

	// Warn logs potentially problematic situations that do not stop
	// the operation.
	Warn(msg string, fields ...any)

	// Error logs failure conditions. If a field value is an error
	// carrying a stack trace, the trace is included in the event.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated on
	// every subsequent event.
	With(fields ...any) Logger
}
