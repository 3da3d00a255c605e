package log

import (
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

var (
	mu            sync.RWMutex
	defaultLogger Logger = NewZerologLogger(zerolog.New(os.Stderr).With().Timestamp().Logger())
)

// GetLogger returns the package-level logger.
func GetLogger() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetLogger replaces the package-level logger. Passing nil silences
// all logging.
func SetLogger(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	if l == nil {
		l = NewZerologLogger(zerolog.Nop())
	}
	defaultLogger = l
}

// SetLevel sets the minimum level emitted by the package-level logger
// when it is zerolog-backed. Valid levels: "debug", "info", "warn",
// "error", "disabled".
func SetLevel(level string) error {
	lv, err := zerolog.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}
	mu.Lock()
	defer mu.Unlock()
	if zl, ok := defaultLogger.(*zerologLogger); ok {
		defaultLogger = &zerologLogger{base: zl.base.Level(lv)}
	}
	return nil
}

// zerologLogger adapts a zerolog.Logger to the Logger interface.
type zerologLogger struct {
	base zerolog.Logger
}

// NewZerologLogger wraps a zerolog.Logger in the Logger interface.
func NewZerologLogger(base zerolog.Logger) Logger {
	return &zerologLogger{base: base}
}

func (l *zerologLogger) Debug(msg string, fields ...any) { l.emit(l.base.Debug(), msg, fields) }
func (l *zerologLogger) Info(msg string, fields ...any)  { l.emit(l.base.Info(), msg, fields) }
func (l *zerologLogger) Warn(msg string, fields ...any)  { l.emit(l.base.Warn(), msg, fields) }
func (l *zerologLogger) Error(msg string, fields ...any) { l.emit(l.base.Error(), msg, fields) }

func (l *zerologLogger) With(fields ...any) Logger {
	ctx := l.base.With()
	for k, v := range pairs(fields) {
		ctx = ctx.Interface(k, v)
	}
	return &zerologLogger{base: ctx.Logger()}
}

func (l *zerologLogger) emit(e *zerolog.Event, msg string, fields []any) {
	for k, v := range pairs(fields) {
		if err, ok := v.(error); ok {
			e = e.AnErr(k, err)
			if trace := extractStacktrace(err); trace != "" {
				e = e.Str("stacktrace", trace)
			}
			continue
		}
		e = e.Interface(k, v)
	}
	e.Msg(msg)
}

// pairs converts an alternating key/value slice to a map. A trailing
// key without a value is kept under the "!BADKEY" marker, matching
// slog's treatment of malformed field lists.
func pairs(fields []any) map[string]any {
	out := make(map[string]any, len(fields)/2)
	for i := 0; i < len(fields); i += 2 {
		if i+1 >= len(fields) {
			out["!BADKEY"] = fields[i]
			break
		}
		key, ok := fields[i].(string)
		if !ok {
			key = fmt.Sprint(fields[i])
		}
		out[key] = fields[i+1]
	}
	return out
}

func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
