package log

import "sync"

// Record is one captured log event.
type Record struct {
	Level  string
	Msg    string
	Fields map[string]any
}

// TestLogger captures log events in memory for assertions in tests.
type TestLogger struct {
	mu      sync.Mutex
	with    map[string]any
	records *[]Record
}

// NewTestLogger creates a logger that records every event.
func NewTestLogger() *TestLogger {
	recs := make([]Record, 0, 16)
	return &TestLogger{records: &recs, with: map[string]any{}}
}

// Records returns a copy of the captured events.
func (t *TestLogger) Records() []Record {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Record, len(*t.records))
	copy(out, *t.records)
	return out
}

func (t *TestLogger) Debug(msg string, fields ...any) { t.record("debug", msg, fields) }
func (t *TestLogger) Info(msg string, fields ...any)  { t.record("info", msg, fields) }
func (t *TestLogger) Warn(msg string, fields ...any)  { t.record("warn", msg, fields) }
func (t *TestLogger) Error(msg string, fields ...any) { t.record("error", msg, fields) }

func (t *TestLogger) With(fields ...any) Logger {
	t.mu.Lock()
	defer t.mu.Unlock()
	child := &TestLogger{records: t.records, with: make(map[string]any, len(t.with))}
	for k, v := range t.with {
		child.with[k] = v
	}
	for k, v := range pairs(fields) {
		child.with[k] = v
	}
	return child
}

func (t *TestLogger) record(level, msg string, fields []any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	merged := make(map[string]any, len(t.with)+len(fields)/2)
	for k, v := range t.with {
		merged[k] = v
	}
	for k, v := range pairs(fields) {
		merged[k] = v
	}
	*t.records = append(*t.records, Record{Level: level, Msg: msg, Fields: merged})
}
