package logging

import "fmt"

// MockLogger is a mock implementation of the Logger interface for testing.
// It captures log entries for verification in tests.
type MockLogger struct {
	Entries       []LogEntry
	pendingError  error
	pendingFields []Field
}

// LogEntry represents a single log entry captured by MockLogger.
type LogEntry struct {
	Level   string
	Message string
	Fields  []Field
	Error   error
}

func (m *MockLogger) record(level, msg string, fields []Field) {
	allFields := append(m.pendingFields, fields...)
	m.Entries = append(m.Entries, LogEntry{
		Level:   level,
		Message: msg,
		Fields:  allFields,
		Error:   m.pendingError,
	})
}

// Debug logs a debug-level message with optional fields.
func (m *MockLogger) Debug(msg string, fields ...Field) { m.record("DEBUG", msg, fields) }

// Info logs an info-level message with optional fields.
func (m *MockLogger) Info(msg string, fields ...Field) { m.record("INFO", msg, fields) }

// Warn logs a warning-level message with optional fields.
func (m *MockLogger) Warn(msg string, fields ...Field) { m.record("WARN", msg, fields) }

// Error logs an error-level message with optional fields.
func (m *MockLogger) Error(msg string, fields ...Field) { m.record("ERROR", msg, fields) }

// WithError attaches an error to the next log entry.
func (m *MockLogger) WithError(err error) Logger {
	return &MockLogger{Entries: m.Entries, pendingError: err, pendingFields: m.pendingFields}
}

// WithField attaches a field to the next log entry.
func (m *MockLogger) WithField(key string, value interface{}) Logger {
	fields := append(append([]Field{}, m.pendingFields...), Field{Key: key, Value: value})
	return &MockLogger{Entries: m.Entries, pendingError: m.pendingError, pendingFields: fields}
}

// WithFields attaches multiple fields to the next log entry.
func (m *MockLogger) WithFields(fields ...Field) Logger {
	all := append(append([]Field{}, m.pendingFields...), fields...)
	return &MockLogger{Entries: m.Entries, pendingError: m.pendingError, pendingFields: all}
}

func (m *MockLogger) Debugf(format string, args ...interface{}) {
	m.record("DEBUG", fmt.Sprintf(format, args...), nil)
}

func (m *MockLogger) Infof(format string, args ...interface{}) {
	m.record("INFO", fmt.Sprintf(format, args...), nil)
}

func (m *MockLogger) Warnf(format string, args ...interface{}) {
	m.record("WARN", fmt.Sprintf(format, args...), nil)
}

func (m *MockLogger) Errorf(format string, args ...interface{}) {
	m.record("ERROR", fmt.Sprintf(format, args...), nil)
}

// Fatal records the entry but does not exit, so tests can assert on it.
func (m *MockLogger) Fatal(msg string, fields ...Field) { m.record("FATAL", msg, fields) }

func (m *MockLogger) Fatalf(msg string, args ...interface{}) {
	m.record("FATAL", fmt.Sprintf(msg, args...), nil)
}
