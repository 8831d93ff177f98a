package logging

import (
	"github.com/sirupsen/logrus"
)

// logrusAdapter backs the Logger interface with a logrus entry. Derived
// loggers share the entry's underlying logger, only the bound fields differ.
type logrusAdapter struct {
	entry *logrus.Entry
}

// NewLogrusAdapter returns a Logger writing through a fresh logrus logger
// configured with the given level ("debug", "info", "warn", "error") and
// format ("text" or "json"). Unknown levels fall back to info.
func NewLogrusAdapter(level, format string) Logger {
	l := logrus.New()

	if parsed, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(parsed)
	} else {
		l.Warnf("Invalid log level '%s', using 'info'", level)
		l.SetLevel(logrus.InfoLevel)
	}

	switch format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &logrusAdapter{entry: logrus.NewEntry(l)}
}

// NewLogrusAdapterFromLogger wraps an already-configured logrus logger, so
// commands can reuse the instance the config package set up.
func NewLogrusAdapterFromLogger(logger *logrus.Logger) Logger {
	if logger == nil {
		logger = logrus.New()
	}
	return &logrusAdapter{entry: logrus.NewEntry(logger)}
}

func (l *logrusAdapter) Debug(msg string, fields ...Field) {
	l.entry.WithFields(fieldsMap(fields)).Debug(msg)
}

func (l *logrusAdapter) Info(msg string, fields ...Field) {
	l.entry.WithFields(fieldsMap(fields)).Info(msg)
}

func (l *logrusAdapter) Warn(msg string, fields ...Field) {
	l.entry.WithFields(fieldsMap(fields)).Warn(msg)
}

func (l *logrusAdapter) Error(msg string, fields ...Field) {
	l.entry.WithFields(fieldsMap(fields)).Error(msg)
}

// Fatal logs and exits via logrus.
func (l *logrusAdapter) Fatal(msg string, fields ...Field) {
	l.entry.WithFields(fieldsMap(fields)).Fatal(msg)
}

func (l *logrusAdapter) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusAdapter) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusAdapter) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusAdapter) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *logrusAdapter) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

func (l *logrusAdapter) WithError(err error) Logger {
	return &logrusAdapter{entry: l.entry.WithError(err)}
}

func (l *logrusAdapter) WithField(key string, value interface{}) Logger {
	return &logrusAdapter{entry: l.entry.WithField(key, value)}
}

func (l *logrusAdapter) WithFields(fields ...Field) Logger {
	return &logrusAdapter{entry: l.entry.WithFields(fieldsMap(fields))}
}

func fieldsMap(fields []Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}
