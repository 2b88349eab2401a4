// Package log is the application-wide structured logger, a thin layer over logrus.
package log

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"imgfilter/internal/errors"

	"github.com/sirupsen/logrus"
)

var (
	isDebug atomic.Bool
	logger  = NewLogger()
)

// Field is a single structured key/value pair attached to a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field.
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Option configures a Logger at construction time.
type Option func(*logrus.Logger)

// WithOutput directs log output to w.
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger) {
		l.SetOutput(w)
	}
}

// WithJSON switches to one JSON object per line.
func WithJSON() Option {
	return func(l *logrus.Logger) {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime: "timestamp",
				logrus.FieldKeyMsg:  "message",
			},
		})
	}
}

type Logger struct {
	entry *logrus.Entry
}

// NewLogger creates a logger writing text to stderr unless options say otherwise.
// Debug entries are gated by SetDebug, not by the logrus level.
func NewLogger(opts ...Option) *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	for _, opt := range opts {
		opt(l)
	}
	return &Logger{entry: logrus.NewEntry(l)}
}

// Configure replaces the package-level logger.
func Configure(opts ...Option) {
	logger = NewLogger(opts...)
}

// SetDebug toggles debug output for every logger.
func SetDebug(debug bool) {
	isDebug.Store(debug)
}

// IsDebug reports whether debug output is enabled.
func IsDebug() bool {
	return isDebug.Load()
}

// With returns a child logger carrying the given fields.
func (l *Logger) With(fields ...Field) *Logger {
	data := make(logrus.Fields, len(fields))
	for _, f := range fields {
		data[f.Key] = f.Value
	}
	return &Logger{entry: l.entry.WithFields(data)}
}

// WithError returns a child logger describing err. Typed application errors
// contribute their kind and, for file errors, the path.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	fields := []Field{F("error", err.Error())}
	if kind := errors.KindOf(err); kind != errors.Unknown {
		fields = append(fields, F("error_kind", kind.String()))
	}
	var fileErr *errors.FileError
	if errors.As(err, &fileErr) && fileErr.Path() != "" {
		fields = append(fields, F("path", fileErr.Path()))
	}
	return l.With(fields...)
}

func (l *Logger) Debug(args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debug(args...)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if isDebug.Load() {
		l.entry.Debugf(format, args...)
	}
}

func (l *Logger) Info(args ...interface{}) {
	l.entry.Info(args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *Logger) Warn(args ...interface{}) {
	l.entry.Warn(args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *Logger) Error(args ...interface{}) {
	l.entry.Error(args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// LogWithFields returns the package logger with fields attached.
func LogWithFields(fields ...Field) *Logger {
	return logger.With(fields...)
}

// LogWithError returns the package logger describing err.
func LogWithError(err error) *Logger {
	return logger.WithError(err)
}

// Info logs a message, formatting it when args are given.
func Info(msg string, args ...interface{}) {
	logger.Info(format(msg, args))
}

// Infof logs a formatted message
func Infof(format string, args ...interface{}) {
	logger.Infof(format, args...)
}

// Debug logs a message when debug output is enabled
func Debug(msg string, args ...interface{}) {
	if isDebug.Load() {
		logger.Debug(format(msg, args))
	}
}

// Debugf logs a formatted message when debug output is enabled
func Debugf(format string, args ...interface{}) {
	logger.Debugf(format, args...)
}

// Warn logs a warning, formatting it when args are given.
func Warn(msg string, args ...interface{}) {
	logger.Warn(format(msg, args))
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

// Error logs an error message, formatting it when args are given.
func Error(msg string, args ...interface{}) {
	logger.Error(format(msg, args))
}

// Errorf logs a formatted error message
func Errorf(format string, args ...interface{}) {
	logger.Errorf(format, args...)
}

func format(msg string, args []interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}
