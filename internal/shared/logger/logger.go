package logger

import (
	"context"
	"os"

	"github.com/lhpaul/finadmin/internal/shared/contextkeys"

	"github.com/sirupsen/logrus"
)

const timestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Logger is the structured logging interface used across the application.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithContext(ctx context.Context) Logger
	WithComponent(component string) Logger
}

// logrusLogger implements Logger on top of a logrus entry.
type logrusLogger struct {
	entry *logrus.Entry
}

// New creates a logger configured from LOG_LEVEL and LOG_FORMAT environment
// variables. JSON output is forced for production environments.
func New() Logger {
	l := logrus.New()
	l.SetLevel(levelFromEnv())
	l.SetFormatter(formatterFromEnv())
	l.SetOutput(os.Stdout)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

// NewWithConfig creates a logger with an explicit level and format, falling
// back to info/text when the values do not parse.
func NewWithConfig(level, format string) Logger {
	l := logrus.New()
	if parsed, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(parsed)
	} else {
		l.SetLevel(logrus.InfoLevel)
	}
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: timestampFormat})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: timestampFormat})
	}
	l.SetOutput(os.Stdout)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

func (l *logrusLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *logrusLogger) Info(args ...interface{})  { l.entry.Info(args...) }
func (l *logrusLogger) Warn(args ...interface{})  { l.entry.Warn(args...) }
func (l *logrusLogger) Error(args ...interface{}) { l.entry.Error(args...) }

func (l *logrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }

func (l *logrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &logrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// WithContext lifts the request correlation values stored in ctx into log fields.
func (l *logrusLogger) WithContext(ctx context.Context) Logger {
	fields := logrus.Fields{}
	addField := func(key interface{}, name string) {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields[name] = v
		}
	}
	addField(contextkeys.RequestIDKey, "request_id")
	addField(contextkeys.UserIDKey, "user_id")
	addField(contextkeys.CompanyIDKey, "company_id")
	addField(contextkeys.OperationKey, "operation")
	return &logrusLogger{entry: l.entry.WithFields(fields)}
}

func (l *logrusLogger) WithComponent(component string) Logger {
	return &logrusLogger{entry: l.entry.WithField("component", component)}
}

func levelFromEnv() logrus.Level {
	switch os.Getenv("LOG_LEVEL") {
	case "debug", "DEBUG":
		return logrus.DebugLevel
	case "warn", "WARN", "warning", "WARNING":
		return logrus.WarnLevel
	case "error", "ERROR":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func formatterFromEnv() logrus.Formatter {
	env := os.Getenv("ENVIRONMENT")
	if os.Getenv("LOG_FORMAT") == "json" || env == "production" || env == "prod" {
		return &logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		}
	}
	return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"}
}

// Noop returns a logger that discards everything. Intended for tests.
func Noop() Logger {
	l := logrus.New()
	l.SetOutput(discard{})
	l.SetLevel(logrus.PanicLevel)
	return &logrusLogger{entry: logrus.NewEntry(l)}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
