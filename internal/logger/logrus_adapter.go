package logger

import (
	"github.com/sirupsen/logrus"
)

// LogrusAdapter exposes a logrus logger through the application Interface.
// The platform backends log through logrus directly; the rest of the
// daemon programs against Interface, so one configured logrus instance
// can serve both without double configuration.
type LogrusAdapter struct {
	entry *logrus.Entry
}

// FromLogrus wraps a configured logrus logger. A nil logger wraps the
// logrus standard logger.
func FromLogrus(log *logrus.Logger) *LogrusAdapter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogrusAdapter{entry: logrus.NewEntry(log)}
}

var _ Interface = (*LogrusAdapter)(nil)

func (l *LogrusAdapter) WithField(key string, value interface{}) Interface {
	return &LogrusAdapter{entry: l.entry.WithField(key, value)}
}

func (l *LogrusAdapter) WithFields(fields map[string]interface{}) Interface {
	return &LogrusAdapter{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *LogrusAdapter) WithError(err error) Interface {
	return &LogrusAdapter{entry: l.entry.WithError(err)}
}

// The non-f variants accept alternating key/value args the way the slog
// logger does, so call sites render the same through either backend.

func (l *LogrusAdapter) Debug(msg string, args ...interface{}) {
	l.withArgs(args).Debug(msg)
}

func (l *LogrusAdapter) Info(msg string, args ...interface{}) {
	l.withArgs(args).Info(msg)
}

func (l *LogrusAdapter) Warn(msg string, args ...interface{}) {
	l.withArgs(args).Warn(msg)
}

func (l *LogrusAdapter) Error(msg string, args ...interface{}) {
	l.withArgs(args).Error(msg)
}

func (l *LogrusAdapter) Debugf(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

func (l *LogrusAdapter) Infof(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

func (l *LogrusAdapter) Warnf(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

func (l *LogrusAdapter) Errorf(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

func (l *LogrusAdapter) Fatalf(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

func (l *LogrusAdapter) withArgs(args []interface{}) *logrus.Entry {
	if len(args) == 0 {
		return l.entry
	}
	fields := make(logrus.Fields, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			continue
		}
		fields[key] = args[i+1]
	}
	return l.entry.WithFields(fields)
}
