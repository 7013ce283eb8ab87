// Package log wraps logrus behind a small interface, the same shape
// the teacher's log package exposes, so call sites depend on a
// handful of leveled methods rather than on logrus directly.
package log

import "github.com/sirupsen/logrus"

// Fields is a convenience alias for a batch of structured fields
// attached to a single log line.
type Fields = logrus.Fields

// Logger is the leveled, structured logging surface used throughout
// the module.
type Logger interface {
	Trace(msg string)
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	WithField(key string, val interface{}) Logger
	WithFields(fields Fields) Logger
	WithError(err error) Logger
}

// Wrapper adapts a logrus.Entry to Logger.
type Wrapper struct {
	entry *logrus.Entry
}

var _ Logger = (*Wrapper)(nil)

func (l *Wrapper) Trace(msg string) { l.entry.Trace(msg) }
func (l *Wrapper) Debug(msg string) { l.entry.Debug(msg) }
func (l *Wrapper) Info(msg string)  { l.entry.Info(msg) }
func (l *Wrapper) Warn(msg string)  { l.entry.Warn(msg) }
func (l *Wrapper) Error(msg string) { l.entry.Error(msg) }

func (l *Wrapper) WithField(key string, val interface{}) Logger {
	return &Wrapper{entry: l.entry.WithField(key, val)}
}

func (l *Wrapper) WithFields(fields Fields) Logger {
	return &Wrapper{entry: l.entry.WithFields(fields)}
}

func (l *Wrapper) WithError(err error) Logger {
	return &Wrapper{entry: l.entry.WithError(err)}
}
