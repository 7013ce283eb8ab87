package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

const defaultLevel = logrus.InfoLevel

// global is the process-wide default logger, ready to use without
// any setup; New returns independent loggers for callers (tests,
// multiple sessions against different pools) that want their own
// level/output.
var global Logger

func init() {
	base := logrus.New()
	base.SetOutput(os.Stderr)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	base.SetLevel(defaultLevel)
	global = &Wrapper{entry: logrus.NewEntry(base)}
}

// New returns a Logger writing to out (os.Stderr, a file, etc.) at
// the given level ("trace".."error"; invalid values fall back to
// info).
func New(out *os.File, level string) Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(level); err == nil {
		base.SetLevel(lvl)
	} else {
		base.SetLevel(defaultLevel)
	}
	return &Wrapper{entry: logrus.NewEntry(base)}
}

// Default returns the process-wide logger.
func Default() Logger { return global }
