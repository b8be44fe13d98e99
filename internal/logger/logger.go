package logger

import (
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	componentKey = "component"
	runKey       = "run"
)

// Options controls log level and format.
type Options struct {
	Level  string // trace, debug, info, warn, error
	Format string // text or json
}

// Init configures the standard logger and tags it with a fresh run id.
func Init(out io.Writer, opts Options) (*logrus.Entry, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	l := logrus.StandardLogger()
	l.SetOutput(out)
	l.SetLevel(level)
	l.SetFormatter(formatter(opts.Format))

	return l.WithField(runKey, uuid.NewString()), nil
}

func parseLevel(s string) (logrus.Level, error) {
	if s == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

func formatter(format string) logrus.Formatter {
	switch format {
	case "json":
		return &logrus.JSONFormatter{}
	default:
		return &logrus.TextFormatter{}
	}
}

// Get returns the process logger.
func Get() *logrus.Logger {
	return logrus.StandardLogger()
}

// WithComponent derives an entry tagged with a component name.
func WithComponent(entry *logrus.Entry, component string) *logrus.Entry {
	if entry == nil {
		entry = logrus.NewEntry(Get())
	}
	return entry.WithField(componentKey, component)
}
