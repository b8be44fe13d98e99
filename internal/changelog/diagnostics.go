package changelog

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Diagnostics receives non-fatal problems found while reading a changelog.
// Warnings are *UndecodableSpanError or *UnrecognizedElementWarning.
type Diagnostics interface {
	Warn(warning error)
}

// UnrecognizedElementWarning reports an element outside the known tag set.
type UnrecognizedElementWarning struct {
	Offset  int64
	Element string
}

// Error implements the error interface.
func (w *UnrecognizedElementWarning) Error() string {
	return fmt.Sprintf("unrecognized element <%s> at byte %d", w.Element, w.Offset)
}

// DiscardDiagnostics drops every warning.
type DiscardDiagnostics struct{}

func (DiscardDiagnostics) Warn(error) {}

// LogDiagnostics writes warnings to a logrus entry.
type LogDiagnostics struct {
	Entry  *logrus.Entry
	Source string
}

// NewLogDiagnostics creates a sink logging under the given entry.
func NewLogDiagnostics(entry *logrus.Entry, source string) *LogDiagnostics {
	return &LogDiagnostics{Entry: entry, Source: source}
}

// Warn logs warning at warn level with its source.
func (d *LogDiagnostics) Warn(warning error) {
	entry := d.Entry
	if entry == nil {
		entry = logrus.NewEntry(logrus.StandardLogger())
	}
	if d.Source != "" {
		entry = entry.WithField("source", d.Source)
	}

	var span *UndecodableSpanError
	var elem *UnrecognizedElementWarning
	switch {
	case errors.As(warning, &span):
		entry.WithFields(logrus.Fields{
			"offset": span.Offset,
			"length": span.Length,
			"tried":  span.Tried,
		}).Warn("free-text span could not be decoded, substituting replacement characters")
	case errors.As(warning, &elem):
		entry.WithFields(logrus.Fields{
			"offset":  elem.Offset,
			"element": elem.Element,
		}).Warn("skipping unrecognized element")
	default:
		entry.WithError(warning).Warn("changelog warning")
	}
}

// RecordingDiagnostics keeps warnings in memory. It is not safe for
// concurrent use; give each parse its own instance.
type RecordingDiagnostics struct {
	Warnings []error
}

// Warn appends warning to Warnings.
func (d *RecordingDiagnostics) Warn(warning error) {
	d.Warnings = append(d.Warnings, warning)
}
