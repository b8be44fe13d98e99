package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/masmgr/darcslog/internal/changelog"
)

// Compile-time interface conformance checks.
var (
	_ ChangeLogReportWriter = (*ConsoleChangeLogWriter)(nil)
	_ ChangeLogReportWriter = (*JSONChangeLogWriter)(nil)
	_ ChangeLogReportWriter = (*CSVChangeLogWriter)(nil)
	_ ChangeLogReportWriter = (*MarkdownChangeLogWriter)(nil)
	_ ChangeLogReportWriter = (*CIChangeLogWriter)(nil)
	_ ChangeLogReportWriter = (*XMLChangeLogWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatCI       OutputFormat = "ci"
	FormatXML      OutputFormat = "xml"
)

var knownFormats = []OutputFormat{FormatConsole, FormatJSON, FormatCSV, FormatMarkdown, FormatCI, FormatXML}

// ParseFormat validates a user-supplied format name. Empty means console.
func ParseFormat(s string) (OutputFormat, error) {
	if s == "" {
		return FormatConsole, nil
	}
	f := OutputFormat(strings.ToLower(s))
	for _, known := range knownFormats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	Top        int
	OutputPath string
	// Writer receives the report when OutputPath is empty. Nil means stdout.
	Writer io.Writer
}

// ChangeLogReport holds one parsed change log ready for rendering.
type ChangeLogReport struct {
	Source      string
	Build       string
	GeneratedAt time.Time
	Digest      string
	Records     []changelog.Record
	Warnings    int
}

// NewChangeLogReport builds a report from a parsed list.
func NewChangeLogReport(source string, list *changelog.ChangeSetList, warnings int) *ChangeLogReport {
	return &ChangeLogReport{
		Source:      source,
		Build:       list.Build(),
		GeneratedAt: time.Now(),
		Digest:      list.Digest(),
		Records:     list.Records(),
		Warnings:    warnings,
	}
}

// ChangeLogReportWriter writes change log reports.
type ChangeLogReportWriter interface {
	Write(report *ChangeLogReport, options OutputOptions) error
}

// NewChangeLogReportWriter creates a report writer for the specified format.
func NewChangeLogReportWriter(format OutputFormat) ChangeLogReportWriter {
	switch format {
	case FormatJSON:
		return &JSONChangeLogWriter{}
	case FormatCSV:
		return &CSVChangeLogWriter{}
	case FormatMarkdown:
		return &MarkdownChangeLogWriter{}
	case FormatCI:
		return &CIChangeLogWriter{}
	case FormatXML:
		return &XMLChangeLogWriter{}
	default:
		return &ConsoleChangeLogWriter{}
	}
}
