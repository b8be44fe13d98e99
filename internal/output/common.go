package output

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/masmgr/darcslog/internal/changelog"
)

const (
	patchDateLayout      = "20060102150405"
	reportDateTimeLayout = "2006-01-02T15:04:05"
)

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

// formatPatchDate renders a darcs date as ISO-8601 UTC. Values that do not
// parse are returned as is.
func formatPatchDate(date string) string {
	t, err := time.Parse(patchDateLayout, date)
	if err != nil {
		return date
	}
	return t.Format(reportDateTimeLayout)
}

// openOutputWriter opens the report destination. The returned file is non-nil
// only when the caller must close it.
func openOutputWriter(options OutputOptions) (io.Writer, *os.File, error) {
	if options.OutputPath == "" {
		if options.Writer != nil {
			return options.Writer, nil, nil
		}
		return os.Stdout, nil, nil
	}
	file, err := os.Create(options.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

func truncateMessage(msg string, maxLen int) string {
	runes := []rune(msg)
	if len(runes) <= maxLen {
		return msg
	}
	return string(runes[:maxLen-3]) + "..."
}

func shortHash(hash string) string {
	hash = strings.TrimSuffix(hash, ".gz")
	if i := strings.LastIndexByte(hash, '-'); i >= 0 {
		hash = hash[i+1:]
	}
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

type patchStats struct {
	inverted     int
	filesTouched int
}

func summarize(records []changelog.Record) patchStats {
	var s patchStats
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.Inverted() {
			s.inverted++
		}
		for _, p := range r.AffectedPaths() {
			seen[p] = struct{}{}
		}
	}
	s.filesTouched = len(seen)
	return s
}
