package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// CIChangeLogWriter writes change log reports as NDJSON (one JSON object per line) for CI pipelines.
type CIChangeLogWriter struct{}

// CISummary is the first line of CI output, containing aggregate statistics.
type CISummary struct {
	Type          string `json:"type"`
	Source        string `json:"source"`
	Digest        string `json:"digest"`
	TotalPatches  int    `json:"totalPatches"`
	InvertedCount int    `json:"invertedCount"`
	FilesTouched  int    `json:"filesTouched"`
	Warnings      int    `json:"warnings"`
}

// CIPatchEntry represents a single patch in CI output.
type CIPatchEntry struct {
	Type     string `json:"type"`
	Hash     string `json:"hash"`
	Date     string `json:"date"`
	Author   string `json:"author"`
	Name     string `json:"name"`
	Inverted bool   `json:"inverted"`
	Files    int    `json:"files"`
}

// Write outputs the change log report as NDJSON.
func (w *CIChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	records := limitTop(report.Records, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	stats := summarize(report.Records)
	summary := CISummary{
		Type:          "summary",
		Source:        report.Source,
		Digest:        report.Digest,
		TotalPatches:  len(report.Records),
		InvertedCount: stats.inverted,
		FilesTouched:  stats.filesTouched,
		Warnings:      report.Warnings,
	}
	if err := writeNDJSONLine(out, summary); err != nil {
		return err
	}

	for _, r := range records {
		entry := CIPatchEntry{
			Type:     "patch",
			Hash:     r.Hash(),
			Date:     formatPatchDate(r.Date()),
			Author:   r.Author(),
			Name:     r.Name(),
			Inverted: r.Inverted(),
			Files:    len(r.AffectedPaths()),
		}
		if err := writeNDJSONLine(out, entry); err != nil {
			return err
		}
	}

	return nil
}

func writeNDJSONLine(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal NDJSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
