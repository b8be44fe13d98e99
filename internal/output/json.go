package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSONChangeLogWriter writes change log reports as JSON.
type JSONChangeLogWriter struct{}

// JSONChangeLogReport is the JSON output structure for a change log.
type JSONChangeLogReport struct {
	Source       string      `json:"source"`
	Build        string      `json:"build,omitempty"`
	GeneratedAt  string      `json:"generatedAt"`
	Digest       string      `json:"digest"`
	TotalPatches int         `json:"totalPatches"`
	Warnings     int         `json:"warnings"`
	Patches      []JSONPatch `json:"patches"`
}

// JSONPatch is the JSON output structure for a single patch.
type JSONPatch struct {
	Hash      string   `json:"hash"`
	Author    string   `json:"author"`
	Date      string   `json:"date"`
	LocalDate string   `json:"localDate"`
	Inverted  bool     `json:"inverted"`
	Name      string   `json:"name"`
	Comment   string   `json:"comment,omitempty"`
	Added     []string `json:"added"`
	Deleted   []string `json:"deleted"`
	Modified  []string `json:"modified"`
}

// Write outputs the change log report as JSON.
func (w *JSONChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	records := limitTop(report.Records, options.Top)

	patches := make([]JSONPatch, len(records))
	for i, r := range records {
		patches[i] = JSONPatch{
			Hash:      r.Hash(),
			Author:    r.Author(),
			Date:      formatPatchDate(r.Date()),
			LocalDate: r.LocalDate(),
			Inverted:  r.Inverted(),
			Name:      r.Name(),
			Comment:   r.Comment(),
			Added:     emptyIfNil(r.Added()),
			Deleted:   emptyIfNil(r.Deleted()),
			Modified:  emptyIfNil(r.Modified()),
		}
	}

	jsonReport := JSONChangeLogReport{
		Source:       report.Source,
		Build:        report.Build,
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		Digest:       report.Digest,
		TotalPatches: len(report.Records),
		Warnings:     report.Warnings,
		Patches:      patches,
	}

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return writeJSON(out, jsonReport)
}

func emptyIfNil(paths []string) []string {
	if paths == nil {
		return []string{}
	}
	return paths
}

func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
