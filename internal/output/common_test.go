package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestLimitTop(t *testing.T) {
	items := []int{1, 2, 3}

	tests := []struct {
		name string
		top  int
		want []int
	}{
		{name: "NoLimitWhenZero", top: 0, want: []int{1, 2, 3}},
		{name: "NoLimitWhenNegative", top: -1, want: []int{1, 2, 3}},
		{name: "Limited", top: 2, want: []int{1, 2}},
		{name: "NoLimitWhenTopExceedsLength", top: 5, want: []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := limitTop(items, tt.top)
			if len(got) != len(tt.want) {
				t.Fatalf("len(limitTop(..., %d)) = %d, want %d", tt.top, len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("limitTop(..., %d)[%d] = %d, want %d", tt.top, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatPatchDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "20240102030405", want: "2024-01-02T03:04:05"},
		{input: "not a date", want: "not a date"},
		{input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := formatPatchDate(tt.input); got != tt.want {
				t.Fatalf("formatPatchDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	stats := summarize(testReport().Records)
	if stats.inverted != 1 {
		t.Errorf("inverted = %d, want 1", stats.inverted)
	}
	// src/parser.go and README, each counted once.
	if stats.filesTouched != 2 {
		t.Errorf("filesTouched = %d, want 2", stats.filesTouched)
	}
}

func TestOpenOutputWriter_UsesOptionsWriter(t *testing.T) {
	tests := []struct {
		name   string
		writer ChangeLogReportWriter
		want   string
	}{
		{name: "JSON", writer: &JSONChangeLogWriter{}, want: `"source": "repo.xml"`},
		{name: "CSV", writer: &CSVChangeLogWriter{}, want: "Hash,Author,Date"},
		{name: "Markdown", writer: &MarkdownChangeLogWriter{}, want: "~~Revert"},
		{name: "CI", writer: &CIChangeLogWriter{}, want: `"type":"summary"`},
		{name: "XML", writer: &XMLChangeLogWriter{}, want: "<changelog>"},
		{name: "Console", writer: &ConsoleChangeLogWriter{}, want: "Add parser"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tt.writer.Write(testReport(), OutputOptions{Writer: &buf}); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output = %q, expected it to contain %q", buf.String(), tt.want)
			}
		})
	}
}
