package output

import (
	"fmt"
	"strings"
)

// MarkdownChangeLogWriter writes change log reports as Markdown.
type MarkdownChangeLogWriter struct{}

// Write outputs the change log report as Markdown.
func (w *MarkdownChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	records := limitTop(report.Records, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	stats := summarize(report.Records)

	fmt.Fprintln(out, "# Change Log")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Source:** %s\n\n", escapeMarkdown(report.Source))
	if report.Build != "" {
		fmt.Fprintf(out, "**Build:** %s\n\n", escapeMarkdown(report.Build))
	}
	fmt.Fprintf(out, "**Digest:** `%s`\n\n", report.Digest)
	fmt.Fprintf(out, "**Total Patches:** %d (inverted: %d, files touched: %d)\n\n",
		len(report.Records), stats.inverted, stats.filesTouched)

	fmt.Fprintln(out, "## Patches")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "| # | Date | Author | Name | Added | Deleted | Modified |")
	fmt.Fprintln(out, "|---|------|--------|------|-------|---------|----------|")

	for i, r := range records {
		name := escapeMarkdown(r.Name())
		if r.Inverted() {
			name = "~~" + name + "~~"
		}
		fmt.Fprintf(out, "| %d | %s | %s | %s | %s | %s | %s |\n",
			i+1,
			formatPatchDate(r.Date()),
			escapeMarkdown(r.Author()),
			name,
			pathCell(r.Added()),
			pathCell(r.Deleted()),
			pathCell(r.Modified()),
		)
	}

	return nil
}

func pathCell(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	cells := make([]string, len(paths))
	for i, p := range paths {
		cells[i] = "`" + strings.ReplaceAll(p, "|", "\\|") + "`"
	}
	return strings.Join(cells, "<br>")
}

func escapeMarkdown(s string) string {
	replacer := strings.NewReplacer(
		"|", "\\|",
		"*", "\\*",
		"_", "\\_",
		"`", "\\`",
	)
	return replacer.Replace(s)
}
