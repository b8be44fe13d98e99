package output

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
)

// ConsoleChangeLogWriter writes change log reports to the console.
type ConsoleChangeLogWriter struct{}

// Write outputs the change log report as a colored table.
func (w *ConsoleChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	records := limitTop(report.Records, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	green := color.New(color.FgGreen)
	green.Fprintln(out, "Change Log")
	fmt.Fprintf(out, "Source: %s\n", report.Source)
	if report.Build != "" {
		fmt.Fprintf(out, "Build: %s\n", report.Build)
	}
	fmt.Fprintf(out, "Digest: %s\n", report.Digest)

	stats := summarize(report.Records)
	fmt.Fprintf(out, "Total patches: %d, Inverted: %d, Files touched: %d\n",
		len(report.Records), stats.inverted, stats.filesTouched)
	if report.Warnings > 0 {
		color.New(color.FgYellow).Fprintf(out, "Warnings: %d\n", report.Warnings)
	}
	fmt.Fprintln(out)

	if len(records) == 0 {
		fmt.Fprintln(out, "No patches found.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tHash\tDate\tAuthor\tName\tA\tD\tM")

	for i, r := range records {
		name := truncateMessage(r.Name(), 50)
		if r.Inverted() {
			name = color.YellowString("UNDO: ") + name
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			i+1,
			shortHash(r.Hash()),
			formatPatchDate(r.Date()),
			truncateMessage(r.Author(), 30),
			name,
			len(r.Added()),
			len(r.Deleted()),
			len(r.Modified()),
		)
	}

	return tw.Flush()
}
