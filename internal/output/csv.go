package output

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVChangeLogWriter writes change log reports as CSV, one row per patch.
// Path lists are joined with ';'.
type CSVChangeLogWriter struct{}

// Write outputs the change log report as CSV.
func (w *CSVChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	records := limitTop(report.Records, options.Top)

	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	headers := []string{"Hash", "Author", "Date", "LocalDate", "Inverted", "Name", "Added", "Deleted", "Modified"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.Hash(),
			r.Author(),
			formatPatchDate(r.Date()),
			r.LocalDate(),
			strconv.FormatBool(r.Inverted()),
			r.Name(),
			strings.Join(r.Added(), ";"),
			strings.Join(r.Deleted(), ";"),
			strings.Join(r.Modified(), ";"),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
