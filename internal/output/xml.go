package output

import "github.com/masmgr/darcslog/internal/changelog"

// XMLChangeLogWriter re-emits the report as a darcs changelog document.
type XMLChangeLogWriter struct{}

// Write outputs the change log report as darcs XML.
func (w *XMLChangeLogWriter) Write(report *ChangeLogReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	return changelog.WriteXML(out, limitTop(report.Records, options.Top))
}
