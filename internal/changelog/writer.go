package changelog

import (
	"bufio"
	"encoding/xml"
	"io"
)

// WriteXML renders records in the layout of `darcs changes --xml-output
// --summary`. Renames are written as a removal plus an addition, which is
// how they are read back.
func WriteXML(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("<changelog>\n")
	for _, r := range records {
		inverted := "False"
		if r.inverted {
			inverted = "True"
		}

		bw.WriteString("<patch author='")
		escape(bw, r.author)
		bw.WriteString("' date='")
		escape(bw, r.date)
		bw.WriteString("' local_date='")
		escape(bw, r.localDate)
		bw.WriteString("' inverted='" + inverted + "' hash='")
		escape(bw, r.hash)
		bw.WriteString("'>\n")

		bw.WriteString("\t<name>")
		escape(bw, r.name)
		bw.WriteString("</name>\n")
		if r.comment != "" {
			bw.WriteString("\t<comment>")
			escape(bw, r.comment)
			bw.WriteString("</comment>\n")
		}

		bw.WriteString("\t<summary>\n")
		writePaths(bw, "remove_file", r.deleted)
		writePaths(bw, "add_file", r.added)
		writePaths(bw, "modify_file", r.modified)
		bw.WriteString("\t</summary>\n")
		bw.WriteString("</patch>\n")
	}
	bw.WriteString("</changelog>\n")

	return bw.Flush()
}

func writePaths(bw *bufio.Writer, tag string, paths []string) {
	for _, p := range paths {
		bw.WriteString("\t<" + tag + ">\n\t")
		escape(bw, p)
		bw.WriteString("\n\t</" + tag + ">\n")
	}
}

func escape(bw *bufio.Writer, s string) {
	// bufio.Writer errors are sticky and surface from Flush.
	_ = xml.EscapeText(bw, []byte(s))
}
