package changelog

import (
	"strings"
	"unicode/utf8"
)

// field brackets a free-text element whose payload encoding is undeclared.
type field struct {
	open  *Pattern
	close *Pattern
}

var freeTextFields = []field{
	{open: NewPattern("<name>"), close: NewPattern("</name>")},
	{open: NewPattern("<comment>"), close: NewPattern("</comment>")},
}

// Sanitizer turns a raw changelog into a single, consistently decoded
// string. Markup outside <name> and <comment> is always decoded as UTF-8;
// the payload of those elements goes through the fallback decoder.
type Sanitizer struct {
	decoder     *Decoder
	diagnostics Diagnostics
}

// NewSanitizer creates a sanitizer. A nil decoder uses DefaultEncodings and
// a nil sink discards warnings.
func NewSanitizer(decoder *Decoder, diagnostics Diagnostics) *Sanitizer {
	if decoder == nil {
		decoder = NewDecoder()
	}
	if diagnostics == nil {
		diagnostics = DiscardDiagnostics{}
	}
	return &Sanitizer{decoder: decoder, diagnostics: diagnostics}
}

// Cleanse decodes raw and replaces characters that are invalid in XML.
func (s *Sanitizer) Cleanse(raw []byte) string {
	var out strings.Builder
	out.Grow(len(raw))

	cursor := 0
	for cursor < len(raw) {
		f, start, ok := nextField(raw, cursor)
		if !ok {
			break
		}

		payloadStart := start + f.open.Len()
		writeStructural(&out, raw[cursor:payloadStart])

		payloadEnd := f.close.Before(raw, payloadStart)
		if err := s.decoder.DecodeTo(&out, raw[payloadStart:payloadEnd]); err != nil {
			if span, ok := err.(*UndecodableSpanError); ok {
				span.Offset = payloadStart
			}
			s.diagnostics.Warn(err)
		}

		cursor = payloadEnd
		if payloadEnd < len(raw) {
			closeEnd := payloadEnd + f.close.Len()
			writeStructural(&out, raw[payloadEnd:closeEnd])
			cursor = closeEnd
		}
	}

	if cursor < len(raw) {
		writeStructural(&out, raw[cursor:])
	}

	return filterInvalidChars(out.String())
}

// nextField returns the free-text field whose opening tag occurs first at
// or after cursor.
func nextField(raw []byte, cursor int) (field, int, bool) {
	var best field
	bestAt := -1
	for _, f := range freeTextFields {
		at, ok := f.open.FindNext(raw, cursor)
		if !ok {
			continue
		}
		if bestAt == -1 || at < bestAt {
			best, bestAt = f, at
		}
	}
	return best, bestAt, bestAt != -1
}

func writeStructural(out *strings.Builder, span []byte) {
	if utf8.Valid(span) {
		out.Write(span)
		return
	}
	out.WriteString(UTF8.decodeLossy(span))
}

// validXMLChar reports whether r may appear in an XML 1.0 document.
func validXMLChar(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return true
	case r < 0x20:
		return false
	case r == 0xFFFE, r == 0xFFFF:
		return false
	}
	return true
}

// filterInvalidChars replaces each invalid character with U+FFFD.
func filterInvalidChars(s string) string {
	clean := true
	for _, r := range s {
		if !validXMLChar(r) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if validXMLChar(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(utf8.RuneError)
		}
	}
	return b.String()
}
