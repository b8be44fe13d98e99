package changelog

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is a named character set used to decode free-text spans.
// Encodings are immutable and may be shared between parsers.
type Encoding struct {
	name  string
	enc   encoding.Encoding
	valid func([]byte) bool
}

var (
	// UTF8 rejects any span that is not well-formed UTF-8.
	UTF8 = &Encoding{name: "UTF-8", enc: unicode.UTF8, valid: utf8.Valid}
	// ISO88591 accepts every byte sequence.
	ISO88591 = &Encoding{name: "ISO-8859-1", enc: charmap.ISO8859_1, valid: func([]byte) bool { return true }}
	// UTF16 honours a leading byte order mark and assumes big endian otherwise.
	UTF16 = &Encoding{name: "UTF-16", enc: unicode.UTF16(unicode.BigEndian, unicode.UseBOM), valid: validUTF16}
)

// DefaultEncodings returns the candidate order used when none is configured.
func DefaultEncodings() []*Encoding {
	return []*Encoding{UTF8, ISO88591, UTF16}
}

// Name returns the IANA name of the encoding.
func (e *Encoding) Name() string {
	return e.name
}

// String implements fmt.Stringer.
func (e *Encoding) String() string {
	return e.name
}

// LookupEncoding resolves an IANA character set name.
func LookupEncoding(name string) (*Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8":
		return UTF8, nil
	case "iso-8859-1", "iso8859-1", "latin1", "l1":
		return ISO88591, nil
	case "utf-16", "utf16":
		return UTF16, nil
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = name
	}

	valid := func(b []byte) bool {
		out, err := enc.NewDecoder().Bytes(b)
		return err == nil && !strings.ContainsRune(string(out), utf8.RuneError)
	}
	if cm, ok := enc.(*charmap.Charmap); ok {
		valid = func(b []byte) bool {
			for _, c := range b {
				if cm.DecodeByte(c) == utf8.RuneError {
					return false
				}
			}
			return true
		}
	}

	return &Encoding{name: canonical, enc: enc, valid: valid}, nil
}

// LookupEncodings resolves a list of names, preserving order.
func LookupEncodings(names []string) ([]*Encoding, error) {
	encs := make([]*Encoding, 0, len(names))
	for _, n := range names {
		e, err := LookupEncoding(n)
		if err != nil {
			return nil, err
		}
		encs = append(encs, e)
	}
	return encs, nil
}

// decode performs a strict decode. Every call uses a fresh decoder state.
func (e *Encoding) decode(span []byte) (string, bool) {
	if !e.valid(span) {
		return "", false
	}
	if e == UTF8 {
		return string(span), true
	}
	out, err := e.enc.NewDecoder().Bytes(span)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// decodeLossy substitutes U+FFFD for every sequence the encoding rejects.
func (e *Encoding) decodeLossy(span []byte) string {
	out, err := e.enc.NewDecoder().Bytes(span)
	if err != nil {
		return strings.ToValidUTF8(string(span), string(utf8.RuneError))
	}
	return string(out)
}

// UndecodableSpanError reports a span that no candidate encoding accepted.
type UndecodableSpanError struct {
	Offset int
	Length int
	Tried  []string
}

// Error implements the error interface.
func (e *UndecodableSpanError) Error() string {
	return fmt.Sprintf("undecodable span at byte %d (%d bytes), tried %s",
		e.Offset, e.Length, strings.Join(e.Tried, ", "))
}

// Decoder decodes byte spans by trying candidate encodings in order.
type Decoder struct {
	candidates []*Encoding
}

// NewDecoder creates a decoder. With no candidates DefaultEncodings is used.
func NewDecoder(candidates ...*Encoding) *Decoder {
	if len(candidates) == 0 {
		candidates = DefaultEncodings()
	}
	return &Decoder{candidates: candidates}
}

// Candidates returns the encodings in the order they are tried.
func (d *Decoder) Candidates() []*Encoding {
	out := make([]*Encoding, len(d.candidates))
	copy(out, d.candidates)
	return out
}

// Decode returns the first successful decode of span.
func (d *Decoder) Decode(span []byte) (string, *Encoding, error) {
	for _, e := range d.candidates {
		if s, ok := e.decode(span); ok {
			return s, e, nil
		}
	}

	tried := make([]string, len(d.candidates))
	for i, e := range d.candidates {
		tried[i] = e.name
	}
	return "", nil, &UndecodableSpanError{Length: len(span), Tried: tried}
}

// DecodeLossy decodes span with the first candidate, replacing invalid
// sequences.
func (d *Decoder) DecodeLossy(span []byte) string {
	return d.candidates[0].decodeLossy(span)
}

// DecodeTo appends the decoded span to out. When no candidate succeeds the
// lossy first-candidate decode is appended and the error is returned so the
// caller can report it.
func (d *Decoder) DecodeTo(out *strings.Builder, span []byte) error {
	s, _, err := d.Decode(span)
	if err != nil {
		out.WriteString(d.DecodeLossy(span))
		return err
	}
	out.WriteString(s)
	return nil
}

// validUTF16 checks an even length and correctly paired surrogates.
func validUTF16(b []byte) bool {
	if len(b)%2 != 0 {
		return false
	}

	bigEndian := true
	if len(b) >= 2 {
		switch {
		case b[0] == 0xFE && b[1] == 0xFF:
			b = b[2:]
		case b[0] == 0xFF && b[1] == 0xFE:
			bigEndian = false
			b = b[2:]
		}
	}

	unit := func(i int) uint16 {
		if bigEndian {
			return uint16(b[i])<<8 | uint16(b[i+1])
		}
		return uint16(b[i+1])<<8 | uint16(b[i])
	}

	for i := 0; i < len(b); i += 2 {
		u := unit(i)
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+2 >= len(b) {
				return false
			}
			next := unit(i + 2)
			if next < 0xDC00 || next > 0xDFFF {
				return false
			}
			i += 2
		case u >= 0xDC00 && u <= 0xDFFF:
			return false
		}
	}

	return true
}
