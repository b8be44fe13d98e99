package changelog

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"
)

func encodeUTF16BE(t *testing.T, s string) []byte {
	t.Helper()
	b, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder().Bytes([]byte(s))
	if err != nil {
		t.Fatalf("encode UTF-16: %v", err)
	}
	return b
}

func TestDecoder_Decode(t *testing.T) {
	tests := []struct {
		name       string
		candidates []*Encoding
		input      []byte
		expected   string
		encoding   string
	}{
		{name: "ASCII", input: []byte("plain"), expected: "plain", encoding: "UTF-8"},
		{name: "UTF-8", input: []byte("na\xc3\xafve"), expected: "naïve", encoding: "UTF-8"},
		{name: "Latin-1 fallback", input: []byte("caf\xe9"), expected: "café", encoding: "ISO-8859-1"},
		{name: "UTF-16 only", candidates: []*Encoding{UTF16}, input: []byte{0x00, 'h', 0x00, 0xe9}, expected: "hé", encoding: "UTF-16"},
		{name: "UTF-16 little endian BOM", candidates: []*Encoding{UTF16}, input: []byte{0xff, 0xfe, 'o', 0x00, 'k', 0x00}, expected: "ok", encoding: "UTF-16"},
		{name: "UTF-8 rejected then UTF-16", candidates: []*Encoding{UTF8, UTF16}, input: []byte{0x00, 0xe9}, expected: "é", encoding: "UTF-16"},
		{name: "Empty span", input: nil, expected: "", encoding: "UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDecoder(tt.candidates...)
			got, enc, err := d.Decode(tt.input)
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Decode = %q, expected %q", got, tt.expected)
			}
			if enc.Name() != tt.encoding {
				t.Errorf("encoding = %q, expected %q", enc.Name(), tt.encoding)
			}
		})
	}
}

func TestDecoder_Undecodable(t *testing.T) {
	d := NewDecoder(UTF8, UTF16)

	// Invalid UTF-8, and odd-length so it cannot be UTF-16 either.
	_, _, err := d.Decode([]byte("caf\xe9!"))

	var span *UndecodableSpanError
	if !errors.As(err, &span) {
		t.Fatalf("expected *UndecodableSpanError, got %v", err)
	}
	if span.Length != 5 {
		t.Errorf("Length = %d, expected 5", span.Length)
	}
	if strings.Join(span.Tried, ",") != "UTF-8,UTF-16" {
		t.Errorf("Tried = %v, expected [UTF-8 UTF-16]", span.Tried)
	}
}

func TestDecoder_DecodeToSubstitutesFirstCandidate(t *testing.T) {
	d := NewDecoder(UTF8)

	var out strings.Builder
	out.WriteString("x=")
	err := d.DecodeTo(&out, []byte("caf\xe9"))

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if out.String() != "x=caf�" {
		t.Errorf("output = %q, expected %q", out.String(), "x=caf�")
	}
}

func TestDecoder_IndependentStatePerSpan(t *testing.T) {
	d := NewDecoder()

	var out strings.Builder
	for _, span := range [][]byte{[]byte("caf\xe9"), []byte("na\xc3\xafve"), []byte("\xfcber")} {
		if err := d.DecodeTo(&out, span); err != nil {
			t.Fatalf("DecodeTo: %v", err)
		}
	}

	if out.String() != "cafénaïveüber" {
		t.Errorf("output = %q, expected %q", out.String(), "cafénaïveüber")
	}
}

func TestLookupEncoding(t *testing.T) {
	tests := []struct {
		input    string
		expected *Encoding
	}{
		{input: "UTF-8", expected: UTF8},
		{input: "utf8", expected: UTF8},
		{input: "ISO-8859-1", expected: ISO88591},
		{input: "latin1", expected: ISO88591},
		{input: "UTF-16", expected: UTF16},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := LookupEncoding(tt.input)
			if err != nil {
				t.Fatalf("LookupEncoding(%q): %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("LookupEncoding(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}

	t.Run("Windows-1252 via IANA index", func(t *testing.T) {
		enc, err := LookupEncoding("windows-1252")
		if err != nil {
			t.Fatalf("LookupEncoding: %v", err)
		}
		got, _, err := NewDecoder(enc).Decode([]byte{0x80})
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if got != "€" {
			t.Errorf("Decode = %q, expected %q", got, "€")
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		if _, err := LookupEncoding("no-such-charset"); err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}

func TestValidUTF16(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected bool
	}{
		{name: "Empty", input: nil, expected: true},
		{name: "BMP", input: []byte{0x00, 'a'}, expected: true},
		{name: "Odd length", input: []byte{0x00, 'a', 0x00}, expected: false},
		{name: "Surrogate pair", input: []byte{0xd8, 0x3d, 0xde, 0x00}, expected: true},
		{name: "Lone high surrogate", input: []byte{0xd8, 0x3d, 0x00, 'a'}, expected: false},
		{name: "Trailing high surrogate", input: []byte{0x00, 'a', 0xd8, 0x3d}, expected: false},
		{name: "Lone low surrogate", input: []byte{0xde, 0x00}, expected: false},
		{name: "Little endian pair", input: []byte{0xff, 0xfe, 0x3d, 0xd8, 0x00, 0xde}, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := validUTF16(tt.input); got != tt.expected {
				t.Errorf("validUTF16(% x) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}
