package changelog

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MalformedLogError reports markup that cannot be turned into records.
// Offset is a byte offset into the sanitized document.
type MalformedLogError struct {
	Offset  int64
	Element string
	Err     error
}

// Error implements the error interface.
func (e *MalformedLogError) Error() string {
	if e.Element != "" {
		return fmt.Sprintf("malformed changelog at byte %d in <%s>: %v", e.Offset, e.Element, e.Err)
	}
	return fmt.Sprintf("malformed changelog at byte %d: %v", e.Offset, e.Err)
}

// Unwrap returns the underlying decoder or structure error.
func (e *MalformedLogError) Unwrap() error {
	return e.Err
}

var (
	errNestedPatch     = errors.New("patch element opened inside another patch")
	errUnclosedElement = errors.New("document ended with open elements")
)

// Parser reads darcs XML changelogs. A Parser holds configuration only and
// may be used from several goroutines when its Diagnostics sink allows it.
type Parser struct {
	decoder        *Decoder
	diagnostics    Diagnostics
	build          string
	strictInverted bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithEncodings sets the candidate encodings for free-text spans.
func WithEncodings(encodings ...*Encoding) Option {
	return func(p *Parser) {
		p.decoder = NewDecoder(encodings...)
	}
}

// WithDiagnostics sets the sink for non-fatal warnings.
func WithDiagnostics(d Diagnostics) Option {
	return func(p *Parser) {
		if d != nil {
			p.diagnostics = d
		}
	}
}

// WithBuild attaches an opaque build identity to parsed lists.
func WithBuild(build string) Option {
	return func(p *Parser) {
		p.build = build
	}
}

// WithStrictInverted rejects inverted attributes other than "True"/"False".
func WithStrictInverted(strict bool) Option {
	return func(p *Parser) {
		p.strictInverted = strict
	}
}

// NewParser creates a parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		decoder:     NewDecoder(),
		diagnostics: DiscardDiagnostics{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse reads a whole changelog from r.
func Parse(r io.Reader, opts ...Option) (*ChangeSetList, error) {
	return NewParser(opts...).Parse(r)
}

// ParseBytes parses an in-memory changelog.
func ParseBytes(raw []byte, opts ...Option) (*ChangeSetList, error) {
	return NewParser(opts...).ParseBytes(raw)
}

// ParseFile parses the changelog stored at path.
func ParseFile(path string, opts ...Option) (*ChangeSetList, error) {
	return NewParser(opts...).ParseFile(path)
}

// Parse reads r to the end and parses it.
func (p *Parser) Parse(r io.Reader) (*ChangeSetList, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read changelog: %w", err)
	}
	return p.ParseBytes(raw)
}

// ParseFile reads and parses the changelog stored at path.
func (p *Parser) ParseFile(path string) (*ChangeSetList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read changelog: %w", err)
	}
	return p.ParseBytes(raw)
}

// ParseBytes sanitizes raw and folds its elements into records. On error no
// list is returned.
func (p *Parser) ParseBytes(raw []byte) (*ChangeSetList, error) {
	text := NewSanitizer(p.decoder, p.diagnostics).Cleanse(raw)

	d := xml.NewDecoder(strings.NewReader(text))
	d.Strict = true
	// The sanitizer already produced UTF-8 whatever the prolog declares.
	d.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	h := &handler{
		diagnostics:    p.diagnostics,
		strictInverted: p.strictInverted,
	}

	for {
		offset := d.InputOffset()
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &MalformedLogError{Offset: d.InputOffset(), Element: h.openElement(), Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			// The frame is not pushed yet when start fails.
			if err := h.start(t, offset); err != nil {
				return nil, &MalformedLogError{Offset: offset, Element: t.Name.Local, Err: err}
			}
		case xml.EndElement:
			err = h.end(t)
		case xml.CharData:
			h.chars(t)
		}
		if err != nil {
			return nil, &MalformedLogError{Offset: offset, Element: h.openElement(), Err: err}
		}
	}

	if len(h.frames) > 0 {
		return nil, &MalformedLogError{Offset: d.InputOffset(), Element: h.openElement(), Err: errUnclosedElement}
	}

	return NewChangeSetList(p.build, h.records), nil
}

// frame is one open element.
type frame struct {
	name    string
	tag     Tag
	state   state
	literal strings.Builder
}

// handler folds one document's token stream into records.
type handler struct {
	frames         []*frame
	current        *RecordBuilder
	records        []Record
	diagnostics    Diagnostics
	strictInverted bool
}

func (h *handler) state() state {
	if len(h.frames) == 0 {
		return stateIdle
	}
	return h.frames[len(h.frames)-1].state
}

func (h *handler) top() *frame {
	if len(h.frames) == 0 {
		return nil
	}
	return h.frames[len(h.frames)-1]
}

func (h *handler) openElement() string {
	if f := h.top(); f != nil {
		return f.name
	}
	return ""
}

func (h *handler) start(el xml.StartElement, offset int64) error {
	tag := ParseTag(el.Name.Local)
	next, changes := stateFor(tag)
	if !changes {
		next = h.state()
	}

	switch tag {
	case TagUnknown:
		h.diagnostics.Warn(&UnrecognizedElementWarning{Offset: offset, Element: el.Name.Local})
	case TagPatch:
		if h.current != nil {
			return errNestedPatch
		}
		b, err := h.newPatch(el.Attr)
		if err != nil {
			return err
		}
		h.current = b
	case TagModifyFile:
		// A path still buffered for an enclosing modify_file belongs to
		// that file, not the one being opened.
		if f := h.top(); f != nil && f.tag == TagModifyFile {
			h.flush(f)
			f.literal.Reset()
		}
	case TagMove:
		if h.current != nil {
			from, to := attr(el.Attr, "from"), attr(el.Attr, "to")
			if from != "" {
				h.current.Delete(from)
			}
			if to != "" {
				h.current.Add(to)
			}
		}
	case TagChangelog, TagName, TagComment, TagSummary, TagAddFile, TagRemoveFile,
		TagAddedLines, TagRemovedLines, TagAddDirectory, TagRemoveDirectory:
	}

	h.frames = append(h.frames, &frame{name: el.Name.Local, tag: tag, state: next})
	return nil
}

func (h *handler) end(el xml.EndElement) error {
	f := h.top()
	if f == nil || f.name != el.Name.Local {
		return fmt.Errorf("unexpected </%s>", el.Name.Local)
	}
	h.frames = h.frames[:len(h.frames)-1]

	switch f.tag {
	case TagPatch:
		h.records = append(h.records, h.current.Build())
		h.current = nil
	case TagName, TagComment, TagModifyFile, TagAddFile, TagRemoveFile,
		TagAddDirectory, TagRemoveDirectory:
		h.flush(f)
	case TagChangelog, TagSummary, TagMove, TagAddedLines, TagRemovedLines, TagUnknown:
	}
	return nil
}

// flush stores the literal collected by f into the current record.
func (h *handler) flush(f *frame) {
	if h.current == nil {
		return
	}

	switch f.tag {
	case TagName:
		h.current.Name(f.literal.String())
	case TagComment:
		h.current.Comment(StripTrackingMarker(f.literal.String()))
	default:
		path := strings.Trim(f.literal.String(), " \t\r\n")
		if path == "" {
			return
		}
		switch f.tag {
		case TagModifyFile:
			h.current.Modify(path)
		case TagAddFile, TagAddDirectory:
			h.current.Add(path)
		case TagRemoveFile, TagRemoveDirectory:
			h.current.Delete(path)
		}
	}
}

func (h *handler) chars(data xml.CharData) {
	f := h.top()
	if f == nil || !f.state.accumulates() {
		return
	}
	// Text inside an unknown child is not part of the parent's literal.
	if f.tag == TagUnknown {
		return
	}
	f.literal.Write(data)
}

func (h *handler) newPatch(attrs []xml.Attr) (*RecordBuilder, error) {
	values := make(map[string]string, len(attrs))
	for _, a := range attrs {
		values[a.Name.Local] = a.Value
	}

	for _, required := range []string{"author", "date", "local_date", "hash", "inverted"} {
		if _, ok := values[required]; !ok {
			return nil, fmt.Errorf("patch is missing required attribute %q", required)
		}
	}

	b := NewRecordBuilder(values["author"], values["date"], values["local_date"], values["hash"])

	switch v := values["inverted"]; v {
	case "True":
		b.Inverted(true)
	case "False":
		b.Inverted(false)
	default:
		if h.strictInverted {
			return nil, fmt.Errorf("patch %s has invalid inverted value %q", values["hash"], v)
		}
	}

	return b, nil
}

func attr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}
