package reader

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	cmferrors "github.com/jacoelho/cmf/errors"
	"github.com/jacoelho/cmf/internal/vocab"
)

// eventKind identifies the kind of streaming XML event.
type eventKind int

const (
	eventStart eventKind = iota
	eventEnd
	eventText
)

const streamBufferSize = 64 * 1024

// event is a single streaming XML token. Depth is the depth of the element
// the event belongs to; the root element has depth 0.
type event struct {
	Name   xml.Name
	Attrs  []xml.Attr
	Text   []byte
	Kind   eventKind
	Depth  int
	Line   int
	Column int
}

func (e *event) loc() location {
	return location{line: e.Line, column: e.Column}
}

// streamDecoder yields start, end and text events for one CMF document. It
// checks that the root is a Model and that every element is in the root's
// namespace, so handlers only see CMF vocabulary names.
type streamDecoder struct {
	dec   *xml.Decoder
	space string
	depth int
	done  bool
}

func newStreamDecoder(r io.Reader) *streamDecoder {
	dec := xml.NewDecoder(bufio.NewReaderSize(r, streamBufferSize))
	dec.Strict = true
	return &streamDecoder{dec: dec}
}

// next returns the next event or io.EOF after the root element closes.
func (d *streamDecoder) next() (event, error) {
	for {
		tok, err := d.dec.Token()
		line, column := d.dec.InputPos()
		if errors.Is(err, io.EOF) {
			if !d.done {
				return event{}, &fault{code: cmferrors.ErrMalformed, msg: "document has no complete Model element", loc: location{line: line, column: column}}
			}
			return event{}, io.EOF
		}
		if err != nil {
			return event{}, malformed(err, line, column)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if d.done {
				return event{}, &fault{code: cmferrors.ErrMalformed, msg: fmt.Sprintf("element %s after the document element", t.Name.Local), loc: location{line: line, column: column}}
			}
			if d.depth == 0 {
				if t.Name.Local != vocab.Model {
					return event{}, faultf(location{line: line, column: column}, cmferrors.ErrVocabulary, "document element is %s, want %s", t.Name.Local, vocab.Model)
				}
				d.space = t.Name.Space
			} else if t.Name.Space != d.space {
				return event{}, faultf(location{line: line, column: column}, cmferrors.ErrVocabulary, "element {%s}%s is not in the CMF namespace", t.Name.Space, t.Name.Local)
			}
			ev := event{Kind: eventStart, Name: t.Name, Attrs: t.Attr, Depth: d.depth, Line: line, Column: column}
			d.depth++
			return ev, nil
		case xml.EndElement:
			d.depth--
			if d.depth == 0 {
				d.done = true
			}
			return event{Kind: eventEnd, Name: t.Name, Depth: d.depth, Line: line, Column: column}, nil
		case xml.CharData:
			if d.depth == 0 {
				continue
			}
			return event{Kind: eventText, Text: t, Depth: d.depth - 1, Line: line, Column: column}, nil
		}
	}
}

func malformed(err error, line, column int) *fault {
	var syntax *xml.SyntaxError
	if errors.As(err, &syntax) {
		return &fault{code: cmferrors.ErrMalformed, msg: syntax.Msg, loc: location{line: syntax.Line, column: column}}
	}
	return &fault{code: cmferrors.ErrMalformed, msg: err.Error(), loc: location{line: line, column: column}}
}

// location is a 1-based source position.
type location struct {
	line   int
	column int
}

// fault is a fatal condition found while streaming one document.
type fault struct {
	code cmferrors.ErrorCode
	msg  string
	loc  location
}

func (f *fault) Error() string {
	return fmt.Sprintf("%d:%d: [%s] %s", f.loc.line, f.loc.column, f.code, f.msg)
}

func faultf(loc location, code cmferrors.ErrorCode, format string, args ...any) *fault {
	return &fault{code: code, msg: fmt.Sprintf(format, args...), loc: loc}
}

func (f *fault) diagnostic(file string) cmferrors.Diagnostic {
	return cmferrors.NewDiagnostic(f.code, f.msg, file, f.loc.line, f.loc.column)
}

// handler receives the events of one document.
type handler interface {
	start(ev *event) error
	text(ev *event) error
	end(ev *event) error
}

// stream runs h over every event of doc and reports the first fault.
func stream(doc Document, h handler) *cmferrors.Diagnostic {
	rc, err := doc.Open()
	if err != nil {
		d := cmferrors.NewDiagnostic(cmferrors.ErrIO, fmt.Sprintf("open: %v", err), doc.Name, 0, 0)
		return &d
	}
	defer rc.Close()

	dec := newStreamDecoder(rc)
	for {
		ev, err := dec.next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err == nil {
			switch ev.Kind {
			case eventStart:
				err = h.start(&ev)
			case eventEnd:
				err = h.end(&ev)
			case eventText:
				err = h.text(&ev)
			}
		}
		if err != nil {
			var f *fault
			if !errors.As(err, &f) {
				f = &fault{code: cmferrors.ErrIO, msg: err.Error(), loc: ev.loc()}
			}
			d := f.diagnostic(doc.Name)
			return &d
		}
	}
}

// structAttr returns the value of a structures attribute. Any namespace that
// is not the XML or XSI namespace is accepted so that documents written
// against another structures version still resolve.
func structAttr(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local != local || a.Name.Space == "" {
			continue
		}
		switch a.Name.Space {
		case vocab.XMLNamespace, vocab.XMLPrefix, vocab.XSINamespace, "xmlns":
			continue
		}
		return strings.TrimSpace(a.Value)
	}
	return ""
}

// langAttr returns the xml:lang attribute and whether it is present.
func langAttr(attrs []xml.Attr) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == vocab.AttrLang && (a.Name.Space == vocab.XMLNamespace || a.Name.Space == vocab.XMLPrefix) {
			return strings.TrimSpace(a.Value), true
		}
	}
	return "", false
}

func isBlank(b []byte) bool {
	return len(strings.TrimSpace(string(b))) == 0
}
