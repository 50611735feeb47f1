package markup

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Attrs maps qualified attribute names to values.
type Attrs map[string]string

// Sink receives a document as a stream of events.
type Sink interface {
	StartDocument() error
	StartElement(tag string, attrs Attrs) error
	Characters(text string) error
	EndElement(tag string) error
	EndDocument() error
}

func sortedKeys[M ~map[string]string](m M) []string {
	return slices.Sorted(maps.Keys(m))
}

// XMLOption configures an [XMLSink].
type XMLOption func(*XMLSink)

// WithIndent indents nested elements by indent per level. Elements in the
// text: namespace and everything inside them stay inline, because
// whitespace there is content.
func WithIndent(indent string) XMLOption {
	return func(s *XMLSink) { s.indent = indent }
}

// WithoutDeclaration omits the <?xml ...?> header.
func WithoutDeclaration() XMLOption {
	return func(s *XMLSink) { s.declaration = false }
}

// XMLSink serializes events as XML. Attributes are written in sorted order
// so equal inputs give byte-identical output.
type XMLSink struct {
	w           *bufio.Writer
	indent      string
	declaration bool

	stack []level
	open  bool // start tag written, ">" not yet
}

type level struct {
	tag      string
	children bool
	inline   bool
}

// NewXMLSink returns a sink writing to w. EndDocument flushes.
func NewXMLSink(w io.Writer, opts ...XMLOption) *XMLSink {
	s := &XMLSink{w: bufio.NewWriter(w), declaration: true}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *XMLSink) StartDocument() error {
	if !s.declaration {
		return nil
	}
	_, err := s.w.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	return err
}

func (s *XMLSink) StartElement(tag string, attrs Attrs) error {
	if tag == "" {
		return fmt.Errorf("empty element name")
	}
	s.closeStart()

	inline := isInline(tag)
	if n := len(s.stack); n > 0 {
		parent := &s.stack[n-1]
		parent.children = true
		if parent.inline {
			inline = true
		} else {
			s.newline(n)
		}
	}

	s.w.WriteByte('<')
	s.w.WriteString(tag)
	for _, k := range sortedKeys(attrs) {
		s.w.WriteByte(' ')
		s.w.WriteString(k)
		s.w.WriteString(`="`)
		if err := xml.EscapeText(s.w, []byte(attrs[k])); err != nil {
			return err
		}
		s.w.WriteByte('"')
	}
	s.stack = append(s.stack, level{tag: tag, inline: inline})
	s.open = true
	return nil
}

func (s *XMLSink) Characters(text string) error {
	if len(s.stack) == 0 {
		return fmt.Errorf("characters outside of an element")
	}
	s.closeStart()
	return xml.EscapeText(s.w, []byte(text))
}

func (s *XMLSink) EndElement(tag string) error {
	n := len(s.stack)
	if n == 0 {
		return fmt.Errorf("end element </%s> without start", tag)
	}
	top := s.stack[n-1]
	if top.tag != tag {
		return fmt.Errorf("element <%s> closed by </%s>", top.tag, tag)
	}
	s.stack = s.stack[:n-1]

	if s.open {
		s.open = false
		_, err := s.w.WriteString("/>")
		return err
	}
	if top.children && !top.inline {
		s.newline(n - 1)
	}
	s.w.WriteString("</")
	s.w.WriteString(tag)
	return s.w.WriteByte('>')
}

func (s *XMLSink) EndDocument() error {
	if len(s.stack) > 0 {
		return fmt.Errorf("element <%s> not closed", s.stack[len(s.stack)-1].tag)
	}
	if s.indent != "" {
		s.w.WriteByte('\n')
	}
	return s.w.Flush()
}

func (s *XMLSink) closeStart() {
	if s.open {
		s.w.WriteByte('>')
		s.open = false
	}
}

func (s *XMLSink) newline(depth int) {
	if s.indent == "" {
		return
	}
	s.w.WriteByte('\n')
	s.w.WriteString(strings.Repeat(s.indent, depth))
}

func isInline(tag string) bool { return strings.HasPrefix(tag, "text:") }
