package markup

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
)

// Node is a read-only view of one element of an input tree.
type Node interface {
	// Tag returns the qualified tag name as written ("dia:object").
	Tag() string
	// Attr returns the value of the named attribute.
	Attr(name string) (string, bool)
	// Children returns the child elements in document order.
	Children() []Node
	// Text returns the character data directly inside the element.
	Text() string
}

// Element is the in-memory [Node] built by [Parse].
type Element struct {
	Name    string
	Attrs   []Attr
	Content string
	Kids    []*Element
}

// Attr is one attribute of an [Element].
type Attr struct {
	Name, Value string
}

// NewElement builds an element, mainly for tests and for callers that
// assemble trees by hand.
func NewElement(name string, attrs map[string]string, kids ...*Element) *Element {
	e := &Element{Name: name, Kids: kids}
	for _, k := range sortedKeys(attrs) {
		e.Attrs = append(e.Attrs, Attr{Name: k, Value: attrs[k]})
	}
	return e
}

func (e *Element) Tag() string  { return e.Name }
func (e *Element) Text() string { return e.Content }

func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) Children() []Node {
	out := make([]Node, len(e.Kids))
	for i, k := range e.Kids {
		out[i] = k
	}
	return out
}

// LocalName strips the namespace prefix from a qualified name.
func LocalName(tag string) string {
	if i := strings.IndexByte(tag, ':'); i >= 0 {
		return tag[i+1:]
	}
	return tag
}

// matches compares a tag against a wanted name. An unprefixed name
// matches any prefix.
func matches(tag, want string) bool {
	if strings.IndexByte(want, ':') < 0 {
		return LocalName(tag) == want
	}
	return tag == want
}

// Child returns the first child of n with the given tag. An unprefixed
// tag matches children in any namespace.
func Child(n Node, tag string) (Node, bool) {
	for _, c := range n.Children() {
		if matches(c.Tag(), tag) {
			return c, true
		}
	}
	return nil, false
}

// ChildrenByTag returns the children of n with the given tag, matched
// like [Child].
func ChildrenByTag(n Node, tag string) []Node {
	var out []Node
	for _, c := range n.Children() {
		if matches(c.Tag(), tag) {
			out = append(out, c)
		}
	}
	return out
}

// AttrOr returns the named attribute or def when it is missing.
func AttrOr(n Node, name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Parse reads an XML document and returns its root element. Tag and
// attribute names keep the prefix they were written with, so a Dia file
// yields "dia:object" whatever URI the prefix is bound to. Documents
// declared in a legacy encoding such as ISO-8859-1 are decoded through
// the IANA charset index. Comments, processing instructions and the
// whitespace between elements are dropped.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader

	var stack []*Element
	var root *Element
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			e := &Element{Name: qualified(t.Name)}
			for _, a := range t.Attr {
				e.Attrs = append(e.Attrs, Attr{Name: qualified(a.Name), Value: a.Value})
			}
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Kids = append(parent.Kids, e)
			} else if root == nil {
				root = e
			}
			stack = append(stack, e)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("unexpected end element </%s>", qualified(t.Name))
			}
			top := stack[len(stack)-1]
			if name := qualified(t.Name); name != top.Name {
				return nil, fmt.Errorf("element <%s> closed by </%s>", top.Name, name)
			}
			if len(top.Kids) > 0 {
				// mixed content: keep only non-blank text
				if strings.TrimSpace(top.Content) == "" {
					top.Content = ""
				}
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Content += string(t)
			}
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("element <%s> not closed", stack[len(stack)-1].Name)
	}
	if root == nil {
		return nil, fmt.Errorf("empty document")
	}
	return root, nil
}

// qualified rebuilds "prefix:local" from a raw, unresolved name.
func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", label, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("charset %q: unsupported", label)
	}
	return enc.NewDecoder().Reader(input), nil
}
