package style

import (
	"io"
	"maps"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diaconv/pkg/fonts"
)

// Family groups styles that share a name space.
type Family int

const (
	Graphic Family = iota
	Paragraph
	StrokeDash
	Marker
)

func (f Family) String() string {
	switch f {
	case Graphic:
		return "graphic"
	case Paragraph:
		return "paragraph"
	case StrokeDash:
		return "stroke-dash"
	case Marker:
		return "marker"
	}
	return "family(" + strconv.Itoa(int(f)) + ")"
}

// Properties is a set of qualified attribute names and values, such as
// "draw:fill" → "solid".
type Properties map[string]string

// Equal reports whether p and o hold the same pairs. A nil set equals an
// empty one.
func (p Properties) Equal(o Properties) bool { return maps.Equal(p, o) }

// Clone returns a non-nil copy of p.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	maps.Copy(out, p)
	return out
}

// Merge layers property sets; later sets win.
func Merge(layers ...Properties) Properties {
	out := make(Properties)
	for _, l := range layers {
		maps.Copy(out, l)
	}
	return out
}

// Entry is one interned style. Paragraph entries carry their text
// properties in Props and paragraph properties in Paragraph.
type Entry struct {
	Name      string
	Props     Properties
	Paragraph Properties
}

// Interner assigns canonical names to property sets. Structurally equal
// sets within one family always get the same name; names are never
// reassigned. An Interner belongs to one conversion and is not safe for
// concurrent use.
type Interner struct {
	entries  map[Family][]Entry
	measurer fonts.Measurer
	logger   *log.Logger
}

// Option configures an Interner.
type Option func(*Interner)

// WithMeasurer sets the font measurer used for font-size correction and
// text metrics. The default is [fonts.Heuristic].
func WithMeasurer(m fonts.Measurer) Option {
	return func(in *Interner) {
		if m != nil {
			in.measurer = m
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option {
	return func(in *Interner) {
		if l != nil {
			in.logger = l
		}
	}
}

// New returns an Interner holding the predefined dash styles.
func New(opts ...Option) *Interner {
	in := &Interner{
		entries:  make(map[Family][]Entry),
		measurer: fonts.Heuristic{},
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(in)
	}
	for _, d := range predefinedDashes {
		in.addNamed(StrokeDash, d.name, d.props)
	}
	return in
}

// Add returns the name of the entry equal to props, creating it when no
// such entry exists yet.
func (in *Interner) Add(f Family, props Properties) string {
	for _, e := range in.entries[f] {
		if e.Props.Equal(props) {
			return e.Name
		}
	}
	name := in.nextName(f)
	in.entries[f] = append(in.entries[f], Entry{Name: name, Props: props.Clone()})
	return name
}

// AddText interns a paragraph style. Both property sets take part in the
// comparison. The font size in text is corrected first, see
// [Interner.FixFontSize].
func (in *Interner) AddText(text, para Properties) string {
	text = in.FixFontSize(text)
	for _, e := range in.entries[Paragraph] {
		if e.Props.Equal(text) && e.Paragraph.Equal(para) {
			return e.Name
		}
	}
	name := in.nextName(Paragraph)
	in.entries[Paragraph] = append(in.entries[Paragraph], Entry{Name: name, Props: text, Paragraph: para.Clone()})
	return name
}

// Lookup returns the properties registered under name.
func (in *Interner) Lookup(f Family, name string) (Properties, bool) {
	for _, e := range in.entries[f] {
		if e.Name == name {
			return e.Props, true
		}
	}
	return nil, false
}

// Entries returns the entries of f in insertion order.
func (in *Interner) Entries(f Family) []Entry {
	return in.entries[f]
}

// Len returns the number of entries in f.
func (in *Interner) Len(f Family) int { return len(in.entries[f]) }

func (in *Interner) addNamed(f Family, name string, props Properties) {
	for _, e := range in.entries[f] {
		if e.Name == name {
			return
		}
	}
	in.entries[f] = append(in.entries[f], Entry{Name: name, Props: props.Clone()})
}

// nextName numbers from the family size, so reserved entries such as
// grtext and the predefined dashes shift the sequence.
func (in *Interner) nextName(f Family) string {
	n := len(in.entries[f]) + 1
	switch f {
	case Graphic:
		return "gr" + strconv.Itoa(n)
	case Paragraph:
		return "P" + strconv.Itoa(n)
	case StrokeDash:
		return "DIA_20_Line_20_" + strconv.Itoa(n-len(predefinedDashes))
	}
	return f.String() + strconv.Itoa(n)
}

// TextBoxStyle is the graphic style used by free text frames of custom
// shapes.
const TextBoxStyle = "grtext"

// TextBox registers the [TextBoxStyle] graphic style and returns its name.
func (in *Interner) TextBox() string {
	in.addNamed(Graphic, TextBoxStyle, Properties{
		"draw:stroke":                    "none",
		"draw:fill":                      "none",
		"draw:textarea-horizontal-align": "center",
		"draw:textarea-vertical-align":   "middle",
		"draw:auto-grow-width":           "true",
		"fo:min-height":                  "0.5cm",
	})
	return TextBoxStyle
}

// DisplayName turns an encoded style name into its display form:
// "DIA_20_Dashed" becomes "DIA Dashed".
func DisplayName(name string) string {
	out := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		if i+4 <= len(name) && name[i:i+4] == "_20_" {
			out = append(out, ' ')
			i += 3
			continue
		}
		out = append(out, name[i])
	}
	return string(out)
}
