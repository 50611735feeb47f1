// Package fonts measures text for layout decisions.
//
// Two [Measurer] implementations are provided. [Provider] shapes text with
// real font outlines: the Go font family is built in, and TrueType files can
// be registered for additional family names. [Heuristic] estimates widths
// from an average character width and needs no font data, which makes it
// the default for tests and for environments where exact widths don't
// matter.
//
// All values are in typographic points.
package fonts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// DefaultSize is used when a descriptor carries no size.
const DefaultSize = 10.0

// Descriptor selects a font.
type Descriptor struct {
	Family string
	Size   float64 // points
	Italic bool
	Bold   bool
}

func (d Descriptor) size() float64 {
	if d.Size <= 0 {
		return DefaultSize
	}
	return d.Size
}

// LineMetrics describes the vertical extent of one line of text.
type LineMetrics struct {
	Ascent  float64
	Descent float64
	Leading float64
}

// Height returns Ascent + Descent + Leading.
func (m LineMetrics) Height() float64 { return m.Ascent + m.Descent + m.Leading }

// Measurer reports advance widths and line metrics.
type Measurer interface {
	Advance(d Descriptor, text string) float64
	Metrics(d Descriptor) LineMetrics
}

type variant uint8

const (
	regular variant = iota
	italic
	bold
	boldItalic
)

func variantOf(d Descriptor) variant {
	switch {
	case d.Bold && d.Italic:
		return boldItalic
	case d.Bold:
		return bold
	case d.Italic:
		return italic
	}
	return regular
}

type faceKey struct {
	family  string
	variant variant
	size    float64
}

// Provider measures text with parsed TrueType outlines. Unknown families
// resolve to Go Regular, or Go Mono for monospace-looking names. A Provider
// is safe for concurrent use.
type Provider struct {
	mu       sync.Mutex
	families map[string]*[4]*opentype.Font
	faces    map[faceKey]font.Face
}

// Built-in font data, parsed once on first use.
var (
	builtinOnce sync.Once
	builtinErr  error
	builtinSans [4]*opentype.Font
	builtinMono [4]*opentype.Font
)

func loadBuiltins() error {
	builtinOnce.Do(func() {
		sans := [4][]byte{goregular.TTF, goitalic.TTF, gobold.TTF, gobolditalic.TTF}
		mono := [4][]byte{gomono.TTF, gomonoitalic.TTF, gomonobold.TTF, gomonobolditalic.TTF}
		for i := range sans {
			if builtinSans[i], builtinErr = opentype.Parse(sans[i]); builtinErr != nil {
				return
			}
			if builtinMono[i], builtinErr = opentype.Parse(mono[i]); builtinErr != nil {
				return
			}
		}
	})
	return builtinErr
}

// NewProvider returns a Provider with the Go font family loaded.
func NewProvider() (*Provider, error) {
	if err := loadBuiltins(); err != nil {
		return nil, fmt.Errorf("parse built-in fonts: %w", err)
	}
	return &Provider{
		families: make(map[string]*[4]*opentype.Font),
		faces:    make(map[faceKey]font.Face),
	}, nil
}

// Register adds TrueType data for a family. Italic and bold variants that
// are never registered fall back to the regular one.
func (p *Provider) Register(family string, italicVariant, boldVariant bool, ttf []byte) error {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse font %q: %w", family, err)
	}
	v := variantOf(Descriptor{Italic: italicVariant, Bold: boldVariant})
	key := strings.ToLower(family)

	p.mu.Lock()
	defer p.mu.Unlock()
	set, ok := p.families[key]
	if !ok {
		set = new([4]*opentype.Font)
		p.families[key] = set
	}
	set[v] = f
	for k := range p.faces {
		if k.family == key {
			delete(p.faces, k)
		}
	}
	return nil
}

// LoadDir registers every .ttf and .otf file in dir. The family name is the
// file name up to the first '-', and "Bold"/"Italic"/"Oblique" in the
// remainder select the variant: "DejaVuSans-BoldOblique.ttf" registers
// the bold italic face of "DejaVuSans".
func (p *Provider) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".ttf" && ext != ".otf") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return n, err
		}
		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		family, style, _ := strings.Cut(base, "-")
		style = strings.ToLower(style)
		isItalic := strings.Contains(style, "italic") || strings.Contains(style, "oblique")
		isBold := strings.Contains(style, "bold")
		if err := p.Register(family, isItalic, isBold, data); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Advance returns the advance width of text. Only the first line is
// measured; callers split multi-line strings themselves.
func (p *Provider) Advance(d Descriptor, text string) float64 {
	if line, _, ok := strings.Cut(text, "\n"); ok {
		text = line
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return fixedToFloat(font.MeasureString(p.face(d), text))
}

// Metrics returns the line metrics of the selected face.
func (p *Provider) Metrics(d Descriptor) LineMetrics {
	p.mu.Lock()
	m := p.face(d).Metrics()
	p.mu.Unlock()
	lm := LineMetrics{
		Ascent:  fixedToFloat(m.Ascent),
		Descent: fixedToFloat(m.Descent),
	}
	if lead := fixedToFloat(m.Height) - lm.Ascent - lm.Descent; lead > 0 {
		lm.Leading = lead
	}
	return lm
}

// face returns the cached face for d. Faces keep glyph buffers, so the
// caller holds p.mu for as long as it uses the result.
func (p *Provider) face(d Descriptor) font.Face {
	key := faceKey{family: strings.ToLower(d.Family), variant: variantOf(d), size: d.size()}
	if f, ok := p.faces[key]; ok {
		return f
	}
	// DPI 72 makes one pixel one point.
	face, err := opentype.NewFace(p.resolve(key.family, key.variant), &opentype.FaceOptions{
		Size:    key.size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		// only reachable with a corrupt registered font; the built-ins never fail
		face, _ = opentype.NewFace(builtinSans[regular], &opentype.FaceOptions{Size: key.size, DPI: 72})
	}
	p.faces[key] = face
	return face
}

func (p *Provider) resolve(family string, v variant) *opentype.Font {
	if set, ok := p.families[family]; ok {
		if set[v] != nil {
			return set[v]
		}
		for _, f := range set {
			if f != nil {
				return f
			}
		}
	}
	if isMonospace(family) {
		return builtinMono[v]
	}
	return builtinSans[v]
}

func isMonospace(family string) bool {
	for _, s := range []string{"mono", "courier", "consol", "typewriter", "fixed"} {
		if strings.Contains(family, s) {
			return true
		}
	}
	return false
}

func fixedToFloat(v fixed.Int26_6) float64 { return float64(v) / 64 }
