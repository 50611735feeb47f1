package diagram

import (
	"math"
	"strings"

	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/paper"
	"github.com/matzehuels/diaconv/pkg/style"
)

// page is the page setup of a diagram.
type page struct {
	// layout holds style:page-layout-properties; nil when the diagram
	// has no paper setup.
	layout style.Properties

	// background holds style:drawing-page-properties; nil when the
	// diagram has no background colour.
	background style.Properties

	// margin is the left and top margin in cm.
	margin geom.Point

	// width and height are the paper size in mm, zero when the paper
	// name is unknown.
	width, height float64
}

// Diagram data attributes with no ODF counterpart.
var ignoredData = map[string]bool{
	"pagebreak": true, // page break colour
	"grid":      true, // grid settings belong to the application
	"guides":    true,
	"color":     true, // grid colour
}

var ignoredPaper = map[string]bool{
	"scaling":   true,
	"fitto":     true,
	"fitwidth":  true,
	"fitheight": true,
}

// readDiagramData reads one dia:diagramdata element into p.
func (a *Assembler) readDiagramData(n markup.Node, p *page, diags *errors.Diagnostics) {
	for _, c := range n.Children() {
		if markup.LocalName(c.Tag()) != "attribute" {
			a.unknown(diags, "diagram data element", c.Tag())
			continue
		}
		name := markup.AttrOr(c, "name", "")
		switch {
		case name == "background":
			a.readBackground(c, p, diags)
		case name == "paper":
			a.readPaper(c, p, diags)
		case ignoredData[name]:
		default:
			a.unknown(diags, "diagram data attribute", name)
		}
	}
}

func (a *Assembler) readBackground(n markup.Node, p *page, diags *errors.Diagnostics) {
	for _, c := range n.Children() {
		if markup.LocalName(c.Tag()) != "color" {
			a.unknown(diags, "background element", c.Tag())
			continue
		}
		if v, ok := c.Attr("val"); ok {
			p.background = style.Properties{
				"draw:background-size": "border",
				"draw:fill":            "solid",
				"draw:fill-color":      v,
			}
		}
	}
}

func (a *Assembler) readPaper(n markup.Node, p *page, diags *errors.Diagnostics) {
	for _, c := range n.Children() {
		if markup.LocalName(c.Tag()) == "composite" && markup.AttrOr(c, "type", "") == "paper" {
			a.readPaperComposite(c, p, diags)
			continue
		}
		a.unknown(diags, "paper element", c.Tag())
	}
}

func (a *Assembler) readPaperComposite(n markup.Node, p *page, diags *errors.Diagnostics) {
	props := style.Properties{}
	for _, c := range n.Children() {
		if markup.LocalName(c.Tag()) != "attribute" {
			a.unknown(diags, "paper element", c.Tag())
			continue
		}
		name := markup.AttrOr(c, "name", "")
		v := value(c)
		switch {
		case name == "name":
			size, ok := paper.Lookup(dehash(v))
			if !ok {
				a.logger.Warn("unknown paper", "name", v)
				diags.Add(errors.ErrCodeUnknownElement, "unknown paper %q", v)
				continue
			}
			p.width, p.height = size.Width, size.Height
		case name == "tmargin":
			props["fo:margin-top"] = cm(v)
			p.margin.Y = number(v)
		case name == "bmargin":
			props["fo:margin-bottom"] = cm(v)
		case name == "lmargin":
			props["fo:margin-left"] = cm(v)
			p.margin.X = number(v)
		case name == "rmargin":
			props["fo:margin-right"] = cm(v)
		case name == "is_portrait":
			if v == "true" {
				props["style:print-orientation"] = "portrait"
			} else {
				props["style:print-orientation"] = "landscape"
			}
		case ignoredPaper[name]:
		default:
			a.unknown(diags, "paper attribute", name)
		}
	}

	if props["style:print-orientation"] == "landscape" {
		p.width, p.height = p.height, p.width
	}
	p.layout = props
	p.setSize()
}

// setSize writes the paper size into the layout.
func (p *page) setSize() {
	if p.layout == nil || p.width <= 0 || p.height <= 0 {
		return
	}
	p.layout["fo:page-width"] = mm(p.width)
	p.layout["fo:page-height"] = mm(p.height)
}

// grow enlarges the page by whole pages until scene, in cm, fits. Dia
// diagrams often span several sheets; ODF has one page, so it becomes as
// large as all of them.
func (p *page) grow(scene geom.Range) {
	if p.width <= 0 || p.height <= 0 || scene.IsEmpty() {
		return
	}
	if maxY := scene.Max.Y * 10; p.height < maxY {
		p.height *= math.Ceil(maxY / p.height)
	}
	if maxX := scene.Max.X * 10; p.width < maxX {
		p.width *= math.Ceil(maxX / p.width)
	}
	p.setSize()
}

// value returns the val attribute of the first child of a dia:attribute,
// or its text for strings.
func value(n markup.Node) string {
	for _, c := range n.Children() {
		if v, ok := c.Attr("val"); ok {
			return v
		}
		return c.Text()
	}
	return ""
}

func dehash(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '#' && s[len(s)-1] == '#' {
		return s[1 : len(s)-1]
	}
	return s
}

func number(s string) float64 {
	v, err := geom.ParseFloat(s)
	if err != nil {
		return 0
	}
	return v
}

func cm(s string) string  { return geom.Cm(number(s)) }
func mm(v float64) string { return geom.FormatFloat(v) + "mm" }
