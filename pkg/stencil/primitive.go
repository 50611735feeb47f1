package stencil

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/style"
)

// primitive is one SVG element of a template, already converted to its
// drawing tag.
type primitive struct {
	tag   string
	attrs style.Properties

	// geometry in template coordinates
	outline geom.PolyPolygon
	cx, cy  float64
	rx, ry  float64
	x, y    float64
	w, h    float64
	p1, p2  geom.Point

	fill        string
	stroke      string
	strokeScale float64
}

// newPrimitive returns the primitive for an SVG element name, or nil when
// the element is not part of the supported subset.
func newPrimitive(name string) *primitive {
	p := &primitive{attrs: make(style.Properties), fill: "none", strokeScale: 1}
	switch name {
	case "polygon", "polyline", "path":
		p.tag = "draw:path"
	case "ellipse", "circle":
		p.tag = "draw:ellipse"
		p.cx, p.cy, p.rx, p.ry = 1, 1, 1, 1
	case "rect":
		p.tag = "draw:rect"
	case "line":
		p.tag = "draw:line"
	default:
		return nil
	}
	return p
}

// ignoredStyle lists style properties that are recognised but not
// converted.
var ignoredStyle = map[string]bool{
	"fill-rule":         true,
	"fill-opacity":      true,
	"stroke-miterlimit": true,
	"stroke-linecap":    true,
	"stroke-linejoin":   true,
	"stroke-pattern":    true,
	"stroke-dasharray":  true,
	"stroke-dashlength": true,
}

// set applies one SVG attribute of element kind. It reports false for
// attributes it does not know.
func (p *primitive) set(kind, name, value string, logger *log.Logger) bool {
	switch kind {
	case "polygon", "polyline":
		if name == "points" {
			pts, err := geom.ParsePoints(strings.TrimSpace(value))
			if err != nil {
				logger.Warn("malformed points", "element", kind, "err", err)
			}
			p.setOutline(geom.PolyPolygon{geom.NewPolygon(kind == "polygon", pts...)})
			return true
		}
	case "path":
		if name == "d" {
			pp, err := geom.ParsePath(strings.TrimSpace(value))
			if err != nil {
				logger.Warn("malformed path", "err", err)
			}
			p.setOutline(pp)
			return true
		}
	case "ellipse", "circle":
		switch name {
		case "cx":
			p.cx = number(value)
		case "cy":
			p.cy = number(value)
		case "rx":
			p.rx = number(value)
		case "ry":
			p.ry = number(value)
		case "r":
			p.rx = number(value)
			p.ry = p.rx
		default:
			return p.setCommon(name, value, logger)
		}
		return true
	case "rect":
		switch name {
		case "x":
			p.x = number(value)
		case "y":
			p.y = number(value)
		case "width":
			p.w = number(value)
		case "height":
			p.h = number(value)
		default:
			return p.setCommon(name, value, logger)
		}
		return true
	case "line":
		switch name {
		case "x1":
			p.p1.X = number(value)
		case "y1":
			p.p1.Y = number(value)
		case "x2":
			p.p2.X = number(value)
		case "y2":
			p.p2.Y = number(value)
		default:
			return p.setCommon(name, value, logger)
		}
		return true
	}
	return p.setCommon(name, value, logger)
}

func (p *primitive) setCommon(name, value string, logger *log.Logger) bool {
	switch name {
	case "points":
		p.attrs["draw:points"] = strings.TrimSpace(value)
	case "d":
		p.attrs["svg:d"] = value
	case "stroke-dasharray":
	case "style":
		p.setStyle(value, logger)
	default:
		return false
	}
	return true
}

// setStyle reads an inline CSS declaration list. Only the first word of a
// value counts, since some shipped shapes omit the ';' between
// declarations.
func (p *primitive) setStyle(decl string, logger *log.Logger) {
	for _, item := range strings.Split(decl, ";") {
		name, value, _ := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		if fields := strings.Fields(value); len(fields) > 0 {
			value = fields[0]
		} else {
			value = ""
		}
		switch {
		case name == "":
		case name == "stroke":
			p.stroke = value
		case name == "fill":
			p.fill = value
		case name == "stroke-width":
			p.strokeScale = number(value)
		case ignoredStyle[name]:
		default:
			logger.Debug("unknown style property", "name", name, "value", value)
		}
	}
}

// setOutline stores a polygon or path outline and its viewport form.
func (p *primitive) setOutline(pp geom.PolyPolygon) {
	p.outline = pp
	vp, fitted := geom.FitToOrigin(pp)
	p.attrs["svg:viewBox"] = vp.String()
	p.attrs["svg:d"] = geom.FormatPath(fitted)
}

// bounds returns the extent of the primitive in template coordinates.
func (p *primitive) bounds() geom.Range {
	switch p.tag {
	case "draw:path":
		return p.outline.Range()
	case "draw:ellipse":
		return geom.Rect(p.cx-p.rx, p.cy-p.ry, 2*p.rx, 2*p.ry)
	case "draw:rect":
		return geom.Rect(p.x, p.y, p.w, p.h)
	case "draw:line":
		return geom.NewRange(p.p1, p.p2)
	}
	return geom.Range{}
}

// styleFor derives the graphic style of the primitive from the style of
// the shape using it. Fill and stroke may name the placeholders
// "foreground"/"fg" and "background"/"bg", which take the shape's line
// and fill colours, or "default", which keeps the shape's value.
func (p *primitive) styleFor(parent style.Properties, showBackground bool) style.Properties {
	props := parent.Clone()
	switch {
	case !showBackground:
		props["draw:fill"] = "none"
	case p.fill == "" || p.fill == "background" || p.fill == "bg" || p.fill == "default":
	case p.fill == "none":
		props["draw:fill"] = "none"
	case p.fill == "foreground" || p.fill == "fg":
		props["draw:fill-color"] = props["svg:stroke-color"]
	default:
		props["draw:fill-color"] = p.fill
	}
	switch p.stroke {
	case "", "foreground", "fg", "default":
	case "none":
		props["draw:stroke"] = "none"
	case "background", "bg":
		props["svg:stroke-color"] = props["draw:fill-color"]
	default:
		props["svg:stroke-color"] = p.stroke
	}
	if p.strokeScale != 1 {
		width := defaultStrokeWidth
		if v, ok := parent["svg:stroke-width"]; ok {
			if f, err := geom.ParseFloat(v); err == nil {
				width = f
			}
		}
		props["svg:stroke-width"] = geom.Cm(width * p.strokeScale)
	}
	return props
}

// defaultStrokeWidth is the line width in cm when the shape style sets
// none.
const defaultStrokeWidth = 0.1

// placement maps template coordinates onto a frame on the page.
type placement struct {
	origin geom.Point // page position of the scene's top-left corner
	scene  geom.Range
	hscale float64
	vscale float64
}

func (pl placement) point(p geom.Point) geom.Point {
	return geom.Pt(
		pl.origin.X+(p.X-pl.scene.Min.X)*pl.hscale,
		pl.origin.Y+(p.Y-pl.scene.Min.Y)*pl.vscale,
	)
}

// position sets the page geometry attributes of the primitive.
func (p *primitive) position(a markup.Attrs, pl placement) {
	if p.tag == "draw:line" {
		a1, a2 := pl.point(p.p1), pl.point(p.p2)
		a["svg:x1"] = geom.Cm(a1.X)
		a["svg:y1"] = geom.Cm(a1.Y)
		a["svg:x2"] = geom.Cm(a2.X)
		a["svg:y2"] = geom.Cm(a2.Y)
		return
	}
	placeBox(a, p.bounds(), pl)
}

func placeBox(a markup.Attrs, r geom.Range, pl placement) {
	at := pl.point(r.Min)
	a["svg:x"] = geom.Cm(at.X)
	a["svg:y"] = geom.Cm(at.Y)
	a["svg:width"] = geom.Cm(geom.SafeDimension(r.Width() * pl.hscale))
	a["svg:height"] = geom.Cm(geom.SafeDimension(r.Height() * pl.vscale))
}

// number parses an SVG length leniently: malformed values read as 0.
func number(s string) float64 {
	f, err := geom.ParseFloat(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return f
}
