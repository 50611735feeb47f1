package shape

import (
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/odf"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/style"
)

// Default padding between a shape's outline and its text, in cm. Dia
// changed it between object versions.
const (
	legacyPadding  = 0.353553
	defaultPadding = 0.1
)

var errNoPoints = errors.New(errors.ErrCodeMalformedGeometry, "no points")

// defaultStrokeWidth is assumed when a style sets no svg:stroke-width.
const defaultStrokeWidth = 0.1

// object is the state every Dia object has. Kinds embed it and override
// what they do differently.
//
// Coordinates are page coordinates in cm: the left and top margins are
// already added.
type object struct {
	kind Kind
	id   string

	attrs      style.Properties // element attributes such as draw:corner-radius
	styleProps style.Properties
	styleName  string

	text      string
	textStyle string
	textAlign int
	textPos   geom.Point
	objPos    geom.Point

	showBorder     bool
	showBackground bool
	autoWidth      bool
	flipH, flipV   bool
	lineStyle      int
	dashLength     float64
	padding        float64
	fixedPadding   bool

	x, y, w, h float64
	margin     geom.Point

	cps       []ConnectionPoint
	points    []geom.Point
	endpoints []geom.Point

	from, to         string
	fromGlue, toGlue int
}

func newObject(k Kind) object {
	return object{
		kind:           k,
		attrs:          style.Properties{},
		styleProps:     style.Properties{},
		showBorder:     true,
		showBackground: true,
		dashLength:     style.DefaultDashLength,
		fromGlue:       -1,
		toGlue:         -1,
	}
}

func (o *object) Kind() Kind { return o.kind }
func (o *object) ID() string { return o.id }

func (o *object) ConnectionPointCount() int { return len(o.cps) }

func (o *object) ConnectionDirection(i int) route.Direction {
	if i < 0 || i >= len(o.cps) {
		return route.All
	}
	return o.cps[i].Dir
}

func (o *object) SnapConnectionPoint(i int) (geom.Point, bool) {
	if i < 0 || i >= len(o.cps) {
		return geom.Point{}, false
	}
	return o.snap(o.cps[i].Pt()), true
}

// snap maps a relative connection point onto the box and returns it in
// diagram coordinates.
func (o *object) snap(rel geom.Point) geom.Point {
	center := geom.Pt(o.x+o.w/2, o.y+o.h/2)
	return center.Add(rel.Mul(o.w/10, o.h/10)).Sub(o.margin)
}

func (o *object) AdjustConnections(Lookup, *route.Router) {}

// Endpoints returns the ids of the shapes the object is attached to.
func (o *object) Endpoints() (from, to string) { return o.from, o.to }

// Text returns the text of the shape, lines separated by "\n".
func (o *object) Text() string { return o.text }

func (o *object) BoundingBox() geom.Range {
	if o.w != 0 || o.h != 0 {
		return geom.Rect(o.x, o.y, o.w, o.h)
	}
	return geom.RangeOf(append(slices.Clone(o.points), o.endpoints...)...)
}

// ResizeIfNarrow widens the box until its widest text line fits between
// the padding and the outline.
func (o *object) ResizeIfNarrow(m FontMetrics, s *style.Interner) {
	if o.kind.IsConnector() || o.textStyle == "" {
		return
	}
	need := 2*o.padding + 2*o.strokeWidth(s) + m.AdvanceWidth(o.textStyle, o.text)
	o.growWidth(need)
}

func (o *object) strokeWidth(s *style.Interner) float64 {
	if s == nil {
		return defaultStrokeWidth
	}
	props, ok := s.Lookup(style.Graphic, o.styleName)
	if !ok {
		return defaultStrokeWidth
	}
	v, ok := props["svg:stroke-width"]
	if !ok {
		return defaultStrokeWidth
	}
	f, err := geom.ParseFloat(v)
	if err != nil {
		return defaultStrokeWidth
	}
	return f
}

// growWidth widens the box to w about its center. It never shrinks.
func (o *object) growWidth(w float64) {
	if w > o.w {
		o.x -= (w - o.w) / 2
		o.w = w
	}
}

func (o *object) growHeight(h float64) {
	if h > o.h {
		o.y -= (h - o.h) / 2
		o.h = h
	}
}

func (o *object) lines() int { return strings.Count(o.text, "\n") + 1 }

// importStandard reads the attributes and connections common to all
// objects, applies flips and interns the graphic style. special, when
// set, is offered every attribute first and returns true for those it
// consumed.
func (o *object) importStandard(n markup.Node, ctx *ImportContext, special func(name string, attr markup.Node) bool) error {
	o.margin = ctx.Margin
	if id, ok := n.Attr("id"); ok {
		o.id = id
	} else {
		ctx.logger().Debug("object without id", "kind", o.kind)
	}
	if v, ok := n.Attr("version"); ok && !o.fixedPadding {
		if number(v) == 0 {
			o.padding = legacyPadding
		} else {
			o.padding = defaultPadding
		}
	}

	for _, c := range n.Children() {
		switch markup.LocalName(c.Tag()) {
		case "attribute":
			name := markup.AttrOr(c, "name", "")
			if special != nil && special(name, c) {
				continue
			}
			o.attribute(name, c, ctx)
		case "connections":
			o.importConnections(c, ctx)
		default:
			ctx.unknown("element", c.Tag())
		}
	}

	o.applyFlips()
	o.finishStyle(ctx.Styles)
	return nil
}

func (o *object) attribute(name string, n markup.Node, ctx *ImportContext) {
	v := simpleValue(n)
	switch name {
	case "obj_pos":
		if p, err := geom.ParsePoint(v); err != nil {
			ctx.malformed(name, v, err)
		} else {
			o.objPos = ctx.adjust(p)
		}
	case "obj_bb":
		r, err := geom.ParseRect(v)
		if err != nil {
			ctx.malformed(name, v, err)
			return
		}
		tl := ctx.adjust(r.Min)
		o.x, o.y, o.w, o.h = tl.X, tl.Y, r.Width(), r.Height()
	case "elem_corner":
		if p, err := geom.ParsePoint(v); err != nil {
			ctx.malformed(name, v, err)
		} else {
			p = ctx.adjust(p)
			o.x, o.y = p.X, p.Y
		}
	case "elem_width":
		o.w = number(v)
	case "elem_height":
		o.h = number(v)
	case "border_width", "line_width":
		o.styleProps["svg:stroke-width"] = geom.Cm(number(v))
	case "border_color", "line_color", "line_colour":
		o.styleProps["svg:stroke-color"] = v
	case "inner_color", "fill_color", "fill_colour":
		o.styleProps["draw:fill-color"] = v
	case "show_background":
		o.showBackground = v == "true"
	case "draw_border":
		o.showBorder = v == "true"
	case "line_style":
		o.lineStyle = int(number(v))
	case "dashlength":
		o.dashLength = number(v)
	case "corner_radius":
		o.attrs["draw:corner-radius"] = geom.Cm(number(v))
	case "poly_points", "orth_points", "bez_points":
		o.points = o.parsePoints(name, v, ctx)
	case "conn_endpoints":
		o.endpoints = o.parsePoints(name, v, ctx)
	case "flip_horizontal":
		o.flipH = v == "true"
	case "flip_vertical":
		o.flipV = v == "true"
	case "text":
		o.importText(n, ctx)
	case "padding":
		o.padding = number(v)
	case "start_arrow", "end_arrow":
		if arrow := int(number(v)); arrow != 0 {
			marker, _ := ctx.Styles.Marker(arrow)
			o.styleProps["draw:marker-"+arrowEnd(name)] = marker
		}
	case "start_arrow_width", "end_arrow_width":
		o.styleProps["draw:marker-"+arrowEnd(name)+"-width"] = geom.Cm(number(v))
	case "aspect", "orth_orient", "keep_aspect", "subscale", "valign", "meta",
		"numcp", "start_arrow_length", "end_arrow_length", "corner_types":
	default:
		ctx.unknown("attribute", name)
	}
}

func arrowEnd(attr string) string {
	if strings.HasPrefix(attr, "start") {
		return "start"
	}
	return "end"
}

// parsePoints reads a point list and moves it onto the page.
func (o *object) parsePoints(name, v string, ctx *ImportContext) []geom.Point {
	pts, err := geom.ParsePoints(v)
	if err != nil {
		ctx.malformed(name, v, err)
		return nil
	}
	for i := range pts {
		pts[i] = ctx.adjust(pts[i])
	}
	return pts
}

func (o *object) importConnections(n markup.Node, ctx *ImportContext) {
	for _, c := range n.Children() {
		if markup.LocalName(c.Tag()) != "connection" {
			ctx.unknown("element", c.Tag())
			continue
		}
		handle, err := strconv.Atoi(markup.AttrOr(c, "handle", "-1"))
		if err != nil || handle < 0 {
			ctx.unknown("connection handle", markup.AttrOr(c, "handle", ""))
			continue
		}
		to := markup.AttrOr(c, "to", "")
		glue := -1
		if v, ok := c.Attr("connection"); ok {
			if g, err := strconv.Atoi(v); err == nil {
				glue = g
			}
		}
		// Dia numbers the handles of lines with more than two points
		// beyond 1; any of them is the far end.
		if handle == 0 {
			o.from, o.fromGlue = to, glue
		} else {
			o.to, o.toGlue = to, glue
		}
	}
}

func (o *object) importText(n markup.Node, ctx *ImportContext) {
	for _, c := range n.Children() {
		if markup.LocalName(c.Tag()) != "composite" || markup.AttrOr(c, "type", "") != "text" {
			ctx.unknown("element", c.Tag())
			continue
		}
		o.importTextComposite(c, ctx)
	}
}

func (o *object) importTextComposite(n markup.Node, ctx *ImportContext) {
	text, para := style.Properties{}, style.Properties{}
	for _, c := range n.Children() {
		if markup.LocalName(c.Tag()) != "attribute" {
			ctx.unknown("element", c.Tag())
			continue
		}
		name := markup.AttrOr(c, "name", "")
		v := simpleValue(c)
		switch name {
		case "string":
			o.text = dehash(v)
		case "color":
			text["fo:color"] = v
		case "font":
			fontProps(c, text, ctx)
		case "height":
			text["fo:font-size"] = geom.FormatFloat(style.CmToPoints(number(v))) + "pt"
		case "pos":
			if p, err := geom.ParsePoint(v); err != nil {
				ctx.malformed(name, v, err)
			} else {
				o.textPos = ctx.adjust(p)
			}
		case "alignment":
			switch int(number(v)) {
			case 1:
				para["fo:text-align"] = "center"
				o.textAlign = 1
			case 2:
				para["fo:text-align"] = "end"
				o.textAlign = 2
			default:
				o.textAlign = 0
			}
		default:
			ctx.unknown("text attribute", name)
		}
	}
	o.textStyle = ctx.Styles.AddText(text, para)
}

// fontProps reads a dia:font element. Style codes combine 8 for italic
// and 80 for bold.
func fontProps(n markup.Node, text style.Properties, ctx *ImportContext) {
	for _, c := range n.Children() {
		if markup.LocalName(c.Tag()) != "font" {
			ctx.unknown("element", c.Tag())
			continue
		}
		if family, ok := c.Attr("family"); ok {
			text["fo:font-family"] = family
		}
		switch code := markup.AttrOr(c, "style", "0"); code {
		case "0":
			text["fo:font-style"] = "normal"
		case "8":
			text["fo:font-style"] = "italic"
		case "80":
			text["fo:font-weight"] = "bold"
		case "88":
			text["fo:font-style"] = "italic"
			text["fo:font-weight"] = "bold"
		default:
			ctx.unknown("font style", code)
		}
	}
}

// applyFlips mirrors the point geometry inside the box.
func (o *object) applyFlips() {
	if !o.flipH && !o.flipV {
		return
	}
	sx, sy := 1.0, 1.0
	var tx1, ty1, tx2, ty2 float64
	if o.flipH {
		sx, tx1, tx2 = -1, -o.x, o.x+o.w
	}
	if o.flipV {
		sy, ty1, ty2 = -1, -o.y, o.y+o.h
	}
	m := geom.Identity().Translate(tx1, ty1).Scale(sx, sy).Translate(tx2, ty2)
	for i, p := range o.points {
		o.points[i] = m.Apply(p)
	}
	for i, p := range o.endpoints {
		o.endpoints[i] = m.Apply(p)
	}
}

// finishStyle completes the graphic style from the flags read so far and
// interns it.
func (o *object) finishStyle(in *style.Interner) {
	p := o.styleProps
	p["draw:textarea-vertical-align"] = "middle"
	switch o.textAlign {
	case 0:
		p["draw:textarea-horizontal-align"] = "left"
	case 2:
		p["draw:textarea-horizontal-align"] = "right"
	}
	pad := geom.Cm(o.padding)
	for _, side := range [...]string{"top", "bottom", "left", "right"} {
		p["fo:padding-"+side] = pad
	}
	if o.autoWidth {
		p["draw:auto-grow-width"] = "true"
	}
	if o.showBackground {
		p["draw:fill"] = "solid"
	} else {
		p["draw:fill"] = "none"
	}
	switch {
	case !o.showBorder:
		p["draw:stroke"] = "none"
	case o.lineStyle != 0:
		in.ApplyDash(p, o.lineStyle, o.dashLength)
	default:
		p["draw:stroke"] = "solid"
	}
	o.styleName = in.Add(style.Graphic, p)
}

// shapeAttrs returns parent, overlaid with the object's own attributes,
// id and style.
func (o *object) shapeAttrs(parent style.Properties) markup.Attrs {
	a := markup.Attrs(style.Merge(parent, o.attrs))
	if o.id != "" {
		a["draw:id"] = o.id
	}
	if o.styleName != "" {
		a["draw:style-name"] = o.styleName
	}
	return a
}

func (o *object) boxAttrs(parent style.Properties) markup.Attrs {
	a := o.shapeAttrs(parent)
	setBox(a, geom.Rect(o.x, o.y, o.w, o.h))
	return a
}

func setBox(a markup.Attrs, r geom.Range) {
	a["svg:x"] = geom.Cm(r.Min.X)
	a["svg:y"] = geom.Cm(r.Min.Y)
	a["svg:width"] = geom.Cm(r.Width())
	a["svg:height"] = geom.Cm(r.Height())
}

func setLine(a markup.Attrs, from, to geom.Point) {
	a["svg:x1"] = geom.Cm(from.X)
	a["svg:y1"] = geom.Cm(from.Y)
	a["svg:x2"] = geom.Cm(to.X)
	a["svg:y2"] = geom.Cm(to.Y)
}

// connectionAttrs records the attached shapes on a draw:connector.
func (o *object) connectionAttrs(a markup.Attrs) {
	if o.from != "" {
		a["draw:start-shape"] = o.from
	}
	if o.fromGlue >= 0 {
		a["draw:start-glue-point"] = strconv.Itoa(o.fromGlue + FirstGluePoint)
	}
	if o.to != "" {
		a["draw:end-shape"] = o.to
	}
	if o.toGlue >= 0 {
		a["draw:end-glue-point"] = strconv.Itoa(o.toGlue + FirstGluePoint)
	}
}

func (o *object) paragraphAttrs() markup.Attrs {
	if o.textStyle == "" {
		return nil
	}
	return markup.Attrs{"text:style-name": o.textStyle}
}

func (o *object) writeText(w *markup.Writer) {
	if o.text != "" {
		odf.WriteText(w, o.paragraphAttrs(), o.text)
	}
}

// writeElement writes tag with its glue points and text.
func (o *object) writeElement(w *markup.Writer, tag string, a markup.Attrs) {
	w.Start(tag, a)
	for i, cp := range o.cps {
		odf.WriteGluePoint(w, i, cp.Pt())
	}
	o.writeText(w)
	w.End(tag)
}

// simpleValue joins the values of an attribute's children: their val
// attribute, or their text when there is none.
func simpleValue(n markup.Node) string {
	var parts []string
	for _, c := range n.Children() {
		tok, ok := c.Attr("val")
		if !ok {
			tok = c.Text()
		}
		if tok != "" {
			parts = append(parts, tok)
		}
	}
	return strings.Join(parts, " ")
}

// dehash unwraps a Dia string: "#A4#" holds "A4". Trailing newlines
// inside the hashes are dropped.
func dehash(s string) string {
	if len(s) <= 2 {
		return ""
	}
	return strings.TrimRight(s[1:len(s)-1], "\n")
}

// number parses leniently; Dia files are machine written and a bad value
// is read as 0.
func number(s string) float64 {
	v, err := geom.ParseFloat(s)
	if err != nil {
		return 0
	}
	return v
}
