package shape

import (
	"github.com/matzehuels/diaconv/pkg/fonts"
	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/odf"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/stencil"
	"github.com/matzehuels/diaconv/pkg/style"
)

// FirstGluePoint is the glue point id of connection point 0.
const FirstGluePoint = odf.FirstGluePoint

// ConnectionPoint is a place a connector can attach to, relative to the
// shape's bounding box: -5 is the left or top edge, 5 the right or bottom
// edge. Dir lists the sides a connector may leave it from.
type ConnectionPoint struct {
	X, Y float64
	Dir  route.Direction
}

// Pt returns the position of c.
func (c ConnectionPoint) Pt() geom.Point { return geom.Pt(c.X, c.Y) }

// FontMetrics measures text set in a paragraph style. Lengths are in cm.
// [style.Interner] implements it.
type FontMetrics interface {
	AdvanceWidth(styleName, text string) float64
	LineMetrics(styleName string) fonts.LineMetrics
}

// Lookup finds a shape by its Dia object id.
type Lookup func(id string) (Shape, bool)

// Shape is one converted Dia object.
//
// Shapes go through four passes: Import reads the object, ResizeIfNarrow
// widens it to fit its text, AdjustConnections snaps and routes
// connectors, and Write emits it. Every shape finishes a pass before any
// shape starts the next.
//
// Connection point indices are zero based; the glue point written for
// index i has the id i + [FirstGluePoint].
type Shape interface {
	Kind() Kind

	// ID returns the Dia object id, or "" for groups.
	ID() string

	Import(n markup.Node, ctx *ImportContext) error

	ConnectionPointCount() int

	// ConnectionDirection returns the directions of connection point i,
	// or route.All when i is out of range.
	ConnectionDirection(i int) route.Direction

	// SnapConnectionPoint returns connection point i in diagram
	// coordinates, that is without the page margins.
	SnapConnectionPoint(i int) (geom.Point, bool)

	ResizeIfNarrow(m FontMetrics, s *style.Interner)
	AdjustConnections(lookup Lookup, r *route.Router)

	// Write emits the shape. Attributes in parent apply unless the shape
	// sets them itself.
	Write(w *markup.Writer, parent style.Properties)

	// BoundingBox returns the extent of the shape on the page.
	BoundingBox() geom.Range
}

// Connector is implemented by shapes that may join two other shapes.
type Connector interface {
	Shape

	// Endpoints returns the ids of the attached shapes; either may be "".
	Endpoints() (from, to string)
}

// Routable is implemented by connectors the router may turn into ODF
// standard connectors. Routed is meaningful after AdjustConnections.
type Routable interface {
	Connector
	Routed() bool
}

// Labeled is implemented by shapes that may carry text.
type Labeled interface {
	Text() string
}

// Container is implemented by shapes that hold other shapes.
type Container interface {
	Children() []Shape
}

// Walk calls fn for every shape in shapes and, depth first, for the
// children of containers. Containers are visited before their children.
func Walk(shapes []Shape, fn func(Shape)) {
	for _, s := range shapes {
		fn(s)
		if c, ok := s.(Container); ok {
			Walk(c.Children(), fn)
		}
	}
}

// New returns an empty shape of kind k. A Custom shape made this way has
// no template and is written as a plain rectangle; use [NewCustom].
func New(k Kind) Shape {
	switch k {
	case Box:
		return newBox(Box, boxPoints)
	case Ellipse:
		return newBox(Ellipse, ellipsePoints)
	case Polygon:
		return &polygon{object: newObject(Polygon)}
	case Line:
		return &line{object: newObject(Line)}
	case Arc:
		return &arc{object: newObject(Arc)}
	case ZigZagLine:
		return &zigzag{object: newObject(ZigZagLine)}
	case PolyLine:
		return &polyline{object: newObject(PolyLine)}
	case BezierLine:
		return &bezier{object: newObject(BezierLine)}
	case Beziergon:
		return &bezier{object: newObject(Beziergon), closed: true}
	case Image:
		return newImage()
	case Text:
		return newText()
	case FlowchartBox:
		return newBox(FlowchartBox, flowchartPoints)
	case Parallelogram:
		return &parallelogram{object: newObject(Parallelogram), shearAngle: 45}
	case Diamond:
		return &diamond{object: newObject(Diamond)}
	case FlowchartEllipse:
		return newBox(FlowchartEllipse, ellipsePoints)
	case KaosGoal:
		return &kaosGoal{object: newObject(KaosGoal)}
	case Custom:
		return &custom{object: newObject(Custom)}
	case Group:
		return &group{}
	}
	return newBox(Box, boxPoints)
}

// NewCustom returns an empty shape drawn by template t.
func NewCustom(t *stencil.Template) Shape {
	return &custom{object: newObject(Custom), tmpl: t}
}
