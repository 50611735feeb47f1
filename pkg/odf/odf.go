package odf

import (
	"strconv"
	"strings"

	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
)

// MimeType is the media type of an OpenDocument drawing.
const MimeType = "application/vnd.oasis.opendocument.graphics"

// FirstGluePoint is the id of the first glue point of a shape. Lower ids
// are reserved for the four standard glue points of the drawing
// application.
const FirstGluePoint = 4

const oasis = "urn:oasis:names:tc:opendocument:xmlns:"

var namespaces = markup.Attrs{
	"xmlns:office":       oasis + "office:1.0",
	"xmlns:style":        oasis + "style:1.0",
	"xmlns:text":         oasis + "text:1.0",
	"xmlns:svg":          oasis + "svg-compatible:1.0",
	"xmlns:table":        oasis + "table:1.0",
	"xmlns:draw":         oasis + "drawing:1.0",
	"xmlns:fo":           oasis + "xsl-fo-compatible:1.0",
	"xmlns:xlink":        "http://www.w3.org/1999/xlink",
	"xmlns:dc":           "http://purl.org/dc/elements/1.1/",
	"xmlns:meta":         oasis + "meta:1.0",
	"xmlns:number":       oasis + "datastyle:1.0",
	"xmlns:presentation": oasis + "presentation:1.0",
	"xmlns:math":         "http://www.w3.org/1998/Math/MathML",
	"xmlns:form":         oasis + "form:1.0",
	"xmlns:script":       oasis + "script:1.0",
	"xmlns:dom":          "http://www.w3.org/2001/xml-events",
	"xmlns:xforms":       "http://www.w3.org/2002/xforms",
	"xmlns:xsd":          "http://www.w3.org/2001/XMLSchema",
	"xmlns:xsi":          "http://www.w3.org/2001/XMLSchema-instance",
}

// WriteText writes s as a text:p with the given attributes. Each line
// becomes a text:span; lines are separated by a span holding a
// text:line-break.
func WriteText(w *markup.Writer, attrs markup.Attrs, s string) {
	w.Start("text:p", attrs)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		w.Start("text:span", nil)
		w.Text(line)
		w.End("text:span")
		if i < len(lines)-1 {
			w.Start("text:span", nil)
			w.Leaf("text:line-break", nil)
			w.End("text:span")
		}
	}
	w.End("text:p")
}

// WriteGluePoint writes the glue point with the given index at the
// relative position p.
func WriteGluePoint(w *markup.Writer, index int, p geom.Point) {
	w.Leaf("draw:glue-point", markup.Attrs{
		"svg:x":   geom.Cm(p.X),
		"svg:y":   geom.Cm(p.Y),
		"draw:id": strconv.Itoa(index + FirstGluePoint),
	})
}
