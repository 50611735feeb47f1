package odf

import (
	"maps"

	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/style"
)

// Names of the page styles written by [Document.Write].
const (
	PageLayoutName  = "pagelayout1"
	PageStyleName   = "pagestyle1"
	MasterPageName  = "Default"
	StandardStyle   = "standard"
	officeDocument  = "office:document"
	automaticStyles = "office:automatic-styles"
)

// Document describes the envelope around a drawing body.
type Document struct {
	// Title is written as dc:title in office:meta when non-empty.
	Title string

	// Styles holds every style the body refers to. It must be complete
	// before Write is called: the styles precede the body in the output.
	Styles *style.Interner

	// PageLayout holds style:page-layout-properties, such as
	// fo:page-width. A nil map omits the page layout.
	PageLayout style.Properties

	// DrawingPage holds style:drawing-page-properties. A nil map omits the
	// drawing page style.
	DrawingPage style.Properties
}

// standardGraphic and standardText are the properties of the "standard"
// graphic style every generated style inherits from.
var (
	standardGraphic = markup.Attrs{
		"svg:stroke-width":                   "0.10cm",
		"draw:fill-color":                    "#ffffff",
		"draw:start-line-spacing-horizontal": "0cm",
		"draw:start-line-spacing-vertical":   "0cm",
		"draw:end-line-spacing-horizontal":   "0cm",
		"draw:end-line-spacing-vertical":     "0cm",
	}
	standardText = markup.Attrs{
		"fo:language": "zxx",
		"fo:country":  "none",
	}
)

// Write emits the complete document to sink. body is called inside
// draw:page and writes the shapes. The first error from the sink or from
// body is returned.
func (d *Document) Write(sink markup.Sink, body func(w *markup.Writer) error) error {
	if err := sink.StartDocument(); err != nil {
		return err
	}
	w := markup.NewWriter(sink)

	root := maps.Clone(namespaces)
	root["office:version"] = "1.0"
	root["office:mimetype"] = MimeType
	w.Start(officeDocument, root)

	if d.Title != "" {
		w.Start("office:meta", nil)
		w.Start("dc:title", nil)
		w.Text(d.Title)
		w.End("dc:title")
		w.End("office:meta")
	}

	d.writeStyles(w)
	d.writeAutomaticStyles(w)
	d.writeMasterStyles(w)

	w.Start("office:body", nil)
	w.Start("office:drawing", nil)
	page := markup.Attrs{"draw:master-page-name": MasterPageName}
	if d.DrawingPage != nil {
		page["draw:style-name"] = PageStyleName
	}
	w.Start("draw:page", page)
	if err := w.Err(); err != nil {
		return err
	}
	if err := body(w); err != nil {
		return err
	}
	w.End("draw:page")
	w.End("office:drawing")
	w.End("office:body")

	w.End(officeDocument)
	if err := w.Err(); err != nil {
		return err
	}
	return sink.EndDocument()
}

// writeStyles writes the named styles: markers, stroke dashes and the
// standard graphic style.
func (d *Document) writeStyles(w *markup.Writer) {
	w.Start("office:styles", nil)
	if d.Styles != nil {
		for _, e := range d.Styles.Entries(style.Marker) {
			w.Leaf("draw:marker", named(e))
		}
		for _, e := range d.Styles.Entries(style.StrokeDash) {
			w.Leaf("draw:stroke-dash", named(e))
		}
	}
	w.Start("style:style", markup.Attrs{"style:name": StandardStyle, "style:family": "graphic"})
	w.Leaf("style:graphic-properties", standardGraphic)
	w.Leaf("style:text-properties", standardText)
	w.End("style:style")
	w.End("office:styles")
}

func named(e style.Entry) markup.Attrs {
	a := markup.Attrs(e.Props.Clone())
	a["draw:name"] = e.Name
	a["draw:display-name"] = style.DisplayName(e.Name)
	return a
}

func (d *Document) writeAutomaticStyles(w *markup.Writer) {
	w.Start(automaticStyles, nil)
	if d.PageLayout != nil {
		w.Start("style:page-layout", markup.Attrs{"style:name": PageLayoutName})
		w.Leaf("style:page-layout-properties", markup.Attrs(d.PageLayout))
		w.End("style:page-layout")
	}
	if d.DrawingPage != nil {
		w.Start("style:style", markup.Attrs{"style:name": PageStyleName, "style:family": "drawing-page"})
		w.Leaf("style:drawing-page-properties", markup.Attrs(d.DrawingPage))
		w.End("style:style")
	}
	if d.Styles != nil {
		for _, e := range d.Styles.Entries(style.Graphic) {
			w.Start("style:style", markup.Attrs{"style:name": e.Name, "style:family": "graphic"})
			w.Leaf("style:graphic-properties", markup.Attrs(e.Props))
			w.End("style:style")
		}
		for _, e := range d.Styles.Entries(style.Paragraph) {
			w.Start("style:style", markup.Attrs{"style:name": e.Name, "style:family": "paragraph"})
			w.Leaf("style:text-properties", markup.Attrs(e.Props))
			w.Leaf("style:paragraph-properties", markup.Attrs(e.Paragraph))
			w.End("style:style")
		}
	}
	w.End(automaticStyles)
}

func (d *Document) writeMasterStyles(w *markup.Writer) {
	master := markup.Attrs{"style:name": MasterPageName}
	if d.PageLayout != nil {
		master["style:page-layout-name"] = PageLayoutName
	}
	if d.DrawingPage != nil {
		master["draw:style-name"] = PageStyleName
	}
	w.Start("office:master-styles", nil)
	w.Leaf("style:master-page", master)
	w.End("office:master-styles")
}
