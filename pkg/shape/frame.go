package shape

import (
	"net/url"
	"path/filepath"

	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/odf"
	"github.com/matzehuels/diaconv/pkg/style"
)

// textFramePadding is added to the height of a text frame, in cm.
const textFramePadding = 0.2

// image is a linked picture. The file is referenced, never embedded.
type image struct {
	object
	href string
}

func newImage() *image {
	i := &image{object: newObject(Image)}
	i.showBorder = false
	i.showBackground = false
	return i
}

func (i *image) Import(n markup.Node, ctx *ImportContext) error {
	return i.importStandard(n, ctx, func(name string, attr markup.Node) bool {
		if name != "file" {
			return false
		}
		i.href = imageURL(dehash(simpleValue(attr)), ctx.BaseDir)
		return true
	})
}

// imageURL turns a Dia image path into an xlink:href. Absolute paths and
// paths below base become file URLs; relative paths without a base stay
// relative to the output document.
func imageURL(path, base string) string {
	if path == "" {
		return ""
	}
	if !filepath.IsAbs(path) {
		if base == "" {
			return filepath.ToSlash(path)
		}
		path = filepath.Join(base, path)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}

func (i *image) Write(w *markup.Writer, parent style.Properties) {
	w.Start("draw:frame", i.boxAttrs(parent))
	w.Leaf("draw:image", markup.Attrs{
		"xlink:href":    i.href,
		"xlink:type":    "simple",
		"xlink:show":    "embed",
		"xlink:actuate": "onLoad",
	})
	w.End("draw:frame")
}

// text is a free-standing text object. Its frame grows with the text.
type text struct {
	object
}

func newText() *text {
	t := &text{object: newObject(Text)}
	t.showBorder = false
	t.showBackground = false
	t.autoWidth = true
	t.fixedPadding = true
	return t
}

func (t *text) Import(n markup.Node, ctx *ImportContext) error {
	return t.importStandard(n, ctx, nil)
}

// ResizeIfNarrow fits the frame height to the lines and moves it so the
// first baseline sits on the object position. The width is left to the
// auto-grow style.
func (t *text) ResizeIfNarrow(m FontMetrics, _ *style.Interner) {
	if t.textStyle == "" {
		return
	}
	lm := m.LineMetrics(t.textStyle)
	t.h = lm.Height()*float64(t.lines()) + textFramePadding
	t.y = t.objPos.Y - (lm.Ascent + lm.Leading)
}

func (t *text) Write(w *markup.Writer, parent style.Properties) {
	w.Start("draw:frame", t.boxAttrs(parent))
	w.Start("draw:text-box", nil)
	if t.text != "" {
		odf.WriteText(w, t.paragraphAttrs(), t.text)
	}
	w.End("draw:text-box")
	w.End("draw:frame")
}
