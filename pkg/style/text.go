package style

import (
	"strings"

	"github.com/matzehuels/diaconv/pkg/fonts"
	"github.com/matzehuels/diaconv/pkg/geom"
)

const pointsPerCm = 72 / 2.54

// PointsToCm converts typographic points to centimetres.
func PointsToCm(pt float64) float64 { return pt / pointsPerCm }

// CmToPoints converts centimetres to typographic points.
func CmToPoints(cm float64) float64 { return cm * pointsPerCm }

// FontDescriptor reads the font selection out of text properties.
func FontDescriptor(text Properties) fonts.Descriptor {
	d := fonts.Descriptor{
		Family: text["fo:font-family"],
		Italic: text["fo:font-style"] == "italic",
		Bold:   text["fo:font-weight"] == "bold",
	}
	if v, ok := text["fo:font-size"]; ok {
		if size, err := geom.ParseFloat(strings.TrimSuffix(v, "pt")); err == nil {
			d.Size = size
		}
	}
	return d
}

// FixFontSize corrects fo:font-size in a copy of text. Dia sizes fonts by
// their full line height (ascent + descent + leading), so the size is
// scaled by size/lineHeight of the matching face.
func (in *Interner) FixFontSize(text Properties) Properties {
	out := text.Clone()
	if _, ok := text["fo:font-size"]; !ok {
		return out
	}
	d := FontDescriptor(text)
	if d.Size <= 0 {
		return out
	}
	total := in.measurer.Metrics(d).Height()
	if total <= 0 {
		return out
	}
	out["fo:font-size"] = geom.FormatFloat(d.Size*d.Size/total) + "pt"
	return out
}

// AdvanceWidth returns the width in cm of text set in the paragraph style
// styleName, widest line first. Unknown styles measure 0.
func (in *Interner) AdvanceWidth(styleName, text string) float64 {
	props, ok := in.Lookup(Paragraph, styleName)
	if !ok {
		return 0
	}
	d := FontDescriptor(props)
	var widest float64
	for _, line := range strings.Split(text, "\n") {
		widest = max(widest, in.measurer.Advance(d, line))
	}
	return PointsToCm(widest)
}

// LineMetrics returns the line metrics in cm of the paragraph style
// styleName. Unknown styles yield zero metrics.
func (in *Interner) LineMetrics(styleName string) fonts.LineMetrics {
	props, ok := in.Lookup(Paragraph, styleName)
	if !ok {
		return fonts.LineMetrics{}
	}
	m := in.measurer.Metrics(FontDescriptor(props))
	return fonts.LineMetrics{
		Ascent:  PointsToCm(m.Ascent),
		Descent: PointsToCm(m.Descent),
		Leading: PointsToCm(m.Leading),
	}
}
