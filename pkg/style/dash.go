package style

import "github.com/matzehuels/diaconv/pkg/geom"

// Dia line styles.
const (
	LineSolid      = 0
	LineDashed     = 1
	LineDashDot    = 2
	LineDashDotDot = 3
	LineDotted     = 4
)

// DefaultDashLength is Dia's dash length in cm.
const DefaultDashLength = 1.0

var predefinedDashes = []struct {
	name  string
	props Properties
}{
	{"DIA_20_Dashed", dashProps(LineDashed, DefaultDashLength)},
	{"DIA_20_Dash_20_Dot", dashProps(LineDashDot, DefaultDashLength)},
	{"DIA_20_Dash_20_Dot_20_Dot", dashProps(LineDashDotDot, DefaultDashLength)},
	{"DIA_20_Dotted", dashProps(LineDotted, DefaultDashLength)},
}

// dashProps describes a Dia line style with dash length l in cm. It
// returns nil for solid and unknown styles.
func dashProps(lineStyle int, l float64) Properties {
	p := Properties{
		"draw:style":        "rect",
		"draw:dots1":        "1",
		"draw:dots1-length": geom.Cm(l),
	}
	switch lineStyle {
	case LineDashed:
		p["draw:distance"] = geom.Cm(l)
	case LineDashDot:
		p["draw:dots2"] = "1"
		p["draw:distance"] = geom.Cm(l * 0.45)
	case LineDashDotDot:
		p["draw:dots2"] = "2"
		p["draw:distance"] = geom.Cm(l * 0.225)
	case LineDotted:
		p["draw:dots1-length"] = geom.Cm(l / 10)
		p["draw:distance"] = geom.Cm(l * 0.1)
	default:
		return nil
	}
	return p
}

// Dash interns the stroke-dash style for a Dia line style and dash length
// and returns its name. Unknown line styles are reported and yield false.
func (in *Interner) Dash(lineStyle int, length float64) (string, bool) {
	p := dashProps(lineStyle, length)
	if p == nil {
		in.logger.Warn("unknown line style", "style", lineStyle)
		return "", false
	}
	return in.Add(StrokeDash, p), true
}

// ApplyDash sets the stroke of a graphic style to the dash for lineStyle.
// The stroke stays solid when the line style is unknown.
func (in *Interner) ApplyDash(props Properties, lineStyle int, length float64) {
	name, ok := in.Dash(lineStyle, length)
	if !ok {
		props["draw:stroke"] = "solid"
		return
	}
	props["draw:stroke"] = "dash"
	props["draw:stroke-dash"] = name
}
