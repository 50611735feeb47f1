package style

import (
	"github.com/matzehuels/diaconv/pkg/geom"
)

// ArrowCount is the number of Dia arrow types; valid types are 1..ArrowCount.
const ArrowCount = 33

var arrowNames = [ArrowCount + 1]string{
	1:  "Arrow_20_lines",
	2:  "Hollow_20_triangle",
	3:  "Filled_20_triangle",
	4:  "Hollow_20_Diamond",
	5:  "Filled_20_Diamond",
	6:  "Half_20_Head",
	7:  "Slashed_20_Cross",
	8:  "Filled_20_ellipse",
	9:  "Hollow_20_ellipse",
	10: "Double_20_hollow_20_triangle",
	11: "Double_20_filled_20_triangle",
	12: "Unfilled_20_triangle",
	13: "Filled_20_dot",
	14: "Dimension_20_origin",
	15: "Blanked_20_dot",
	16: "Filled_20_box",
	17: "Blanked_20_box",
	18: "Slash_20_arrow",
	19: "Integral_symbol",
	20: "Crow_foot",
	21: "Cross",
	22: "Filled_20_concave",
	23: "Blanked_20_concave",
	24: "Rounded",
	25: "Half_20_diamond",
	26: "Open_20_rounded",
	27: "Filled_20_Dot_20_and_20_Triangle",
	28: "One_20_or_20_many",
	29: "None_20_or_20_many",
	30: "One_20_or_20_none",
	31: "One_20_exactly",
	32: "Arrow_20_backslash",
	33: "Arrow_20_three_20_dots",
}

// ArrowName returns the marker name of a Dia arrow type. Unknown types map
// to the plain arrow.
func ArrowName(arrowType int) string {
	if arrowType < 1 || arrowType > ArrowCount {
		arrowType = 1
	}
	return arrowNames[arrowType]
}

const (
	trianglePoints = "160.75,173.233 150.75,153.233 140.75,173.233"
	diamondPoints  = "150.75,153.233 160.75,163.233 150.75,173.233 140.75,163.233"
	concavePoints  = "200.015,127.748 209.937,147.786 199.957,142.748 189.937,147.709"

	dotPath = "M100,0 C125,0 150,25 150,50 C150,75 125,100 100,100 C75,100 50,75 50,50 C50,25 75,0 100,0"
	boxPath = "M50,0 L150,0 L150,100 L50,100z M0,50 L200,50"
)

var plainArrow = Properties{
	"svg:viewBox": "0 0 20 30",
	"svg:d":       "m10 0-10 30h20z",
}

// arrowGeometry returns the marker geometry for a Dia arrow type. Only
// filled outlines can be drawn as markers, so hollow types share the
// geometry of their filled twin and types without a polygon equivalent use
// the plain arrow.
func arrowGeometry(arrowType int) Properties {
	switch arrowType {
	case 2, 3, 12:
		return polygonMarker(trianglePoints)
	case 4, 5:
		return polygonMarker(diamondPoints)
	case 8, 9:
		return Properties{
			"svg:viewBox": "0 0 1131 1131",
			"svg:d":       "m462 1118-102-29-102-51-93-72-72-93-51-102-29-102-13-105 13-102 29-106 51-102 72-89 93-72 102-50 102-34 106-9 101 9 106 34 98 50 93 72 72 89 51 102 29 106 13 102-13 105-29 102-51 102-72 93-93 72-98 51-106 29-101 13z",
		}
	case 10, 11:
		return Properties{
			"svg:viewBox": "0 0 1131 1918",
			"svg:d":       "m737 1131h394l-564-1131-567 1131h398l-398 787h1131z",
		}
	case 13:
		return Properties{
			"svg:viewBox": "0 0 200 100",
			"svg:d":       dotPath + "z M0,50 L200,50",
		}
	case 14, 15:
		return Properties{
			"svg:viewBox": "0 0 200 100",
			"svg:d":       dotPath + " M0,50 L200,50",
		}
	case 16, 17:
		return Properties{
			"svg:viewBox": "0 0 200 100",
			"svg:d":       boxPath,
		}
	case 22, 23:
		return polygonMarker(concavePoints)
	case 27:
		return Properties{
			"svg:viewBox": "0 0 200 400",
			"svg:d":       "M 200,100 C 200,155.22847 155.22847,200 100,200 44.771525,200 0,155.22847 0,100 0,44.771525 44.771525,0 100,0 155.22847,0 200,44.771525 200,100 z M 200,400 100,200 0,400 z",
		}
	}
	return plainArrow.Clone()
}

func polygonMarker(points string) Properties {
	pts, err := geom.ParsePoints(points)
	if err != nil {
		return plainArrow.Clone()
	}
	vp, pp := geom.FitToOrigin(geom.PolyPolygon{geom.NewPolygon(false, pts...)})
	return Properties{
		"svg:viewBox": vp.String(),
		"svg:d":       geom.FormatPath(pp),
	}
}

// Marker registers the marker for a Dia arrow type and returns its name.
// The second result is false when arrowType is outside 1..ArrowCount and
// the plain arrow was substituted.
func (in *Interner) Marker(arrowType int) (string, bool) {
	ok := arrowType >= 1 && arrowType <= ArrowCount
	if !ok {
		in.logger.Warn("unknown arrow type", "type", arrowType)
		arrowType = 1
	}
	name := ArrowName(arrowType)
	if _, found := in.Lookup(Marker, name); !found {
		in.addNamed(Marker, name, arrowGeometry(arrowType))
	}
	return name, ok
}
