package shape

import "strconv"

// Kind identifies one of the shape types the converter understands.
type Kind int

const (
	Box Kind = iota
	Ellipse
	Polygon
	Line
	Arc
	ZigZagLine
	PolyLine
	BezierLine
	Beziergon
	Image
	Text
	FlowchartBox
	Parallelogram
	Diamond
	FlowchartEllipse
	KaosGoal
	Custom
	Group
)

var kindNames = [...]string{
	Box:              "box",
	Ellipse:          "ellipse",
	Polygon:          "polygon",
	Line:             "line",
	Arc:              "arc",
	ZigZagLine:       "zigzagline",
	PolyLine:         "polyline",
	BezierLine:       "bezierline",
	Beziergon:        "beziergon",
	Image:            "image",
	Text:             "text",
	FlowchartBox:     "flowchart-box",
	Parallelogram:    "parallelogram",
	Diamond:          "diamond",
	FlowchartEllipse: "flowchart-ellipse",
	KaosGoal:         "kaos-goal",
	Custom:           "custom",
	Group:            "group",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// IsConnector reports whether shapes of kind k are lines between two
// points rather than closed outlines. Connectors never grow to fit text.
func (k Kind) IsConnector() bool {
	switch k {
	case Line, Arc, ZigZagLine, PolyLine, BezierLine:
		return true
	}
	return false
}

// diaTypes maps Dia object type names to built-in kinds.
var diaTypes = map[string]Kind{
	"Standard - Box":            Box,
	"Standard - Ellipse":        Ellipse,
	"Standard - Polygon":        Polygon,
	"Standard - Line":           Line,
	"Standard - Arc":            Arc,
	"Standard - ZigZagLine":     ZigZagLine,
	"Standard - PolyLine":       PolyLine,
	"Standard - BezierLine":     BezierLine,
	"Standard - Beziergon":      Beziergon,
	"Standard - Image":          Image,
	"Standard - Text":           Text,
	"Flowchart - Box":           FlowchartBox,
	"Flowchart - Parallelogram": Parallelogram,
	"Flowchart - Diamond":       Diamond,
	"Flowchart - Ellipse":       FlowchartEllipse,
	"KAOS - goal":               KaosGoal,
}

// KindOf returns the built-in kind for a Dia object type such as
// "Standard - Box". Custom shapes are not built in and yield false.
func KindOf(diaType string) (Kind, bool) {
	k, ok := diaTypes[diaType]
	return k, ok
}
