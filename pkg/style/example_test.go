package style_test

import (
	"fmt"

	"github.com/matzehuels/diaconv/pkg/style"
)

func ExampleInterner_Add() {
	in := style.New()
	a := in.Add(style.Graphic, style.Properties{"draw:fill": "solid", "draw:fill-color": "#ff0000"})
	b := in.Add(style.Graphic, style.Properties{"draw:fill": "none"})
	c := in.Add(style.Graphic, style.Properties{"draw:fill-color": "#ff0000", "draw:fill": "solid"})
	fmt.Println(a, b, c)
	// Output: gr1 gr2 gr1
}

func ExampleInterner_Dash() {
	in := style.New()
	preset, _ := in.Dash(style.LineDashed, style.DefaultDashLength)
	custom, _ := in.Dash(style.LineDashed, 0.25)
	fmt.Println(preset)
	fmt.Println(custom, style.DisplayName(custom))
	// Output:
	// DIA_20_Dashed
	// DIA_20_Line_20_1 DIA Line 1
}
