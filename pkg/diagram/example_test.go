package diagram_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/diaconv/pkg/diagram"
	"github.com/matzehuels/diaconv/pkg/markup"
)

func ExampleAssembler_Convert() {
	src := `<dia:diagram xmlns:dia="http://www.lysator.liu.se/~alla/dia/">
  <dia:layer name="Background" visible="true">
    <dia:object type="Standard - Box" version="0" id="O0">
      <dia:attribute name="elem_corner"><dia:point val="1,1"/></dia:attribute>
      <dia:attribute name="elem_width"><dia:real val="3"/></dia:attribute>
      <dia:attribute name="elem_height"><dia:real val="2"/></dia:attribute>
    </dia:object>
  </dia:layer>
</dia:diagram>`

	root, err := markup.Parse(strings.NewReader(src))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	rec := &markup.Recorder{}
	res, err := diagram.New().Convert(root, rec)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	r := rec.Elements("draw:rect")[0]
	fmt.Println(res.Shapes, r.Attrs["svg:x"], r.Attrs["svg:width"])
	// Output: 1 1cm 3cm
}
