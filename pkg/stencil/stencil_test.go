package stencil

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/geom"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/style"
)

const routerShape = `<?xml version="1.0"?>
<shape xmlns="http://www.daa.com.au/~james/dia-shape-ns" xmlns:svg="http://www.w3.org/2000/svg">
  <name>Test - Router</name>
  <icon>router.png</icon>
  <connections>
    <point x="0" y="0"/>
    <point x="10" y="5"/>
    <point x="5" y="2"/>
    <point y="1"/>
  </connections>
  <textbox x1="2" y1="2" x2="8" y2="4"/>
  <svg:svg>
    <svg:rect x="0" y="0" width="10" height="5" style="fill: background; stroke: foreground"/>
    <svg:g style="stroke-width: 2">
      <svg:line x1="0" y1="5" x2="10" y2="5"/>
      <svg:polygon points="1,1 3,1 2,3" style="fill: foreground"/>
    </svg:g>
    <svg:text x="1" y="1">ignored</svg:text>
  </svg:svg>
</shape>`

func parseShape(t *testing.T, src string) *Template {
	t.Helper()
	root, err := markup.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("markup.Parse() error = %v", err)
	}
	tmpl, err := Parse(root)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tmpl
}

func TestParse(t *testing.T) {
	tmpl := parseShape(t, routerShape)

	if tmpl.Name() != "Test - Router" {
		t.Errorf("Name() = %q, want %q", tmpl.Name(), "Test - Router")
	}
	if got := tmpl.ConnectionPointCount(); got != 3 {
		t.Errorf("ConnectionPointCount() = %d, want 3", got)
	}
	if got := len(tmpl.prims); got != 3 {
		t.Fatalf("primitives = %d, want 3", got)
	}
	scene := tmpl.Scene()
	if scene.Width() != 10 || scene.Height() != 5 {
		t.Errorf("Scene() = %v x %v, want 10 x 5", scene.Width(), scene.Height())
	}
	if got := tmpl.AspectRatio(); got != 2 {
		t.Errorf("AspectRatio() = %v, want 2", got)
	}
	if !tmpl.HasTextBox() {
		t.Error("HasTextBox() = false, want true")
	}

	line := tmpl.prims[1]
	if line.tag != "draw:line" || line.strokeScale != 2 {
		t.Errorf("line = %s scale %v, want draw:line scale 2", line.tag, line.strokeScale)
	}
	poly := tmpl.prims[2]
	if poly.tag != "draw:path" || poly.fill != "foreground" || poly.strokeScale != 2 {
		t.Errorf("polygon = %s fill %q scale %v", poly.tag, poly.fill, poly.strokeScale)
	}
	if got := poly.attrs["svg:viewBox"]; got != "0 0 20 20" {
		t.Errorf("viewBox = %q, want %q", got, "0 0 20 20")
	}
}

func TestParseNotShape(t *testing.T) {
	root := markup.NewElement("dia:diagram", nil)
	_, err := Parse(root)
	if !errors.Is(err, errors.ErrCodeUnsupportedDocument) {
		t.Errorf("Parse() error = %v, want UNSUPPORTED_DOCUMENT", err)
	}
}

func TestConnectionPoints(t *testing.T) {
	tmpl := parseShape(t, routerShape)

	tests := []struct {
		i       int
		want    geom.Point
		wantDir route.Direction
		ok      bool
	}{
		{0, geom.Pt(-5, -5), route.North | route.West, true},
		{1, geom.Pt(5, 5), route.South | route.East, true},
		{2, geom.Pt(0, -1), route.All, true},
		{3, geom.Point{}, route.All, false},
		{-1, geom.Point{}, route.All, false},
	}
	for _, tt := range tests {
		got, ok := tmpl.ConnectionPoint(tt.i)
		if ok != tt.ok || !got.NearlyEqual(tt.want) {
			t.Errorf("ConnectionPoint(%d) = %v, %v, want %v, %v", tt.i, got, ok, tt.want, tt.ok)
		}
		if d := tmpl.ConnectionDirection(tt.i); d != tt.wantDir {
			t.Errorf("ConnectionDirection(%d) = %v, want %v", tt.i, d, tt.wantDir)
		}
	}
}

func TestGenerateStyles(t *testing.T) {
	tmpl := parseShape(t, routerShape)
	in := style.New()
	parent := style.Properties{
		"draw:fill":        "solid",
		"draw:fill-color":  "#ffffff",
		"svg:stroke-color": "#000000",
		"svg:stroke-width": "0.1cm",
	}

	names := tmpl.GenerateStyles(in, parent, true)
	if len(names) != 3 {
		t.Fatalf("len(styles) = %d, want 3", len(names))
	}

	rect, _ := in.Lookup(style.Graphic, names[0])
	if !rect.Equal(parent) {
		t.Errorf("rect style = %v, want parent %v", rect, parent)
	}
	line, _ := in.Lookup(style.Graphic, names[1])
	if line["draw:fill"] != "none" || line["svg:stroke-width"] != "0.2cm" {
		t.Errorf("line style = %v, want no fill and 0.2cm stroke", line)
	}
	poly, _ := in.Lookup(style.Graphic, names[2])
	if poly["draw:fill-color"] != "#000000" {
		t.Errorf("polygon fill = %q, want foreground #000000", poly["draw:fill-color"])
	}
	if _, ok := in.Lookup(style.Graphic, style.TextBoxStyle); !ok {
		t.Error("text box style not registered")
	}

	hidden := tmpl.GenerateStyles(in, parent, false)
	for i, name := range hidden {
		p, _ := in.Lookup(style.Graphic, name)
		if p["draw:fill"] != "none" {
			t.Errorf("style %d fill = %q without background, want none", i, p["draw:fill"])
		}
	}
}

func TestWrite(t *testing.T) {
	tmpl := parseShape(t, routerShape)
	in := style.New()
	styles := tmpl.GenerateStyles(in, style.Properties{"svg:stroke-width": "0.1cm"}, true)

	var rec markup.Recorder
	w := markup.NewWriter(&rec)
	frame := Frame{
		X: 1, Y: 2, Width: 4, Height: 2,
		ID:    "id7",
		Attrs: markup.Attrs{"draw:id": "id7", "svg:x": "99cm", "draw:layer": "layout"},
	}
	tmpl.Write(w, frame, styles, markup.Attrs{"text:style-name": "P1"}, "hello")
	if err := w.Err(); err != nil {
		t.Fatal(err)
	}

	g := rec.Elements("draw:g")
	if len(g) != 1 || g[0].Attrs["draw:id"] != "id7" {
		t.Fatalf("draw:g = %v, want one group with draw:id id7", g)
	}
	if got := len(rec.Elements("draw:glue-point")); got != 3 {
		t.Errorf("glue points = %d, want 3", got)
	}

	rect := rec.Elements("draw:rect")[0]
	want := map[string]string{
		"svg:x":           "1cm",
		"svg:y":           "2cm",
		"svg:width":       "4cm",
		"svg:height":      "2cm",
		"draw:layer":      "layout",
		"draw:style-name": styles[0],
	}
	for k, v := range want {
		if rect.Attrs[k] != v {
			t.Errorf("rect %s = %q, want %q", k, rect.Attrs[k], v)
		}
	}
	if _, ok := rect.Attrs["draw:id"]; ok {
		t.Error("primitive inherited the group's draw:id")
	}

	line := rec.Elements("draw:line")[0]
	if line.Attrs["svg:y1"] != "4cm" || line.Attrs["svg:x2"] != "5cm" {
		t.Errorf("line = %v, want y1 4cm and x2 5cm", line.Attrs)
	}

	frames := rec.Elements("draw:frame")
	if len(frames) != 1 {
		t.Fatalf("text frames = %d, want 1", len(frames))
	}
	if frames[0].Attrs["svg:x"] != "1.8cm" || frames[0].Attrs["svg:width"] != "2.4cm" {
		t.Errorf("text frame = %v, want x 1.8cm width 2.4cm", frames[0].Attrs)
	}
	if rec.Text() != "hello" {
		t.Errorf("Text() = %q, want hello", rec.Text())
	}
}

func TestDefaultFrame(t *testing.T) {
	tmpl := parseShape(t, routerShape)
	f := tmpl.DefaultFrame()
	if f.X != 0 || f.Y != 0 || f.Width != 4 || f.Height != 2 {
		t.Errorf("DefaultFrame() = %+v, want 4x2 at the origin", f)
	}
}

func TestLibraryLoadDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "network")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		filepath.Join(sub, "router.shape"): routerShape,
		filepath.Join(sub, "broken.shape"): "<shape><name>x</name>",
		filepath.Join(dir, "notes.txt"):    "not a shape",
		filepath.Join(dir, "box.SHAPE"):    `<shape><name>Test - Box</name><svg><rect width="1" height="1"/></svg></shape>`,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	lib := NewLibrary()
	n, err := lib.LoadDir(context.Background(), dir)
	if err != nil {
		t.Fatalf("LoadDir() error = %v", err)
	}
	if n != 2 || lib.Len() != 2 {
		t.Errorf("loaded = %d, Len() = %d, want 2", n, lib.Len())
	}
	names := lib.Names()
	if len(names) != 2 || names[0] != "Test - Box" || names[1] != "Test - Router" {
		t.Errorf("Names() = %v", names)
	}
	if _, ok := lib.Lookup("Test - Router"); !ok {
		t.Error("Lookup(Test - Router) failed")
	}
	if _, ok := lib.Lookup("Missing"); ok {
		t.Error("Lookup(Missing) succeeded")
	}
}

func TestLibraryLoadDirErrors(t *testing.T) {
	lib := NewLibrary()
	_, err := lib.LoadDir(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadDir(missing) error = %v, want FILE_NOT_FOUND", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := lib.LoadDir(ctx, t.TempDir()); err == nil {
		t.Error("LoadDir() with cancelled context succeeded")
	}
}

func TestLibraryRejectsUnnamed(t *testing.T) {
	tmpl := parseShape(t, `<shape><svg><rect width="1" height="1"/></svg></shape>`)
	if err := NewLibrary().Add(tmpl); err == nil {
		t.Error("Add() accepted a template without a name")
	}
}

func TestNilLibrary(t *testing.T) {
	var lib *Library
	if _, ok := lib.Lookup("x"); ok {
		t.Error("nil Lookup() succeeded")
	}
	if lib.Len() != 0 {
		t.Error("nil Len() != 0")
	}
}
