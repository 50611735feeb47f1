package pipeline

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/diaconv/pkg/cache"
	"github.com/matzehuels/diaconv/pkg/dia"
	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/fonts"
	"github.com/matzehuels/diaconv/pkg/markup"
	"github.com/matzehuels/diaconv/pkg/observability"
	"github.com/matzehuels/diaconv/pkg/route"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

func box(id, corner string) string {
	return fmt.Sprintf(`<dia:object type="Standard - Box" version="0" id=%q>`+
		`<dia:attribute name="elem_corner"><dia:point val=%q/></dia:attribute>`+
		`<dia:attribute name="elem_width"><dia:real val="2"/></dia:attribute>`+
		`<dia:attribute name="elem_height"><dia:real val="2"/></dia:attribute>`+
		`</dia:object>`, id, corner)
}

func testDiagram(objects ...string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<dia:diagram xmlns:dia="http://www.lysator.liu.se/~alla/dia/">` +
		`<dia:layer name="Background" visible="true">` + strings.Join(objects, "") + `</dia:layer>` +
		`</dia:diagram>`)
}

// twoBoxes joins O0 and O1 with a routable zigzag line.
var twoBoxes = testDiagram(
	box("O0", "-2,-1"),
	box("O1", "4,2"),
	`<dia:object type="Standard - ZigZagLine" version="1" id="O2">`+
		`<dia:attribute name="orth_points"><dia:point val="0,0"/><dia:point val="2.5,0"/>`+
		`<dia:point val="2.5,3"/><dia:point val="4,3"/></dia:attribute>`+
		`<dia:attribute name="autorouting"><dia:boolean val="false"/></dia:attribute>`+
		`<dia:connections><dia:connection handle="0" to="O0" connection="4"/>`+
		`<dia:connection handle="1" to="O1" connection="3"/></dia:connections></dia:object>`,
)

const testShape = `<?xml version="1.0"?>` +
	`<shape xmlns="http://www.daa.com.au/~james/dia-shape-ns" xmlns:svg="http://www.w3.org/2000/svg">` +
	`<name>Test - Box</name><svg:svg><svg:rect x="0" y="0" width="1" height="1"/></svg:svg></shape>`

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"fodg", false},
		{"json", false},
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"odg", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v, want %v", tt.format, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"fodg", "dot"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"fodg", "pdf"}); err == nil {
		t.Error("Invalid format should fail")
	}
	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Data: twoBoxes}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Name != DefaultName {
		t.Errorf("Name = %q, want %q", opts.Name, DefaultName)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatODG {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, FormatODG)
	}
	if opts.Router != route.DefaultConfig() {
		t.Errorf("Router = %+v, want defaults", opts.Router)
	}
	if _, ok := opts.Fonts.(fonts.Heuristic); !ok {
		t.Errorf("Fonts = %T, want fonts.Heuristic", opts.Fonts)
	}
	if opts.NeedsGraph() {
		t.Error("NeedsGraph() = true, want false")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"empty input", Options{}, errors.ErrCodeInvalidInput},
		{"bad format", Options{Data: twoBoxes, Formats: []string{"pdf"}}, errors.ErrCodeInvalidFormat},
		{"bad router", Options{Data: twoBoxes, Router: route.Config{MinClearance: 1}}, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %v", err, tt.code)
			}
		})
	}
}

func TestDocumentKeyOpts(t *testing.T) {
	a := Options{Data: twoBoxes}
	a.SetDefaults()
	b := a
	b.Indent = true
	c := a
	c.Router.MaxBadness = 5

	ka, kb, kc := a.DocumentKeyOpts(), b.DocumentKeyOpts(), c.DocumentKeyOpts()
	if ka == kb {
		t.Error("indent does not change the key options")
	}
	if ka.Router == kc.Router {
		t.Error("router config does not change the key options")
	}
	if ka.Fonts != "fonts.Heuristic" {
		t.Errorf("Fonts = %q, want %q", ka.Fonts, "fonts.Heuristic")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want dia.Format
		code errors.Code
	}{
		{"plain diagram", twoBoxes, dia.Diagram, ""},
		{"gzip diagram", gzipped(t, twoBoxes), dia.Diagram, ""},
		{"shape", []byte(testShape), dia.Shape, ""},
		{"other document", []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`), dia.Unknown, errors.ErrCodeUnsupportedDocument},
		{"malformed", []byte(`<dia:diagram>`), dia.Unknown, errors.ErrCodeInvalidFormat},
		{"truncated gzip", gzipped(t, twoBoxes)[:20], dia.Unknown, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, kind, err := Decode("test.dia", tt.data)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Fatalf("Decode() error = %v, want code %v", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if kind != tt.want {
				t.Errorf("kind = %v, want %v", kind, tt.want)
			}
			if root == nil {
				t.Error("root = nil")
			}
		})
	}
}

func TestRunnerExecute(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{
		Name:    "net.dia",
		Data:    twoBoxes,
		Formats: []string{FormatODG, FormatGraph, FormatDOT},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if res.ID == "" {
		t.Error("ID is empty")
	}
	if res.Kind != dia.Diagram {
		t.Errorf("Kind = %v, want %v", res.Kind, dia.Diagram)
	}
	if res.Stats.Shapes != 3 || res.Stats.Routed != 1 {
		t.Errorf("Shapes, Routed = %d, %d, want 3, 1", res.Stats.Shapes, res.Stats.Routed)
	}
	if len(res.Graph.Nodes) != 2 || len(res.Graph.Edges) != 1 {
		t.Errorf("graph = %d nodes %d edges, want 2 and 1", len(res.Graph.Nodes), len(res.Graph.Edges))
	}

	odg := string(res.Artifacts[FormatODG])
	for _, want := range []string{"<office:document", "<draw:rect", "<draw:connector", "<dc:title>net.dia</dc:title>"} {
		if !strings.Contains(odg, want) {
			t.Errorf("fodg does not contain %q", want)
		}
	}
	if !strings.Contains(string(res.Artifacts[FormatGraph]), `"O0"`) {
		t.Errorf("graph JSON = %s, want node O0", res.Artifacts[FormatGraph])
	}
	if !strings.Contains(string(res.Artifacts[FormatDOT]), "digraph") {
		t.Errorf("dot = %s, want a digraph", res.Artifacts[FormatDOT])
	}
	if res.CacheInfo.ConvertHit {
		t.Error("ConvertHit = true with a null cache")
	}
}

func TestRunnerExecuteShape(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(context.Background(), Options{Data: []byte(testShape)})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Kind != dia.Shape {
		t.Errorf("Kind = %v, want %v", res.Kind, dia.Shape)
	}
	if res.Stats.Shapes != 1 {
		t.Errorf("Shapes = %d, want 1", res.Stats.Shapes)
	}
	if len(res.Graph.Nodes) != 0 {
		t.Errorf("graph nodes = %d, want 0", len(res.Graph.Nodes))
	}
	if _, ok := res.Artifacts[FormatGraph]; ok {
		t.Error("graph exported without being requested")
	}
}

func TestRunnerExecuteRejects(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	_, err := r.Execute(context.Background(), Options{Data: []byte(`<html/>`)})
	if !errors.Is(err, errors.ErrCodeUnsupportedDocument) {
		t.Errorf("Execute() error = %v, want code %v", err, errors.ErrCodeUnsupportedDocument)
	}
}

func TestRunnerCaching(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()
	ctx := context.Background()

	first, err := r.Execute(ctx, Options{Data: twoBoxes})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	second, err := r.Execute(ctx, Options{Data: twoBoxes})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !second.CacheInfo.ConvertHit {
		t.Error("second run ConvertHit = false, want true")
	}
	if !bytes.Equal(first.Artifacts[FormatODG], second.Artifacts[FormatODG]) {
		t.Error("cached document differs from the converted one")
	}
	if second.Stats.Shapes != first.Stats.Shapes {
		t.Errorf("cached Shapes = %d, want %d", second.Stats.Shapes, first.Stats.Shapes)
	}

	// A different option set misses.
	third, err := r.Execute(ctx, Options{Data: twoBoxes, Indent: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if third.CacheInfo.ConvertHit {
		t.Error("indented run ConvertHit = true, want false")
	}

	// Refresh skips the lookup.
	fourth, err := r.Execute(ctx, Options{Data: twoBoxes, Refresh: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if fourth.CacheInfo.ConvertHit {
		t.Error("refresh run ConvertHit = true, want false")
	}

	// The graph was stored alongside the document.
	g, hit, err := r.GraphWithCacheInfo(ctx, Options{Data: twoBoxes})
	if err != nil {
		t.Fatalf("GraphWithCacheInfo() error = %v", err)
	}
	if !hit {
		t.Error("graph hit = false, want true")
	}
	if len(g.Edges) != 1 {
		t.Errorf("graph edges = %d, want 1", len(g.Edges))
	}
}

func testLibrary(t *testing.T) *stencil.Library {
	t.Helper()
	root, err := markup.Parse(strings.NewReader(testShape))
	if err != nil {
		t.Fatalf("markup.Parse() error = %v", err)
	}
	tmpl, err := stencil.Parse(root)
	if err != nil {
		t.Fatalf("stencil.Parse() error = %v", err)
	}
	lib := stencil.NewLibrary()
	if err := lib.Add(tmpl); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	return lib
}

func TestRunnerGraphCacheFollowsTemplates(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(c, nil, nil)
	defer r.Close()
	ctx := context.Background()
	data := testDiagram(
		`<dia:object type="Test - Box" version="1" id="O0">`+
			`<dia:attribute name="elem_corner"><dia:point val="0,0"/></dia:attribute>`+
			`<dia:attribute name="elem_width"><dia:real val="2"/></dia:attribute>`+
			`<dia:attribute name="elem_height"><dia:real val="2"/></dia:attribute>`+
			`</dia:object>`,
	)

	if _, err := r.Execute(ctx, Options{Data: data}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if _, hit, err := r.GraphWithCacheInfo(ctx, Options{Data: data, Indent: true}); err != nil || !hit {
		t.Errorf("indented GraphWithCacheInfo() hit, err = %v, %v, want true, nil", hit, err)
	}

	_, hit, err := r.GraphWithCacheInfo(ctx, Options{Data: data, Templates: testLibrary(t)})
	if err != nil {
		t.Fatalf("GraphWithCacheInfo() error = %v", err)
	}
	if hit {
		t.Error("graph cached without templates served with templates")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	shapes int
	err    error
}

func (h *recordingHooks) OnConverted(_ context.Context, _ string, s observability.ConvertSummary, _ time.Duration, err error) {
	h.shapes = s.Shapes
	h.err = err
}

func TestRunnerHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	defer observability.Reset()

	if _, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Data: twoBoxes}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if h.shapes != 3 {
		t.Errorf("hook shapes = %d, want 3", h.shapes)
	}
	if h.err != nil {
		t.Errorf("hook err = %v, want nil", h.err)
	}
}
