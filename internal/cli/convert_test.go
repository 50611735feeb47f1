package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const testDiagram = `<?xml version="1.0" encoding="UTF-8"?>` +
	`<dia:diagram xmlns:dia="http://www.lysator.liu.se/~alla/dia/">` +
	`<dia:layer name="Background" visible="true">` +
	`<dia:object type="Standard - Box" version="0" id="O0">` +
	`<dia:attribute name="elem_corner"><dia:point val="1,1"/></dia:attribute>` +
	`<dia:attribute name="elem_width"><dia:real val="2"/></dia:attribute>` +
	`<dia:attribute name="elem_height"><dia:real val="2"/></dia:attribute>` +
	`</dia:object></dia:layer></dia:diagram>`

func testCLI(t *testing.T) *CLI {
	t.Helper()
	c := New(io.Discard, LogInfo)
	c.Config.Fonts.Heuristic = true
	c.Config.Cache.Dir = t.TempDir()
	return c
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"svg, json,,png ", []string{"svg", "json", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWithExt(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"net.dia", ".fodg", "net.fodg"},
		{"net.dia.gz", ".fodg", "net.fodg"},
		{"dir/router.shape", ".fodg", "dir/router.fodg"},
		{"net.fodg", ".svg", "net.svg"},
		{"net.json", ".png", "net.png"},
		{"net.xml", ".fodg", "net.xml.fodg"},
		{"net", ".fodg", "net.fodg"},
	}
	for _, tt := range tests {
		if got := withExt(tt.path, tt.ext); got != tt.want {
			t.Errorf("withExt(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}

func TestPlanJobs(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out") + string(os.PathSeparator)

	tests := []struct {
		name       string
		inputs     []string
		output     string
		defaultDir string
		want       []string
	}{
		{"beside input", []string{"a.dia", "b/c.dia"}, "", "", []string{"a.fodg", "b/c.fodg"}},
		{"explicit file", []string{"a.dia"}, "x.fodg", "", []string{"x.fodg"}},
		{"directory", []string{"a.dia", "b/c.dia"}, outDir, "", []string{
			filepath.Join(dir, "out", "a.fodg"), filepath.Join(dir, "out", "c.fodg"),
		}},
		{"existing directory", []string{"a.dia"}, dir, "", []string{filepath.Join(dir, "a.fodg")}},
		{"config directory", []string{"a.dia"}, "", dir, []string{filepath.Join(dir, "a.fodg")}},
		{"stdin to stdout", []string{"-"}, "", "", []string{"-"}},
		{"stdin to file", []string{"-"}, "x.fodg", "", []string{"x.fodg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := planJobs(tt.inputs, tt.output, tt.defaultDir)
			if err != nil {
				t.Fatalf("planJobs() error = %v", err)
			}
			var got []string
			for _, j := range jobs {
				got = append(got, j.output)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPlanJobsRejectsFileForMany(t *testing.T) {
	_, err := planJobs([]string{"a.dia", "b.dia"}, filepath.Join(t.TempDir(), "x.fodg"), "")
	if err == nil {
		t.Fatal("planJobs() error = nil, want error")
	}
}

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"a.dia", "b.dia"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(testDiagram), 0o644); err != nil {
			t.Fatal(err)
		}
		inputs = append(inputs, path)
	}

	c := testCLI(t)
	err := c.runConvert(context.Background(), inputs, convertOpts{graph: "json", jobs: 2, noCache: true})
	if err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}
	for _, name := range []string{"a.fodg", "b.fodg", "a.json", "b.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("%s not written: %v", name, err)
			continue
		}
		if strings.HasSuffix(name, ".fodg") && !strings.Contains(string(data), "<draw:rect") {
			t.Errorf("%s has no draw:rect", name)
		}
	}
}

func TestRunConvertErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.dia")
	if err := os.WriteFile(bad, []byte("not xml"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		inputs []string
		opts   convertOpts
	}{
		{"unknown graph format", []string{bad}, convertOpts{graph: "pdf"}},
		{"fodg as graph", []string{bad}, convertOpts{graph: "fodg"}},
		{"missing file", []string{filepath.Join(dir, "missing.dia")}, convertOpts{}},
		{"malformed", []string{bad}, convertOpts{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.noCache = true
			tt.opts.jobs = 1
			if err := testCLI(t).runConvert(context.Background(), tt.inputs, tt.opts); err == nil {
				t.Error("runConvert() error = nil, want error")
			}
		})
	}
}
