package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/diaconv/pkg/graph"
)

// Options configures node-link rendering.
type Options struct {
	// Detailed adds the shape kind below each node label and the
	// connector id to each edge.
	Detailed bool
}

// Graph, node and edge defaults of every generated DOT file. Diagrams
// read left to right like most Dia flowcharts.
const (
	graphAttrs = `rankdir=LR; bgcolor="transparent"; ranksep=0.5; nodesep=0.3;`
	nodeAttrs  = `shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"`
	edgeAttrs  = `arrowsize=0.7`
)

// kindShapes maps shape kinds to Graphviz node shapes. Other kinds keep
// the default box.
var kindShapes = map[string]string{
	"ellipse":           "ellipse",
	"flowchart-ellipse": "ellipse",
	"diamond":           "diamond",
	"parallelogram":     "parallelogram",
	"kaos-goal":         "parallelogram",
	"text":              "plaintext",
	"image":             "note",
}

// ToDOT writes g as a Graphviz digraph. Endpoints that name no shape are
// drawn dashed and grey, and connectors that stayed polylines become
// dashed edges.
func ToDOT(g graph.Graph, opts Options) string {
	var b strings.Builder
	b.WriteString("digraph G {\n")
	fmt.Fprintf(&b, "  %s\n  node [%s];\n  edge [%s];\n\n", graphAttrs, nodeAttrs, edgeAttrs)

	for _, n := range g.Nodes {
		fmt.Fprintf(&b, "  %q [%s];\n", n.ID, strings.Join(nodeAttrList(n, opts), ", "))
	}
	if len(g.Edges) > 0 {
		b.WriteString("\n")
	}
	for _, e := range g.Edges {
		var attrs []string
		if !e.Routed {
			attrs = append(attrs, "style=dashed")
		}
		if opts.Detailed && e.ID != "" {
			attrs = append(attrs, fmt.Sprintf("xlabel=%q", e.ID), "fontsize=10")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&b, "  %q -> %q;\n", e.From, e.To)
		} else {
			fmt.Fprintf(&b, "  %q -> %q [%s];\n", e.From, e.To, strings.Join(attrs, ", "))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func nodeAttrList(n graph.Node, opts Options) []string {
	label := n.DisplayLabel()
	if opts.Detailed && n.Kind != "" {
		label += "\n" + n.Kind
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if n.IsMissing() {
		return append(attrs, `style="rounded,filled,dashed"`, "fillcolor=lightgrey")
	}
	if s, ok := kindShapes[n.Kind]; ok {
		attrs = append(attrs, "shape="+s)
	}
	return attrs
}

// RenderSVG lays out dot with Graphviz and returns SVG sized to its
// viewBox in pixels.
func RenderSVG(dot string) ([]byte, error) {
	svg, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return fitSVG(svg), nil
}

// RenderPNG lays out dot with Graphviz and returns a PNG.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse dot: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

var svgRootRe = regexp.MustCompile(`<svg\b[^>]*>`)

// fitSVG replaces the root element Graphviz writes, which sizes the
// image in points, with one sized in pixels from its viewBox. SVG
// without a usable viewBox is returned unchanged.
func fitSVG(svg []byte) []byte {
	root := svgRootRe.Find(svg)
	if root == nil {
		return svg
	}
	w, h, ok := viewBoxSize(string(root))
	if !ok {
		return svg
	}
	fitted := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return bytes.Replace(svg, root, []byte(fitted), 1)
}

// viewBoxSize returns the width and height of the viewBox attribute in tag.
func viewBoxSize(tag string) (w, h float64, ok bool) {
	_, rest, found := strings.Cut(tag, `viewBox="`)
	if !found {
		return 0, 0, false
	}
	box, _, _ := strings.Cut(rest, `"`)
	f := strings.Fields(box)
	if len(f) != 4 {
		return 0, 0, false
	}
	w, errW := strconv.ParseFloat(f[2], 64)
	h, errH := strconv.ParseFloat(f[3], 64)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}
