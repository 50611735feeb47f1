package diagram

import (
	"github.com/matzehuels/diaconv/pkg/errors"
	"github.com/matzehuels/diaconv/pkg/graph"
	"github.com/matzehuels/diaconv/pkg/shape"
	"github.com/matzehuels/diaconv/pkg/stencil"
)

// Result summarizes a conversion.
type Result struct {
	// Shapes counts the converted shapes, including those inside groups
	// but not the groups themselves.
	Shapes int

	// Routed counts zigzag lines written as standard connectors and
	// Degraded those written as polylines.
	Routed   int
	Degraded int

	// Diagnostics holds what was reported while reading the diagram.
	Diagnostics *errors.Diagnostics

	// PageWidth and PageHeight are the final page size in mm, zero when
	// the diagram names no known paper.
	PageWidth, PageHeight float64

	graph graph.Graph
}

func newResult(shapes []shape.Shape, ctx *shape.ImportContext) *Result {
	r := &Result{Diagnostics: ctx.Diagnostics}
	nodes := map[string]bool{}
	var edges []graph.Edge

	shape.Walk(shapes, func(s shape.Shape) {
		if s.Kind() == shape.Group {
			return
		}
		r.Shapes++
		if z, ok := s.(shape.Routable); ok {
			if z.Routed() {
				r.Routed++
			} else {
				r.Degraded++
			}
		}
		if c, ok := s.(shape.Connector); ok && s.Kind().IsConnector() {
			from, to := c.Endpoints()
			if from != "" && to != "" {
				e := graph.Edge{ID: s.ID(), From: from, To: to}
				if z, ok := s.(shape.Routable); ok {
					e.Routed = z.Routed()
				}
				edges = append(edges, e)
				return
			}
		}
		if id := s.ID(); id != "" && !nodes[id] {
			nodes[id] = true
			r.graph.Nodes = append(r.graph.Nodes, graph.Node{ID: id, Kind: s.Kind().String(), Label: label(s)})
		}
	})

	for _, e := range edges {
		for _, id := range []string{e.From, e.To} {
			if !nodes[id] {
				nodes[id] = true
				r.graph.Nodes = append(r.graph.Nodes, graph.Node{ID: id, Kind: graph.KindMissing})
			}
		}
	}
	r.graph.Edges = edges
	r.graph.Sort()
	return r
}

func label(s shape.Shape) string {
	if l, ok := s.(shape.Labeled); ok && l.Text() != "" {
		return l.Text()
	}
	if t, ok := s.(interface{ Template() *stencil.Template }); ok && t.Template() != nil {
		return t.Template().Name()
	}
	return ""
}

// Graph returns the connectivity of the diagram: every shape with an id
// is a node and every connector joining two shapes an edge. Connectors
// with a loose end are nodes. Ends naming no shape become nodes of kind
// [graph.KindMissing].
func (r *Result) Graph() graph.Graph {
	g := graph.Graph{
		Nodes: append([]graph.Node(nil), r.graph.Nodes...),
		Edges: append([]graph.Edge(nil), r.graph.Edges...),
	}
	return g
}
