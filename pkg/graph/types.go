package graph

import (
	"cmp"
	"encoding/json"
	"slices"
)

// Node kinds that are not shape kinds.
const (
	// KindMissing marks an endpoint that a connector names but that no
	// shape in the diagram defines.
	KindMissing = "missing"
)

// Graph is the node-link summary of a converted diagram: one node per
// shape with an id, one edge per connector joining two shapes.
//
// It is the format of `diaconv convert --graph`, of the service's
// /graph endpoint and of cached graph summaries.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a shape in the connectivity graph.
type Node struct {
	ID    string `json:"id" bson:"id"`
	Kind  string `json:"kind,omitempty" bson:"kind,omitempty"`   // shape kind, such as "box" or "custom"
	Label string `json:"label,omitempty" bson:"label,omitempty"` // text of the shape, or the template name
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// IsMissing reports whether the node only exists as a connector endpoint.
func (n *Node) IsMissing() bool { return n.Kind == KindMissing }

// Edge is a connector. ID is the connector's own object id.
type Edge struct {
	ID     string `json:"id,omitempty" bson:"id,omitempty"`
	From   string `json:"from" bson:"from"`
	To     string `json:"to" bson:"to"`
	Routed bool   `json:"routed,omitempty" bson:"routed,omitempty"` // written as an ODF standard connector
}

// Sort orders nodes by ID and edges by (From, To, ID) so the output is
// deterministic.
func (g *Graph) Sort() {
	slices.SortFunc(g.Nodes, func(a, b Node) int { return cmp.Compare(a.ID, b.ID) })
	slices.SortFunc(g.Edges, func(a, b Edge) int {
		return cmp.Or(cmp.Compare(a.From, b.From), cmp.Compare(a.To, b.To), cmp.Compare(a.ID, b.ID))
	})
}

// Node returns the node with id.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Degree returns the number of edges touching id.
func (g *Graph) Degree(id string) int {
	d := 0
	for _, e := range g.Edges {
		if e.From == id {
			d++
		}
		if e.To == id {
			d++
		}
	}
	return d
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}
