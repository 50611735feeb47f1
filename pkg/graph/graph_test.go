package graph

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func twoBoxes() Graph {
	return Graph{
		Nodes: []Node{{ID: "O1", Kind: "box"}, {ID: "O0", Kind: "box", Label: "start"}},
		Edges: []Edge{{ID: "O2", From: "O0", To: "O1", Routed: true}},
	}
}

func TestMarshalGraph(t *testing.T) {
	tests := []struct {
		name      string
		g         Graph
		wantNodes int
		wantEdges int
	}{
		{"Empty", Graph{}, 0, 0},
		{"TwoBoxes", twoBoxes(), 2, 1},
		{
			"Diamond",
			Graph{
				Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}},
				Edges: []Edge{{From: "a", To: "b"}, {From: "a", To: "c"}, {From: "b", To: "d"}, {From: "c", To: "d"}},
			},
			4, 4,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := MarshalGraph(tt.g)
			if err != nil {
				t.Fatalf("MarshalGraph: %v", err)
			}
			var got Graph
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if len(got.Nodes) != tt.wantNodes {
				t.Errorf("nodes = %d, want %d", len(got.Nodes), tt.wantNodes)
			}
			if len(got.Edges) != tt.wantEdges {
				t.Errorf("edges = %d, want %d", len(got.Edges), tt.wantEdges)
			}
		})
	}
}

func TestMarshalGraphSorted(t *testing.T) {
	g := twoBoxes()
	data, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if i, j := bytes.Index(data, []byte(`"O0"`)), bytes.Index(data, []byte(`"O1"`)); i > j {
		t.Errorf("O0 at %d after O1 at %d", i, j)
	}
	// The input is not reordered.
	if g.Nodes[0].ID != "O1" {
		t.Errorf("Nodes[0] = %s, want O1", g.Nodes[0].ID)
	}
}

func TestReadGraphValidates(t *testing.T) {
	tests := []struct {
		name    string
		json    string
		wantErr string
	}{
		{"ok", `{"nodes":[{"id":"a"},{"id":"b"}],"edges":[{"from":"a","to":"b"}]}`, ""},
		{"duplicate", `{"nodes":[{"id":"a"},{"id":"a"}],"edges":[]}`, "duplicate"},
		{"dangling", `{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"b"}]}`, "unknown node"},
		{"no id", `{"nodes":[{"kind":"box"}]}`, "without id"},
		{"bad json", `{"nodes":`, "decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadGraph(strings.NewReader(tt.json))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ReadGraph: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ReadGraph error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestGraphFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(twoBoxes(), path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("stat: %v", err)
	}
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	n, ok := g.Node("O0")
	if !ok {
		t.Fatal("Node(O0) not found")
	}
	if n.DisplayLabel() != "start" {
		t.Errorf("DisplayLabel() = %q, want %q", n.DisplayLabel(), "start")
	}
	if !g.Edges[0].Routed {
		t.Error("Routed = false, want true")
	}
}

func TestReadGraphFileMissing(t *testing.T) {
	if _, err := ReadGraphFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("ReadGraphFile succeeded on a missing file")
	}
}

func TestDegree(t *testing.T) {
	g := twoBoxes()
	g.Edges = append(g.Edges, Edge{From: "O0", To: "O0"})
	tests := []struct {
		id   string
		want int
	}{
		{"O0", 3},
		{"O1", 1},
		{"O9", 0},
	}
	for _, tt := range tests {
		if got := g.Degree(tt.id); got != tt.want {
			t.Errorf("Degree(%s) = %d, want %d", tt.id, got, tt.want)
		}
	}
}

func TestNodeHelpers(t *testing.T) {
	n := Node{ID: "O3", Kind: KindMissing}
	if !n.IsMissing() {
		t.Error("IsMissing() = false, want true")
	}
	if n.DisplayLabel() != "O3" {
		t.Errorf("DisplayLabel() = %q, want O3", n.DisplayLabel())
	}
}
