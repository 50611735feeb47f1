package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/diaconv/pkg/graph"
)

func TestToDOT(t *testing.T) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "O0", Kind: "box", Label: "start"},
			{ID: "O1", Kind: "diamond"},
			{ID: "O9", Kind: graph.KindMissing},
		},
		Edges: []graph.Edge{
			{ID: "O2", From: "O0", To: "O1", Routed: true},
			{ID: "O3", From: "O1", To: "O9"},
		},
	}
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{"plain", Options{}, []string{
			`"O0" [label="start"];`,
			`"O1" [label="O1", shape=diamond];`,
			`"O9" [label="O9", style="rounded,filled,dashed", fillcolor=lightgrey];`,
			`"O0" -> "O1";`,
			`"O1" -> "O9" [style=dashed];`,
		}},
		{"detailed", Options{Detailed: true}, []string{
			`"O0" [label="start\nbox"];`,
			`"O0" -> "O1" [xlabel="O2", fontsize=10];`,
			`"O1" -> "O9" [style=dashed, xlabel="O3", fontsize=10];`,
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dot := ToDOT(g, tt.opts)
			if !strings.HasPrefix(dot, "digraph G {") {
				t.Errorf("ToDOT() does not start with digraph: %q", dot)
			}
			for _, w := range tt.want {
				if !strings.Contains(dot, w) {
					t.Errorf("ToDOT() missing %q in\n%s", w, dot)
				}
			}
		})
	}
}

func TestFitSVG(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"rewritten",
			`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`,
			`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`,
		},
		{"no viewBox", `<svg><g/></svg>`, `<svg><g/></svg>`},
		{"empty", `<svg viewBox="0 0 0 0"></svg>`, `<svg viewBox="0 0 0 0"></svg>`},
		{"short", `<svg viewBox="0 0 10"></svg>`, `<svg viewBox="0 0 10"></svg>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(fitSVG([]byte(tt.in))); got != tt.want {
				t.Errorf("fitSVG() = %q, want %q", got, tt.want)
			}
		})
	}
}
