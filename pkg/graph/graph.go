package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// MarshalGraph encodes g as indented node-link JSON. Nodes and edges are
// sorted by id, so equal graphs give equal bytes and cache well.
func MarshalGraph(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes g to path, the .json written by convert --graph.
func WriteGraphFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

func WriteGraph(g Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a graph written by [WriteGraphFile].
func ReadGraphFile(path string) (Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return Graph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadGraph decodes and validates a node-link JSON graph.
func ReadGraph(r io.Reader) (Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return Graph{}, fmt.Errorf("decode: %w", err)
	}
	if err := g.Validate(); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// Validate checks that node ids are unique and non-empty and that every
// edge joins known nodes.
func (g Graph) Validate() error {
	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node without id")
		}
		if seen[n.ID] {
			return fmt.Errorf("duplicate node %s", n.ID)
		}
		seen[n.ID] = true
	}
	for _, e := range g.Edges {
		if !seen[e.From] || !seen[e.To] {
			return fmt.Errorf("edge %s→%s: unknown node", e.From, e.To)
		}
	}
	return nil
}

func writeGraphTo(g Graph, w io.Writer) error {
	g.Nodes = append([]Node(nil), g.Nodes...)
	g.Edges = append([]Edge(nil), g.Edges...)
	g.Sort()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
