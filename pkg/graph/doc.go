// Package graph provides the connectivity summary of a converted diagram.
//
// A [Graph] has one [Node] per shape that carries a Dia object id and one
// [Edge] per connector whose both ends are attached. It is not needed to
// produce the drawing; it exists so the structure of a diagram can be
// inspected, cached and rendered as a node-link picture.
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "O0", "kind": "box"}, {"id": "O1", "kind": "box"}],
//	  "edges": [{"id": "O2", "from": "O0", "to": "O1", "routed": true}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalGraph(g)           // Graph → []byte
//	graph.WriteGraphFile(g, "diagram.json")    // Graph → File
//	g, _ := graph.ReadGraphFile("diagram.json") // File → Graph (validated)
//
// Output is sorted, so the same diagram always serializes the same way.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
