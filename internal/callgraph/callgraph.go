// Package callgraph turns an extraction's function and call tables into a
// queryable directed graph for analysis consumers.
package callgraph

import (
	"sort"
	"strings"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/google/uuid"

	"github.com/mvp-joe/verus-rewrite/internal/rewrite"
)

// SchemaVersion identifies the exported data layout.
const SchemaVersion = "1"

// NodeKind distinguishes functions defined in the input from names that are
// only called.
type NodeKind string

const (
	NodeDefined  NodeKind = "defined"
	NodeExternal NodeKind = "external"
)

// Node is one function in the exported graph.
type Node struct {
	ID        string   `json:"id"`
	Kind      NodeKind `json:"kind"`
	CallSites int      `json:"call_sites"` // recognized calls to this function
}

// Edge is a caller-to-callee relationship.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Metadata describes one export.
type Metadata struct {
	Version     string    `json:"version"`
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
}

// Data is the complete exported graph structure.
type Data struct {
	Metadata Metadata `json:"_metadata"`
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
}

// Graph is an in-memory call graph over one extraction.
type Graph struct {
	g       graph.Graph[string, string]
	defined map[string]bool
	calls   map[string][]rewrite.CallSite
	edges   []Edge
}

// Build constructs the graph from an extraction. Vertices are every defined
// function plus every called name. Call attribution is textual: extraction
// records call sites per callee, not per caller, so an edge caller->callee is
// added when the callee appears invoked inside the caller's recorded source.
func Build(ext *rewrite.Extraction) (*Graph, error) {
	g := graph.New(graph.StringHash, graph.Directed())

	cg := &Graph{
		g:       g,
		defined: make(map[string]bool, len(ext.Functions)),
		calls:   ext.Calls,
	}

	for name := range ext.Functions {
		cg.defined[name] = true
		if err := g.AddVertex(name); err != nil {
			return nil, err
		}
	}
	for callee := range ext.Calls {
		// Already present when the callee is also defined.
		_ = g.AddVertex(callee)
	}

	for name, source := range ext.Functions {
		for callee := range ext.Calls {
			if callee == name || !strings.Contains(source, callee+"(") {
				continue
			}
			if err := g.AddEdge(name, callee); err != nil {
				return nil, err
			}
			cg.edges = append(cg.edges, Edge{From: name, To: callee})
		}
	}
	sort.Slice(cg.edges, func(i, j int) bool {
		if cg.edges[i].From != cg.edges[j].From {
			return cg.edges[i].From < cg.edges[j].From
		}
		return cg.edges[i].To < cg.edges[j].To
	})

	return cg, nil
}

// Defined returns the defined function names, sorted.
func (cg *Graph) Defined() []string {
	names := make([]string, 0, len(cg.defined))
	for name := range cg.defined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Callees returns every called name, sorted.
func (cg *Graph) Callees() []string {
	names := make([]string, 0, len(cg.calls))
	for name := range cg.calls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Unresolved returns names that are called but not defined in the input,
// sorted.
func (cg *Graph) Unresolved() []string {
	var names []string
	for name := range cg.calls {
		if !cg.defined[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// CallSites returns the recorded call sites for a callee, in traversal order.
func (cg *Graph) CallSites(callee string) []rewrite.CallSite {
	return cg.calls[callee]
}

// Callers returns the functions with an edge into the given name, sorted.
func (cg *Graph) Callers(name string) ([]string, error) {
	preds, err := cg.g.PredecessorMap()
	if err != nil {
		return nil, err
	}
	var callers []string
	for caller := range preds[name] {
		callers = append(callers, caller)
	}
	sort.Strings(callers)
	return callers, nil
}

// Data exports the graph with metadata for serialization.
func (cg *Graph) Data() *Data {
	var nodes []Node
	for _, name := range cg.Defined() {
		nodes = append(nodes, Node{ID: name, Kind: NodeDefined, CallSites: len(cg.calls[name])})
	}
	for _, name := range cg.Unresolved() {
		nodes = append(nodes, Node{ID: name, Kind: NodeExternal, CallSites: len(cg.calls[name])})
	}

	return &Data{
		Metadata: Metadata{
			Version:     SchemaVersion,
			RunID:       uuid.NewString(),
			GeneratedAt: time.Now().UTC(),
			NodeCount:   len(nodes),
			EdgeCount:   len(cg.edges),
		},
		Nodes: nodes,
		Edges: cg.edges,
	}
}
