// Package graph loads link-pair edge lists into a compact, integer-indexed
// directed graph. Node names are interned to dense ids in first-seen order so
// that the ranking hot loop never compares strings.
package graph

import (
	"errors"
	"fmt"
)

// ErrMalformedLine is returned when an input line does not hold exactly two
// whitespace-separated tokens.
var ErrMalformedLine = errors.New("malformed edge line")

// ErrEmptyGraph is returned when the input contains no edges.
var ErrEmptyGraph = errors.New("empty graph")

// ErrUnknownNode is returned when a node id has no name in the id table.
// It indicates a loader bug rather than bad input.
var ErrUnknownNode = errors.New("unknown node id")

// ErrLoad wraps I/O and decompression failures while reading an edge file.
var ErrLoad = errors.New("load edge file")

// Graph is an immutable directed graph built by a Builder. Node ids are the
// dense range [0, Len()).
type Graph struct {
	names []string
	ids   map[string]int
	// outDegree[id] counts every outgoing edge, duplicates and self-loops included.
	outDegree []int
	// inlinks[id] lists the source id of every edge into id, one entry per edge.
	inlinks  [][]int
	dangling []int
	edges    int
}

// Len returns the number of distinct nodes.
func (g *Graph) Len() int {
	return len(g.names)
}

// Edges returns the number of edge records loaded, duplicates included.
func (g *Graph) Edges() int {
	return g.edges
}

// Name returns the canonical name of id. Returns ErrUnknownNode when id is
// outside [0, Len()).
func (g *Graph) Name(id int) (string, error) {
	if id < 0 || id >= len(g.names) {
		return "", fmt.Errorf("%w: %d (graph has %d nodes)", ErrUnknownNode, id, len(g.names))
	}
	return g.names[id], nil
}

// ID returns the id assigned to name and whether the name is known.
func (g *Graph) ID(name string) (int, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// OutDegree returns the number of outgoing edges of id.
func (g *Graph) OutDegree(id int) int {
	return g.outDegree[id]
}

// InDegree returns the number of incoming edges of id.
func (g *Graph) InDegree(id int) int {
	return len(g.inlinks[id])
}

// Inlinks returns the source ids of all edges into id. The returned slice is
// shared with the graph and must not be modified.
func (g *Graph) Inlinks(id int) []int {
	return g.inlinks[id]
}

// Dangling returns the ids of nodes with no outgoing edges, in ascending
// order. The slice is computed once at build time and shared; callers must
// not modify it.
func (g *Graph) Dangling() []int {
	return g.dangling
}
