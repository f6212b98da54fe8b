package graph

// Builder accumulates edges and interns node names. The zero value is not
// usable; call NewBuilder.
type Builder struct {
	names     []string
	ids       map[string]int
	outDegree []int
	inlinks   [][]int
	edges     int
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{ids: make(map[string]int)}
}

// AddEdge records an edge from src to dst. Unseen names get the next id,
// src before dst. Duplicate edges and self-loops are kept as independent
// edges.
func (b *Builder) AddEdge(src, dst string) {
	s := b.intern(src)
	d := b.intern(dst)
	b.outDegree[s]++
	b.inlinks[d] = append(b.inlinks[d], s)
	b.edges++
}

// Len returns the number of nodes interned so far.
func (b *Builder) Len() int {
	return len(b.names)
}

// Build freezes the builder into a Graph and derives the dangling set.
// Returns ErrEmptyGraph if no edge was added. The builder must not be used
// afterwards.
func (b *Builder) Build() (*Graph, error) {
	if len(b.names) == 0 {
		return nil, ErrEmptyGraph
	}
	g := &Graph{
		names:     b.names,
		ids:       b.ids,
		outDegree: b.outDegree,
		inlinks:   b.inlinks,
		edges:     b.edges,
	}
	g.dangling = danglingNodes(g.outDegree)
	*b = Builder{}
	return g, nil
}

func (b *Builder) intern(name string) int {
	if id, ok := b.ids[name]; ok {
		return id
	}
	id := len(b.names)
	b.ids[name] = id
	b.names = append(b.names, name)
	b.outDegree = append(b.outDegree, 0)
	b.inlinks = append(b.inlinks, nil)
	return id
}
