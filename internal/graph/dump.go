package graph

import (
	"bufio"
	"fmt"
	"io"
)

// WriteIDs writes one "name: id" line per node in id order.
func (g *Graph) WriteIDs(w io.Writer) error {
	return g.dump(w, func(id int) (string, string) {
		return g.names[id], fmt.Sprint(id)
	})
}

// WriteOutDegrees writes one "id: outdegree" line per node in id order.
func (g *Graph) WriteOutDegrees(w io.Writer) error {
	return g.dump(w, func(id int) (string, string) {
		return fmt.Sprint(id), fmt.Sprint(g.outDegree[id])
	})
}

// WriteInDegrees writes one "id: indegree" line per node in id order.
func (g *Graph) WriteInDegrees(w io.Writer) error {
	return g.dump(w, func(id int) (string, string) {
		return fmt.Sprint(id), fmt.Sprint(len(g.inlinks[id]))
	})
}

func (g *Graph) dump(w io.Writer, entry func(id int) (string, string)) error {
	bw := bufio.NewWriter(w)
	for id := range g.names {
		k, v := entry(id)
		if _, err := fmt.Fprintf(bw, "%s: %s\n", k, v); err != nil {
			return err
		}
	}
	return bw.Flush()
}
