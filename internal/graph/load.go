package graph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// maxLineBytes bounds a single edge record.
const maxLineBytes = 1 << 20

// Load parses "source target" records from r, one per line. Blank lines are
// skipped. Any other line without exactly two tokens fails the whole load
// with ErrMalformedLine; no partial graph is returned.
func Load(r io.Reader) (*Graph, error) {
	b := NewBuilder()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: want 2 tokens, got %d", ErrMalformedLine, lineNo, len(fields))
		}
		b.AddEdge(fields[0], fields[1])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: line %d: %w", ErrLoad, lineNo+1, err)
	}
	return b.Build()
}

// LoadFile reads a gzip-compressed edge list from path. Errors carry the
// path so the operator knows which input to fix.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, path, err)
	}
	defer zr.Close()

	g, err := Load(zr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
