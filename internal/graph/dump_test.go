package graph

import (
	"bytes"
	"testing"
)

func TestDump(t *testing.T) {
	t.Parallel()

	g := mustLoad(t, "page1 page2\npage1 page3\npage2 page1\n")

	tests := []struct {
		name  string
		write func(*bytes.Buffer) error
		want  string
	}{
		{
			name:  "ids",
			write: func(b *bytes.Buffer) error { return g.WriteIDs(b) },
			want:  "page1: 0\npage2: 1\npage3: 2\n",
		},
		{
			name:  "outdegrees",
			write: func(b *bytes.Buffer) error { return g.WriteOutDegrees(b) },
			want:  "0: 2\n1: 1\n2: 0\n",
		},
		{
			name:  "indegrees",
			write: func(b *bytes.Buffer) error { return g.WriteInDegrees(b) },
			want:  "0: 1\n1: 1\n2: 1\n",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := tt.write(&buf); err != nil {
				t.Fatalf("write: %v", err)
			}
			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
