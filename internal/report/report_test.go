package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// table is an in-memory InlinkSource.
type table struct {
	names    []string
	inDegree []int
}

func (t *table) Len() int { return len(t.names) }

func (t *table) Name(id int) (string, error) {
	if id < 0 || id >= len(t.names) {
		return "", fmt.Errorf("no node %d", id)
	}
	return t.names[id], nil
}

func (t *table) InDegree(id int) int { return t.inDegree[id] }

func fixture() (*table, []float64) {
	src := &table{
		names:    []string{"delta", "alpha", "charlie", "bravo", "echo"},
		inDegree: []int{1, 2, 2, 0, 1},
	}
	return src, []float64{0.1, 0.3, 0.3, 0.05, 0.25}
}

func TestTopInlinks_Golden(t *testing.T) {
	t.Parallel()

	src, _ := fixture()
	rows, err := TopInlinks(src, 3)
	if err != nil {
		t.Fatalf("TopInlinks: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteInlinks(&buf, rows); err != nil {
		t.Fatalf("WriteInlinks: %v", err)
	}
	goldie.New(t).Assert(t, "inlinks_top3", buf.Bytes())
}

func TestTopScores_Golden(t *testing.T) {
	t.Parallel()

	names, scores := fixture()
	rows, err := TopScores(names, scores, 100)
	if err != nil {
		t.Fatalf("TopScores: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want all 5 nodes", len(rows))
	}

	var buf bytes.Buffer
	if err := WriteScores(&buf, rows); err != nil {
		t.Fatalf("WriteScores: %v", err)
	}
	goldie.New(t).Assert(t, "scores_all", buf.Bytes())
}

func TestTopScores_KOne(t *testing.T) {
	t.Parallel()

	names, _ := fixture()
	scores := []float64{0.1, 0.2, 0.15, 0.05, 0.5}
	rows, err := TopScores(names, scores, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Name != "echo" || rows[0].Position != 1 {
		t.Errorf("rows = %+v, want only echo at position 1", rows)
	}
}

func TestTies_BreakByAscendingName(t *testing.T) {
	t.Parallel()

	src := &table{names: []string{"zeta", "eta", "beta"}, inDegree: []int{4, 4, 4}}
	in, err := TopInlinks(src, 3)
	if err != nil {
		t.Fatal(err)
	}
	sc, err := TopScores(src, []float64{0.25, 0.25, 0.5}, 3)
	if err != nil {
		t.Fatal(err)
	}

	wantIn := []string{"beta", "eta", "zeta"}
	for i, r := range in {
		if r.Name != wantIn[i] || r.Position != i+1 {
			t.Errorf("inlinks[%d] = %+v, want %s at %d", i, r, wantIn[i], i+1)
		}
	}
	wantSc := []string{"beta", "eta", "zeta"}
	for i, r := range sc {
		if r.Name != wantSc[i] {
			t.Errorf("scores[%d] = %+v, want %s", i, r, wantSc[i])
		}
	}
}

func TestRanking_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	names, scores := fixture()
	before := append([]float64(nil), scores...)
	if _, err := TopScores(names, scores, 2); err != nil {
		t.Fatal(err)
	}
	for i := range scores {
		if scores[i] != before[i] {
			t.Errorf("scores[%d] changed from %v to %v", i, before[i], scores[i])
		}
	}
	if names.names[0] != "delta" {
		t.Errorf("names reordered: %v", names.names)
	}
}

func TestRanking_Errors(t *testing.T) {
	t.Parallel()

	names, scores := fixture()

	for _, k := range []int{0, -3} {
		if _, err := TopInlinks(names, k); !errors.Is(err, ErrInvalidK) {
			t.Errorf("TopInlinks(k=%d) err = %v, want ErrInvalidK", k, err)
		}
		if _, err := TopScores(names, scores, k); !errors.Is(err, ErrInvalidK) {
			t.Errorf("TopScores(k=%d) err = %v, want ErrInvalidK", k, err)
		}
	}

	if _, err := TopScores(names, scores[:2], 3); !errors.Is(err, ErrLengthMismatch) {
		t.Errorf("short scores err = %v, want ErrLengthMismatch", err)
	}
}

// brokenNames reports more nodes than it can name.
type brokenNames struct{ table }

func (b *brokenNames) Len() int { return len(b.names) + 1 }

func TestRanking_PropagatesLookupError(t *testing.T) {
	t.Parallel()

	b := &brokenNames{table{names: []string{"a"}, inDegree: []int{0, 0}}}
	if _, err := TopInlinks(b, 5); err == nil {
		t.Error("expected lookup error for unnamed id")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "pagerank.txt")

	if err := WriteFileAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "a\t1\t1\n")
		return err
	}); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "a\t1\t1\n" {
		t.Errorf("content = %q", got)
	}

	// A failing render leaves the previous file intact and no temp files.
	boom := errors.New("boom")
	err = WriteFileAtomic(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	got, _ = os.ReadFile(path)
	if string(got) != "a\t1\t1\n" {
		t.Errorf("destination modified after failed write: %q", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("leftover files: %v", entries)
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nope", "inlinks.txt")
	err := WriteFileAtomic(path, func(io.Writer) error { return nil })
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Errorf("destination exists after failed write")
	}
}
