package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteInlinks renders rows as "name<TAB>position<TAB>count" lines.
func WriteInlinks(w io.Writer, rows []InlinkRow) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%d\n", r.Name, r.Position, r.Count); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteScores renders rows as "name<TAB>position<TAB>score" lines with the
// score in 12-decimal fixed point.
func WriteScores(w io.Writer, rows []ScoreRow) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := fmt.Fprintf(bw, "%s\t%d\t%.12f\n", r.Name, r.Position, r.Score); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFileAtomic renders into a temp file next to path and renames it into
// place once fully written and synced. On any failure the destination is
// left untouched and the temp file removed.
func WriteFileAtomic(path string, render func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("report: create temp for %s: %w", path, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = render(tmp); err != nil {
		return fmt.Errorf("report: render %s: %w", path, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("report: sync %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("report: close %s: %w", path, err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("report: chmod %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("report: rename into %s: %w", path, err)
	}
	return nil
}
