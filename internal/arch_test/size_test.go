package arch_test

import (
	"path/filepath"
	"testing"
)

const (
	maxFilesPerPackage = 12
	maxLinesPerFile    = 400
)

func TestPackageFileCount(t *testing.T) {
	t.Parallel()

	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		if n := len(goFilesIn(t, filepath.Join(dir, pkg))); n > maxFilesPerPackage {
			t.Errorf("package %s has %d .go files (limit %d); consider splitting", pkg, n, maxFilesPerPackage)
		}
	}
}

// TestFileLineCount covers test files as well as sources.
func TestFileLineCount(t *testing.T) {
	t.Parallel()

	root := repoRoot(t)
	dir := internalDirPath(t)
	for _, pkg := range internalPackages(t) {
		for _, path := range allGoFilesIn(t, filepath.Join(dir, pkg)) {
			if n := lineCount(t, path); n > maxLinesPerFile {
				rel, _ := filepath.Rel(root, path)
				t.Errorf("%s has %d lines (limit %d); consider decomposing", rel, n, maxLinesPerFile)
			}
		}
	}
}
