// Package manifest records what a ranking run did as a TOML file written next
// to its reports: parameters, graph size, and how iteration ended.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Suffix is appended to the PageRank report path to form the manifest path.
const Suffix = ".toml"

// Manifest describes one completed run.
type Manifest struct {
	RunID      string    `toml:"run_id"`
	Input      string    `toml:"input"`
	StartedAt  time.Time `toml:"started_at"`
	FinishedAt time.Time `toml:"finished_at"`
	Params     Params    `toml:"params"`
	Graph      Graph     `toml:"graph"`
	Result     Result    `toml:"result"`
	Outputs    Outputs   `toml:"outputs"`
}

// Params are the ranking parameters. Tolerance and MaxIterations apply to
// convergence mode, Steps to fixed mode.
type Params struct {
	Mode          string  `toml:"mode"`
	Teleport      float64 `toml:"teleport"`
	Tolerance     float64 `toml:"tolerance,omitempty"`
	MaxIterations int     `toml:"max_iterations,omitempty"`
	Steps         int     `toml:"steps,omitempty"`
	TopK          int     `toml:"top_k"`
}

// Graph summarizes the loaded graph.
type Graph struct {
	Nodes    int `toml:"nodes"`
	Edges    int `toml:"edges"`
	Dangling int `toml:"dangling"`
}

// Result summarizes how iteration ended.
type Result struct {
	Iterations int     `toml:"iterations"`
	Distance   float64 `toml:"distance"`
	Converged  bool    `toml:"converged"`
	RankSum    float64 `toml:"rank_sum"`
	TopNode    string  `toml:"top_node"`
	TopScore   float64 `toml:"top_score"`
}

// Outputs lists the report files the run produced.
type Outputs struct {
	Inlinks  string `toml:"inlinks"`
	PageRank string `toml:"pagerank"`
}

// PathFor returns the manifest path for a PageRank report path.
func PathFor(reportPath string) string {
	return reportPath + Suffix
}

// Load reads a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return &m, nil
}

// Save writes m to path, creating parent directories as needed.
func Save(path string, m *Manifest) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	data, err := toml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}
