// Package report ranks nodes by inbound-link count and by PageRank score and
// renders the top-K rows as tab-separated text.
//
// Both rankings sort by descending value with ascending name as the
// tiebreaker, so output is fully deterministic.
package report

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidK is returned when the requested row count is not positive.
var ErrInvalidK = errors.New("top-k must be > 0")

// ErrLengthMismatch is returned when a score vector does not cover every node.
var ErrLengthMismatch = errors.New("score vector length does not match node count")

// Namer resolves node ids to names.
type Namer interface {
	Len() int
	Name(id int) (string, error)
}

// InlinkSource is a Namer that also knows inbound-link counts.
type InlinkSource interface {
	Namer
	InDegree(id int) int
}

// InlinkRow is one line of the inbound-link report.
type InlinkRow struct {
	Name     string
	Position int // 1-based
	Count    int
}

// ScoreRow is one line of the PageRank report.
type ScoreRow struct {
	Name     string
	Position int // 1-based
	Score    float64
}

// TopInlinks returns the k nodes with the most inbound links. Fewer rows are
// returned when the graph has fewer than k nodes.
func TopInlinks(src InlinkSource, k int) ([]InlinkRow, error) {
	entries, err := collect(src, k, func(id int) float64 { return float64(src.InDegree(id)) })
	if err != nil {
		return nil, err
	}
	rows := make([]InlinkRow, len(entries))
	for i, e := range entries {
		rows[i] = InlinkRow{Name: e.name, Position: i + 1, Count: int(e.value)}
	}
	return rows, nil
}

// TopScores returns the k nodes with the highest scores. scores is indexed
// by node id and must have one entry per node.
func TopScores(names Namer, scores []float64, k int) ([]ScoreRow, error) {
	if len(scores) != names.Len() {
		return nil, fmt.Errorf("%w: %d scores for %d nodes", ErrLengthMismatch, len(scores), names.Len())
	}
	entries, err := collect(names, k, func(id int) float64 { return scores[id] })
	if err != nil {
		return nil, err
	}
	rows := make([]ScoreRow, len(entries))
	for i, e := range entries {
		rows[i] = ScoreRow{Name: e.name, Position: i + 1, Score: e.value}
	}
	return rows, nil
}

type entry struct {
	name  string
	value float64
}

// collect resolves every node's name and value, sorts, and truncates to k.
// Inputs are never modified.
func collect(names Namer, k int, value func(id int) float64) ([]entry, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidK, k)
	}
	n := names.Len()
	entries := make([]entry, n)
	for id := 0; id < n; id++ {
		name, err := names.Name(id)
		if err != nil {
			return nil, err
		}
		entries[id] = entry{name: name, value: value(id)}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].name < entries[j].name
	})

	if len(entries) > k {
		entries = entries[:k]
	}
	return entries, nil
}
