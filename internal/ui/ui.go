// Package ui renders human-facing run output on stderr.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/papapumpkin/linkrank/internal/history"
)

// Printer writes styled output to a single writer.
type Printer struct {
	w  io.Writer
	st styles
}

// New returns a Printer writing to w. Color is used only when w is a terminal.
func New(w io.Writer) *Printer {
	return &Printer{w: w, st: newStyles(lipgloss.NewRenderer(w))}
}

// SummaryData is what a finished run reports.
type SummaryData struct {
	Input       string
	Mode        string
	Iterations  int
	Distance    float64
	Converged   bool
	Nodes       int
	Edges       int
	Dangling    int
	TopNode     string
	TopScore    float64
	Elapsed     time.Duration
	InlinksOut  string
	PageRankOut string
}

// Summary prints a boxed summary of a finished run.
func (p *Printer) Summary(d SummaryData) {
	status := p.st.success.Render(iconDone + " converged")
	switch {
	case d.Mode == "fixed":
		status = p.st.success.Render(iconDone + " fixed count")
	case !d.Converged:
		status = p.st.warn.Render(iconWarn + " iteration cap reached")
	}

	row := func(label, value string) string {
		return p.st.label.Render(label) + p.st.value.Render(value)
	}
	lines := []string{
		p.st.title.Render("linkrank") + "  " + status,
		row("input", d.Input),
		row("graph", fmt.Sprintf("%d nodes, %d edges, %d dangling", d.Nodes, d.Edges, d.Dangling)),
		row("mode", d.Mode),
		row("iterations", strconv.Itoa(d.Iterations)),
		row("distance", strconv.FormatFloat(d.Distance, 'g', 6, 64)),
	}
	if d.TopNode != "" {
		lines = append(lines, row("top", fmt.Sprintf("%s (%.6f)", d.TopNode, d.TopScore)))
	}
	lines = append(lines,
		row("reports", d.InlinksOut+", "+d.PageRankOut),
		row("elapsed", d.Elapsed.Round(time.Millisecond).String()),
	)

	fmt.Fprintln(p.w, p.st.box.Render(strings.Join(lines, "\n")))
}

// Error prints an error line.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.w, p.st.danger.Render(iconFailed+" error: ")+msg)
}

// Info prints a de-emphasized line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, p.st.muted.Render(msg))
}

// Watching announces that path is being watched.
func (p *Printer) Watching(path string) {
	fmt.Fprintln(p.w, p.st.title.Render(iconWatch+" watching ")+path+p.st.muted.Render(" (ctrl-c to stop)"))
}

// History prints recorded runs as a table, newest first.
func (p *Printer) History(runs []history.Run) {
	if len(runs) == 0 {
		p.Info("no runs recorded")
		return
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		converged := iconBullet
		if r.Converged {
			converged = iconDone
		}
		rows = append(rows, []string{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			r.Input,
			r.Mode,
			strconv.Itoa(r.Iterations),
			converged,
			strconv.Itoa(r.Nodes),
			r.TopNode,
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(p.st.border).
		Headers("RUN", "STARTED", "INPUT", "MODE", "ITER", "CONV", "NODES", "TOP").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.st.header
			}
			return p.st.cell
		})
	fmt.Fprintln(p.w, t.Render())
}
