package ui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary    = lipgloss.Color("#00BFFF") // Cyan, headings
	colorAccent     = lipgloss.Color("#FFD700") // Gold, warnings
	colorSuccess    = lipgloss.Color("#00E676") // Green, converged
	colorDanger     = lipgloss.Color("#FF5252") // Red, errors
	colorMuted      = lipgloss.Color("#636363") // Gray, labels
	colorMutedLight = lipgloss.Color("#8C8C8C") // Lighter gray, secondary text
	colorWhite      = lipgloss.Color("#EEEEEE") // Off-white, values
)

// Status icons.
const (
	iconDone   = "✓"
	iconFailed = "✗"
	iconWarn   = "⚠"
	iconWatch  = "◎"
	iconBullet = "·"
)

// styles are bound to one renderer so color output follows the destination
// writer rather than stdout.
type styles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	success lipgloss.Style
	warn    lipgloss.Style
	danger  lipgloss.Style
	muted   lipgloss.Style
	box     lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
	border  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:   r.NewStyle().Foreground(colorPrimary).Bold(true),
		label:   r.NewStyle().Foreground(colorMuted).Width(12),
		value:   r.NewStyle().Foreground(colorWhite),
		success: r.NewStyle().Foreground(colorSuccess).Bold(true),
		warn:    r.NewStyle().Foreground(colorAccent).Bold(true),
		danger:  r.NewStyle().Foreground(colorDanger).Bold(true),
		muted:   r.NewStyle().Foreground(colorMutedLight),
		box: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1),
		header: r.NewStyle().Foreground(colorPrimary).Bold(true).Padding(0, 1),
		cell:   r.NewStyle().Foreground(colorWhite).Padding(0, 1),
		border: r.NewStyle().Foreground(colorMuted),
	}
}
