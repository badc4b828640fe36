package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// headerStyle for command headers
	headerStyle = lipgloss.NewStyle().Bold(true)

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	// successStyle for completed imports
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	// dryRunStyle tags preview output
	dryRunStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))

	// boxStyle for summaries
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

// truncate shortens s to at most n runes, adding "..." when cut.
// Line breaks are flattened so previews stay on one line.
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// indent returns the prefix for a nesting depth.
func indent(depth int) string {
	return strings.Repeat("  ", depth)
}
