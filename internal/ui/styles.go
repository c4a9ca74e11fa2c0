// Package ui renders search results and status for the terminal, with a
// plain fallback when stdout is not a TTY.
package ui

import "github.com/charmbracelet/lipgloss"

// Color palette. One accent color keeps the output calm.
const (
	ColorCyan     = "87"  // primary accent
	ColorCyanDim  = "37"  // borders, secondary accent
	ColorWhite    = "255" // headers
	ColorGray     = "245" // labels, metadata
	ColorDarkGray = "238" // separators
	ColorRed      = "196" // errors
	ColorYellow   = "220" // warnings
)

// Styles holds the render styles.
type Styles struct {
	Header  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Dim     lipgloss.Style
	Score   lipgloss.Style
	Source  lipgloss.Style
	Content lipgloss.Style
}

// DefaultStyles returns the colored styles for TTY output.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorCyan)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorCyan)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Score:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorCyanDim)),
		Source:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Content: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorWhite)),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	return Styles{}
}

// GetStyles picks styles by color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
