// ABOUTME: Lipgloss styles for user-facing output: bold notices, red errors, picker selection
// ABOUTME: Rendering degrades to plain text when stdout is not a terminal

package ui

import "github.com/charmbracelet/lipgloss"

// Palette groups the styles used across commands.
type Palette struct {
	Bold      lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Dim       lipgloss.Style
	Selection lipgloss.Style
}

var palette = Palette{
	Bold:      lipgloss.NewStyle().Bold(true),
	Error:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
	Warning:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3")),
	Dim:       lipgloss.NewStyle().Faint(true),
	Selection: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
}

// Styles returns the shared palette.
func Styles() Palette { return palette }

// Bold renders s in bold.
func Bold(s string) string { return palette.Bold.Render(s) }

// Error renders s in bold red.
func Error(s string) string { return palette.Error.Render(s) }
