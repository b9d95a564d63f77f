// ABOUTME: Fixes the lipgloss background to dark before bubbletea initializes
// ABOUTME: Imported for side effects by cmd/kjspkg ahead of the ui package

package termfix

import "github.com/charmbracelet/lipgloss"

// Setting the background explicitly keeps lipgloss from querying the
// terminal (OSC 11) when the picker starts, which would otherwise print
// the reply into the prompt on some terminals. This package must not
// import bubbletea so its init runs first.
func init() {
	lipgloss.SetHasDarkBackground(true)
}
