package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette for the monitor UI
var (
	PrimaryColor = lipgloss.Color("#7D56F4") // Purple - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - confirmed device, key-down
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings, negotiating
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60 // Minimum supported terminal width
	MaxContentWidth  = 100
)

// Shared styles for the monitor UI
var (
	// TitleStyle is for the monitor header line
	TitleStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true).
			PaddingLeft(1)

	// StatusKeyStyle is for status labels (e.g., "Serial:")
	StatusKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// StatusValueStyle is for status values
	StatusValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// ConnectedStyle marks a confirmed session
	ConnectedStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// NegotiatingStyle marks a session still probing
	NegotiatingStyle = lipgloss.NewStyle().
				Foreground(WarningColor)

	// EventTimeStyle is for event timestamps
	EventTimeStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	// EventTextStyle is for decoded event summaries
	EventTextStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	// HelpStyle is for the key-binding footer
	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			PaddingLeft(1)

	// BorderStyle frames the event log
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor)
)

// GetTerminalSize returns the current terminal dimensions, falling back to
// a sane default when stdout is not a terminal.
func GetTerminalSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80, 24
	}
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}
	return width, height
}
