package tui

import "charm.land/lipgloss/v2"

// Color palette
var (
	primary = lipgloss.Color("#8B5CF6") // Violet
	accent  = lipgloss.Color("#F97316") // Orange
	success = lipgloss.Color("#22C55E") // Green
	failure = lipgloss.Color("#F43F5E") // Rose
	text    = lipgloss.Color("#F8FAFC") // White
	textDim = lipgloss.Color("#94A3B8") // Slate
	bgCard  = lipgloss.Color("#1E293B") // Dark Slate
	border  = lipgloss.Color("#334155") // Slate
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	headerStyle = lipgloss.NewStyle().
			Background(bgCard).
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Background(bgCard).
			Foreground(textDim).
			Padding(0, 2)

	cardStyle = lipgloss.NewStyle().
			Background(bgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(1, 2)

	bodyStyle = lipgloss.NewStyle().
			Foreground(text)

	dimStyle = lipgloss.NewStyle().
			Foreground(textDim)

	hintStyle = lipgloss.NewStyle().
			Foreground(textDim).
			Italic(true)

	correctStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(success)

	incorrectStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(failure)

	slotCursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	slotFilledStyle = lipgloss.NewStyle().
			Foreground(text)

	slotEmptyStyle = lipgloss.NewStyle().
			Foreground(textDim)

	tickStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)
)
