package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: calm study tones
var (
	Primary   = lipgloss.Color("#38BDF8") // Sky Blue
	Secondary = lipgloss.Color("#A78BFA") // Lavender
	Accent    = lipgloss.Color("#FBBF24") // Amber
	Success   = lipgloss.Color("#34D399") // Emerald
	Error     = lipgloss.Color("#FB7185") // Rose
	Text      = lipgloss.Color("#F1F5F9") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0B1120") // Near Black
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)

	Divider = lipgloss.NewStyle().
		Foreground(Border)
)
