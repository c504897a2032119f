package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette: ink-and-paper tones with a cinnabar accent.
var (
	Primary   = lipgloss.Color("#E11D48") // Cinnabar
	Secondary = lipgloss.Color("#0EA5E9") // Sky
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Queue state colors, shared by the stats bar and the review screen.
var (
	DueColor      = Accent
	NewColor      = Secondary
	UpcomingColor = Border
	MasteredColor = Success
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	// Prompt renders the question sentence.
	Prompt = lipgloss.NewStyle().
		Foreground(Text).
		Bold(true)

	Romanization = lipgloss.NewStyle().
			Foreground(TextDim)

	// Target marks the practised word inside a sentence.
	Target = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true).
		Underline(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
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

	Warning = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)
)
