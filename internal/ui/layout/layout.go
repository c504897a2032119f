package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/vocabdrill/internal/ui/theme"
)

const (
	MinWidth  = 60
	MinHeight = 20

	CompactWidthThreshold  = 90
	CompactHeightThreshold = 28
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsCompactHeight returns true if the terminal height is in compact range.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Terminal too small\n\nNeed at least %d x %d, have %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the top bar: the app name, the screen title centred,
// and the screen's badge on the right. The app name is dropped on compact
// terminals so long titles like "Review · Cantonese" keep their room.
func RenderHeader(title, badge string, width int) string {
	left := ""
	if !IsCompactWidth(width) {
		left = lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Render("  vocabdrill")
	}
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	right := lipgloss.NewStyle().Foreground(theme.Accent).Render(badge)

	leftLen := lipgloss.Width(left)
	centerLen := lipgloss.Width(center)
	rightLen := lipgloss.Width(right)

	// Border and padding take four columns.
	innerWidth := max(width-4, 0)

	leftGap := max((innerWidth-centerLen)/2-leftLen, 1)
	rightGap := max(innerWidth-leftLen-leftGap-centerLen-rightLen, 1)

	content := left + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + right

	return bar().Width(width).Render(content)
}

// RenderFooter renders the key hints. Hints that do not fit are dropped from
// the end, except the last one, which is usually how to leave.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+
				" "+
				lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}
	parts = fitParts(parts, max(width-6, 0), "   ")

	return bar().Width(width).Render("  " + strings.Join(parts, "   "))
}

// fitParts keeps as many leading parts as fit in width, always keeping the
// final part.
func fitParts(parts []string, width int, sep string) []string {
	total := func(ps []string) int {
		return lipgloss.Width(strings.Join(ps, sep))
	}
	if len(parts) < 2 || total(parts) <= width {
		return parts
	}
	last := parts[len(parts)-1]
	kept := parts[:len(parts)-1]
	for len(kept) > 0 && total(append(kept[:len(kept):len(kept)], last)) > width {
		kept = kept[:len(kept)-1]
	}
	return append(kept[:len(kept):len(kept)], last)
}

func bar() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}

// RenderFrame composes the full frame: header + content + footer.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	styledContent := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		Render(content)

	return header + "\n" + styledContent + "\n" + footer
}

// Wrap soft-wraps text to width, leaving short text untouched. CJK text
// has no spaces, so wrapping is by display width rather than words.
func Wrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}
	return lipgloss.NewStyle().Width(width).Render(text)
}

// Truncate cuts text to at most width terminal cells, ending in "…" when
// anything was cut. Han characters count as two cells.
func Truncate(text string, width int) string {
	return ansi.Truncate(text, width, "…")
}

// PadRight truncates or pads text with spaces to exactly width cells.
// fmt's %-Ns pads by runes, which misaligns columns of Han text.
func PadRight(text string, width int) string {
	text = Truncate(text, width)
	if gap := width - lipgloss.Width(text); gap > 0 {
		return text + strings.Repeat(" ", gap)
	}
	return text
}
