package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/vocabdrill/internal/ui/theme"
)

// Segment is one colored run of a QueueBar.
type Segment struct {
	Count int
	Color color.Color
}

// QueueBar renders a language's tracks as a stacked horizontal bar with
// one segment per queue state.
type QueueBar struct {
	Label    string
	Segments []Segment
	Width    int

	// Mastered is shown as a percentage of the total when ShowShare is set.
	Mastered  int
	ShowShare bool
}

// NewQueueBar creates a bar with due, new, upcoming and mastered segments.
func NewQueueBar(label string, due, fresh, upcoming, mastered, width int) QueueBar {
	return QueueBar{
		Label: label,
		Segments: []Segment{
			{Count: due, Color: theme.DueColor},
			{Count: fresh, Color: theme.NewColor},
			{Count: upcoming, Color: theme.UpcomingColor},
			{Count: mastered, Color: theme.MasteredColor},
		},
		Width:     width,
		Mastered:  mastered,
		ShowShare: true,
	}
}

// Total is the sum of all segment counts.
func (q QueueBar) Total() int {
	n := 0
	for _, s := range q.Segments {
		n += s.Count
	}
	return n
}

// cells splits barWidth among the segments in proportion to their counts.
// Any non-zero segment gets at least one cell when the bar has room.
func (q QueueBar) cells(barWidth int) []int {
	out := make([]int, len(q.Segments))
	total := q.Total()
	if total == 0 {
		return out
	}
	used := 0
	largest := -1
	for i, s := range q.Segments {
		if s.Count == 0 {
			continue
		}
		out[i] = max(1, barWidth*s.Count/total)
		used += out[i]
		if largest < 0 || s.Count > q.Segments[largest].Count {
			largest = i
		}
	}
	// Rounding slack goes to the largest segment.
	out[largest] += barWidth - used
	if out[largest] < 1 {
		out[largest] = 1
	}
	return out
}

// View renders the bar.
func (q QueueBar) View() string {
	var result string

	if q.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(q.Label) + "  "
	}

	labelWidth := lipgloss.Width(result)
	shareWidth := 0
	if q.ShowShare {
		shareWidth = 6 // "  100%"
	}

	barWidth := q.Width - labelWidth - shareWidth
	if barWidth < len(q.Segments) {
		barWidth = len(q.Segments)
	}

	total := q.Total()
	if total == 0 {
		result += lipgloss.NewStyle().
			Background(theme.Border).
			Render(strings.Repeat(" ", barWidth))
	} else {
		for i, n := range q.cells(barWidth) {
			if n <= 0 {
				continue
			}
			result += lipgloss.NewStyle().
				Background(q.Segments[i].Color).
				Render(strings.Repeat(" ", n))
		}
	}

	if q.ShowShare {
		pct := 0
		if total > 0 {
			pct = q.Mastered * 100 / total
		}
		result += lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("  %d%%", pct))
	}

	return result
}
