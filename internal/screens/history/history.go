// Package history lists recent track changes: evaluations, overrides and
// mastery toggles.
package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vocabdrill/internal/router"
	"github.com/abhisek/vocabdrill/internal/screen"
	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/store"
	"github.com/abhisek/vocabdrill/internal/ui/layout"
	"github.com/abhisek/vocabdrill/internal/ui/theme"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

const pageSize = 50

// ItemLister resolves item IDs to words.
type ItemLister interface {
	ListItems(ctx context.Context) ([]*vocab.Item, error)
}

type historyLoadedMsg struct {
	Events []store.TrackEvent
	Words  map[string]string
	Err    error
}

// HistoryScreen displays recent track events, newest first.
type HistoryScreen struct {
	events   store.EventRepo
	items    ItemLister
	rows     []store.TrackEvent
	words    map[string]string
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(events store.EventRepo, items ItemLister) *HistoryScreen {
	return &HistoryScreen{
		events:   events,
		items:    items,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	events, items := s.events, s.items
	return func() tea.Msg {
		ctx := context.Background()

		rows, err := events.QueryTrackEvents(ctx, store.TrackEventFilter{QueryOpts: store.QueryOpts{Limit: pageSize}})
		if err != nil {
			return historyLoadedMsg{Err: err}
		}

		// Words are cosmetic; fall back to IDs if they cannot be loaded.
		words := make(map[string]string)
		if all, err := items.ListItems(ctx); err == nil {
			for _, it := range all {
				words[it.ID] = it.Text
			}
		}
		return historyLoadedMsg{Events: rows, Words: words}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.rows = msg.Events
			s.words = msg.Words
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.rows)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) word(id string) string {
	if w, ok := s.words[id]; ok {
		return w
	}
	return id
}

// visibleRange returns the slice of rows that fits in height lines,
// keeping the selection on screen.
func (s *HistoryScreen) visibleRange(height int) (int, int) {
	n := max(height-2, 1)
	start := 0
	if s.selected >= n {
		start = s.selected - n + 1
	}
	return start, min(start+n, len(s.rows))
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No reviews yet. Start practising!")
	}

	var b strings.Builder
	b.WriteString("\n")

	start, end := s.visibleRange(height)
	for i := start; i < end; i++ {
		ev := s.rows[i]

		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %s  %-9s  %s",
			prefix, ev.Timestamp.Local().Format("Jan 02 15:04"), layout.PadRight(s.word(ev.ItemID), 10),
			ev.Language.DisplayName(), describe(ev))

		style := lipgloss.NewStyle().Foreground(kindColor(ev))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")

		if s.expanded[i] {
			detail := fmt.Sprintf("    progress %d → %d   due %s → %s",
				ev.Before.ProgressCount, ev.After.ProgressCount,
				formatDue(ev.Before.NextDueAt), formatDue(ev.After.NextDueAt))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render(detail)))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// describe renders the change in a few words.
func describe(ev store.TrackEvent) string {
	switch ev.Kind {
	case vocab.ChangeEvaluation:
		return "answered: " + ev.Reason
	case vocab.ChangeOverride:
		return "rescheduled"
	case vocab.ChangeMastered:
		return "mastered"
	case vocab.ChangeUnmastered:
		return "unmastered"
	}
	return string(ev.Kind)
}

func formatDue(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Local().Format("Jan 02 15:04")
}

func kindColor(ev store.TrackEvent) color.Color {
	switch ev.Kind {
	case vocab.ChangeMastered:
		return theme.MasteredColor
	case vocab.ChangeOverride, vocab.ChangeUnmastered:
		return theme.Secondary
	}
	switch spacedrep.Rule(ev.Reason) {
	case spacedrep.RuleSuccess:
		return theme.Success
	case spacedrep.RuleMinimalUsage:
		return theme.Accent
	case spacedrep.RuleDifficulty, spacedrep.RuleNotFluent:
		return theme.Error
	}
	return theme.Text
}
