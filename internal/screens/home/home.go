// Package home implements the start screen: a language picker with the
// review queue of each language.
package home

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vocabdrill/internal/practice"
	"github.com/abhisek/vocabdrill/internal/router"
	"github.com/abhisek/vocabdrill/internal/screen"
	"github.com/abhisek/vocabdrill/internal/screens/history"
	"github.com/abhisek/vocabdrill/internal/screens/review"
	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/store"
	"github.com/abhisek/vocabdrill/internal/ui/components"
	"github.com/abhisek/vocabdrill/internal/ui/layout"
	"github.com/abhisek/vocabdrill/internal/ui/theme"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

// ItemLister loads every item with its tracks.
type ItemLister interface {
	ListItems(ctx context.Context) ([]*vocab.Item, error)
}

// refreshInterval is how often the counts are recomputed while idle, so
// items that fall due show up without a keypress.
const refreshInterval = time.Minute

type refreshMsg struct{}

// statsMsg carries freshly computed queue stats.
type statsMsg struct {
	Stats []spacedrep.LanguageStats
	Err   error
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	coach  *practice.Coach
	svc    *spacedrep.Service
	items  ItemLister
	events store.EventRepo

	// preferred is selected first in the menu.
	preferred vocab.Language

	menu  components.Menu
	stats []spacedrep.LanguageStats
	err   error
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)
var _ screen.BadgeProvider = (*HomeScreen)(nil)

// New creates a HomeScreen. preferred is the language selected initially.
func New(coach *practice.Coach, svc *spacedrep.Service, items ItemLister, events store.EventRepo, preferred vocab.Language) *HomeScreen {
	h := &HomeScreen{
		coach:     coach,
		svc:       svc,
		items:     items,
		events:    events,
		preferred: preferred,
	}
	h.menu = components.NewMenu(h.menuItems())
	for i, lang := range vocab.Languages {
		if lang == preferred {
			h.menu.Selected = i
		}
	}
	return h
}

func (h *HomeScreen) menuItems() []components.MenuItem {
	items := make([]components.MenuItem, 0, len(vocab.Languages)+2)
	for _, lang := range vocab.Languages {
		items = append(items, components.MenuItem{
			Label:  "Practise " + lang.DisplayName(),
			Detail: h.detail(lang),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: review.New(h.coach, h.svc, lang)}
				}
			},
		})
	}
	items = append(items, components.MenuItem{
		Label: "History",
		Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: history.New(h.events, h.items)}
			}
		},
	})
	items = append(items, components.MenuItem{
		Label:  "Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})
	return items
}

func (h *HomeScreen) statsFor(lang vocab.Language) *spacedrep.LanguageStats {
	for i := range h.stats {
		if h.stats[i].Language == lang {
			return &h.stats[i]
		}
	}
	return nil
}

func (h *HomeScreen) detail(lang vocab.Language) string {
	s := h.statsFor(lang)
	if s == nil {
		return ""
	}
	if s.Due == 0 && s.New == 0 {
		if s.NextDue != nil {
			return "next in " + spacedrep.FormatMinutes(spacedrep.MinutesUntil(h.svc.Now(), *s.NextDue))
		}
		return "nothing to review"
	}
	return fmt.Sprintf("%d due · %d new", s.Due, s.New)
}

func (h *HomeScreen) loadStats() tea.Cmd {
	items, now := h.items, h.svc.Now()
	return func() tea.Msg {
		all, err := items.ListItems(context.Background())
		if err != nil {
			return statsMsg{Err: err}
		}
		return statsMsg{Stats: spacedrep.Summarize(all, now)}
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(time.Time) tea.Msg { return refreshMsg{} })
}

func (h *HomeScreen) Init() tea.Cmd {
	return tea.Batch(h.loadStats(), refreshTick())
}

// Resume refreshes the queue counts after a review screen closes.
func (h *HomeScreen) Resume() tea.Cmd {
	return h.loadStats()
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Badge shows the total number of due tracks across languages.
func (h *HomeScreen) Badge() string {
	due := 0
	for _, s := range h.stats {
		due += s.Due
	}
	if due == 0 {
		return ""
	}
	return fmt.Sprintf("● %d due", due)
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practise"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsMsg:
		h.err = msg.Err
		if msg.Err == nil {
			h.stats = msg.Stats
		}
		h.menu.SetItems(h.menuItems())
		return h, nil

	case refreshMsg:
		return h, tea.Batch(h.loadStats(), refreshTick())
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder

	if !layout.IsCompactHeight(height) {
		b.WriteString("\n")
	}
	b.WriteString(theme.Title.Width(width).Render("vocabdrill"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Use each word in a sentence of your own"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	b.WriteString("\n")

	if h.err != nil {
		b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Center).
			Foreground(theme.Error).Render("Could not load stats: " + h.err.Error()))
		return b.String()
	}

	barWidth := min(width-8, 60)
	var bars []string
	for _, s := range h.stats {
		label := fmt.Sprintf("%-9s", s.Language.DisplayName())
		bars = append(bars, components.NewQueueBar(label, s.Due, s.New, s.Upcoming, s.Mastered, barWidth).View())
	}
	if len(bars) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(bars, "\n")))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, legend()))
	}
	return b.String()
}

func legend() string {
	parts := []string{
		lipgloss.NewStyle().Foreground(theme.DueColor).Render("■") + " due",
		lipgloss.NewStyle().Foreground(theme.NewColor).Render("■") + " new",
		lipgloss.NewStyle().Foreground(theme.UpcomingColor).Render("■") + " upcoming",
		lipgloss.NewStyle().Foreground(theme.MasteredColor).Render("■") + " mastered",
	}
	return strings.Join(parts, "   ")
}
