package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vocabdrill/internal/practice"
	"github.com/abhisek/vocabdrill/internal/router"
	"github.com/abhisek/vocabdrill/internal/screen"
	"github.com/abhisek/vocabdrill/internal/screens/home"
	"github.com/abhisek/vocabdrill/internal/screens/review"
	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/store"
	"github.com/abhisek/vocabdrill/internal/ui/layout"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

// Options holds the dependencies the screens need.
type Options struct {
	Coach    *practice.Coach
	Service  *spacedrep.Service
	Items    home.ItemLister
	Events   store.EventRepo
	Language vocab.Language

	// StartReview opens the review screen for Language directly on top of
	// the home screen.
	StartReview bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	opts   Options
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	homeScreen := home.New(opts.Coach, opts.Service, opts.Items, opts.Events, opts.Language)
	return AppModel{
		router: router.New(homeScreen),
		opts:   opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	cmd := m.router.Active().Init()
	if m.opts.StartReview {
		r := review.New(m.opts.Coach, m.opts.Service, m.opts.Language)
		return tea.Batch(cmd, func() tea.Msg { return router.PushScreenMsg{Screen: r} })
	}
	return cmd
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		if hints := p.KeyHints(); len(hints) > 0 {
			return hints
		}
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, badge := "", ""
	if active != nil {
		title = active.Title()
		if b, ok := active.(screen.BadgeProvider); ok {
			badge = b.Badge()
		}
	}

	header := layout.RenderHeader(title, badge, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
