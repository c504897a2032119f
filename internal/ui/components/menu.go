package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vocabdrill/internal/ui/theme"
)

// MenuItem represents a single item in a navigation menu. Detail is
// rendered dimmed after the label.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical navigation menu.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a new menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	selected := 0
	for i, item := range items {
		if !item.Disabled {
			selected = i
			break
		}
	}
	return Menu{
		Items:    items,
		Selected: selected,
	}
}

// SetItems replaces the items and keeps the selection in range.
func (m *Menu) SetItems(items []MenuItem) {
	m.Items = items
	if m.Selected >= len(items) {
		m.Selected = len(items) - 1
	}
	if m.Selected < 0 {
		m.Selected = 0
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}

	return m, nil
}

// View renders the menu, aligning details in one column.
func (m Menu) View() string {
	labelWidth := 0
	for _, item := range m.Items {
		labelWidth = max(labelWidth, lipgloss.Width(item.Label))
	}

	var b strings.Builder
	for i, item := range m.Items {
		label := item.Label + strings.Repeat(" ", labelWidth-lipgloss.Width(item.Label))
		switch {
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + label))
		case item.Disabled:
			b.WriteString(theme.Hint.Render("    " + label))
		default:
			b.WriteString(theme.Unselected.Render("    " + label))
		}
		if item.Detail != "" {
			b.WriteString("   " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(item.Detail))
		}
		b.WriteString("\n")
	}
	return b.String()
}
