package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vocabdrill/internal/ui/theme"
)

// AnswerInput wraps bubbles/textinput for free-text answers. It accepts
// any script, so CJK input methods work unchanged.
type AnswerInput struct {
	Model    textinput.Model
	MaxChars int
	verdict  *bool
}

// NewAnswerInput creates a focused answer input.
func NewAnswerInput(placeholder string, maxChars int) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.Focus()

	if maxChars > 0 {
		ti.CharLimit = maxChars
	}

	return AnswerInput{
		Model:    ti,
		MaxChars: maxChars,
	}
}

// Init returns the initial command.
func (a AnswerInput) Init() tea.Cmd {
	return a.Model.Focus()
}

// Update handles messages. Input is ignored once a verdict is shown.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if a.verdict != nil {
		return a, nil
	}
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the input followed by a verdict mark once judged.
func (a AnswerInput) View() string {
	view := a.Model.View()
	if a.verdict != nil {
		if *a.verdict {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the trimmed input value.
func (a AnswerInput) Value() string {
	return strings.TrimSpace(a.Model.Value())
}

// Mark freezes the input and shows whether the answer was fluent.
func (a *AnswerInput) Mark(fluent bool) {
	a.verdict = &fluent
	a.Model.Blur()
}

// Reset clears the value and verdict and refocuses the input.
func (a *AnswerInput) Reset() tea.Cmd {
	a.verdict = nil
	a.Model.SetValue("")
	return a.Model.Focus()
}
