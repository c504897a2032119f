package review

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/vocabdrill/internal/judge"
	"github.com/abhisek/vocabdrill/internal/llm"
	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/ui/layout"
	"github.com/abhisek/vocabdrill/internal/ui/theme"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

const maxTextWidth = 70

func center(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

func textWidth(width int) int {
	return min(width-8, maxTextWidth)
}

// highlight wraps sentence to width and renders it in base, with every
// occurrence of target picked out.
func highlight(sentence, target string, base lipgloss.Style, width int) string {
	wrapped := layout.Wrap(sentence, width)
	if target == "" || !strings.Contains(wrapped, target) {
		return base.Render(wrapped)
	}
	var b strings.Builder
	parts := strings.Split(wrapped, target)
	for i, part := range parts {
		if part != "" {
			b.WriteString(base.Render(part))
		}
		if i < len(parts)-1 {
			b.WriteString(theme.Target.Render(target))
		}
	}
	return b.String()
}

// renderInfoLine shows the tier and word on the left and the language on
// the right.
func (s *Screen) renderInfoLine(width int) string {
	item := s.turn.Item()
	tier := "new"
	if s.turn.Selection.Tier == spacedrep.TierDue {
		tier = "due"
	}
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  %s", item.Text))
	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s · %s", tier, s.lang.DisplayName()))

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line + "\n" +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0)))
}

func (s *Screen) renderQuestion(width int) string {
	q := s.turn.Question
	tw := textWidth(width)

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n\n")

	b.WriteString(center(width, highlight(q.Sentence, q.TargetWord, theme.Prompt, tw)))
	b.WriteString("\n")
	if q.Romanization != "" {
		b.WriteString(center(width, theme.Romanization.Render(layout.Wrap(q.Romanization, tw))))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	use := fmt.Sprintf("Answer using %s", q.TargetWord)
	if q.Colloquial {
		use = fmt.Sprintf("Answer using %s (everyday form of %s)", q.TargetWord, s.turn.Item().Text)
	}
	b.WriteString(center(width, theme.Hint.Render(use)))
	b.WriteString("\n\n")
	b.WriteString(center(width, s.input.View()))
	b.WriteString("\n\n")

	if s.hadDifficulty {
		b.WriteString(center(width, theme.Warning.Render("Marked as struggled")))
		b.WriteString("\n")
	}
	if s.err != nil {
		b.WriteString(center(width, theme.Incorrect.Render(s.err.Error())))
	}
	return b.String()
}

func (s *Screen) renderJudging(width int) string {
	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n\n")
	b.WriteString(center(width, theme.Prompt.Render(layout.Wrap(s.turn.Question.Sentence, textWidth(width)))))
	b.WriteString("\n\n")
	b.WriteString(center(width, s.input.View()))
	b.WriteString("\n\n")
	b.WriteString(center(width, theme.Hint.Render("Grading your answer...")))
	return b.String()
}

// verdictHeadline summarises the verdict in a word or two.
func verdictHeadline(v *judge.Verdict) string {
	switch {
	case !v.Fluent:
		return theme.Incorrect.Render("Not quite natural")
	case v.HasFillers:
		return theme.Warning.Render("Natural, but padded")
	case v.Meaningfulness != judge.MeaningFull:
		return theme.Warning.Render("Fluent, minimal use of the word")
	}
	return theme.Correct.Render("Fluent!")
}

func ruleText(r spacedrep.Rule) string {
	switch r {
	case spacedrep.RuleDifficulty:
		return "you marked it as a struggle"
	case spacedrep.RuleNotFluent:
		return "the answer was not fluent"
	case spacedrep.RuleMinimalUsage:
		return "the word was used minimally"
	}
	return "full success"
}

func (s *Screen) renderResult(width int) string {
	res := s.result
	v := res.Verdict
	tw := textWidth(width)

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n\n")
	b.WriteString(center(width, s.input.View()))
	b.WriteString("\n\n")
	b.WriteString(center(width, verdictHeadline(v)))
	b.WriteString("\n\n")

	if v.Feedback != "" {
		b.WriteString(center(width, theme.Body.Width(tw).Render(v.Feedback)))
		b.WriteString("\n\n")
	}
	if v.ImprovedAnswer != "" {
		card := highlight(v.ImprovedAnswer, s.turn.Question.TargetWord, theme.Prompt, tw)
		if v.Romanization != "" {
			card += "\n" + theme.Romanization.Render(v.Romanization)
		}
		b.WriteString(center(width, theme.Card.Width(tw).Render(card)))
		b.WriteString("\n\n")
	}

	eta := spacedrep.MinutesUntil(s.svc.Now(), res.NextDueAt)
	b.WriteString(center(width, lipgloss.NewStyle().Foreground(theme.TextDim).Render(
		fmt.Sprintf("Back in %s: %s", spacedrep.FormatMinutes(eta), ruleText(res.Rule)))))
	return b.String()
}

func (s *Screen) renderEmpty(width int) string {
	var msg string
	switch {
	case s.turn != nil && s.turn.Selection.HasETA:
		msg = fmt.Sprintf("All caught up in %s.\n\nNext review in %s.",
			s.lang.DisplayName(), spacedrep.FormatMinutes(s.turn.Selection.ETAMinutes))
	default:
		msg = fmt.Sprintf("Nothing to practise in %s.\n\nAdd words with `vocabdrill add`.", s.lang.DisplayName())
	}
	return "\n\n" + center(width, lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(msg))
}

// renderStatus renders a dimmed one-line status.
func renderStatus(width int, msg string) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  " + msg)
}

// renderError renders an error message.
func renderError(width int, err error, canRetry bool) string {
	next := "Press Esc to go back."
	if canRetry {
		next = "Nothing was recorded. Press R to try again."
	}
	text := "unknown error"
	if err != nil {
		text = llm.Describe(err)
	}
	if err != nil && vocab.IsRetryable(err) && !canRetry {
		next = "Nothing was recorded. Press Esc to go back."
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Error).
		Render(fmt.Sprintf("\n\n\n  Error: %s\n\n  %s", layout.Wrap(text, textWidth(width)), next))
}
