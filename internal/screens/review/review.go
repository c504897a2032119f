// Package review implements the practice screen: it asks a generated
// question, grades the typed answer and shows when the word comes back.
package review

import (
	"context"
	"errors"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vocabdrill/internal/practice"
	"github.com/abhisek/vocabdrill/internal/router"
	"github.com/abhisek/vocabdrill/internal/screen"
	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/ui/components"
	"github.com/abhisek/vocabdrill/internal/ui/layout"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

type phase int

const (
	phaseLoading phase = iota
	phaseAsking
	phaseJudging
	phaseResult
	phaseEmpty
	phaseError
)

// Screen implements screen.Screen for a review run in one language.
type Screen struct {
	coach *practice.Coach
	svc   *spacedrep.Service
	lang  vocab.Language

	phase         phase
	turn          *practice.Turn
	result        *practice.Result
	input         components.AnswerInput
	hadDifficulty bool
	reviewed      int

	err error

	// retry re-runs the step that failed.
	retry func() tea.Cmd

	// ctx scopes question and judge calls to the screen's lifetime.
	ctx    context.Context
	cancel context.CancelFunc
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.BadgeProvider = (*Screen)(nil)
var _ screen.Closer = (*Screen)(nil)

// New creates a review screen for lang.
func New(coach *practice.Coach, svc *spacedrep.Service, lang vocab.Language) *Screen {
	ctx, cancel := context.WithCancel(context.Background())
	return &Screen{
		coach:  coach,
		svc:    svc,
		lang:   lang,
		input:  components.NewAnswerInput("Answer using the word...", 200),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Close abandons any question or judge call still running. An abandoned
// judge call leaves the track untouched.
func (s *Screen) Close() {
	s.cancel()
}

func (s *Screen) Init() tea.Cmd {
	return s.loadTurn()
}

func (s *Screen) Title() string {
	return "Review · " + s.lang.DisplayName()
}

// Badge shows the number of answers given on this screen.
func (s *Screen) Badge() string {
	if s.reviewed == 0 {
		return ""
	}
	return "✓ " + strconv.Itoa(s.reviewed)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseAsking:
		flag := "Mark struggled"
		if s.hadDifficulty {
			flag = "Unmark struggled"
		}
		return []layout.KeyHint{
			{Key: "Enter", Description: "Submit"},
			{Key: "Tab", Description: flag},
			{Key: "Esc", Description: "Back"},
		}
	case phaseResult:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next"},
			{Key: "M", Description: "Mastered"},
			{Key: "L", Description: "Switch language"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseEmpty:
		return []layout.KeyHint{
			{Key: "R", Description: "Refresh"},
			{Key: "L", Description: "Switch language"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseError:
		if s.retry != nil {
			return []layout.KeyHint{
				{Key: "R", Description: "Retry"},
				{Key: "Esc", Description: "Back"},
			}
		}
	}
	return []layout.KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *Screen) View(width, height int) string {
	switch s.phase {
	case phaseLoading:
		return renderStatus(width, "Picking a word and writing a question...")
	case phaseJudging:
		return s.renderJudging(width)
	case phaseAsking:
		return s.renderQuestion(width)
	case phaseResult:
		return s.renderResult(width)
	case phaseEmpty:
		return s.renderEmpty(width)
	case phaseError:
		return renderError(width, s.err, s.retry != nil)
	}
	return ""
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case turnReadyMsg:
		return s.handleTurn(msg)

	case judgedMsg:
		return s.handleJudged(msg)

	case masteredMsg:
		if msg.Err != nil {
			return s.fail(msg.Err, nil)
		}
		return s, s.loadTurn()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseAsking {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

// loadTurn selects the next item and generates its question.
func (s *Screen) loadTurn() tea.Cmd {
	s.phase = phaseLoading
	s.turn = nil
	s.result = nil
	s.err = nil
	ctx, coach, lang := s.ctx, s.coach, s.lang
	return func() tea.Msg {
		turn, err := coach.Next(ctx, lang)
		return turnReadyMsg{Turn: turn, Err: err}
	}
}

// submit grades the answer for the current turn.
func (s *Screen) submit(answer string, hadDifficulty bool) tea.Cmd {
	s.phase = phaseJudging
	s.err = nil
	ctx, coach, turn := s.ctx, s.coach, s.turn
	return func() tea.Msg {
		res, err := coach.Answer(ctx, turn, answer, hadDifficulty)
		return judgedMsg{Result: res, Err: err}
	}
}

func (s *Screen) markMastered() tea.Cmd {
	svc, item, lang := s.svc, s.turn.Item(), s.lang
	return func() tea.Msg {
		return masteredMsg{Err: svc.SetMastered(context.Background(), item.ID, lang, true)}
	}
}

func (s *Screen) handleTurn(msg turnReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		return s.fail(msg.Err, s.loadTurn)
	}
	s.turn = msg.Turn
	if s.turn.Question == nil {
		s.phase = phaseEmpty
		return s, nil
	}
	s.phase = phaseAsking
	s.hadDifficulty = false
	return s, s.input.Reset()
}

func (s *Screen) handleJudged(msg judgedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		answer, flag := s.input.Value(), s.hadDifficulty
		return s.fail(msg.Err, func() tea.Cmd { return s.submit(answer, flag) })
	}
	s.result = msg.Result
	s.reviewed++
	s.input.Mark(msg.Result.Verdict.Fluent)
	s.phase = phaseResult
	return s, nil
}

// fail shows err. Retryable errors keep retry so the same step can run
// again; anything else can only be left with Esc.
func (s *Screen) fail(err error, retry func() tea.Cmd) (screen.Screen, tea.Cmd) {
	s.err = err
	s.phase = phaseError
	s.retry = nil
	if retry != nil && vocab.IsRetryable(err) {
		s.retry = retry
	}
	if errors.Is(err, vocab.ErrInvalidArgument) && s.turn != nil && s.turn.Question != nil {
		// Bad input such as an empty answer: go back to the question.
		s.phase = phaseAsking
		return s, s.input.Init()
	}
	return s, nil
}

func (s *Screen) switchLanguage() tea.Cmd {
	next := vocab.Languages[0]
	for i, l := range vocab.Languages {
		if l == s.lang {
			next = vocab.Languages[(i+1)%len(vocab.Languages)]
		}
	}
	replacement := New(s.coach, s.svc, next)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: replacement} }
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	switch s.phase {
	case phaseAsking:
		switch key {
		case "enter":
			answer := s.input.Value()
			if answer == "" {
				return s, nil
			}
			return s, s.submit(answer, s.hadDifficulty)
		case "tab":
			s.hadDifficulty = !s.hadDifficulty
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseResult:
		switch key {
		case "enter", "space", "n":
			return s, s.loadTurn()
		case "m", "M":
			return s, s.markMastered()
		case "l", "L":
			return s, s.switchLanguage()
		}

	case phaseEmpty:
		switch key {
		case "r", "R":
			return s, s.loadTurn()
		case "l", "L":
			return s, s.switchLanguage()
		}

	case phaseError:
		if (key == "r" || key == "R") && s.retry != nil {
			retry := s.retry
			s.retry = nil
			return s, retry()
		}
	}

	return s, nil
}
