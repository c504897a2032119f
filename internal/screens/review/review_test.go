package review

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/vocabdrill/internal/judge"
	"github.com/abhisek/vocabdrill/internal/llm"
	"github.com/abhisek/vocabdrill/internal/practice"
	"github.com/abhisek/vocabdrill/internal/question"
	"github.com/abhisek/vocabdrill/internal/router"
	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/store"
	"github.com/abhisek/vocabdrill/internal/ui/theme"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

type harness struct {
	screen *Screen
	mock   *llm.MockProvider
	svc    *spacedrep.Service
	item   *vocab.Item
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st, err := store.Open(":memory:", store.WithClock(func() time.Time { return t0 }))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	item, err := st.ItemRepo().CreateItem(context.Background(), store.NewItem{Text: "散步"})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	mock := llm.NewMockProvider()
	svc := spacedrep.NewService(st.ItemRepo(), spacedrep.WithClock(func() time.Time { return t0 }))
	coach := practice.NewCoach(svc,
		question.New(mock, question.DefaultConfig()),
		judge.New(mock, judge.DefaultConfig()))

	return &harness{screen: New(coach, svc, vocab.Mandarin), mock: mock, svc: svc, item: item}
}

func (h *harness) queueQuestion() {
	h.mock.AddJSON(map[string]string{
		"sentence":     "你吃完饭以后一般会去散步吗？",
		"target_word":  "散步",
		"romanization": "nǐ chī wán fàn yǐ hòu yì bān huì qù sàn bù ma",
	})
}

func (h *harness) queueVerdict(fluent bool) {
	h.mock.AddJSON(judge.Verdict{
		Fluent:         fluent,
		Meaningfulness: judge.MeaningFull,
		Romanization:   "wǒ yì bān qù gōng yuán sàn bù",
		ImprovedAnswer: "我一般去公园散步。",
		Feedback:       "Good, natural answer.",
	})
}

// run executes cmd and feeds the resulting screen message back into the
// screen, following loadTurn and submit chains until they settle. Other
// commands such as cursor blinks are ignored.
func (h *harness) run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		switch msg.(type) {
		case turnReadyMsg, judgedMsg, masteredMsg:
			_, cmd = h.screen.Update(msg)
		default:
			return msg
		}
	}
	return nil
}

func (h *harness) typeText(t *testing.T, text string) {
	t.Helper()
	for _, r := range text {
		h.screen.Update(keyPress(r))
	}
}

func TestReview_AnswerFlow(t *testing.T) {
	h := newHarness(t)
	h.queueQuestion()
	h.queueVerdict(true)

	h.run(t, h.screen.Init())
	if h.screen.phase != phaseAsking {
		t.Fatalf("expected asking phase, got %d", h.screen.phase)
	}
	if v := ansi.Strip(h.screen.View(100, 30)); !strings.Contains(v, "你吃完饭以后一般会去散步吗？") {
		t.Errorf("expected question sentence in view, got:\n%s", v)
	}

	h.typeText(t, "我去散步")
	if got := h.screen.input.Value(); got != "我去散步" {
		t.Fatalf("input value = %q", got)
	}

	_, cmd := h.screen.Update(specialKey(tea.KeyEnter))
	if h.screen.phase != phaseJudging {
		t.Fatalf("expected judging phase, got %d", h.screen.phase)
	}
	h.run(t, cmd)

	if h.screen.phase != phaseResult {
		t.Fatalf("expected result phase, got %d (err %v)", h.screen.phase, h.screen.err)
	}
	if h.screen.result.Rule != spacedrep.RuleSuccess {
		t.Errorf("rule = %s, want success", h.screen.result.Rule)
	}
	view := ansi.Strip(h.screen.View(100, 30))
	for _, want := range []string{"Fluent!", "我一般去公园", "散步", "Back in 1h"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in result view", want)
		}
	}
	if h.screen.Badge() != "✓ 1" {
		t.Errorf("Badge() = %q", h.screen.Badge())
	}

	// Next turn: the only item is scheduled, so the screen reports the ETA.
	_, cmd = h.screen.Update(specialKey(tea.KeyEnter))
	h.run(t, cmd)
	if h.screen.phase != phaseEmpty {
		t.Fatalf("expected empty phase, got %d", h.screen.phase)
	}
	if v := ansi.Strip(h.screen.View(100, 30)); !strings.Contains(v, "Next review in 1h") {
		t.Errorf("expected ETA in view, got:\n%s", v)
	}
}

func TestReview_DifficultyToggle(t *testing.T) {
	h := newHarness(t)
	h.queueQuestion()
	h.queueVerdict(true)

	h.run(t, h.screen.Init())
	h.screen.Update(specialKey(tea.KeyTab))
	if !h.screen.hadDifficulty {
		t.Fatal("expected Tab to mark difficulty")
	}
	h.typeText(t, "散步")
	_, cmd := h.screen.Update(specialKey(tea.KeyEnter))
	h.run(t, cmd)

	if h.screen.result == nil || h.screen.result.Rule != spacedrep.RuleDifficulty {
		t.Fatalf("expected difficulty rule, got %+v", h.screen.result)
	}
	if v := ansi.Strip(h.screen.View(100, 30)); !strings.Contains(v, "Back in 5m") {
		t.Errorf("expected 5 minute offset in view")
	}
}

func TestReview_EmptyAnswerIgnored(t *testing.T) {
	h := newHarness(t)
	h.queueQuestion()

	h.run(t, h.screen.Init())
	_, cmd := h.screen.Update(specialKey(tea.KeyEnter))
	if cmd != nil {
		t.Error("expected no command for an empty answer")
	}
	if h.screen.phase != phaseAsking {
		t.Errorf("expected to stay in asking phase, got %d", h.screen.phase)
	}
}

func TestReview_JudgeFailureRetries(t *testing.T) {
	h := newHarness(t)
	h.queueQuestion()

	h.run(t, h.screen.Init())
	h.typeText(t, "散步")
	_, cmd := h.screen.Update(specialKey(tea.KeyEnter))
	h.run(t, cmd)

	if h.screen.phase != phaseError {
		t.Fatalf("expected error phase, got %d", h.screen.phase)
	}
	if h.screen.retry == nil {
		t.Fatal("expected judge failure to be retryable")
	}
	if v := ansi.Strip(h.screen.View(100, 30)); !strings.Contains(v, "could not be reached") {
		t.Errorf("expected provider failure described in view, got:\n%s", v)
	}
	tr, err := h.svc.Track(context.Background(), h.item.ID, vocab.Mandarin)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.IsNew() {
		t.Error("expected track untouched after judge failure")
	}

	h.queueVerdict(false)
	_, cmd = h.screen.Update(keyPress('r'))
	h.run(t, cmd)

	if h.screen.phase != phaseResult {
		t.Fatalf("expected result after retry, got %d (err %v)", h.screen.phase, h.screen.err)
	}
	if h.screen.result.Rule != spacedrep.RuleNotFluent {
		t.Errorf("rule = %s, want not-fluent", h.screen.result.Rule)
	}
}

func TestReview_QuestionFailureRetries(t *testing.T) {
	h := newHarness(t)

	h.run(t, h.screen.Init())
	if h.screen.phase != phaseError || h.screen.retry == nil {
		t.Fatalf("expected retryable error, got phase %d", h.screen.phase)
	}

	h.queueQuestion()
	_, cmd := h.screen.Update(keyPress('r'))
	h.run(t, cmd)
	if h.screen.phase != phaseAsking {
		t.Errorf("expected asking phase after retry, got %d", h.screen.phase)
	}
}

func TestReview_MarkMastered(t *testing.T) {
	h := newHarness(t)
	h.queueQuestion()
	h.queueVerdict(true)

	h.run(t, h.screen.Init())
	h.typeText(t, "散步")
	_, cmd := h.screen.Update(specialKey(tea.KeyEnter))
	h.run(t, cmd)

	_, cmd = h.screen.Update(keyPress('m'))
	h.run(t, cmd)

	tr, err := h.svc.Track(context.Background(), h.item.ID, vocab.Mandarin)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.Mastered {
		t.Error("expected track to be mastered")
	}
	if h.screen.phase != phaseEmpty || h.screen.turn.Selection.HasETA {
		t.Errorf("expected empty phase without ETA, got %d", h.screen.phase)
	}
}

func TestReview_SwitchLanguage(t *testing.T) {
	h := newHarness(t)
	h.screen.phase = phaseEmpty

	_, cmd := h.screen.Update(keyPress('l'))
	if cmd == nil {
		t.Fatal("expected a replace command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if msg.Screen.Title() != "Review · Cantonese" {
		t.Errorf("replacement title = %q", msg.Screen.Title())
	}
}

func TestHighlight(t *testing.T) {
	got := highlight("我吃完饭去散步，散步很舒服。", "散步", theme.Prompt, 70)
	if plain := ansi.Strip(got); plain != "我吃完饭去散步，散步很舒服。" {
		t.Errorf("highlight changed the text: %q", plain)
	}
	if n := strings.Count(got, theme.Target.Render("散步")); n != 2 {
		t.Errorf("expected 2 highlighted occurrences, got %d", n)
	}

	if got := highlight("你好", "散步", theme.Prompt, 70); got != theme.Prompt.Render("你好") {
		t.Errorf("sentence without target should render plainly, got %q", got)
	}
}

func TestReview_CloseAbandonsJudgeCall(t *testing.T) {
	h := newHarness(t)
	h.queueQuestion()
	raw, err := json.Marshal(judge.Verdict{Fluent: true, Meaningfulness: judge.MeaningFull, Feedback: "ok"})
	if err != nil {
		t.Fatal(err)
	}
	h.mock.AddResponse(llm.MockResponse{Content: raw, Delay: time.Second})

	h.run(t, h.screen.Init())
	h.typeText(t, "我去散步")
	_, cmd := h.screen.Update(specialKey(tea.KeyEnter))

	h.screen.Close()
	start := time.Now()
	msg, ok := cmd().(judgedMsg)
	if !ok {
		t.Fatalf("expected judgedMsg, got %T", msg)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("judge call was not cancelled")
	}
	if !errors.Is(msg.Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", msg.Err)
	}

	tr, err := h.svc.Track(context.Background(), h.item.ID, vocab.Mandarin)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.IsNew() {
		t.Error("expected track untouched after closing mid-judge")
	}
}
