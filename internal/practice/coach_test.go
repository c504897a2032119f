package practice

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vocabdrill/internal/judge"
	"github.com/abhisek/vocabdrill/internal/llm"
	"github.com/abhisek/vocabdrill/internal/question"
	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/store"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

var t0 = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	st    *store.Store
	svc   *spacedrep.Service
	mock  *llm.MockProvider
	coach *Coach
	item  *vocab.Item
}

func newFixture(t *testing.T, judgeTimeout time.Duration) *fixture {
	t.Helper()
	st, err := store.Open(":memory:", store.WithClock(func() time.Time { return t0 }))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	item, err := st.ItemRepo().CreateItem(context.Background(), store.NewItem{Text: "锻炼"})
	require.NoError(t, err)

	mock := llm.NewMockProvider()
	p := llm.WithLogging(mock, llm.ProviderMock, st.EventRepo())

	jcfg := judge.DefaultConfig()
	jcfg.Timeout = judgeTimeout
	svc := spacedrep.NewService(st.ItemRepo(), spacedrep.WithClock(func() time.Time { return t0 }))

	return &fixture{
		st:    st,
		svc:   svc,
		mock:  mock,
		coach: NewCoach(svc, question.New(p, question.DefaultConfig()), judge.New(p, jcfg)),
		item:  item,
	}
}

func (f *fixture) queueQuestion() {
	f.mock.AddJSON(map[string]string{
		"sentence":     "你平时喜欢怎么锻炼身体？",
		"target_word":  "锻炼",
		"romanization": "nǐ píng shí xǐ huan zěn me duàn liàn shēn tǐ",
	})
}

func (f *fixture) queueVerdict(fluent bool, meaning judge.Meaningfulness) {
	f.mock.AddJSON(judge.Verdict{
		Fluent:         fluent,
		Meaningfulness: meaning,
		Romanization:   "wǒ xǐ huan pǎo bù duàn liàn",
		ImprovedAnswer: "我喜欢通过跑步来锻炼身体。",
		Feedback:       "Natural and on topic.",
	})
}

func (f *fixture) track(t *testing.T) vocab.Track {
	t.Helper()
	tr, err := f.svc.Track(context.Background(), f.item.ID, vocab.Mandarin)
	require.NoError(t, err)
	return tr
}

func (f *fixture) trackEvents(t *testing.T) []store.TrackEvent {
	t.Helper()
	evs, err := f.st.EventRepo().QueryTrackEvents(context.Background(), store.TrackEventFilter{ItemID: f.item.ID})
	require.NoError(t, err)
	return evs
}

func TestCoach_FullTurn(t *testing.T) {
	f := newFixture(t, time.Second)
	f.queueQuestion()
	f.queueVerdict(true, judge.MeaningFull)
	ctx := context.Background()

	turn, err := f.coach.Next(ctx, vocab.Mandarin)
	require.NoError(t, err)
	require.NotNil(t, turn.Question)
	assert.Equal(t, spacedrep.TierNew, turn.Selection.Tier)
	assert.Equal(t, f.item.ID, turn.Item().ID)
	assert.Equal(t, "锻炼", turn.Question.TargetWord)

	res, err := f.coach.Answer(ctx, turn, "我喜欢跑步锻炼。", false)
	require.NoError(t, err)
	assert.Equal(t, spacedrep.RuleSuccess, res.Rule)
	assert.Equal(t, t0.Add(60*time.Minute), res.NextDueAt)
	assert.Equal(t, "我喜欢通过跑步来锻炼身体。", res.Verdict.ImprovedAnswer)

	tr := f.track(t)
	assert.Equal(t, 1, tr.ProgressCount)
	require.NotNil(t, tr.NextDueAt)
	assert.True(t, tr.NextDueAt.Equal(res.NextDueAt))

	events, err := f.st.EventRepo().LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2, "judge and question calls recorded")
	want := llm.Subject{ItemID: f.item.ID, Language: vocab.Mandarin}
	assert.Equal(t, []llm.Subject{want, want}, f.mock.Subjects)

	// Nothing new, nothing due: the next turn reports the ETA.
	turn, err = f.coach.Next(ctx, vocab.Mandarin)
	require.NoError(t, err)
	assert.Nil(t, turn.Question)
	assert.Equal(t, spacedrep.TierNone, turn.Selection.Tier)
	assert.True(t, turn.Selection.HasETA)
	assert.Equal(t, 60, turn.Selection.ETAMinutes)
}

func TestCoach_DifficultyFlag(t *testing.T) {
	f := newFixture(t, time.Second)
	f.queueQuestion()
	f.queueVerdict(true, judge.MeaningFull)

	turn, err := f.coach.Next(context.Background(), vocab.Mandarin)
	require.NoError(t, err)
	res, err := f.coach.Answer(context.Background(), turn, "我……锻炼。", true)
	require.NoError(t, err)
	assert.Equal(t, spacedrep.RuleDifficulty, res.Rule)
	assert.Equal(t, t0.Add(5*time.Minute), res.NextDueAt)
	assert.Equal(t, 0, f.track(t).ProgressCount)
}

func TestCoach_MinimalUsage(t *testing.T) {
	f := newFixture(t, time.Second)
	f.queueQuestion()
	f.queueVerdict(true, judge.MeaningMinimal)

	turn, err := f.coach.Next(context.Background(), vocab.Mandarin)
	require.NoError(t, err)
	res, err := f.coach.Answer(context.Background(), turn, "锻炼。", false)
	require.NoError(t, err)
	assert.Equal(t, spacedrep.RuleMinimalUsage, res.Rule)
	assert.Equal(t, t0.Add(30*time.Minute), res.NextDueAt)
}

func TestCoach_JudgeTimeoutLeavesTrack(t *testing.T) {
	f := newFixture(t, 20*time.Millisecond)
	f.queueQuestion()
	f.mock.AddResponse(llm.MockResponse{Content: json.RawMessage(`{}`), Delay: time.Second})

	turn, err := f.coach.Next(context.Background(), vocab.Mandarin)
	require.NoError(t, err)

	_, err = f.coach.Answer(context.Background(), turn, "我喜欢跑步锻炼。", false)
	require.Error(t, err)
	assert.True(t, vocab.IsRetryable(err), "timeout should be retryable: %v", err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	assert.Equal(t, vocab.Track{}, f.track(t))
	assert.Empty(t, f.trackEvents(t))

	llmEvents, err := f.st.EventRepo().QueryLLMEvents(context.Background(), store.LLMEventFilter{})
	require.NoError(t, err)
	require.Len(t, llmEvents, 2)
	assert.False(t, llmEvents[0].Success, "timed-out judge call still recorded")
	assert.Equal(t, llm.PurposeJudge, llmEvents[0].Purpose)
	for _, ev := range llmEvents {
		assert.Equal(t, turn.Item().ID, ev.ItemID)
		assert.Equal(t, vocab.Mandarin, ev.Language)
	}
}

func TestCoach_JudgeFailureRetryable(t *testing.T) {
	f := newFixture(t, time.Second)
	f.queueQuestion()
	f.mock.AddResponse(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("503")}})

	turn, err := f.coach.Next(context.Background(), vocab.Mandarin)
	require.NoError(t, err)

	_, err = f.coach.Answer(context.Background(), turn, "我喜欢跑步锻炼。", false)
	require.Error(t, err)
	assert.True(t, vocab.IsRetryable(err))
	var unavail *llm.ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)
	assert.Empty(t, f.trackEvents(t))

	// Retrying the same turn succeeds.
	f.queueVerdict(true, judge.MeaningFull)
	res, err := f.coach.Answer(context.Background(), turn, "我喜欢跑步锻炼。", false)
	require.NoError(t, err)
	assert.Equal(t, t0.Add(60*time.Minute), res.NextDueAt)
}

func TestCoach_ResubmitAppliedOnce(t *testing.T) {
	f := newFixture(t, time.Second)
	f.queueQuestion()
	f.queueVerdict(true, judge.MeaningFull)
	f.queueVerdict(true, judge.MeaningFull)

	turn, err := f.coach.Next(context.Background(), vocab.Mandarin)
	require.NoError(t, err)

	first, err := f.coach.Answer(context.Background(), turn, "我喜欢跑步锻炼。", false)
	require.NoError(t, err)
	second, err := f.coach.Answer(context.Background(), turn, "我喜欢跑步锻炼。", false)
	require.NoError(t, err)

	assert.Equal(t, first.NextDueAt, second.NextDueAt)
	assert.Equal(t, 1, f.track(t).ProgressCount)
	assert.Len(t, f.trackEvents(t), 1)
}

func TestCoach_EmptyAnswerNotRetryable(t *testing.T) {
	f := newFixture(t, time.Second)
	f.queueQuestion()

	turn, err := f.coach.Next(context.Background(), vocab.Mandarin)
	require.NoError(t, err)

	_, err = f.coach.Answer(context.Background(), turn, "  ", false)
	assert.ErrorIs(t, err, vocab.ErrInvalidArgument)
	assert.False(t, vocab.IsRetryable(err))
	assert.Equal(t, 1, f.mock.CallCount(), "judge not called")
}

func TestCoach_QuestionFailureRetryable(t *testing.T) {
	f := newFixture(t, time.Second)
	f.mock.AddResponse(llm.MockResponse{Err: &llm.ErrRateLimit{Err: errors.New("429")}})

	_, err := f.coach.Next(context.Background(), vocab.Mandarin)
	require.Error(t, err)
	assert.True(t, vocab.IsRetryable(err))
	assert.Equal(t, vocab.Track{}, f.track(t))
}

func TestCoach_AnswerWithoutQuestion(t *testing.T) {
	f := newFixture(t, time.Second)
	require.NoError(t, f.svc.SetMastered(context.Background(), f.item.ID, vocab.Mandarin, true))

	turn, err := f.coach.Next(context.Background(), vocab.Mandarin)
	require.NoError(t, err)
	assert.False(t, turn.Selection.Available())
	assert.False(t, turn.Selection.HasETA)

	_, err = f.coach.Answer(context.Background(), turn, "锻炼", false)
	assert.ErrorIs(t, err, vocab.ErrInvalidArgument)
}
