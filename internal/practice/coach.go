// Package practice runs one practice turn: pick the next item, ask a
// generated question, grade the answer and reschedule the track.
package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/vocabdrill/internal/judge"
	"github.com/abhisek/vocabdrill/internal/llm"
	"github.com/abhisek/vocabdrill/internal/logger"
	"github.com/abhisek/vocabdrill/internal/question"
	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

// Turn is one presented item awaiting an answer.
type Turn struct {
	Selection spacedrep.Selection
	Language  vocab.Language

	// Question is nil when nothing is available.
	Question *question.Prompt

	// StartedAt keys the evaluation so resubmitting the same turn is
	// applied once.
	StartedAt time.Time
}

// Item returns the selected item, or nil.
func (t *Turn) Item() *vocab.Item {
	return t.Selection.Item
}

// Result is the outcome of an answered turn.
type Result struct {
	Verdict   *judge.Verdict
	Outcome   spacedrep.Outcome
	Rule      spacedrep.Rule
	NextDueAt time.Time
}

// Coach orchestrates practice turns over a scheduler, question generator
// and judge.
type Coach struct {
	svc   *spacedrep.Service
	gen   question.Generator
	judge judge.Judge
}

// NewCoach creates a coach.
func NewCoach(svc *spacedrep.Service, gen question.Generator, j judge.Judge) *Coach {
	return &Coach{svc: svc, gen: gen, judge: j}
}

// Next selects the next item for lang and generates its question. When
// nothing is available the turn carries only the selection.
func (c *Coach) Next(ctx context.Context, lang vocab.Language) (*Turn, error) {
	sel, err := c.svc.NextItem(ctx, lang)
	if err != nil {
		return nil, err
	}
	turn := &Turn{Selection: sel, Language: lang, StartedAt: c.svc.Now()}
	if !sel.Available() {
		return turn, nil
	}

	ctx = llm.WithSubject(ctx, sel.Item.ID, lang)
	q, err := c.gen.Generate(ctx, question.Input{Item: sel.Item, Language: lang})
	if err != nil {
		return nil, external("generate question", sel.Item.ID, lang, err)
	}
	turn.Question = q
	return turn, nil
}

// Answer grades answer for the turn and applies the outcome. If the judge
// fails or times out the track is not touched and the error wraps
// vocab.ErrRetryableIO.
func (c *Coach) Answer(ctx context.Context, turn *Turn, answer string, hadDifficulty bool) (*Result, error) {
	item := turn.Item()
	if item == nil || turn.Question == nil {
		return nil, fmt.Errorf("%w: turn has no question", vocab.ErrInvalidArgument)
	}

	ctx = llm.WithSubject(ctx, item.ID, turn.Language)
	v, err := c.judge.Evaluate(ctx, judge.Request{
		Word:     item.Text,
		Target:   turn.Question.TargetWord,
		Prompt:   turn.Question.Sentence,
		Answer:   answer,
		Language: turn.Language,
		Entry:    item.Entry(turn.Language),
	})
	if err != nil {
		return nil, external("judge answer", item.ID, turn.Language, err)
	}

	outcome := v.Outcome(hadDifficulty)
	due, err := c.svc.SubmitEvaluation(ctx, spacedrep.Evaluation{
		ItemID:     item.ID,
		Language:   turn.Language,
		Outcome:    outcome,
		RequestKey: spacedrep.EvaluationKey(item.ID, turn.Language, turn.StartedAt),
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Verdict:   v,
		Outcome:   outcome,
		Rule:      outcome.Rule(),
		NextDueAt: due,
	}, nil
}

// external classifies a question generator or judge failure. Bad input
// stays non-retryable; everything else, deadlines included, is retryable.
func external(op, itemID string, lang vocab.Language, err error) error {
	if errors.Is(err, vocab.ErrInvalidArgument) {
		return fmt.Errorf("%s: %w", op, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("%s for %s/%s timed out, track unchanged", op, itemID, lang)
	} else {
		logger.Warn("%s for %s/%s failed, track unchanged: %v", op, itemID, lang, err)
	}
	return vocab.Retryable(fmt.Errorf("%s: %w", op, err))
}
