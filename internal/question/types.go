// Package question generates conversational practice questions that
// call for a vocabulary word in the answer.
package question

import (
	"context"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

// Generator produces a practice question for an item and language.
type Generator interface {
	Generate(ctx context.Context, input Input) (*Prompt, error)
}

// Input is the context for generating one question.
type Input struct {
	Item     *vocab.Item
	Language vocab.Language
}

// Prompt is a generated question.
type Prompt struct {
	// Sentence is the question shown to the learner.
	Sentence string

	// TargetWord is the word the learner should use. For Cantonese it may
	// be a colloquial equivalent of the item text.
	TargetWord string

	Romanization string

	// Colloquial reports that TargetWord replaced the item text.
	Colloquial bool
}
