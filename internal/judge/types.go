// Package judge grades a learner's answer to a practice prompt and turns
// the verdict into a scheduling outcome.
package judge

import (
	"context"

	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

// Judge evaluates a learner answer.
type Judge interface {
	Evaluate(ctx context.Context, req Request) (*Verdict, error)
}

// Request is one answer to grade.
type Request struct {
	// Word is the vocabulary item text.
	Word string

	// Target is the word the answer must use. It differs from Word when
	// the question used a colloquial Cantonese equivalent. Empty means Word.
	Target string

	// Prompt is the question sentence the learner answered.
	Prompt string

	Answer   string
	Language vocab.Language

	// Entry is the item's reference entry for Language, if any.
	Entry string
}

// TargetWord returns the word the answer is graded against.
func (r Request) TargetWord() string {
	if r.Target != "" {
		return r.Target
	}
	return r.Word
}

// Meaningfulness grades how well the target word was used.
type Meaningfulness string

const (
	MeaningFull    Meaningfulness = "full"
	MeaningMinimal Meaningfulness = "minimal"
)

// Verdict is the judge's assessment of one answer.
type Verdict struct {
	Fluent         bool           `json:"fluent"`
	HasFillers     bool           `json:"has_fillers"`
	Meaningfulness Meaningfulness `json:"meaningfulness"`
	Romanization   string         `json:"romanization"`
	ImprovedAnswer string         `json:"improved_answer"`
	Feedback       string         `json:"feedback"`
}

// Outcome converts the verdict into the scheduler's input. hadDifficulty
// is the learner's own flag and overrides everything else.
func (v Verdict) Outcome(hadDifficulty bool) spacedrep.Outcome {
	return spacedrep.Outcome{
		HadDifficulty: hadDifficulty,
		Fluent:        v.Fluent,
		HasFillers:    v.HasFillers,
		MinimalUsage:  v.Meaningfulness != MeaningFull,
	}
}
