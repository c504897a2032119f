package llm

import (
	"context"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	subjectKey contextKey = "llm_subject"
)

// Purposes recorded on LLM request events.
const (
	PurposeJudge    = "judge"
	PurposeQuestion = "question"
)

// Subject is the item track an LLM call was made for.
type Subject struct {
	ItemID   string
	Language vocab.Language
}

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithSubject tags the context with the item track being practised, so
// request events can be traced back to a word.
func WithSubject(ctx context.Context, itemID string, lang vocab.Language) context.Context {
	return context.WithValue(ctx, subjectKey, Subject{ItemID: itemID, Language: lang})
}

// SubjectFrom returns the subject attached by WithSubject, if any.
func SubjectFrom(ctx context.Context) (Subject, bool) {
	s, ok := ctx.Value(subjectKey).(Subject)
	return s, ok
}
