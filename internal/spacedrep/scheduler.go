package spacedrep

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/vocabdrill/internal/logger"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

// TrackStore is the item store as seen by the scheduler.
type TrackStore interface {
	TrackQuery

	// GetItem returns the item or an error wrapping vocab.ErrNotFound.
	GetItem(ctx context.Context, id string) (*vocab.Item, error)

	// UpdateTrack applies one change to one track atomically: either the
	// whole new track and its event are committed, or nothing is.
	UpdateTrack(ctx context.Context, itemID string, lang vocab.Language, change vocab.Change) (vocab.ChangeResult, error)
}

// Evaluation is a judged answer to be applied to a track.
type Evaluation struct {
	ItemID   string
	Language vocab.Language
	Outcome  Outcome

	// EvaluatedAt is the time the offset is added to. Zero means now.
	EvaluatedAt time.Time

	// RequestKey makes retries safe. Empty means
	// "<item>/<language>/<EvaluatedAt unix nanos>".
	RequestKey string
}

// Service applies scheduling decisions to stored tracks and selects the
// next item to review.
type Service struct {
	store    TrackStore
	selector *Selector
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a scheduler service over the store.
func NewService(store TrackStore, opts ...Option) *Service {
	s := &Service{
		store:    store,
		selector: NewSelector(store),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NextItem selects the next item to present for lang.
func (s *Service) NextItem(ctx context.Context, lang vocab.Language) (Selection, error) {
	if err := checkLanguage(lang); err != nil {
		return Selection{}, err
	}
	sel, err := s.selector.Next(ctx, lang, s.now())
	if err != nil {
		return Selection{}, vocab.Retryable(err)
	}
	return sel, nil
}

// SubmitEvaluation applies the interval policy to the evaluated track and
// returns the committed next due time. Retrying with the same request key
// returns the first result without applying the outcome twice.
func (s *Service) SubmitEvaluation(ctx context.Context, ev Evaluation) (time.Time, error) {
	if err := checkLanguage(ev.Language); err != nil {
		return time.Time{}, err
	}
	at := ev.EvaluatedAt
	if at.IsZero() {
		at = s.now()
	}
	key := ev.RequestKey
	if key == "" {
		key = EvaluationKey(ev.ItemID, ev.Language, at)
	}

	rule := ev.Outcome.Rule()
	res, err := s.store.UpdateTrack(ctx, ev.ItemID, ev.Language, vocab.Change{
		Kind:       vocab.ChangeEvaluation,
		RequestKey: key,
		Reason:     string(rule),
		At:         at,
		Apply: func(tr vocab.Track) (vocab.Track, error) {
			offset, progress := NextState(ev.Outcome, tr.ProgressCount)
			tr.NextDueAt = vocab.DueAt(at.Add(Offset(offset)))
			tr.ProgressCount = progress
			return tr, nil
		},
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("submit evaluation for %s/%s: %w", ev.ItemID, ev.Language, err)
	}
	if res.After.NextDueAt == nil {
		return time.Time{}, fmt.Errorf("submit evaluation for %s/%s: stored track has no due time", ev.ItemID, ev.Language)
	}

	if res.Replayed {
		logger.Info("evaluation %s already applied, next due %s", key, res.After.NextDueAt.Format(time.RFC3339))
	} else {
		logger.Info("evaluated %s/%s rule=%s progress %d->%d next due %s",
			ev.ItemID, ev.Language, rule, res.Before.ProgressCount, res.After.ProgressCount,
			res.After.NextDueAt.Format(time.RFC3339))
	}
	return *res.After.NextDueAt, nil
}

// OverrideReviewTime parses an ISO 8601 timestamp and sets it as the next
// due time. Progress and the mastered flag are left alone. Returns the
// stored value.
func (s *Service) OverrideReviewTime(ctx context.Context, itemID string, lang vocab.Language, timestamp string) (time.Time, error) {
	t, err := ParseTimestamp(timestamp)
	if err != nil {
		return time.Time{}, err
	}
	return s.OverrideReviewTimeAt(ctx, itemID, lang, t)
}

// OverrideReviewTimeAt sets the next due time directly. Past times make
// the track due immediately.
func (s *Service) OverrideReviewTimeAt(ctx context.Context, itemID string, lang vocab.Language, t time.Time) (time.Time, error) {
	if err := checkLanguage(lang); err != nil {
		return time.Time{}, err
	}
	due := vocab.DueAt(t)
	res, err := s.store.UpdateTrack(ctx, itemID, lang, vocab.Change{
		Kind:   vocab.ChangeOverride,
		Reason: "manual",
		At:     s.now(),
		Apply: func(tr vocab.Track) (vocab.Track, error) {
			tr.NextDueAt = due
			return tr, nil
		},
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("override review time for %s/%s: %w", itemID, lang, err)
	}
	logger.Info("override %s/%s next due %s", itemID, lang, due.Format(time.RFC3339))
	return *res.After.NextDueAt, nil
}

// SetMastered sets or clears the mastered flag. The due time and progress
// are kept so clearing the flag resumes the previous cadence.
func (s *Service) SetMastered(ctx context.Context, itemID string, lang vocab.Language, mastered bool) error {
	if err := checkLanguage(lang); err != nil {
		return err
	}
	kind := vocab.ChangeMastered
	if !mastered {
		kind = vocab.ChangeUnmastered
	}
	_, err := s.store.UpdateTrack(ctx, itemID, lang, vocab.Change{
		Kind: kind,
		At:   s.now(),
		Apply: func(tr vocab.Track) (vocab.Track, error) {
			tr.Mastered = mastered
			return tr, nil
		},
	})
	if err != nil {
		return fmt.Errorf("set mastered for %s/%s: %w", itemID, lang, err)
	}
	logger.Info("%s/%s mastered=%v", itemID, lang, mastered)
	return nil
}

// Track returns the current track for an item and language.
func (s *Service) Track(ctx context.Context, itemID string, lang vocab.Language) (vocab.Track, error) {
	if err := checkLanguage(lang); err != nil {
		return vocab.Track{}, err
	}
	it, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return vocab.Track{}, err
	}
	return it.Track(lang), nil
}

// Now returns the service clock's current time.
func (s *Service) Now() time.Time {
	return s.now()
}

// EvaluationKey builds the default idempotency key for an evaluation.
func EvaluationKey(itemID string, lang vocab.Language, at time.Time) string {
	return fmt.Sprintf("%s/%s/%d", itemID, lang, at.UnixNano())
}

func checkLanguage(lang vocab.Language) error {
	if !lang.Valid() {
		return fmt.Errorf("%w: unknown language %q", vocab.ErrInvalidArgument, lang)
	}
	return nil
}
