package spacedrep

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

// TrackQuery is the read side of the item store used for selection.
// Every method ignores mastered tracks and returns nil when nothing
// qualifies.
type TrackQuery interface {
	// OldestDue returns the item whose track is scheduled at or before now
	// with the smallest due time, ties broken by smallest item ID.
	OldestDue(ctx context.Context, lang vocab.Language, now time.Time) (*vocab.Item, error)

	// EarliestNew returns the never-scheduled item with the earliest
	// creation time, ties broken by smallest item ID.
	EarliestNew(ctx context.Context, lang vocab.Language) (*vocab.Item, error)

	// SoonestUpcoming returns the smallest due time after now.
	SoonestUpcoming(ctx context.Context, lang vocab.Language, now time.Time) (*time.Time, error)
}

// Tier identifies which search tier produced a selection.
type Tier string

const (
	TierDue  Tier = "due"
	TierNew  Tier = "new"
	TierNone Tier = "none"
)

// Selection is the result of a queue search. When nothing is selectable
// Item is nil and Tier is TierNone; HasETA tells whether a future review
// exists.
type Selection struct {
	Item       *vocab.Item
	Tier       Tier
	ETAMinutes int
	HasETA     bool
}

// Available reports whether an item was selected.
func (s Selection) Available() bool {
	return s.Item != nil
}

// Selector picks the next item to present for a language.
type Selector struct {
	query TrackQuery
}

// NewSelector creates a selector over the given query view.
func NewSelector(q TrackQuery) *Selector {
	return &Selector{query: q}
}

// Next runs the due, new and upcoming tiers in order and stops at the
// first non-empty one. An empty or fully mastered corpus yields TierNone
// without an ETA, never an error.
func (s *Selector) Next(ctx context.Context, lang vocab.Language, now time.Time) (Selection, error) {
	due, err := s.query.OldestDue(ctx, lang, now)
	if err != nil {
		return Selection{}, fmt.Errorf("query due tier: %w", err)
	}
	if due != nil {
		return Selection{Item: due, Tier: TierDue}, nil
	}

	fresh, err := s.query.EarliestNew(ctx, lang)
	if err != nil {
		return Selection{}, fmt.Errorf("query new tier: %w", err)
	}
	if fresh != nil {
		return Selection{Item: fresh, Tier: TierNew}, nil
	}

	soonest, err := s.query.SoonestUpcoming(ctx, lang, now)
	if err != nil {
		return Selection{}, fmt.Errorf("query upcoming tier: %w", err)
	}
	if soonest == nil {
		return Selection{Tier: TierNone}, nil
	}
	return Selection{
		Tier:       TierNone,
		ETAMinutes: MinutesUntil(now, *soonest),
		HasETA:     true,
	}, nil
}

// MinutesUntil returns the whole minutes from now until t, rounded up.
// Returns 0 if t is not after now.
func MinutesUntil(now, t time.Time) int {
	d := t.Sub(now)
	if d <= 0 {
		return 0
	}
	minutes := int(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes
}
