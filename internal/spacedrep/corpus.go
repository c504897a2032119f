package spacedrep

import (
	"context"
	"time"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

// Corpus is an in-memory TrackQuery over a snapshot of items.
type Corpus struct {
	items []*vocab.Item
}

var _ TrackQuery = (*Corpus)(nil)

// NewCorpus creates a query view over items. The slice is not copied.
func NewCorpus(items []*vocab.Item) *Corpus {
	return &Corpus{items: items}
}

func (c *Corpus) OldestDue(_ context.Context, lang vocab.Language, now time.Time) (*vocab.Item, error) {
	var best *vocab.Item
	var bestDue time.Time
	for _, it := range c.items {
		tr := it.Track(lang)
		if !tr.IsDue(now) {
			continue
		}
		due := *tr.NextDueAt
		if best == nil || due.Before(bestDue) || (due.Equal(bestDue) && it.ID < best.ID) {
			best, bestDue = it, due
		}
	}
	return best, nil
}

func (c *Corpus) EarliestNew(_ context.Context, lang vocab.Language) (*vocab.Item, error) {
	var best *vocab.Item
	for _, it := range c.items {
		tr := it.Track(lang)
		if tr.Mastered || !tr.IsNew() {
			continue
		}
		if best == nil || it.CreatedAt.Before(best.CreatedAt) ||
			(it.CreatedAt.Equal(best.CreatedAt) && it.ID < best.ID) {
			best = it
		}
	}
	return best, nil
}

func (c *Corpus) SoonestUpcoming(_ context.Context, lang vocab.Language, now time.Time) (*time.Time, error) {
	var soonest *time.Time
	for _, it := range c.items {
		tr := it.Track(lang)
		if tr.Mastered || tr.NextDueAt == nil || !tr.NextDueAt.After(now) {
			continue
		}
		if soonest == nil || tr.NextDueAt.Before(*soonest) {
			d := *tr.NextDueAt
			soonest = &d
		}
	}
	return soonest, nil
}
