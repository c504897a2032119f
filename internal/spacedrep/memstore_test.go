package spacedrep

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

// memStore is an in-memory TrackStore for service tests.
type memStore struct {
	mu      sync.Mutex
	items   map[string]*vocab.Item
	applied map[string]vocab.Track
	changes []vocab.Change
	failOn  error
}

var _ TrackStore = (*memStore)(nil)

func newMemStore(items ...*vocab.Item) *memStore {
	m := &memStore{
		items:   make(map[string]*vocab.Item),
		applied: make(map[string]vocab.Track),
	}
	for _, it := range items {
		m.items[it.ID] = it
	}
	return m
}

func (m *memStore) corpus() *Corpus {
	list := make([]*vocab.Item, 0, len(m.items))
	for _, it := range m.items {
		list = append(list, it)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return NewCorpus(list)
}

func (m *memStore) OldestDue(ctx context.Context, lang vocab.Language, now time.Time) (*vocab.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.corpus().OldestDue(ctx, lang, now)
}

func (m *memStore) EarliestNew(ctx context.Context, lang vocab.Language) (*vocab.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.corpus().EarliestNew(ctx, lang)
}

func (m *memStore) SoonestUpcoming(ctx context.Context, lang vocab.Language, now time.Time) (*time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.corpus().SoonestUpcoming(ctx, lang, now)
}

func (m *memStore) GetItem(_ context.Context, id string) (*vocab.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("item %s: %w", id, vocab.ErrNotFound)
	}
	return it, nil
}

func (m *memStore) UpdateTrack(_ context.Context, itemID string, lang vocab.Language, ch vocab.Change) (vocab.ChangeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return vocab.ChangeResult{}, vocab.Retryable(m.failOn)
	}
	it, ok := m.items[itemID]
	if !ok {
		return vocab.ChangeResult{}, fmt.Errorf("item %s: %w", itemID, vocab.ErrNotFound)
	}
	before := it.Track(lang)
	if ch.RequestKey != "" {
		if after, seen := m.applied[ch.RequestKey]; seen {
			return vocab.ChangeResult{Before: before, After: after, Replayed: true}, nil
		}
	}
	after, err := ch.Apply(before)
	if err != nil {
		return vocab.ChangeResult{}, err
	}
	if err := after.Validate(); err != nil {
		return vocab.ChangeResult{}, err
	}
	if it.Tracks == nil {
		it.Tracks = make(map[vocab.Language]vocab.Track)
	}
	it.Tracks[lang] = after
	if ch.RequestKey != "" {
		m.applied[ch.RequestKey] = after
	}
	m.changes = append(m.changes, ch)
	return vocab.ChangeResult{Before: before, After: after}, nil
}

func at(t time.Time) *time.Time { return &t }

func newItem(id string, created time.Time, tracks map[vocab.Language]vocab.Track) *vocab.Item {
	return &vocab.Item{ID: id, Text: id, CreatedAt: created, Tracks: tracks}
}
