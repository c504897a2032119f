package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

// ItemRepo stores vocabulary items and their per-language tracks.
type ItemRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

var _ spacedrep.TrackStore = (*ItemRepo)(nil)

// NewItem is the input for CreateItem.
type NewItem struct {
	Text    string
	Entries map[vocab.Language]string
}

// CreateItem inserts an item with a NEW track for every language.
func (r *ItemRepo) CreateItem(ctx context.Context, in NewItem) (*vocab.Item, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: empty item text", vocab.ErrInvalidArgument)
	}
	for lang := range in.Entries {
		if !lang.Valid() {
			return nil, fmt.Errorf("%w: unknown language %q", vocab.ErrInvalidArgument, lang)
		}
	}

	item := &vocab.Item{
		ID:        uuid.NewString(),
		Text:      text,
		CreatedAt: r.now().UTC(),
		Entries:   make(map[vocab.Language]string),
		Tracks:    make(map[vocab.Language]vocab.Track),
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, vocab.Retryable(fmt.Errorf("begin: %w", err))
	}
	defer tx.Rollback()

	b := builder()
	query, args := b.Insert(itemsTable).
		Columns(colID, colText, colCreatedAt).
		Values(item.ID, item.Text, item.CreatedAt.UnixNano()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, vocab.Retryable(fmt.Errorf("insert item: %w", err))
	}

	ins := b.Insert(tracksTable).Columns(colItemID, colLanguage, colEntry, colProgress, colMastered, colUpdatedAt)
	for _, lang := range vocab.Languages {
		entry := strings.TrimSpace(in.Entries[lang])
		if entry != "" {
			item.Entries[lang] = entry
		}
		item.Tracks[lang] = vocab.Track{}
		ins.Values(item.ID, string(lang), entry, 0, false, item.CreatedAt.UnixNano())
	}
	query, args = ins.Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, vocab.Retryable(fmt.Errorf("insert tracks: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, vocab.Retryable(fmt.Errorf("commit: %w", err))
	}
	return item, nil
}

// GetItem returns the item with all its tracks.
func (r *ItemRepo) GetItem(ctx context.Context, id string) (*vocab.Item, error) {
	item, err := loadItem(ctx, r.db, id)
	if err != nil {
		return nil, vocab.Retryable(err)
	}
	return item, nil
}

// FindItem resolves ref as an item ID, then as the item text. Text
// matches return the earliest created item.
func (r *ItemRepo) FindItem(ctx context.Context, ref string) (*vocab.Item, error) {
	item, err := r.GetItem(ctx, ref)
	if err == nil || !errors.Is(err, vocab.ErrNotFound) {
		return item, err
	}

	b := builder()
	t := b.Table(itemsTable)
	query, args := b.Select(t.C(colID)).From(t).
		Where(entsql.EQ(t.C(colText), strings.TrimSpace(ref))).
		OrderBy(t.C(colCreatedAt), t.C(colID)).
		Limit(1).
		Query()
	id, err := scanID(ctx, r.db, query, args)
	if err != nil {
		return nil, vocab.Retryable(err)
	}
	if id == "" {
		return nil, fmt.Errorf("item %q: %w", ref, vocab.ErrNotFound)
	}
	return r.GetItem(ctx, id)
}

// ListItems returns every item in creation order.
func (r *ItemRepo) ListItems(ctx context.Context) ([]*vocab.Item, error) {
	b := builder()
	t := b.Table(itemsTable)
	query, args := b.Select(t.C(colID), t.C(colText), t.C(colCreatedAt)).From(t).
		OrderBy(t.C(colCreatedAt), t.C(colID)).
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, vocab.Retryable(fmt.Errorf("query items: %w", err))
	}
	var items []*vocab.Item
	byID := make(map[string]*vocab.Item)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, vocab.Retryable(err)
		}
		items = append(items, item)
		byID[item.ID] = item
	}
	if err := closeRows(rows); err != nil {
		return nil, vocab.Retryable(fmt.Errorf("query items: %w", err))
	}

	tt := b.Table(tracksTable)
	query, args = trackColumns(b, tt).From(tt).Query()
	if err := loadTracks(ctx, r.db, query, args, func(id string) *vocab.Item { return byID[id] }); err != nil {
		return nil, vocab.Retryable(err)
	}
	return items, nil
}

// OldestDue returns the unmastered item whose track is due soonest at or
// before now, ties broken by item ID.
func (r *ItemRepo) OldestDue(ctx context.Context, lang vocab.Language, now time.Time) (*vocab.Item, error) {
	b := builder()
	t := b.Table(tracksTable)
	query, args := b.Select(t.C(colItemID)).From(t).
		Where(entsql.And(
			entsql.EQ(t.C(colLanguage), string(lang)),
			entsql.EQ(t.C(colMastered), false),
			entsql.NotNull(t.C(colNextDueAt)),
			entsql.LTE(t.C(colNextDueAt), now.Unix()),
		)).
		OrderBy(t.C(colNextDueAt), t.C(colItemID)).
		Limit(1).
		Query()
	return r.firstItem(ctx, query, args)
}

// EarliestNew returns the unmastered never-scheduled item created first.
func (r *ItemRepo) EarliestNew(ctx context.Context, lang vocab.Language) (*vocab.Item, error) {
	b := builder()
	t := b.Table(tracksTable)
	i := b.Table(itemsTable)
	query, args := b.Select(t.C(colItemID)).From(t).
		Join(i).On(t.C(colItemID), i.C(colID)).
		Where(entsql.And(
			entsql.EQ(t.C(colLanguage), string(lang)),
			entsql.EQ(t.C(colMastered), false),
			entsql.IsNull(t.C(colNextDueAt)),
		)).
		OrderBy(i.C(colCreatedAt), i.C(colID)).
		Limit(1).
		Query()
	return r.firstItem(ctx, query, args)
}

// SoonestUpcoming returns the earliest due time after now among unmastered
// tracks, or nil if there is none.
func (r *ItemRepo) SoonestUpcoming(ctx context.Context, lang vocab.Language, now time.Time) (*time.Time, error) {
	b := builder()
	t := b.Table(tracksTable)
	query, args := b.Select(entsql.Min(t.C(colNextDueAt))).From(t).
		Where(entsql.And(
			entsql.EQ(t.C(colLanguage), string(lang)),
			entsql.EQ(t.C(colMastered), false),
			entsql.GT(t.C(colNextDueAt), now.Unix()),
		)).
		Query()
	var soonest sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&soonest); err != nil {
		return nil, fmt.Errorf("query upcoming: %w", err)
	}
	return timeOrNil(soonest), nil
}

// UpdateTrack applies change to one track inside a transaction and appends
// the matching track event. A change whose request key was already
// recorded returns the recorded result and writes nothing.
func (r *ItemRepo) UpdateTrack(ctx context.Context, itemID string, lang vocab.Language, change vocab.Change) (vocab.ChangeResult, error) {
	res, err := r.updateTrack(ctx, itemID, lang, change)
	if err != nil {
		return vocab.ChangeResult{}, vocab.Retryable(err)
	}
	return res, nil
}

func (r *ItemRepo) updateTrack(ctx context.Context, itemID string, lang vocab.Language, change vocab.Change) (vocab.ChangeResult, error) {
	if !lang.Valid() {
		return vocab.ChangeResult{}, fmt.Errorf("%w: unknown language %q", vocab.ErrInvalidArgument, lang)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return vocab.ChangeResult{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	before, err := readTrack(ctx, tx, itemID, lang)
	if err != nil {
		return vocab.ChangeResult{}, err
	}

	if change.RequestKey != "" {
		prior, err := trackEventByKey(ctx, tx, change.RequestKey)
		if err != nil {
			return vocab.ChangeResult{}, err
		}
		if prior != nil {
			if prior.ItemID != itemID || prior.Language != lang {
				return vocab.ChangeResult{}, fmt.Errorf("%w: request key %q already used for %s/%s",
					vocab.ErrInvalidArgument, change.RequestKey, prior.ItemID, prior.Language)
			}
			return vocab.ChangeResult{Before: before, After: prior.After, Replayed: true}, nil
		}
	}

	after, err := change.Apply(before)
	if err != nil {
		return vocab.ChangeResult{}, err
	}
	if after.NextDueAt != nil {
		after.NextDueAt = vocab.DueAt(*after.NextDueAt)
	}
	if err := after.Validate(); err != nil {
		return vocab.ChangeResult{}, err
	}

	stamp := r.now()
	query, args := builder().Update(tracksTable).
		Set(colNextDueAt, unixOrNull(after.NextDueAt)).
		Set(colProgress, after.ProgressCount).
		Set(colMastered, after.Mastered).
		Set(colUpdatedAt, stamp.UnixNano()).
		Where(entsql.And(
			entsql.EQ(colItemID, itemID),
			entsql.EQ(colLanguage, string(lang)),
		)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return vocab.ChangeResult{}, fmt.Errorf("update track: %w", err)
	}

	at := change.At
	if at.IsZero() {
		at = stamp
	}
	if err := appendTrackEvent(ctx, tx, r.seq, TrackEvent{
		Timestamp:  at,
		ItemID:     itemID,
		Language:   lang,
		Kind:       change.Kind,
		Reason:     change.Reason,
		RequestKey: change.RequestKey,
		Before:     before,
		After:      after,
	}); err != nil {
		return vocab.ChangeResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return vocab.ChangeResult{}, fmt.Errorf("commit: %w", err)
	}
	return vocab.ChangeResult{Before: before, After: after}, nil
}

// firstItem runs a single-ID query and loads the matching item.
func (r *ItemRepo) firstItem(ctx context.Context, query string, args []any) (*vocab.Item, error) {
	id, err := scanID(ctx, r.db, query, args)
	if err != nil || id == "" {
		return nil, err
	}
	return loadItem(ctx, r.db, id)
}

func scanID(ctx context.Context, q querier, query string, args []any) (string, error) {
	var id string
	err := q.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query item id: %w", err)
	}
	return id, nil
}

func loadItem(ctx context.Context, q querier, id string) (*vocab.Item, error) {
	b := builder()
	t := b.Table(itemsTable)
	query, args := b.Select(t.C(colID), t.C(colText), t.C(colCreatedAt)).From(t).
		Where(entsql.EQ(t.C(colID), id)).
		Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	var item *vocab.Item
	if rows.Next() {
		item, err = scanItem(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", id, vocab.ErrNotFound)
	}

	tt := b.Table(tracksTable)
	query, args = trackColumns(b, tt).From(tt).
		Where(entsql.EQ(tt.C(colItemID), id)).
		Query()
	if err := loadTracks(ctx, q, query, args, func(string) *vocab.Item { return item }); err != nil {
		return nil, err
	}
	return item, nil
}

func scanItem(rows *sql.Rows) (*vocab.Item, error) {
	var (
		item    vocab.Item
		created int64
	)
	if err := rows.Scan(&item.ID, &item.Text, &created); err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}
	item.CreatedAt = time.Unix(0, created).UTC()
	item.Entries = make(map[vocab.Language]string)
	item.Tracks = make(map[vocab.Language]vocab.Track)
	return &item, nil
}

func trackColumns(b *entsql.DialectBuilder, t *entsql.SelectTable) *entsql.Selector {
	return b.Select(
		t.C(colItemID), t.C(colLanguage), t.C(colEntry),
		t.C(colNextDueAt), t.C(colProgress), t.C(colMastered),
	)
}

// loadTracks scans track rows into the items returned by owner. Rows for
// unknown items or languages are skipped.
func loadTracks(ctx context.Context, q querier, query string, args []any, owner func(id string) *vocab.Item) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			itemID, lang, entry string
			due                 sql.NullInt64
			tr                  vocab.Track
		)
		if err := rows.Scan(&itemID, &lang, &entry, &due, &tr.ProgressCount, &tr.Mastered); err != nil {
			return fmt.Errorf("scan track: %w", err)
		}
		item := owner(itemID)
		if item == nil || !vocab.Language(lang).Valid() {
			continue
		}
		tr.NextDueAt = timeOrNil(due)
		item.Tracks[vocab.Language(lang)] = tr
		if entry != "" {
			item.Entries[vocab.Language(lang)] = entry
		}
	}
	return rows.Err()
}

func readTrack(ctx context.Context, q querier, itemID string, lang vocab.Language) (vocab.Track, error) {
	b := builder()
	t := b.Table(tracksTable)
	query, args := b.Select(t.C(colNextDueAt), t.C(colProgress), t.C(colMastered)).From(t).
		Where(entsql.And(
			entsql.EQ(t.C(colItemID), itemID),
			entsql.EQ(t.C(colLanguage), string(lang)),
		)).
		Query()
	var (
		tr  vocab.Track
		due sql.NullInt64
	)
	err := q.QueryRowContext(ctx, query, args...).Scan(&due, &tr.ProgressCount, &tr.Mastered)
	if errors.Is(err, sql.ErrNoRows) {
		return vocab.Track{}, fmt.Errorf("item %s: %w", itemID, vocab.ErrNotFound)
	}
	if err != nil {
		return vocab.Track{}, fmt.Errorf("read track: %w", err)
	}
	tr.NextDueAt = timeOrNil(due)
	return tr, nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}
