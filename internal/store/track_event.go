package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

// appendTrackEvent records a track mutation on q, normally the transaction
// that wrote the track.
func appendTrackEvent(ctx context.Context, q querier, seq *sequenceCounter, e TrackEvent) error {
	seqNum, err := seq.Next(ctx, q)
	if err != nil {
		return err
	}

	var key sql.NullString
	if e.RequestKey != "" {
		key = sql.NullString{String: e.RequestKey, Valid: true}
	}

	query, args := builder().Insert(trackEvtTable).
		Columns(
			colSequence, colTimestamp, colItemID, colLanguage, colKind, colReason, colRequestKey,
			colPrevDueAt, colPrevProgress, colPrevMastered,
			colNextDueAt, colProgress, colMastered,
		).
		Values(
			seqNum, e.Timestamp.UnixNano(), e.ItemID, string(e.Language), string(e.Kind), e.Reason, key,
			unixOrNull(e.Before.NextDueAt), e.Before.ProgressCount, e.Before.Mastered,
			unixOrNull(e.After.NextDueAt), e.After.ProgressCount, e.After.Mastered,
		).
		Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append track event: %w", err)
	}
	return nil
}

func trackEventSelector(b *entsql.DialectBuilder) (*entsql.Selector, *entsql.SelectTable) {
	t := b.Table(trackEvtTable)
	return b.Select(
		t.C(colID), t.C(colSequence), t.C(colTimestamp), t.C(colItemID), t.C(colLanguage),
		t.C(colKind), t.C(colReason), t.C(colRequestKey),
		t.C(colPrevDueAt), t.C(colPrevProgress), t.C(colPrevMastered),
		t.C(colNextDueAt), t.C(colProgress), t.C(colMastered),
	).From(t), t
}

func scanTrackEvent(rows *sql.Rows) (TrackEvent, error) {
	var (
		e                 TrackEvent
		ts                int64
		lang, kind        string
		key               sql.NullString
		prevDue, afterDue sql.NullInt64
	)
	err := rows.Scan(
		&e.ID, &e.Sequence, &ts, &e.ItemID, &lang, &kind, &e.Reason, &key,
		&prevDue, &e.Before.ProgressCount, &e.Before.Mastered,
		&afterDue, &e.After.ProgressCount, &e.After.Mastered,
	)
	if err != nil {
		return TrackEvent{}, fmt.Errorf("scan track event: %w", err)
	}
	e.Timestamp = time.Unix(0, ts).UTC()
	e.Language = vocab.Language(lang)
	e.Kind = vocab.ChangeKind(kind)
	e.RequestKey = key.String
	e.Before.NextDueAt = timeOrNil(prevDue)
	e.After.NextDueAt = timeOrNil(afterDue)
	return e, nil
}

// trackEventByKey returns the event recorded under key, or nil.
func trackEventByKey(ctx context.Context, q querier, key string) (*TrackEvent, error) {
	sel, t := trackEventSelector(builder())
	query, args := sel.Where(entsql.EQ(t.C(colRequestKey), key)).Limit(1).Query()
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request key: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query request key: %w", err)
		}
		return nil, nil
	}
	e, err := scanTrackEvent(rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) QueryTrackEvents(ctx context.Context, f TrackEventFilter) ([]TrackEvent, error) {
	sel, t := trackEventSelector(builder())
	preds := queryOptsPredicates(t, f.QueryOpts)
	if f.ItemID != "" {
		preds = append(preds, entsql.EQ(t.C(colItemID), f.ItemID))
	}
	if f.Language != "" {
		preds = append(preds, entsql.EQ(t.C(colLanguage), string(f.Language)))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	sel.OrderBy(entsql.Desc(t.C(colSequence)))
	if f.Limit > 0 {
		sel.Limit(f.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query track events: %w", err)
	}
	defer rows.Close()

	var events []TrackEvent
	for rows.Next() {
		e, err := scanTrackEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// queryOptsPredicates translates sequence and time bounds into predicates
// on an event table.
func queryOptsPredicates(t *entsql.SelectTable, opts QueryOpts) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT(t.C(colSequence), opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT(t.C(colSequence), opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(t.C(colTimestamp), opts.From.UnixNano()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(t.C(colTimestamp), opts.To.UnixNano()))
	}
	return preds
}
