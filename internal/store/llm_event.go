package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

// eventRepo implements EventRepo backed by the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	seqNum, err := r.seq.Next(ctx, tx)
	if err != nil {
		return err
	}

	var errMsg sql.NullString
	if data.ErrorMessage != "" {
		errMsg = sql.NullString{String: data.ErrorMessage, Valid: true}
	}

	query, args := builder().Insert(llmEventsTable).
		Columns(
			colSequence, colTimestamp, colProvider, colModel, colPurpose,
			colInputTokens, colOutputTokens, colLatencyMs, colSuccess, colErrorMessage,
			colRequestBody, colResponseBody, colSubjectItem, colSubjectLang,
		).
		Values(
			seqNum, r.now().UnixNano(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success, errMsg,
			data.RequestBody, data.ResponseBody, data.ItemID, string(data.Language),
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}

	return tx.Commit()
}

func llmEventSelector(b *entsql.DialectBuilder) (*entsql.Selector, *entsql.SelectTable) {
	t := b.Table(llmEventsTable)
	return b.Select(
		t.C(colID), t.C(colSequence), t.C(colTimestamp), t.C(colProvider), t.C(colModel),
		t.C(colPurpose), t.C(colInputTokens), t.C(colOutputTokens), t.C(colLatencyMs),
		t.C(colSuccess), t.C(colErrorMessage), t.C(colRequestBody), t.C(colResponseBody),
		t.C(colSubjectItem), t.C(colSubjectLang),
	).From(t), t
}

func scanLLMEvent(sc interface{ Scan(...any) error }) (LLMRequestEvent, error) {
	var (
		e      LLMRequestEvent
		ts     int64
		errMsg sql.NullString
		lang   string
	)
	err := sc.Scan(
		&e.ID, &e.Sequence, &ts, &e.Provider, &e.Model,
		&e.Purpose, &e.InputTokens, &e.OutputTokens, &e.LatencyMs,
		&e.Success, &errMsg, &e.RequestBody, &e.ResponseBody,
		&e.ItemID, &lang,
	)
	if err != nil {
		return LLMRequestEvent{}, err
	}
	e.Timestamp = time.Unix(0, ts).UTC()
	e.ErrorMessage = errMsg.String
	e.Language = vocab.Language(lang)
	return e, nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, f LLMEventFilter) ([]LLMRequestEvent, error) {
	sel, t := llmEventSelector(builder())
	preds := queryOptsPredicates(t, f.QueryOpts)
	if f.Purpose != "" {
		preds = append(preds, entsql.EQ(t.C(colPurpose), f.Purpose))
	}
	if f.ItemID != "" {
		preds = append(preds, entsql.EQ(t.C(colSubjectItem), f.ItemID))
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
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var events []LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	sel, t := llmEventSelector(builder())
	query, args := sel.Where(entsql.EQ(t.C(colID), id)).Query()
	e, err := scanLLMEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, colPurpose)
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.usage(ctx, colModel)
}

func (r *eventRepo) usage(ctx context.Context, groupBy string) ([]LLMUsage, error) {
	b := builder()
	t := b.Table(llmEventsTable)
	query, args := b.Select(
		t.C(groupBy),
		entsql.Count("*"),
		entsql.Sum(t.C(colInputTokens)),
		entsql.Sum(t.C(colOutputTokens)),
		entsql.Avg(t.C(colLatencyMs)),
	).From(t).
		GroupBy(t.C(groupBy)).
		OrderBy(t.C(groupBy)).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var (
			u             LLMUsage
			key           string
			avgMs         float64
			inTok, outTok int64
		)
		if err := rows.Scan(&key, &u.Calls, &inTok, &outTok, &avgMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		u.InputTokens, u.OutputTokens = int(inTok), int(outTok)
		u.AvgLatencyMs = int64(avgMs)
		if groupBy == colPurpose {
			u.Purpose = key
		} else {
			u.Model = key
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
