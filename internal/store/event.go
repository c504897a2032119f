package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global sequence shared by track events and
// LLM request events. The two live in separate tables, so their row IDs
// cannot order one against the other; the sequence can. Next takes the
// caller's querier so a track update and its event commit together.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter seeds the counter row. The table itself is created by
// the schema migration.
func newSequenceCounter(ctx context.Context, db *sql.DB) (*sequenceCounter, error) {
	query, args := builder().Insert(sequenceTable).
		Columns(colID, colNextVal).
		Values(1, 1).
		OnConflict(entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return &sequenceCounter{}, nil
}

// Next returns the next sequence number. The builder has no UPDATE ...
// RETURNING shape, so the increment is raw SQL.
func (sc *sequenceCounter) Next(ctx context.Context, q querier) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := q.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
