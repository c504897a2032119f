package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"

	"github.com/abhisek/vocabdrill/internal/logger"
	"github.com/abhisek/vocabdrill/internal/vocab"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite connection and hands out repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequenceCounter
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for created_at and updated_at
// stamps, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas, runs auto-migration and back-fills a new
// track for every language an item is missing.
func Open(dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite", withTxLock(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection: a single writer, and pragmas that stick.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	s := &Store{db: db, drv: drv, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	ctx := context.Background()
	if err := s.migrate(ctx); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	s.seq, err = newSequenceCounter(ctx, db)
	if err != nil {
		drv.Close()
		return nil, err
	}

	if err := s.backfillTracks(ctx); err != nil {
		drv.Close()
		return nil, fmt.Errorf("back-fill tracks: %w", err)
	}

	return s, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// ItemRepo returns the item and track repository.
func (s *Store) ItemRepo() *ItemRepo {
	return &ItemRepo{db: s.db, seq: s.seq, now: s.now}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq, now: s.now}
}

func (s *Store) migrate(ctx context.Context) error {
	m, err := schema.NewMigrate(s.drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

// backfillTracks inserts a NEW track for every (item, language) pair that
// has no row yet, so adding a language never needs a data migration.
func (s *Store) backfillTracks(ctx context.Context) error {
	stamp := s.now().UnixNano()
	for _, lang := range vocab.Languages {
		res, err := s.db.ExecContext(ctx, `INSERT INTO `+tracksTable+`
			(`+colItemID+`, `+colLanguage+`, `+colEntry+`, `+colProgress+`, `+colMastered+`, `+colUpdatedAt+`)
			SELECT i.`+colID+`, ?, '', 0, 0, ? FROM `+itemsTable+` i
			WHERE NOT EXISTS (
				SELECT 1 FROM `+tracksTable+` t
				WHERE t.`+colItemID+` = i.`+colID+` AND t.`+colLanguage+` = ?
			)`,
			string(lang), stamp, string(lang))
		if err != nil {
			return fmt.Errorf("%s: %w", lang, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			logger.Info("back-filled %d %s tracks", n, lang)
		}
	}
	return nil
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// withTxLock makes file databases take the write lock at BEGIN, so a
// read-modify-write never fails halfway on lock upgrade.
func withTxLock(dsn string) string {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "_txlock=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_txlock=immediate"
}

// DefaultDBPath resolves the database file path in priority order:
// 1. VOCABDRILL_DB environment variable
// 2. $XDG_DATA_HOME/vocabdrill/vocabdrill.db
// 3. ~/.local/share/vocabdrill/vocabdrill.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("VOCABDRILL_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "vocabdrill", "vocabdrill.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

func unixOrNull(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func timeOrNil(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
