package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabdrill/internal/config"
	"github.com/abhisek/vocabdrill/internal/spacedrep"
	"github.com/abhisek/vocabdrill/internal/store"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

// env bundles what most commands need: resolved config, an open store and
// the scheduler over it.
type env struct {
	cfg    config.Config
	dbPath string
	store  *store.Store
	svc    *spacedrep.Service
}

func (e *env) Close() error {
	return e.store.Close()
}

// loadConfig resolves config from --config, then applies --db and --lang.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}
	if l, _ := cmd.Flags().GetString("lang"); l != "" {
		lang, err := vocab.ParseLanguage(l)
		if err != nil {
			return cfg, err
		}
		cfg.Language = lang
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, or the default XDG
// path when none is set.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &env{
		cfg:    cfg,
		dbPath: dbPath,
		store:  st,
		svc:    spacedrep.NewService(st.ItemRepo()),
	}, nil
}

// findItem resolves an item by ID or text.
func (e *env) findItem(cmd *cobra.Command, ref string) (*vocab.Item, error) {
	return e.store.ItemRepo().FindItem(cmd.Context(), ref)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// trackState is a one-word label for a track at now.
func trackState(tr vocab.Track, now time.Time) string {
	switch {
	case tr.Mastered:
		return "mastered"
	case tr.IsNew():
		return "new"
	case tr.IsDue(now):
		return "due"
	}
	return "in " + spacedrep.FormatMinutes(spacedrep.MinutesUntil(now, *tr.NextDueAt))
}
