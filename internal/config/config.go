// Package config loads vocabdrill settings from defaults, an optional TOML
// file and the environment. Command-line flags are applied last by cmd.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/abhisek/vocabdrill/internal/llm"
	"github.com/abhisek/vocabdrill/internal/logger"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

// Config is the resolved application configuration.
type Config struct {
	// DBPath is the SQLite database file. Empty means store.DefaultDBPath.
	DBPath string

	// Language is the default practice language.
	Language vocab.Language

	Review ReviewConfig
	LLM    llm.Config
}

// ReviewConfig bounds the external calls made during a practice turn.
type ReviewConfig struct {
	JudgeTimeout    time.Duration
	QuestionTimeout time.Duration
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Language: vocab.Mandarin,
		Review: ReviewConfig{
			JudgeTimeout:    30 * time.Second,
			QuestionTimeout: 30 * time.Second,
		},
		LLM: llm.DefaultConfig(),
	}
}

// fileConfig mirrors the TOML layout. Durations are strings such as "45s".
type fileConfig struct {
	DB       string `toml:"db"`
	Language string `toml:"language"`
	Review   struct {
		JudgeTimeout    string `toml:"judge_timeout"`
		QuestionTimeout string `toml:"question_timeout"`
	} `toml:"review"`
	LLM llm.Config `toml:"llm"`
}

// DefaultPath returns $XDG_CONFIG_HOME/vocabdrill/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "vocabdrill", "config.toml"), nil
}

// Load resolves configuration from defaults, the TOML file at path and the
// environment. An empty path uses DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	if err := applyFile(&cfg, path); err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			logger.Debug("no config file at %s", path)
		} else {
			return cfg, err
		}
	} else {
		logger.Debug("loaded config from %s", path)
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	if !cfg.LLM.HasCredentials() {
		if discovered, ok := llm.DiscoverConfig(cfg.LLM); ok {
			logger.Info("using %s provider from standard API key variables", discovered.Provider)
			cfg.LLM = discovered
		}
	}

	return cfg, cfg.Validate()
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fc := fileConfig{LLM: cfg.LLM}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.LLM = fc.LLM
	if fc.DB != "" {
		cfg.DBPath = fc.DB
	}
	if fc.Language != "" {
		lang, err := vocab.ParseLanguage(fc.Language)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		cfg.Language = lang
	}
	if err := setDuration(&cfg.Review.JudgeTimeout, fc.Review.JudgeTimeout, "review.judge_timeout"); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := setDuration(&cfg.Review.QuestionTimeout, fc.Review.QuestionTimeout, "review.question_timeout"); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("VOCABDRILL_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("VOCABDRILL_LANGUAGE"); v != "" {
		lang, err := vocab.ParseLanguage(v)
		if err != nil {
			return fmt.Errorf("VOCABDRILL_LANGUAGE: %w", err)
		}
		cfg.Language = lang
	}
	if err := setDuration(&cfg.Review.JudgeTimeout, os.Getenv("VOCABDRILL_JUDGE_TIMEOUT"), "VOCABDRILL_JUDGE_TIMEOUT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.Review.QuestionTimeout, os.Getenv("VOCABDRILL_QUESTION_TIMEOUT"), "VOCABDRILL_QUESTION_TIMEOUT"); err != nil {
		return err
	}
	llm.ApplyEnv(&cfg.LLM)
	return nil
}

func setDuration(dst *time.Duration, raw, name string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", vocab.ErrInvalidArgument, name, err)
	}
	*dst = d
	return nil
}

// Validate checks values that have no sensible fallback. LLM credentials
// are not required here; commands that call a provider check them.
func (c Config) Validate() error {
	if !c.Language.Valid() {
		return fmt.Errorf("%w: unknown language %q", vocab.ErrInvalidArgument, c.Language)
	}
	if c.Review.JudgeTimeout <= 0 {
		return fmt.Errorf("%w: judge timeout must be positive", vocab.ErrInvalidArgument)
	}
	if c.Review.QuestionTimeout <= 0 {
		return fmt.Errorf("%w: question timeout must be positive", vocab.ErrInvalidArgument)
	}
	return nil
}
