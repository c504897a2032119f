package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/vocabdrill/internal/app"
	"github.com/abhisek/vocabdrill/internal/judge"
	"github.com/abhisek/vocabdrill/internal/llm"
	"github.com/abhisek/vocabdrill/internal/logger"
	"github.com/abhisek/vocabdrill/internal/practice"
	"github.com/abhisek/vocabdrill/internal/question"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Start an interactive review in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReview(cmd, true)
	},
}

// newCoach builds the LLM-backed question generator and judge with the
// configured deadlines.
func newCoach(cmd *cobra.Command, e *env) (*practice.Coach, error) {
	if !e.cfg.LLM.HasCredentials() {
		return nil, fmt.Errorf("no LLM provider configured: set VOCABDRILL_LLM_PROVIDER and its API key, " +
			"or one of ANTHROPIC_API_KEY, OPENAI_API_KEY, GEMINI_API_KEY, OPENROUTER_API_KEY")
	}
	provider, err := llm.NewProvider(cmd.Context(), e.cfg.LLM, e.store.EventRepo())
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	logger.Info("using %s (%s)", e.cfg.LLM.Provider, provider.ModelID())

	qcfg := question.DefaultConfig()
	qcfg.Timeout = e.cfg.Review.QuestionTimeout
	jcfg := judge.DefaultConfig()
	jcfg.Timeout = e.cfg.Review.JudgeTimeout

	return practice.NewCoach(e.svc, question.New(provider, qcfg), judge.New(provider, jcfg)), nil
}

// runReview opens the store, builds dependencies, and launches the TUI.
// When direct is set the review screen opens immediately.
func runReview(cmd *cobra.Command, direct bool) error {
	e, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	coach, err := newCoach(cmd, e)
	if err != nil {
		return err
	}

	// Logs would corrupt the alternate screen, so send them to a file.
	if logger.IsVerbose() {
		path := filepath.Join(filepath.Dir(e.dbPath), "vocabdrill.log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
		defer logger.SetOutput(os.Stderr)
		fmt.Fprintln(os.Stderr, "Logging to", path)
	}

	return app.Run(app.Options{
		Coach:       coach,
		Service:     e.svc,
		Items:       e.store.ItemRepo(),
		Events:      e.store.EventRepo(),
		Language:    e.cfg.Language,
		StartReview: direct,
	})
}
