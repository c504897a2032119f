package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/vocabdrill/internal/llm"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

// isolate clears every variable Load reads and points the default config
// path at an empty directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"VOCABDRILL_DB", "VOCABDRILL_LANGUAGE", "VOCABDRILL_JUDGE_TIMEOUT", "VOCABDRILL_QUESTION_TIMEOUT",
		"VOCABDRILL_LLM_PROVIDER", "VOCABDRILL_ANTHROPIC_API_KEY", "VOCABDRILL_OPENAI_API_KEY",
		"VOCABDRILL_GEMINI_API_KEY", "VOCABDRILL_OPENROUTER_API_KEY", "VOCABDRILL_VERTEX_PROJECT",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func writeConfig(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, vocab.Mandarin, cfg.Language)
	assert.Equal(t, 30*time.Second, cfg.Review.JudgeTimeout)
	assert.Equal(t, 30*time.Second, cfg.Review.QuestionTimeout)
	assert.Empty(t, cfg.DBPath)
	assert.Equal(t, llm.ProviderAnthropic, cfg.LLM.Provider)
	assert.False(t, cfg.LLM.HasCredentials())
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	writeConfig(t, filepath.Join(dir, "vocabdrill", "config.toml"), `
db = "/data/words.db"
language = "Cantonese"

[review]
judge_timeout = "45s"

[llm]
provider = "gemini"

[llm.gemini]
model = "gemini-pro"

[llm.vertex]
project = "drills"
`)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/data/words.db", cfg.DBPath)
	assert.Equal(t, vocab.Cantonese, cfg.Language)
	assert.Equal(t, 45*time.Second, cfg.Review.JudgeTimeout)
	assert.Equal(t, 30*time.Second, cfg.Review.QuestionTimeout, "unset keys keep defaults")
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "gemini-pro", cfg.LLM.Gemini.Model)
	assert.Equal(t, "claude-haiku", cfg.LLM.Anthropic.Model, "unset sections keep defaults")
	assert.Equal(t, "us-east5", cfg.LLM.Vertex.Region)
	assert.True(t, cfg.LLM.HasCredentials())
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	writeConfig(t, path, `
language = "cantonese"
[review]
judge_timeout = "45s"
[llm]
provider = "openai"
`)
	t.Setenv("VOCABDRILL_LANGUAGE", "mandarin")
	t.Setenv("VOCABDRILL_JUDGE_TIMEOUT", "5s")
	t.Setenv("VOCABDRILL_DB", "/tmp/env.db")
	t.Setenv("VOCABDRILL_OPENAI_API_KEY", "sk-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, vocab.Mandarin, cfg.Language)
	assert.Equal(t, 5*time.Second, cfg.Review.JudgeTimeout)
	assert.Equal(t, "/tmp/env.db", cfg.DBPath)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-env", cfg.LLM.OpenAI.APIKey)
}

func TestLoad_DiscoversProvider(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", "sk-std")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, "sk-std", cfg.LLM.OpenAI.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		env   map[string]string
		noArg bool
	}{
		{name: "explicit file missing", noArg: true},
		{name: "bad toml", file: "language = "},
		{name: "bad language in file", file: `language = "klingon"`},
		{name: "bad duration in file", file: "[review]\njudge_timeout = \"soon\""},
		{name: "zero timeout", file: "[review]\nquestion_timeout = \"0s\""},
		{name: "bad language in env", file: "", env: map[string]string{"VOCABDRILL_LANGUAGE": "french"}},
		{name: "bad duration in env", file: "", env: map[string]string{"VOCABDRILL_JUDGE_TIMEOUT": "30"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, "config.toml")
			if !tt.noArg {
				writeConfig(t, path, tt.file)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
