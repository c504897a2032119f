package llm

import (
	"fmt"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider is one of the Provider* names.
	Provider string `toml:"provider"`

	Anthropic  AnthropicConfig  `toml:"anthropic"`
	OpenAI     OpenAIConfig     `toml:"openai"`
	Gemini     GeminiConfig     `toml:"gemini"`
	OpenRouter OpenRouterConfig `toml:"openrouter"`

	// Vertex routes Anthropic and Gemini through Google Cloud Vertex AI
	// when Project is set. Credentials come from Application Default
	// Credentials.
	Vertex VertexConfig `toml:"vertex"`

	Retry RetryConfig `toml:"-"`
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"` // Default: "claude-haiku"
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`    // Default: "gpt-4o-mini"
	BaseURL string `toml:"base_url"` // Optional, for OpenAI-compatible APIs.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"` // Default: "gemini-flash"
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string `toml:"api_key"`
	Model   string `toml:"model"`    // Default: "google/gemini-2.5-flash"
	BaseURL string `toml:"base_url"` // Default: "https://openrouter.ai/api/v1"
}

// VertexConfig selects a Google Cloud project and region.
type VertexConfig struct {
	Project string `toml:"project"`
	Region  string `toml:"region"` // Default: "us-east5"
}

// Enabled reports whether Vertex AI routing is configured.
func (v VertexConfig) Enabled() bool {
	return v.Project != ""
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderAnthropic,
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-flash",
		},
		Vertex: VertexConfig{
			Region: "us-east5",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 1 * time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ApplyEnv overrides cfg with VOCABDRILL_* environment variables.
func ApplyEnv(cfg *Config) {
	setFromEnv(&cfg.Provider, "VOCABDRILL_LLM_PROVIDER")

	setFromEnv(&cfg.Anthropic.APIKey, "VOCABDRILL_ANTHROPIC_API_KEY")
	setFromEnv(&cfg.Anthropic.Model, "VOCABDRILL_ANTHROPIC_MODEL")

	setFromEnv(&cfg.OpenAI.APIKey, "VOCABDRILL_OPENAI_API_KEY")
	setFromEnv(&cfg.OpenAI.Model, "VOCABDRILL_OPENAI_MODEL")
	setFromEnv(&cfg.OpenAI.BaseURL, "VOCABDRILL_OPENAI_BASE_URL")

	setFromEnv(&cfg.Gemini.APIKey, "VOCABDRILL_GEMINI_API_KEY")
	setFromEnv(&cfg.Gemini.Model, "VOCABDRILL_GEMINI_MODEL")

	setFromEnv(&cfg.OpenRouter.APIKey, "VOCABDRILL_OPENROUTER_API_KEY")
	setFromEnv(&cfg.OpenRouter.Model, "VOCABDRILL_OPENROUTER_MODEL")

	setFromEnv(&cfg.Vertex.Project, "VOCABDRILL_VERTEX_PROJECT")
	setFromEnv(&cfg.Vertex.Region, "VOCABDRILL_VERTEX_REGION")
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	ApplyEnv(&cfg)
	return cfg
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// DiscoverConfig checks standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns base with the
// first provider whose key is found.
func DiscoverConfig(base Config) (Config, bool) {
	cfg := base

	if k := os.Getenv("GEMINI_API_KEY"); k != "" {
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENAI_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("ANTHROPIC_API_KEY"); k != "" {
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = k
		return cfg, true
	}
	if k := os.Getenv("OPENROUTER_API_KEY"); k != "" {
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = k
		return cfg, true
	}

	return base, false
}

// Validate checks that the selected provider has the credentials it needs.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderAnthropic:
		if c.Anthropic.APIKey == "" && !c.Vertex.Enabled() {
			return fmt.Errorf("VOCABDRILL_ANTHROPIC_API_KEY or VOCABDRILL_VERTEX_PROJECT is required for the anthropic provider")
		}
	case ProviderOpenAI:
		if c.OpenAI.APIKey == "" {
			return fmt.Errorf("VOCABDRILL_OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderGemini:
		if c.Gemini.APIKey == "" && !c.Vertex.Enabled() {
			return fmt.Errorf("VOCABDRILL_GEMINI_API_KEY or VOCABDRILL_VERTEX_PROJECT is required for the gemini provider")
		}
	case ProviderOpenRouter:
		if c.OpenRouter.APIKey == "" {
			return fmt.Errorf("VOCABDRILL_OPENROUTER_API_KEY is required for the openrouter provider")
		}
	case ProviderMock:
		// No credentials needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	return nil
}

// HasCredentials reports whether Validate would pass.
func (c Config) HasCredentials() bool {
	return c.Validate() == nil
}
