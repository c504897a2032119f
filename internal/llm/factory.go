package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/vocabdrill/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped so that every
// attempt is logged and transient failures are retried:
// caller → retry → logging → base.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(ctx, cfg.Anthropic, cfg.Vertex)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini, cfg.Vertex)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	logged := WithLogging(base, cfg.Provider, eventRepo)
	return WithRetry(logged, cfg.Retry), nil
}
