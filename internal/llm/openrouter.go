package llm

import (
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// Vendors whose OpenRouter models honour strict json_schema output. Anything
// else (deepseek, qwen and other Chinese-first models included) gets the
// schema inline.
var strictSchemaVendors = []string{"openai/", "google/", "anthropic/"}

// OpenRouterProvider is an OpenAIProvider pointed at OpenRouter. Model IDs
// are passed through as "vendor/model".
type OpenRouterProvider struct {
	*OpenAIProvider
}

// NewOpenRouterProvider creates a provider targeting the OpenRouter API.
// Requests carry OpenRouter's app attribution headers.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenRouterProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openrouter API key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("openrouter model is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	config.BaseURL = defaultOpenRouterBaseURL
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	config.HTTPClient = &http.Client{Transport: attributionTransport{base: http.DefaultTransport}}

	return &OpenRouterProvider{
		OpenAIProvider: newOpenAICompatible(config, cfg.Model, openRouterSchemaMode(cfg.Model)),
	}, nil
}

func openRouterSchemaMode(model string) schemaMode {
	for _, v := range strictSchemaVendors {
		if strings.HasPrefix(model, v) {
			return schemaStrict
		}
	}
	return schemaInline
}

// attributionTransport identifies vocabdrill to OpenRouter.
type attributionTransport struct {
	base http.RoundTripper
}

func (t attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("X-Title", "vocabdrill")
	req.Header.Set("HTTP-Referer", "https://github.com/abhisek/vocabdrill")
	return t.base.RoundTrip(req)
}
