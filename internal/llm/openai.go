package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels maps friendly names to OpenAI model IDs.
var openaiModels = map[string]string{
	"gpt-4o":       "gpt-4o",
	"gpt-4o-mini":  "gpt-4o-mini",
	"gpt-4.1":      "gpt-4.1",
	"gpt-4.1-mini": "gpt-4.1-mini",
}

// schemaMode selects how a response schema reaches an OpenAI-compatible API.
type schemaMode int

const (
	// schemaStrict sends the schema as a strict json_schema response format.
	schemaStrict schemaMode = iota
	// schemaInline asks for a json_object and spells the schema out in the
	// system prompt, for models behind OpenRouter without strict mode.
	schemaInline
)

// OpenAIProvider implements Provider using the go-openai client. OpenRouter
// and other OpenAI-compatible APIs are reached through BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
	schema schemaMode
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	return newOpenAICompatible(config, resolveModel(cfg.Model, openaiModels), schemaStrict), nil
}

func newOpenAICompatible(config openai.ClientConfig, model string, mode schemaMode) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(config),
		model:  model,
		schema: mode,
	}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}

	system := req.System
	if req.Schema != nil {
		schemaBytes, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("marshal schema: %w", err)
		}
		switch p.schema {
		case schemaInline:
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			}
			system = inlineSchemaPrompt(system, schemaBytes)
		default:
			chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
				JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
					Name:   req.Schema.Name,
					Schema: json.RawMessage(schemaBytes),
					Strict: true,
				},
			}
		}
	}
	chatReq.Messages = buildOpenAIMessages(system, req.Messages)

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{
			Err: fmt.Errorf("no choices in OpenAI response"),
		}
	}

	choice := resp.Choices[0]
	content := json.RawMessage(choice.Message.Content)
	stop := mapOpenAIStopReason(choice.FinishReason)
	if stop == "refused" {
		return nil, &ErrInvalidResponse{
			Content: content,
			Err:     fmt.Errorf("response withheld by content filter"),
		}
	}
	if len(content) == 0 && req.Schema != nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("empty content")}
	}
	content, err = checkStructured(req.Schema, stop, content)
	if err != nil {
		return nil, err
	}

	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: stop,
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func buildOpenAIMessages(system string, msgs []Message) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage

	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: system,
		})
	}

	for _, m := range msgs {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: m.Content,
		})
	}

	return messages
}

// inlineSchemaPrompt appends the JSON schema to the system prompt.
func inlineSchemaPrompt(system string, schema []byte) string {
	instr := "Reply with a single JSON object matching this JSON Schema, and nothing else:\n" + string(schema)
	if system == "" {
		return instr
	}
	return system + "\n\n" + instr
}

func mapOpenAIStopReason(reason openai.FinishReason) string {
	switch reason {
	case openai.FinishReasonStop:
		return "end"
	case openai.FinishReasonLength:
		return "max_tokens"
	case openai.FinishReasonContentFilter:
		return "refused"
	default:
		return "end"
	}
}

func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &ErrProviderUnavailable{Err: err}
		}
	}
	return &ErrProviderUnavailable{Err: err}
}
