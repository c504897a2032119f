package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction. The judge and the
// question generator both call Generate with a schema and decode the JSON
// that comes back.
type Provider interface {
	// Generate sends a prompt to the LLM and returns a structured response.
	// When req.Schema is set the provider uses its native structured output
	// mechanism and Content is JSON already validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System sets the model's role and output rules.
	System string

	// Messages is the conversation. Judging and question generation are
	// single-turn, so this normally holds one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. When nil,
	// Content is the raw text.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one turn in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies the schema and keys the compiled-schema cache.
	// Kebab-case, e.g. "answer-verdict".
	Name string

	// Description is sent to providers that accept one.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the validated JSON object when a schema was requested,
	// otherwise the raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Prompt builds a single-turn structured request.
func Prompt(system, user string, schema *Schema, maxTokens int) Request {
	return Request{
		System:    system,
		Messages:  []Message{{Role: RoleUser, Content: user}},
		Schema:    schema,
		MaxTokens: maxTokens,
	}
}
