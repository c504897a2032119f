package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"google.golang.org/genai"
)

// geminiModels maps friendly names to Gemini model IDs.
var geminiModels = map[string]string{
	"gemini-flash": "gemini-2.5-flash",
	"gemini-pro":   "gemini-2.5-pro",
}

// GeminiProvider implements Provider using the Google Gemini SDK.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

// NewGeminiProvider creates a Gemini provider on the Gemini API, or on
// Vertex AI when vx is enabled.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig, vx VertexConfig) (*GeminiProvider, error) {
	var cc *genai.ClientConfig
	switch {
	case vx.Enabled():
		cc = &genai.ClientConfig{
			Project:  vx.Project,
			Location: geminiLocation(vx.Region),
			Backend:  genai.BackendVertexAI,
		}
	case cfg.APIKey != "":
		cc = &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		}
	default:
		return nil, fmt.Errorf("gemini API key or Vertex project is required")
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}

	model := resolveModel(cfg.Model, geminiModels)

	return &GeminiProvider{
		client: client,
		model:  model,
	}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	}

	if req.Temperature > 0 {
		temp := float32(req.Temperature)
		config.Temperature = &temp
	}

	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	// Thinking tokens count against MaxOutputTokens and add latency a
	// judge deadline cannot afford; flash models can turn it off.
	if strings.Contains(p.model, "flash") {
		budget := int32(0)
		config.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: &budget}
	}

	// Configure structured output.
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = buildGeminiSchema(req.Schema.Definition)
	}

	contents := buildGeminiContents(req.Messages)

	result, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return nil, mapGeminiError(err)
	}

	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("prompt blocked: %s", fb.BlockReason)}
	}

	content := json.RawMessage(result.Text())

	stop := mapGeminiStopReason(result)
	if stop == "refused" {
		return nil, &ErrInvalidResponse{
			Content: content,
			Err:     fmt.Errorf("response blocked: %s", result.Candidates[0].FinishReason),
		}
	}
	content, err = checkStructured(req.Schema, stop, content)
	if err != nil {
		return nil, err
	}

	resp := &Response{
		Content:    content,
		Model:      p.model,
		StopReason: stop,
	}

	if result.UsageMetadata != nil {
		resp.Usage = Usage{
			InputTokens:  int(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int(result.UsageMetadata.TotalTokenCount),
		}
	}

	return resp, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

// geminiLocation maps Claude-only Vertex regions to one that also serves
// Gemini.
func geminiLocation(region string) string {
	switch region {
	case "", "us-east5":
		return "us-central1"
	}
	return region
}

func buildGeminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, len(msgs))
	for i, m := range msgs {
		role := "user"
		if m.Role == RoleAssistant {
			role = "model"
		}
		out[i] = &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: m.Content}},
		}
	}
	return out
}

var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// buildGeminiSchema converts the JSON Schema subset the judge and question
// schemas use into a genai.Schema. Gemini emits properties in
// PropertyOrdering, so required fields come first in declaration order and
// the model writes the verdict's fields in the order the prompt describes
// them.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{Type: genai.TypeString}
	if t, ok := geminiTypes[fmt.Sprint(def["type"])]; ok {
		s.Type = t
	}
	s.Description, _ = def["description"].(string)
	s.Enum = stringList(def["enum"])
	s.Required = stringList(def["required"])

	if items, ok := def["items"].(map[string]any); ok {
		s.Items = buildGeminiSchema(items)
	}

	props, _ := def["properties"].(map[string]any)
	if len(props) == 0 {
		return s
	}
	s.Properties = make(map[string]*genai.Schema, len(props))
	var rest []string
	for name, v := range props {
		if sub, ok := v.(map[string]any); ok {
			s.Properties[name] = buildGeminiSchema(sub)
			if !slices.Contains(s.Required, name) {
				rest = append(rest, name)
			}
		}
	}
	slices.Sort(rest)
	for _, name := range s.Required {
		if _, ok := s.Properties[name]; ok {
			s.PropertyOrdering = append(s.PropertyOrdering, name)
		}
	}
	s.PropertyOrdering = append(s.PropertyOrdering, rest...)
	return s
}

func stringList(v any) []string {
	vals, _ := v.([]any)
	var out []string
	for _, x := range vals {
		if str, ok := x.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func mapGeminiStopReason(result *genai.GenerateContentResponse) string {
	if len(result.Candidates) > 0 {
		switch result.Candidates[0].FinishReason {
		case "STOP":
			return "end"
		case "MAX_TOKENS":
			return "max_tokens"
		case "SAFETY", "PROHIBITED_CONTENT", "BLOCKLIST", "RECITATION", "SPII":
			return "refused"
		}
	}
	return "end"
}

func mapGeminiError(err error) error {
	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return &ErrRateLimit{Err: err}
		case apiErr.Code >= 500:
			return &ErrProviderUnavailable{Err: err}
		}
	}
	return &ErrProviderUnavailable{Err: err}
}
