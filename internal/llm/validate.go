package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds jsonschema compilations keyed by Schema.Name. The judge and
// question schemas are fixed, so each is compiled once per process.
var compiled sync.Map

// checkStructured rejects truncated output, then unwraps and validates the
// content against schema. The returned content is what callers should
// decode. A nil schema only checks for truncation.
func checkStructured(schema *Schema, stopReason string, content json.RawMessage) (json.RawMessage, error) {
	if stopReason == "max_tokens" {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if schema == nil {
		return content, nil
	}
	content = unwrapJSON(content)
	if err := validateResponse(schema, content); err != nil {
		return nil, err
	}
	return content, nil
}

// validateResponse checks raw against schema. Failures are
// *ErrInvalidResponse so the retry decorator resamples them.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	sch, err := compileSchema(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("schema %q: %w", schema.Name, err)}
	}
	if err := sch.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("does not match %s: %w", schema.Name, err)}
	}
	return nil
}

// unwrapJSON strips a Markdown code fence or leading prose around a JSON
// object. Providers without native schema support (OpenRouter inline mode)
// often reply with "```json\n{...}\n```". Content that is already a bare
// object is returned unchanged.
func unwrapJSON(raw json.RawMessage) json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		return trimmed
	}
	start := bytes.IndexByte(trimmed, '{')
	end := bytes.LastIndexByte(trimmed, '}')
	if start < 0 || end < start {
		return raw
	}
	return trimmed[start : end+1]
}

// Decode unmarshals a structured response into T. Decoding failures are
// reported as *ErrInvalidResponse so callers classify them like schema
// failures.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if resp == nil {
		return out, &ErrInvalidResponse{Err: fmt.Errorf("nil response")}
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return out, &ErrInvalidResponse{Content: resp.Content, Err: fmt.Errorf("decode: %w", err)}
	}
	return out, nil
}

func compileSchema(schema *Schema) (*jsonschema.Schema, error) {
	if sch, ok := compiled.Load(schema.Name); ok {
		return sch.(*jsonschema.Schema), nil
	}

	// jsonschema wants a decoded document, not Go maps with typed slices.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := "schema://" + schema.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, err
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiled.Store(schema.Name, sch)
	return sch, nil
}
