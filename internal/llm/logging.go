package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/vocabdrill/internal/logger"
	"github.com/abhisek/vocabdrill/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging. name is the provider
// name recorded on each event.
func WithLogging(p Provider, name string, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, provider: name, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	tag := purpose
	if subj, ok := SubjectFrom(ctx); ok {
		data.ItemID = subj.ItemID
		data.Language = subj.Language
		tag = fmt.Sprintf("%s %s/%s", purpose, subj.ItemID, subj.Language)
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
		data.ResponseBody = string(resp.Content)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		logger.Debug("llm %s [%s] failed after %dms: %v", l.provider, tag, data.LatencyMs, err)
	} else {
		logger.Debug("llm %s [%s] ok in %dms (%d in, %d out)", l.provider, tag, data.LatencyMs, data.InputTokens, data.OutputTokens)
	}

	if l.eventRepo == nil {
		return resp, err
	}
	// The request has already completed, so the event is written even if
	// the caller's deadline expired meanwhile.
	logCtx := context.WithoutCancel(ctx)
	if logErr := l.eventRepo.AppendLLMRequest(logCtx, data); logErr != nil {
		logger.Warn("failed to log LLM request event: %v", logErr)
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(def)
			b.WriteString("\n")
		}
	}

	return b.String()
}
