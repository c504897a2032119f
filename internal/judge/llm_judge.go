package judge

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/abhisek/vocabdrill/internal/llm"
	"github.com/abhisek/vocabdrill/internal/logger"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

// Config holds configuration for the LLM judge.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds a single evaluation, retries included. Zero means no
	// deadline beyond the caller's.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens: 1000,
		Timeout:   30 * time.Second,
	}
}

// LLMJudge implements Judge using an LLM provider.
type LLMJudge struct {
	provider llm.Provider
	cfg      Config
}

var _ Judge = (*LLMJudge)(nil)

// New creates an LLM-backed judge.
func New(provider llm.Provider, cfg Config) *LLMJudge {
	return &LLMJudge{provider: provider, cfg: cfg}
}

// Evaluate grades req.Answer against the prompt it answered.
func (j *LLMJudge) Evaluate(ctx context.Context, req Request) (*Verdict, error) {
	if !req.Language.Valid() {
		return nil, fmt.Errorf("%w: unknown language %q", vocab.ErrInvalidArgument, req.Language)
	}
	if strings.TrimSpace(req.Answer) == "" {
		return nil, fmt.Errorf("%w: empty answer", vocab.ErrInvalidArgument)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeJudge)
	if j.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.cfg.Timeout)
		defer cancel()
	}

	userMsg, err := buildJudgeMessage(req)
	if err != nil {
		return nil, fmt.Errorf("build judge prompt: %w", err)
	}

	llmReq := llm.Prompt(buildSystemPrompt(req.Language), userMsg, VerdictSchema, j.cfg.MaxTokens)
	llmReq.Temperature = j.cfg.Temperature

	resp, err := j.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("LLM judge failed: %w", err)
	}

	v, err := llm.Decode[Verdict](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}
	if v.Meaningfulness != MeaningFull && v.Meaningfulness != MeaningMinimal {
		return nil, &llm.ErrInvalidResponse{
			Purpose: llm.PurposeJudge,
			Content: resp.Content,
			Err:     fmt.Errorf("meaningfulness %q", v.Meaningfulness),
		}
	}

	target := req.TargetWord()
	if v.ImprovedAnswer != "" && !strings.Contains(v.ImprovedAnswer, target) {
		logger.Debug("judge: improved answer does not use %q", target)
	}
	return &v, nil
}

func buildSystemPrompt(lang vocab.Language) string {
	return fmt.Sprintf(judgeSystemPrompt, lang.DisplayName(), lang.Romanization())
}

const judgeSystemPrompt = `You are a language evaluation assistant specializing in %s. A learner answered a conversational question and must use a target word in the answer.

Evaluate:
- Question response: the answer must actually address the question, not repeat or rephrase it.
- Fluency: grammar, word order, natural expression, particles and measure words.
- Word usage: whether the target word is used properly and meaningfully. Report "full" for meaningful use in context, "minimal" for barely adequate or absent use.
- Fillers: English substitutions, romanized filler words or unnecessary mixed-language usage.

Give the romanization (%s, with tones) of the learner's answer.
The improved answer MUST use the target word exactly as given.
The feedback MUST be written in English. Keep it constructive and specific: what worked, what to improve and why.`

var judgeUserTemplate = template.Must(template.New("judge").Parse(`Question: {{.Prompt}}
Vocabulary word: {{.Word}}
Target word: {{.TargetWord}}
{{- if ne .Target ""}}{{if ne .Target .Word}}
The question used "{{.Target}}" as the natural equivalent of "{{.Word}}". Judge whether the meaning is expressed naturally rather than requiring the exact vocabulary word.
{{- end}}{{end}}
{{- if .Entry}}
Reference entry: {{.Entry}}
{{- end}}
Learner's answer: {{.Answer}}`))

func buildJudgeMessage(req Request) (string, error) {
	var buf bytes.Buffer
	if err := judgeUserTemplate.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}
