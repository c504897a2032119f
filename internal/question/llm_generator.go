package question

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

// Config controls the behavior of the LLMGenerator.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds a single generation, retries included.
	Timeout time.Duration
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   300,
		Temperature: 0.7,
		Timeout:     30 * time.Second,
	}
}

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

var _ Generator = (*LLMGenerator)(nil)

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

type questionOutput struct {
	Sentence     string `json:"sentence"`
	TargetWord   string `json:"target_word"`
	Romanization string `json:"romanization"`
}

// Generate produces a single question for the given input.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*Prompt, error) {
	if input.Item == nil {
		return nil, fmt.Errorf("%w: no item", vocab.ErrInvalidArgument)
	}
	if !input.Language.Valid() {
		return nil, fmt.Errorf("%w: unknown language %q", vocab.ErrInvalidArgument, input.Language)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuestion)
	if g.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.config.Timeout)
		defer cancel()
	}

	word := input.Item.Text
	var hints EntryHints
	colloquialAllowed := false
	if input.Language == vocab.Cantonese {
		hints = ParseEntry(word, input.Item.Entry(vocab.Cantonese))
		colloquialAllowed = hints.NeedsColloquial()
	}

	userMsg, err := buildUserMessage(promptData{
		Word:         word,
		Language:     input.Language.DisplayName(),
		Romanization: input.Language.Romanization(),
		Entry:        input.Item.Entry(input.Language),
		Colloquial:   colloquialAllowed,
		Formal:       hints.Formal,
		Alternatives: hints.Alternatives,
	})
	if err != nil {
		return nil, fmt.Errorf("build question prompt: %w", err)
	}

	req := llm.Prompt(systemPrompt, userMsg, QuestionSchema, g.config.MaxTokens)
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	raw, err := llm.Decode[questionOutput](resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	p := &Prompt{
		Sentence:     strings.TrimSpace(raw.Sentence),
		TargetWord:   strings.TrimSpace(raw.TargetWord),
		Romanization: strings.TrimSpace(raw.Romanization),
	}
	if !colloquialAllowed || p.TargetWord == "" {
		p.TargetWord = word
	}
	p.Colloquial = p.TargetWord != word

	if err := validate(p); err != nil {
		return nil, &llm.ErrInvalidResponse{Purpose: llm.PurposeQuestion, Content: resp.Content, Err: err}
	}
	if p.Colloquial {
		logger.Debug("question: using colloquial %q for %q", p.TargetWord, word)
	}
	return p, nil
}

func validate(p *Prompt) error {
	if p.Sentence == "" {
		return fmt.Errorf("empty question")
	}
	if !strings.Contains(p.Sentence, p.TargetWord) {
		return fmt.Errorf("question does not use %q", p.TargetWord)
	}
	return nil
}

const systemPrompt = `You are a Chinese language tutor who writes engaging, conversational practice questions. Each question must naturally use a given vocabulary word so the learner answers with it.

Guidelines:
- Ground the question in a real-life, everyday situation where the word naturally comes up.
- Keep it conversational; avoid textbook or "what is X" questions.
- Use the word in a way that makes its meaning clear.
- Write only Chinese characters in the sentence: no romanization, translation or explanation.
- Put the word the question actually uses in target_word, exactly as it appears in the sentence.`

type promptData struct {
	Word         string
	Language     string
	Romanization string
	Entry        string
	Colloquial   bool
	Formal       bool
	Alternatives []string
}

var userTemplate = template.Must(template.New("question").Parse(`Language: {{.Language}}
Vocabulary word: {{.Word}}
{{- if .Entry}}
Dictionary entry: {{.Entry}}
{{- end}}
{{- if .Colloquial}}
{{if .Formal}}This word is written or formal register in Cantonese. Do NOT use it.{{else}}This word is not commonly used in spoken Cantonese.{{end}} Use a colloquial Hong Kong Cantonese equivalent with the same meaning
{{- if .Alternatives}}, such as: {{range $i, $a := .Alternatives}}{{if $i}}, {{end}}{{$a}}{{end}}{{end}}.
{{- else}}
Use the vocabulary word exactly as given.
{{- end}}
Romanize the question in {{.Romanization}} with tones.
Generate a single natural {{.Language}} question.`))

func buildUserMessage(data promptData) (string, error) {
	var buf bytes.Buffer
	if err := userTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
