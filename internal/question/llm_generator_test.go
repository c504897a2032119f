package question

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/vocabdrill/internal/llm"
	"github.com/abhisek/vocabdrill/internal/vocab"
)

func testItem(text string, entries map[vocab.Language]string) *vocab.Item {
	return &vocab.Item{
		ID:        "item-1",
		Text:      text,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Entries:   entries,
	}
}

func TestGenerate_Mandarin(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddJSON(map[string]string{
		"sentence":     "你最近有没有坚持锻炼身体？",
		"target_word":  "锻炼",
		"romanization": "nǐ zuì jìn yǒu méi yǒu jiān chí duàn liàn shēn tǐ",
	})
	gen := New(mock, DefaultConfig())

	p, err := gen.Generate(context.Background(), Input{Item: testItem("锻炼", nil), Language: vocab.Mandarin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Sentence != "你最近有没有坚持锻炼身体？" || p.TargetWord != "锻炼" || p.Colloquial {
		t.Errorf("unexpected prompt: %+v", p)
	}

	call := mock.Calls[0]
	if call.Schema != QuestionSchema || call.Temperature != 0.7 {
		t.Errorf("unexpected request: schema=%v temperature=%v", call.Schema, call.Temperature)
	}
	user := call.Messages[0].Content
	if !strings.Contains(user, "Use the vocabulary word exactly as given.") || !strings.Contains(user, "pinyin") {
		t.Errorf("unexpected user message:\n%s", user)
	}
}

func TestGenerate_MandarinIgnoresSubstitution(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddJSON(map[string]string{
		"sentence":     "你周末一般去哪里锻炼？",
		"target_word":  "运动",
		"romanization": "",
	})

	p, err := New(mock, DefaultConfig()).Generate(context.Background(), Input{Item: testItem("锻炼", nil), Language: vocab.Mandarin})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TargetWord != "锻炼" || p.Colloquial {
		t.Errorf("expected the item text as target, got %+v", p)
	}
}

func TestGenerate_CantoneseColloquial(t *testing.T) {
	entry := "1,吃饭:(label:書面語) eat a meal (sim:食飯)"
	mock := llm.NewMockProvider()
	mock.AddJSON(map[string]string{
		"sentence":     "你今晚想去邊度食飯呀？",
		"target_word":  "食飯",
		"romanization": "nei5 gam1 maan5 soeng2 heoi3 bin1 dou6 sik6 faan6 aa3",
	})

	item := testItem("吃饭", map[vocab.Language]string{vocab.Cantonese: entry})
	p, err := New(mock, DefaultConfig()).Generate(context.Background(), Input{Item: item, Language: vocab.Cantonese})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.TargetWord != "食飯" || !p.Colloquial {
		t.Errorf("expected colloquial target, got %+v", p)
	}

	user := mock.Calls[0].Messages[0].Content
	for _, want := range []string{"Do NOT use it.", "such as: 食飯.", "jyutping", "Dictionary entry: " + entry} {
		if !strings.Contains(user, want) {
			t.Errorf("user message missing %q:\n%s", want, user)
		}
	}
}

func TestGenerate_CantoneseWordInEntry(t *testing.T) {
	mock := llm.NewMockProvider()
	mock.AddJSON(map[string]string{
		"sentence":     "你平時點樣鍛煉身體？",
		"target_word":  "鍛煉",
		"romanization": "",
	})

	item := testItem("鍛煉", map[vocab.Language]string{vocab.Cantonese: "2,鍛煉:to exercise"})
	p, err := New(mock, DefaultConfig()).Generate(context.Background(), Input{Item: item, Language: vocab.Cantonese})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Colloquial {
		t.Errorf("expected the word itself, got %+v", p)
	}
}

func TestGenerate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		out  map[string]string
	}{
		{"empty sentence", map[string]string{"sentence": " ", "target_word": "锻炼", "romanization": ""}},
		{"word missing from sentence", map[string]string{"sentence": "你喜欢运动吗？", "target_word": "锻炼", "romanization": ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := llm.NewMockProvider()
			mock.AddJSON(tt.out)
			_, err := New(mock, DefaultConfig()).Generate(context.Background(), Input{Item: testItem("锻炼", nil), Language: vocab.Mandarin})
			var inv *llm.ErrInvalidResponse
			if !errors.As(err, &inv) {
				t.Fatalf("expected ErrInvalidResponse, got %v", err)
			}
		})
	}
}

func TestGenerate_InvalidInput(t *testing.T) {
	gen := New(llm.NewMockProvider(), DefaultConfig())
	if _, err := gen.Generate(context.Background(), Input{Language: vocab.Mandarin}); !errors.Is(err, vocab.ErrInvalidArgument) {
		t.Errorf("nil item: got %v", err)
	}
	if _, err := gen.Generate(context.Background(), Input{Item: testItem("锻炼", nil), Language: "french"}); !errors.Is(err, vocab.ErrInvalidArgument) {
		t.Errorf("bad language: got %v", err)
	}
}

func TestGenerate_Timeout(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Delay: time.Second})
	cfg := DefaultConfig()
	cfg.Timeout = 10 * time.Millisecond

	_, err := New(mock, cfg).Generate(context.Background(), Input{Item: testItem("锻炼", nil), Language: vocab.Mandarin})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
