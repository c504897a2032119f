package question

import (
	"slices"
	"testing"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		name       string
		word       string
		entry      string
		usesWord   bool
		formal     bool
		alts       []string
		colloquial bool
	}{
		{"empty entry", "吃饭", "", true, false, nil, false},
		{"colloquial entry", "食飯", "3,食飯:have a meal", true, false, nil, false},
		{"formal with alternatives", "吃饭", "1,吃饭:(label:書面語) eat (sim:食飯)(sim:開飯)", true, true, []string{"食飯", "開飯"}, true},
		{"mainland label", "垃圾袋", "5,垃圾袋:(label:大陸) bin bag", true, true, nil, true},
		{"formal marker", "购买", "7,购买:!!!formal buy", true, true, nil, true},
		{"word absent", "吃饭", "1,食飯:have a meal", false, false, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ParseEntry(tt.word, tt.entry)
			if h.UsesWord != tt.usesWord || h.Formal != tt.formal {
				t.Errorf("hints = %+v", h)
			}
			if !slices.Equal(h.Alternatives, tt.alts) {
				t.Errorf("alternatives = %v, want %v", h.Alternatives, tt.alts)
			}
			if h.NeedsColloquial() != tt.colloquial {
				t.Errorf("NeedsColloquial = %v, want %v", h.NeedsColloquial(), tt.colloquial)
			}
		})
	}
}
