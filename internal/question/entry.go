package question

import (
	"regexp"
	"strings"
)

// EntryHints is what a Cantonese dictionary entry says about a word.
type EntryHints struct {
	// UsesWord reports that the entry contains the word itself.
	UsesWord bool

	// Formal marks written-register or mainland-only entries whose word
	// should not appear in a spoken question.
	Formal bool

	// Alternatives lists colloquial synonyms tagged in the entry.
	Alternatives []string
}

// NeedsColloquial reports whether the question should use a colloquial
// equivalent instead of the word.
func (h EntryHints) NeedsColloquial() bool {
	return h.Formal || !h.UsesWord
}

var formalMarkers = []string{"(label:書面語)", "(label:大陸)", "!!!formal"}

var simPattern = regexp.MustCompile(`\(sim:([^)]+)\)`)

// ParseEntry extracts hints for word from a Cantonese reference entry. An
// empty entry yields no hints and a word that is assumed usable.
func ParseEntry(word, entry string) EntryHints {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return EntryHints{UsesWord: true}
	}

	h := EntryHints{UsesWord: strings.Contains(entry, word)}
	for _, m := range formalMarkers {
		if strings.Contains(entry, m) {
			h.Formal = true
			break
		}
	}
	for _, m := range simPattern.FindAllStringSubmatch(entry, -1) {
		if alt := strings.TrimSpace(m[1]); alt != "" {
			h.Alternatives = append(h.Alternatives, alt)
		}
	}
	return h
}
