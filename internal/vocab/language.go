package vocab

import (
	"fmt"
	"strings"
)

// Language identifies one practice track on an item.
type Language string

const (
	Mandarin  Language = "mandarin"
	Cantonese Language = "cantonese"
)

// Languages lists every supported language in display order. Storage
// back-fills a track for each entry, so adding a language here is enough
// for existing items to pick it up as new.
var Languages = []Language{Mandarin, Cantonese}

// Valid reports whether l is one of Languages.
func (l Language) Valid() bool {
	for _, known := range Languages {
		if l == known {
			return true
		}
	}
	return false
}

// DisplayName returns the capitalized name used in prompts and the UI.
func (l Language) DisplayName() string {
	switch l {
	case Mandarin:
		return "Mandarin"
	case Cantonese:
		return "Cantonese"
	default:
		return string(l)
	}
}

// Romanization names the romanization system used for the language.
func (l Language) Romanization() string {
	if l == Cantonese {
		return "jyutping"
	}
	return "pinyin"
}

// ParseLanguage parses a language tag case-insensitively.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: unknown language %q", ErrInvalidArgument, s)
	}
	return l, nil
}
