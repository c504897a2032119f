package vocab

import "time"

// Item is a vocabulary word with one track per language.
type Item struct {
	ID        string
	Text      string
	CreatedAt time.Time

	// Entries holds an optional reference sentence per language.
	Entries map[Language]string

	Tracks map[Language]Track
}

// Track returns the track for lang, or a new track if none is stored.
func (i *Item) Track(lang Language) Track {
	if i.Tracks == nil {
		return Track{}
	}
	return i.Tracks[lang]
}

// Entry returns the reference entry for lang, if any.
func (i *Item) Entry(lang Language) string {
	if i.Entries == nil {
		return ""
	}
	return i.Entries[lang]
}
