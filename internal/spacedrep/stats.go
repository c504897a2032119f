package spacedrep

import (
	"time"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

// LanguageStats counts the tracks of one language by queue state. Due,
// New and Upcoming exclude mastered tracks and together with Mastered sum
// to Total. Graduated counts every graduated track, mastered or not.
type LanguageStats struct {
	Language  vocab.Language
	Total     int
	Due       int
	New       int
	Upcoming  int
	Mastered  int
	Graduated int

	// NextDue is the soonest upcoming review, nil if none.
	NextDue *time.Time
}

// Summarize counts track states per language at now, in vocab.Languages
// order.
func Summarize(items []*vocab.Item, now time.Time) []LanguageStats {
	out := make([]LanguageStats, 0, len(vocab.Languages))
	for _, lang := range vocab.Languages {
		s := LanguageStats{Language: lang}
		for _, it := range items {
			tr := it.Track(lang)
			s.Total++
			if tr.Phase(GraduationProgress) == vocab.PhaseGraduated {
				s.Graduated++
			}
			switch {
			case tr.Mastered:
				s.Mastered++
			case tr.IsNew():
				s.New++
			case tr.IsDue(now):
				s.Due++
			default:
				s.Upcoming++
				if s.NextDue == nil || tr.NextDueAt.Before(*s.NextDue) {
					d := *tr.NextDueAt
					s.NextDue = &d
				}
			}
		}
		out = append(out, s)
	}
	return out
}
