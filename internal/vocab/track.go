package vocab

import (
	"fmt"
	"time"
)

// Phase is the scheduling position of a track, independent of the
// mastered flag.
type Phase string

const (
	PhaseNew       Phase = "new"
	PhaseLearning  Phase = "learning"
	PhaseGraduated Phase = "graduated"
)

// Track is the scheduling state an item carries for one language.
type Track struct {
	// NextDueAt is nil until the track is scheduled for the first time.
	NextDueAt *time.Time `json:"next_due_at,omitempty"`

	// ProgressCount counts consecutive full successes since the last reset.
	ProgressCount int `json:"progress_count"`

	// Mastered excludes the track from selection without touching
	// NextDueAt or ProgressCount.
	Mastered bool `json:"mastered"`
}

// IsNew reports whether the track has never been scheduled.
func (t Track) IsNew() bool {
	return t.NextDueAt == nil
}

// IsDue reports whether the track is scheduled at or before now.
// Mastered tracks are never due.
func (t Track) IsDue(now time.Time) bool {
	return !t.Mastered && t.NextDueAt != nil && !t.NextDueAt.After(now)
}

// Validate checks the track invariants.
func (t Track) Validate() error {
	if t.ProgressCount < 0 {
		return fmt.Errorf("%w: negative progress count %d", ErrInvalidArgument, t.ProgressCount)
	}
	if t.NextDueAt == nil && t.ProgressCount != 0 {
		return fmt.Errorf("%w: progress %d on a track that was never scheduled", ErrInvalidArgument, t.ProgressCount)
	}
	return nil
}

// Phase returns the scheduling phase. graduateAt is the progress count at
// which the success interval stops growing.
func (t Track) Phase(graduateAt int) Phase {
	switch {
	case t.NextDueAt == nil:
		return PhaseNew
	case t.ProgressCount >= graduateAt:
		return PhaseGraduated
	default:
		return PhaseLearning
	}
}

// DueAt returns a copy of the due time truncated to whole seconds in UTC,
// the precision at which due times are stored.
func DueAt(t time.Time) *time.Time {
	d := t.UTC().Truncate(time.Second)
	return &d
}
