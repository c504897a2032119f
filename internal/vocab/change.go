package vocab

import "time"

// ChangeKind labels a track mutation in the event log.
type ChangeKind string

const (
	ChangeEvaluation ChangeKind = "evaluation"
	ChangeOverride   ChangeKind = "override"
	ChangeMastered   ChangeKind = "mastered"
	ChangeUnmastered ChangeKind = "unmastered"
)

// Change describes one atomic read-modify-write of a single track.
type Change struct {
	Kind ChangeKind

	// RequestKey deduplicates retried requests. When set and already
	// recorded, the store returns the recorded result instead of calling
	// Apply again.
	RequestKey string

	// Reason is a short free-form label stored with the event.
	Reason string

	// At is the event time recorded in the log.
	At time.Time

	// Apply computes the new track from the current one.
	Apply func(Track) (Track, error)
}

// ChangeResult is the committed outcome of a Change.
type ChangeResult struct {
	Before Track
	After  Track

	// Replayed is true when RequestKey matched an earlier change and
	// nothing was written.
	Replayed bool
}
