package vocab

import (
	"errors"
	"testing"
	"time"
)

func TestTrackValidate(t *testing.T) {
	due := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		track   Track
		wantErr bool
	}{
		{"new", Track{}, false},
		{"scheduled", Track{NextDueAt: &due, ProgressCount: 3}, false},
		{"mastered new", Track{Mastered: true}, false},
		{"progress without schedule", Track{ProgressCount: 1}, true},
		{"negative progress", Track{NextDueAt: &due, ProgressCount: -1}, true},
	}
	for _, tt := range tests {
		err := tt.track.Validate()
		if tt.wantErr != (err != nil) {
			t.Errorf("%s: Validate() = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", tt.name, err)
		}
	}
}

func TestTrackPhase(t *testing.T) {
	due := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	if p := (Track{}).Phase(5); p != PhaseNew {
		t.Errorf("Phase = %q, want new", p)
	}
	if p := (Track{NextDueAt: &due, ProgressCount: 2}).Phase(5); p != PhaseLearning {
		t.Errorf("Phase = %q, want learning", p)
	}
	if p := (Track{NextDueAt: &due, ProgressCount: 5}).Phase(5); p != PhaseGraduated {
		t.Errorf("Phase = %q, want graduated", p)
	}
	// Mastered is orthogonal to phase.
	if p := (Track{NextDueAt: &due, ProgressCount: 7, Mastered: true}).Phase(5); p != PhaseGraduated {
		t.Errorf("Phase = %q, want graduated", p)
	}
}

func TestTrackIsDue(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	if (Track{}).IsDue(now) {
		t.Error("new track is not due")
	}
	if !(Track{NextDueAt: &now}).IsDue(now) {
		t.Error("track due exactly now should be due")
	}
	if !(Track{NextDueAt: &past}).IsDue(now) {
		t.Error("overdue track should be due")
	}
	if (Track{NextDueAt: &future}).IsDue(now) {
		t.Error("future track should not be due")
	}
	if (Track{NextDueAt: &past, Mastered: true}).IsDue(now) {
		t.Error("mastered track should not be due")
	}
}

func TestDueAtTruncates(t *testing.T) {
	loc := time.FixedZone("HKT", 8*3600)
	in := time.Date(2025, 3, 1, 17, 0, 0, 987654321, loc)
	got := DueAt(in)
	want := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Errorf("DueAt = %v, want %v", got, want)
	}
}
