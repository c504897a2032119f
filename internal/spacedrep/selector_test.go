package spacedrep

import (
	"context"
	"testing"
	"time"

	"github.com/abhisek/vocabdrill/internal/vocab"
)

var t0 = time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

func selectNext(t *testing.T, items []*vocab.Item, lang vocab.Language, now time.Time) Selection {
	t.Helper()
	sel, err := NewSelector(NewCorpus(items)).Next(context.Background(), lang, now)
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	return sel
}

func TestSelect_OldestDueFirst(t *testing.T) {
	items := []*vocab.Item{
		newItem("b", t0.Add(-48*time.Hour), map[vocab.Language]vocab.Track{
			vocab.Mandarin: {NextDueAt: at(t0.Add(-time.Hour)), ProgressCount: 1},
		}),
		newItem("a", t0.Add(-24*time.Hour), map[vocab.Language]vocab.Track{
			vocab.Mandarin: {NextDueAt: at(t0.Add(-3 * time.Hour)), ProgressCount: 2},
		}),
		newItem("new", t0.Add(-72*time.Hour), nil),
	}
	sel := selectNext(t, items, vocab.Mandarin, t0)
	if sel.Tier != TierDue || sel.Item.ID != "a" {
		t.Errorf("got tier=%s item=%v, want due/a", sel.Tier, sel.Item)
	}
}

func TestSelect_DueTieBrokenByID(t *testing.T) {
	due := t0.Add(-time.Hour)
	items := []*vocab.Item{
		newItem("zz", t0, map[vocab.Language]vocab.Track{vocab.Mandarin: {NextDueAt: at(due)}}),
		newItem("aa", t0, map[vocab.Language]vocab.Track{vocab.Mandarin: {NextDueAt: at(due)}}),
		newItem("mm", t0, map[vocab.Language]vocab.Track{vocab.Mandarin: {NextDueAt: at(due)}}),
	}
	sel := selectNext(t, items, vocab.Mandarin, t0)
	if sel.Item == nil || sel.Item.ID != "aa" {
		t.Errorf("got %v, want aa", sel.Item)
	}
}

func TestSelect_DueExactlyNowIsDue(t *testing.T) {
	items := []*vocab.Item{
		newItem("x", t0, map[vocab.Language]vocab.Track{vocab.Mandarin: {NextDueAt: at(t0)}}),
	}
	sel := selectNext(t, items, vocab.Mandarin, t0)
	if sel.Tier != TierDue {
		t.Errorf("tier = %s, want due", sel.Tier)
	}
}

func TestSelect_NewTierFIFO(t *testing.T) {
	items := []*vocab.Item{
		newItem("later", t0.Add(-time.Hour), nil),
		newItem("first", t0.Add(-5*time.Hour), nil),
		newItem("upcoming", t0.Add(-9*time.Hour), map[vocab.Language]vocab.Track{
			vocab.Mandarin: {NextDueAt: at(t0.Add(time.Hour))},
		}),
	}
	sel := selectNext(t, items, vocab.Mandarin, t0)
	if sel.Tier != TierNew || sel.Item.ID != "first" {
		t.Errorf("got tier=%s item=%v, want new/first", sel.Tier, sel.Item)
	}
}

func TestSelect_DueBeatsNew(t *testing.T) {
	items := []*vocab.Item{
		newItem("brand-new", t0.Add(-100*time.Hour), nil),
		newItem("overdue", t0, map[vocab.Language]vocab.Track{
			vocab.Mandarin: {NextDueAt: at(t0.Add(-time.Minute))},
		}),
	}
	sel := selectNext(t, items, vocab.Mandarin, t0)
	if sel.Item.ID != "overdue" {
		t.Errorf("got %s, want overdue", sel.Item.ID)
	}
}

func TestSelect_MasteredExcludedFromDueAndNew(t *testing.T) {
	items := []*vocab.Item{
		newItem("mastered-due", t0, map[vocab.Language]vocab.Track{
			vocab.Mandarin: {NextDueAt: at(t0.Add(-24 * time.Hour)), ProgressCount: 3, Mastered: true},
		}),
		newItem("mastered-new", t0.Add(-time.Hour), map[vocab.Language]vocab.Track{
			vocab.Mandarin: {Mastered: true},
		}),
	}
	sel := selectNext(t, items, vocab.Mandarin, t0)
	if sel.Available() {
		t.Fatalf("expected nothing available, got %s", sel.Item.ID)
	}
	if sel.HasETA {
		t.Error("fully mastered corpus should have no ETA")
	}
}

func TestSelect_MasteredFutureExcludedFromETA(t *testing.T) {
	items := []*vocab.Item{
		newItem("m", t0, map[vocab.Language]vocab.Track{
			vocab.Mandarin: {NextDueAt: at(t0.Add(time.Hour)), Mastered: true},
		}),
	}
	sel := selectNext(t, items, vocab.Mandarin, t0)
	if sel.HasETA {
		t.Errorf("mastered upcoming track should not produce ETA, got %d", sel.ETAMinutes)
	}
}

func TestSelect_EmptyCorpus(t *testing.T) {
	sel := selectNext(t, nil, vocab.Cantonese, t0)
	if sel.Available() || sel.HasETA || sel.Tier != TierNone {
		t.Errorf("got %+v, want NoneAvailable without ETA", sel)
	}
}

func TestSelect_UpcomingETARoundsUp(t *testing.T) {
	items := []*vocab.Item{
		newItem("far", t0, map[vocab.Language]vocab.Track{
			vocab.Mandarin: {NextDueAt: at(t0.Add(3 * time.Hour))},
		}),
		newItem("soon", t0, map[vocab.Language]vocab.Track{
			vocab.Mandarin: {NextDueAt: at(t0.Add(90*time.Second + 0))},
		}),
	}
	sel := selectNext(t, items, vocab.Mandarin, t0)
	if sel.Available() {
		t.Fatal("nothing should be selectable")
	}
	if !sel.HasETA || sel.ETAMinutes != 2 {
		t.Errorf("ETA = (%v, %d), want (true, 2)", sel.HasETA, sel.ETAMinutes)
	}
}

func TestSelect_LanguagesIndependent(t *testing.T) {
	items := []*vocab.Item{
		newItem("w", t0, map[vocab.Language]vocab.Track{
			vocab.Mandarin:  {NextDueAt: at(t0.Add(-time.Hour)), ProgressCount: 2, Mastered: true},
			vocab.Cantonese: {},
		}),
	}
	if sel := selectNext(t, items, vocab.Mandarin, t0); sel.Available() {
		t.Error("mandarin track is mastered, nothing should be selected")
	}
	sel := selectNext(t, items, vocab.Cantonese, t0)
	if sel.Tier != TierNew || sel.Item.ID != "w" {
		t.Errorf("cantonese: got tier=%s, want new/w", sel.Tier)
	}
}

func TestMinutesUntil(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want int
	}{
		{-time.Minute, 0},
		{0, 0},
		{time.Second, 1},
		{time.Minute, 1},
		{time.Minute + time.Second, 2},
		{10080 * time.Minute, 10080},
	}
	for _, tt := range tests {
		if got := MinutesUntil(t0, t0.Add(tt.d)); got != tt.want {
			t.Errorf("MinutesUntil(%v) = %d, want %d", tt.d, got, tt.want)
		}
	}
}
