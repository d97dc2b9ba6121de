package recording

import (
	"fmt"
	"testing"
	"time"

	"cycle-insights/pkg/models"
)

func TestStabilityJitterRoundTrip(t *testing.T) {
	for s := 0; s <= 100; s++ {
		j := StabilityToJitter(float64(s))
		if back := StabilityToJitter(JitterToStability(j)); back != j {
			t.Fatalf("stability %d: jitter %v round-tripped to %v", s, j, back)
		}
		if got := JitterToStability(j); got != float64(s) {
			t.Fatalf("stability %d recovered as %v", s, got)
		}
	}
}

func TestStabilityJitterRoundTrip_Fractional(t *testing.T) {
	for _, s := range []float64{82.5, 33.3, 0.4, 99.6, 50.49} {
		j := StabilityToJitter(s)
		if back := StabilityToJitter(JitterToStability(j)); back != j {
			t.Fatalf("stability %v: jitter %v round-tripped to %v", s, j, back)
		}
	}

	l := newTestLog(time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC))
	rec := l.Add(models.NewRecording{Stability: 82.5}).Recording
	if rec.Stability != 83 || rec.JitterPct != 0.34 {
		t.Fatalf("fractional stability stored as %v / %v", rec.Stability, rec.JitterPct)
	}
}

func TestStabilityToJitter_Values(t *testing.T) {
	cases := map[float64]float64{100: 0, 0: 2, 70: 0.6, 85.5: 0.28, 85.4: 0.3}
	for s, want := range cases {
		if got := StabilityToJitter(s); got != want {
			t.Fatalf("stability %v: got %v, want %v", s, got, want)
		}
	}
}

func TestJitterStatusOf(t *testing.T) {
	if JitterStatusOf(0.49) != models.JitterHealthy || JitterStatusOf(0.5) != models.JitterElevated ||
		JitterStatusOf(0.99) != models.JitterElevated || JitterStatusOf(1.0) != models.JitterHigh {
		t.Fatal("unexpected jitter buckets")
	}
}

func newTestLog(now time.Time) *Log {
	l := NewLog(nil, func() time.Time { return now })
	n := 0
	l.newID = func() string {
		n++
		return fmt.Sprintf("rec-%d", n)
	}
	return l
}

func TestAdd_FirstRecordingIsImplicitBaseline(t *testing.T) {
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	l := newTestLog(now)

	first := l.Add(models.NewRecording{Timestamp: now.Add(-48 * time.Hour), DurationMs: 5000, Stability: 80})
	if first.BaselineComparison != nil {
		t.Fatal("first recording has nothing to compare with")
	}
	if first.Recording.JitterPct != 0.4 || first.Recording.ID != "rec-1" {
		t.Fatalf("unexpected recording: %+v", first.Recording)
	}

	second := l.Add(models.NewRecording{DurationMs: 5000, Stability: 70})
	if second.BaselineComparison == nil {
		t.Fatal("expected a baseline comparison")
	}
	if second.BaselineComparison.StabilityDiff != -10 || second.BaselineComparison.JitterDiff != 0.2 {
		t.Fatalf("comparison: %+v", *second.BaselineComparison)
	}
	if !second.Recording.Timestamp.Equal(now) {
		t.Fatal("zero timestamp must default to now")
	}
}

func TestSetBaselineAndDelete(t *testing.T) {
	now := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	l := newTestLog(now)
	l.Add(models.NewRecording{Timestamp: now.Add(-72 * time.Hour), Stability: 60})
	l.Add(models.NewRecording{Timestamp: now.Add(-24 * time.Hour), Stability: 90})

	if l.SetBaseline("missing") {
		t.Fatal("unknown id must be ignored")
	}
	if !l.SetBaseline("rec-2") {
		t.Fatal("expected baseline to move")
	}
	if b, _ := l.Baseline(); b.ID != "rec-2" || !b.IsBaseline {
		t.Fatalf("baseline: %+v", b)
	}
	if !l.Delete("rec-2") {
		t.Fatal("delete failed")
	}
	if b, _ := l.Baseline(); b.ID != "rec-1" {
		t.Fatalf("baseline should fall back to the earliest recording, got %s", b.ID)
	}
	if l.Delete("rec-2") {
		t.Fatal("second delete must report false")
	}
}

func TestQueries(t *testing.T) {
	now := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)
	l := newTestLog(now)
	l.Add(models.NewRecording{Timestamp: time.Date(2024, 5, 10, 7, 0, 0, 0, time.UTC), Stability: 80})
	l.Add(models.NewRecording{Timestamp: time.Date(2024, 5, 10, 19, 0, 0, 0, time.UTC), Stability: 60})
	l.Add(models.NewRecording{Timestamp: time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC), Stability: 50})

	if got := l.ForDate("2024-05-10"); len(got) != 2 {
		t.Fatalf("ForDate: got %d", len(got))
	}
	if latest, _ := l.Latest(); latest.ID != "rec-2" {
		t.Fatalf("Latest: got %s", latest.ID)
	}
	if avg := l.AverageJitter(30); avg < 0.5999 || avg > 0.6001 {
		t.Fatalf("AverageJitter: got %v, want 0.6", avg)
	}
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	if got := l.InRange(from, to); len(got) != 1 || got[0].ID != "rec-3" {
		t.Fatalf("InRange: %+v", got)
	}
	if (&Log{now: time.Now}).AverageJitter(30) != 0 {
		t.Fatal("empty log must average to 0")
	}
}
