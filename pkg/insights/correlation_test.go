package insights

import (
	"math"
	"strings"
	"testing"
	"time"

	"cycle-insights/pkg/models"
)

func f(v float64) *float64 { return &v }

// series builds n consecutive days starting 2024-01-01 with the given period days.
func series(n int, periodDays ...int) []models.DailyHealthData {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.DailyHealthData, n)
	for i := range out {
		out[i].Date = models.FormatDay(start.AddDate(0, 0, i))
	}
	for _, p := range periodDays {
		out[p].IsPeriod = true
	}
	return out
}

func TestAnalyzeCorrelations_PrePeriodJitter(t *testing.T) {
	s := series(30, 10, 11, 12, 13, 14)
	for i := range s {
		s[i].Jitter = f(0.3)
	}
	for i := 5; i <= 9; i++ {
		s[i].Jitter = f(1.2)
	}

	got := AnalyzeCorrelations(s)
	if len(got) != 1 {
		t.Fatalf("got %d insights, want 1: %v", len(got), got)
	}
	if !strings.HasPrefix(got[0], "Your vocal jitter tends to increase by 214%") {
		t.Fatalf("unexpected insight: %s", got[0])
	}
}

func TestAnalyzeCorrelations_NoSpikeBelowThreshold(t *testing.T) {
	s := series(30, 10, 11, 12, 13, 14)
	for i := range s {
		s[i].Jitter = f(0.3)
	}
	if got := AnalyzeCorrelations(s); len(got) != 0 {
		t.Fatalf("flat jitter must not produce insights: %v", got)
	}
}

func TestAnalyzeCorrelations_PeriodRHR(t *testing.T) {
	s := series(20, 10, 11, 12, 13, 14)
	for i := range s {
		if s[i].IsPeriod {
			s[i].RHR = f(70)
		} else {
			s[i].RHR = f(62)
		}
	}
	got := AnalyzeCorrelations(s)
	if len(got) != 1 || !strings.Contains(got[0], "8 bpm higher during your period") {
		t.Fatalf("unexpected insights: %v", got)
	}

	for i := range s {
		if s[i].IsPeriod {
			s[i].RHR = f(55)
		}
	}
	got = AnalyzeCorrelations(s)
	if len(got) != 1 || !strings.Contains(got[0], "7 bpm lower during your period") {
		t.Fatalf("unexpected insights: %v", got)
	}
}

func TestAnalyzeCorrelations_JitterRHRCorrelation(t *testing.T) {
	pos := series(10)
	neg := series(10)
	for i := range pos {
		pos[i].Jitter = f(0.2 + 0.1*float64(i))
		pos[i].RHR = f(60 + float64(i))
		neg[i].Jitter = f(0.2 + 0.1*float64(i))
		neg[i].RHR = f(80 - float64(i))
	}

	got := AnalyzeCorrelations(pos)
	if len(got) != 1 || !strings.Contains(got[0], "Strong positive correlation") || !strings.Contains(got[0], "r=1.00") {
		t.Fatalf("positive: %v", got)
	}
	got = AnalyzeCorrelations(neg)
	if len(got) != 1 || !strings.Contains(got[0], "Negative correlation") || !strings.Contains(got[0], "r=-1.00") {
		t.Fatalf("negative: %v", got)
	}
}

func TestAnalyzeCorrelations_FixedOrder(t *testing.T) {
	s := series(30, 10, 11, 12, 13, 14)
	for i := range s {
		j := 0.3
		if i >= 5 && i <= 9 {
			j = 1.2
		}
		s[i].Jitter = f(j)
		s[i].RHR = f(60 + 10*j)
	}
	got := AnalyzeCorrelations(s)
	if len(got) != 2 {
		t.Fatalf("got %d insights, want 2: %v", len(got), got)
	}
	if !strings.Contains(got[0], "vocal jitter tends to increase") || !strings.Contains(got[1], "Strong positive correlation") {
		t.Fatalf("order: %v", got)
	}
}

func TestAnalyzeCorrelations_NotEnoughData(t *testing.T) {
	s := series(30)
	for i := 0; i < 6; i++ {
		s[i].Jitter = f(0.4)
		s[i].RHR = f(60 + float64(i))
	}
	got := AnalyzeCorrelations(s)
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil list, got %#v", got)
	}
	if got := AnalyzeCorrelations(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil series: %#v", got)
	}
}

func TestPearson(t *testing.T) {
	r, ok := Pearson([]float64{1, 2, 3, 4}, []float64{2, 4, 5, 9})
	if !ok || math.Abs(r-0.9648) > 0.001 {
		t.Fatalf("got %v %v", r, ok)
	}
	if _, ok := Pearson([]float64{1, 1, 1}, []float64{1, 2, 3}); ok {
		t.Fatal("zero variance must report false")
	}
	if _, ok := Pearson([]float64{1, 2}, []float64{1}); ok {
		t.Fatal("length mismatch must report false")
	}
}
