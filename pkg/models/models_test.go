package models

import (
	"testing"
	"time"
)

func TestParseDay_DatetimeKeepsDatePart(t *testing.T) {
	got, err := ParseDay("2024-01-05T22:10:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseDay_Invalid(t *testing.T) {
	for _, in := range []string{"", "2024-13-01", "01/05/2024", "yesterday"} {
		if _, err := ParseDay(in); err != ErrInvalidDay {
			t.Fatalf("ParseDay(%q): got %v, want ErrInvalidDay", in, err)
		}
	}
	if got := NormalizeDay("nope"); got != "" {
		t.Fatalf("NormalizeDay: got %q, want empty", got)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 29, 23, 59, 0, 0, time.UTC)
	b := time.Date(2024, 2, 26, 0, 1, 0, 0, time.UTC)
	if d := DaysBetween(a, b); d != 28 {
		t.Fatalf("got %d, want 28", d)
	}
	if d := DaysBetween(b, a); d != -28 {
		t.Fatalf("got %d, want -28", d)
	}
}

func TestRiskLevelFor_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  RiskLevel
	}{
		{0, RiskLow},
		{24, RiskLow},
		{25, RiskModerate},
		{54, RiskModerate},
		{55, RiskHigh},
		{100, RiskHigh},
	}
	for _, c := range cases {
		if got := RiskLevelFor(c.score); got != c.want {
			t.Fatalf("score=%d: got %s, want %s", c.score, got, c.want)
		}
	}
}

func TestHeightWeightConversion(t *testing.T) {
	h := Height{Feet: 5, Inches: 6}
	if cm := h.Centimeters(); cm < 167.63 || cm > 167.65 {
		t.Fatalf("5'6\" -> %.3f cm", cm)
	}
	if kg := (Weight{LBS: 150}).Kilograms(); kg < 68.03 || kg > 68.04 {
		t.Fatalf("150 lbs -> %.3f kg", kg)
	}
	if (Height{}).Centimeters() != 0 || (Weight{}).Kilograms() != 0 {
		t.Fatal("missing measures must report 0")
	}
}

func TestProfileValidate(t *testing.T) {
	ok := RiskInputProfile{CycleRegularity: CycleIrregular, PhysicalMarkers: []PhysicalMarker{MarkerAcne}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bad := RiskInputProfile{PhysicalMarkers: []PhysicalMarker{"freckles"}}
	if err := bad.Validate(); err != ErrInvalidInput {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	dup := RiskInputProfile{PhysicalMarkers: []PhysicalMarker{MarkerAcne, MarkerHairThinning, MarkerAcne}}
	if err := dup.Validate(); err != ErrInvalidInput {
		t.Fatalf("repeated marker: got %v, want ErrInvalidInput", err)
	}
	whole := RiskInputProfile{VoiceRecording: &BaselineVoice{Stability: 82}}
	if err := whole.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	fractional := RiskInputProfile{VoiceRecording: &BaselineVoice{Stability: 82.5}}
	if err := fractional.Validate(); err != ErrInvalidInput {
		t.Fatalf("fractional stability: got %v, want ErrInvalidInput", err)
	}
	if _, err := ParseSymptom("sneezing"); err != ErrInvalidSymptom {
		t.Fatalf("got %v, want ErrInvalidSymptom", err)
	}
}
