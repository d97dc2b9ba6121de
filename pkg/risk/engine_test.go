package risk

import (
	"math"
	"strings"
	"testing"
	"time"

	"cycle-insights/pkg/models"
)

var testEngine = Engine{Now: func() time.Time { return time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC) }}

func TestAnalyze_HighRiskScenario(t *testing.T) {
	p := models.RiskInputProfile{
		Name:            "Ana",
		CycleRegularity: models.CycleNone,
		PhysicalMarkers: []models.PhysicalMarker{models.MarkerAcne, models.MarkerHairThinning, models.MarkerUnwantedHairGrowth},
		FamilyHistory:   models.FamilyHistoryYes,
	}
	a := testEngine.Analyze(p)
	if a.RiskScore != 85 {
		t.Fatalf("score: got %d, want 85", a.RiskScore)
	}
	if a.RiskLevel != models.RiskHigh {
		t.Fatalf("level: got %s, want HIGH", a.RiskLevel)
	}
	if len(a.ContributingFactors) != 3 {
		t.Fatalf("factors: got %d, want 3", len(a.ContributingFactors))
	}
	markers := a.ContributingFactors[1]
	if markers.Label != "3 Hyperandrogenism Signs" || markers.Points != 30 {
		t.Fatalf("marker factor: %+v", markers)
	}
	if !strings.Contains(markers.Description, "Hirsutism") {
		t.Fatalf("marker description: %s", markers.Description)
	}
	if a.VocalJitter != 0 {
		t.Fatalf("vocal jitter without recording: %v", a.VocalJitter)
	}
	if a.EstimatedPhase != "Anovulatory" {
		t.Fatalf("phase: %s", a.EstimatedPhase)
	}
	if !strings.Contains(a.Narrative, "Hi Ana") || !strings.Contains(a.Narrative, "3 contributing factors") {
		t.Fatalf("narrative: %s", a.Narrative)
	}
	if a.ModelVersion != ModelVersion || len(a.AuditHash) != 16 {
		t.Fatalf("audit fields: %q %q", a.ModelVersion, a.AuditHash)
	}
}

func TestAnalyze_MarkerThresholdAndCap(t *testing.T) {
	one := testEngine.Analyze(models.RiskInputProfile{PhysicalMarkers: []models.PhysicalMarker{models.MarkerAcne}})
	if one.RiskScore != 0 || len(one.ContributingFactors) != 0 {
		t.Fatalf("single marker must not score: %+v", one.ContributingFactors)
	}
	four := testEngine.Analyze(models.RiskInputProfile{PhysicalMarkers: []models.PhysicalMarker{
		models.MarkerAcne, models.MarkerHairThinning, models.MarkerUnwantedHairGrowth, models.MarkerAcanthosisNigricans,
	}})
	if four.RiskScore != 30 {
		t.Fatalf("four markers: got %d, want capped 30", four.RiskScore)
	}

	repeated := testEngine.Analyze(models.RiskInputProfile{PhysicalMarkers: []models.PhysicalMarker{
		models.MarkerAcne, models.MarkerAcne, models.MarkerAcne,
	}})
	if repeated.RiskScore != 0 || len(repeated.ContributingFactors) != 0 {
		t.Fatalf("repeated marker counts once: %+v", repeated.ContributingFactors)
	}
	two := testEngine.Analyze(models.RiskInputProfile{PhysicalMarkers: []models.PhysicalMarker{
		models.MarkerAcne, models.MarkerHairThinning, models.MarkerAcne, "freckles",
	}})
	if two.RiskScore != 20 || len(two.ContributingFactors) != 1 || two.ContributingFactors[0].Label != "2 Hyperandrogenism Signs" {
		t.Fatalf("distinct markers: %d %+v", two.RiskScore, two.ContributingFactors)
	}
}

func TestAnalyze_VoiceRule(t *testing.T) {
	cases := []struct {
		stability  float64
		wantPoints int
	}{
		{90, 0},
		{70, 0},
		{68, 0},
		{40, 6},
		{0, 14},
	}
	for _, c := range cases {
		a := testEngine.Analyze(models.RiskInputProfile{VoiceRecording: &models.BaselineVoice{Stability: c.stability}})
		if a.RiskScore != c.wantPoints {
			t.Fatalf("stability %v: got %d points, want %d", c.stability, a.RiskScore, c.wantPoints)
		}
		if c.wantPoints == 0 && len(a.ContributingFactors) != 0 {
			t.Fatalf("stability %v: unexpected factor %+v", c.stability, a.ContributingFactors)
		}
	}
	a := testEngine.Analyze(models.RiskInputProfile{VoiceRecording: &models.BaselineVoice{Stability: 40}})
	if a.VocalJitter != 1.2 {
		t.Fatalf("vocal jitter: got %v, want 1.2", a.VocalJitter)
	}
}

func TestAnalyze_BMIRule(t *testing.T) {
	overweight := testEngine.Analyze(models.RiskInputProfile{
		Height: models.Height{CM: 165}, Weight: models.Weight{KG: 70},
	})
	if overweight.RiskScore != 5 || overweight.ContributingFactors[0].Label != "Overweight" {
		t.Fatalf("overweight: %+v", overweight.ContributingFactors)
	}

	obese := testEngine.Analyze(models.RiskInputProfile{
		UnitSystem: models.UnitsImperial,
		Height:     models.Height{Feet: 5, Inches: 5}, Weight: models.Weight{LBS: 200},
	})
	if obese.RiskScore != 10 || obese.ContributingFactors[0].Label != "Obesity" {
		t.Fatalf("obese: %+v", obese.ContributingFactors)
	}

	missing := testEngine.Analyze(models.RiskInputProfile{Height: models.Height{CM: 165}})
	if missing.RiskScore != 0 || len(missing.FeatureImportance) != 0 {
		t.Fatalf("missing weight must skip the rule entirely: %+v", missing.FeatureImportance)
	}
}

func TestFeatureImportance(t *testing.T) {
	no := false
	a := testEngine.Analyze(models.RiskInputProfile{
		CycleRegularity:        models.CycleNone,
		FamilyHistory:          models.FamilyHistoryYes,
		NoPhysicalMarkers:      true,
		UsesHormonalMedication: &no,
		Height:                 models.Height{CM: 170}, Weight: models.Weight{KG: 60},
	})
	if a.RiskScore != 55 || a.RiskLevel != models.RiskHigh {
		t.Fatalf("score %d level %s", a.RiskScore, a.RiskLevel)
	}
	fi := a.FeatureImportance
	if len(fi) != 4 {
		t.Fatalf("got %d entries, want 4", len(fi))
	}
	if fi[0].ID != "cycle-amenorrhea" || math.Abs(fi[0].Contribution-72.727) > 0.01 {
		t.Fatalf("first entry: %+v", fi[0])
	}
	if fi[1].ID != "family-history" || math.Abs(fi[1].Contribution-27.273) > 0.01 {
		t.Fatalf("second entry: %+v", fi[1])
	}
	for _, f := range fi[2:] {
		if f.Direction != models.DirectionNegative || f.Contribution != 0 {
			t.Fatalf("protective entry: %+v", f)
		}
	}
	total := 0.0
	for _, f := range fi {
		total += f.Contribution
	}
	if math.Abs(total-100) > 1e-9 {
		t.Fatalf("contributions sum to %v", total)
	}
}

func TestAnalyze_ZeroScoreIsAllProtective(t *testing.T) {
	a := testEngine.Analyze(models.RiskInputProfile{
		CycleRegularity: models.CycleRegular,
		FamilyHistory:   models.FamilyHistoryNo,
	})
	if a.RiskScore != 0 || a.RiskLevel != models.RiskLow {
		t.Fatalf("score %d level %s", a.RiskScore, a.RiskLevel)
	}
	if a.ContributingFactors == nil || len(a.ContributingFactors) != 0 {
		t.Fatal("factors must be an empty, non-nil list")
	}
	for _, f := range a.FeatureImportance {
		if f.Contribution != 0 || math.IsNaN(f.Contribution) {
			t.Fatalf("contribution must be 0: %+v", f)
		}
	}
	if !strings.Contains(a.Narrative, "No significant risk factors") {
		t.Fatalf("narrative: %s", a.Narrative)
	}
	if a.EstimatedPhase != "Follicular" {
		t.Fatalf("phase: %s", a.EstimatedPhase)
	}
}

func TestAuditHash(t *testing.T) {
	p := models.RiskInputProfile{
		CycleRegularity: models.CycleIrregular,
		PhysicalMarkers: []models.PhysicalMarker{models.MarkerHairThinning, models.MarkerAcne},
	}
	q := p
	q.PhysicalMarkers = []models.PhysicalMarker{models.MarkerAcne, models.MarkerHairThinning}
	q.Name = "someone else"

	if AuditHash(p, 50) != AuditHash(q, 50) {
		t.Fatal("hash must ignore marker order and the name")
	}
	if AuditHash(p, 50) == AuditHash(p, 51) {
		t.Fatal("hash must change with the score")
	}
	if testEngine.Analyze(p).AuditHash != testEngine.Analyze(q).AuditHash {
		t.Fatal("analysis hash must be reproducible")
	}
}

func TestSummarize(t *testing.T) {
	p := models.RiskInputProfile{
		Name:            "Private Name",
		CycleRegularity: models.CycleIrregular,
		PhysicalMarkers: []models.PhysicalMarker{models.MarkerAcne, models.MarkerHairThinning},
		FamilyHistory:   models.FamilyHistoryYes,
		VoiceRecording:  &models.BaselineVoice{Stability: 60},
		Height:          models.Height{CM: 160}, Weight: models.Weight{KG: 50},
	}
	a := testEngine.Analyze(p)
	s := Summarize(p, a)
	if s.RiskScore != 67 || s.RiskLevel != models.RiskHigh {
		t.Fatalf("summary score: %d %s", s.RiskScore, s.RiskLevel)
	}
	if len(s.TopFactors) != 3 || s.TopFactors[0] != "Irregular Menstrual Cycles" {
		t.Fatalf("top factors: %v", s.TopFactors)
	}
	if s.BMICategory != "Normal" || !s.FamilyHistory || s.JitterTrend != "mildly elevated" {
		t.Fatalf("summary: %+v", s)
	}
}

func TestBMICategory(t *testing.T) {
	cases := []struct {
		kg   float64
		want string
	}{
		{45, "Underweight"},
		{60, "Normal"},
		{80, "Overweight"},
		{95, "Obese"},
		{0, "Unknown"},
	}
	for _, c := range cases {
		if got := BMICategory(models.Height{CM: 170}, models.Weight{KG: c.kg}); got != c.want {
			t.Fatalf("%v kg: got %s, want %s", c.kg, got, c.want)
		}
	}
}
