// Package risk scores an onboarding profile with additive, explainable rules.
//
// Rules are evaluated in a fixed order (cycle, physical markers, family history,
// voice stability, BMI). Each triggered rule becomes a ContributingFactor; rules
// that evaluate to a reassuring answer become protective observations that only
// appear in the feature-importance view.
package risk

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"cycle-insights/pkg/models"
	"cycle-insights/pkg/recording"
)

// ModelVersion identifies the rule set; it is part of the audit hash.
const ModelVersion = "rules-v1"

// stabilityThreshold is the voice stability below which jitter points accrue.
const stabilityThreshold = 70

// rule returns either a triggered factor, a protective observation, or neither.
type rule func(models.RiskInputProfile) (*models.ContributingFactor, *models.FeatureImportance)

var rules = []rule{cycleRule, markerRule, familyRule, voiceRule, bmiRule}

// Engine runs the scoring rules. The zero value uses time.Now for AnalyzedAt.
type Engine struct {
	Now func() time.Time
}

// Analyze scores p. Apart from AnalyzedAt the result depends only on p.
func (e Engine) Analyze(p models.RiskInputProfile) models.RiskAnalysis {
	now := e.Now
	if now == nil {
		now = time.Now
	}

	var factors []models.ContributingFactor
	var protective []models.FeatureImportance
	for _, r := range rules {
		if f, obs := r(p); f != nil {
			factors = append(factors, *f)
		} else if obs != nil {
			protective = append(protective, *obs)
		}
	}

	score := 0
	for _, f := range factors {
		score += f.Points
	}
	level := models.RiskLevelFor(score)
	if factors == nil {
		factors = []models.ContributingFactor{}
	}

	vocalJitter := 0.0
	if p.VoiceRecording != nil {
		vocalJitter = recording.StabilityToJitter(p.VoiceRecording.Stability)
	}

	return models.RiskAnalysis{
		RiskScore:           score,
		RiskLevel:           level,
		Narrative:           narrative(level, p.Name, len(factors)),
		ContributingFactors: factors,
		FeatureImportance:   featureImportance(factors, protective, score),
		AnalyzedAt:          now().UTC(),
		VocalJitter:         vocalJitter,
		EstimatedPhase:      EstimatePhase(p.CycleRegularity),
		ModelVersion:        ModelVersion,
		AuditHash:           AuditHash(p, score),
	}
}

// EstimatePhase is a coarse label keyed only on the reported regularity.
// It does not consult the period ledger.
func EstimatePhase(r models.CycleRegularity) string {
	switch r {
	case models.CycleRegular:
		return "Follicular"
	case models.CycleIrregular:
		return "Uncertain"
	case models.CycleNone:
		return "Anovulatory"
	default:
		return "Unknown"
	}
}

func capped(cat models.FactorCategory, points int) int {
	return min(points, models.CategoryCaps[cat])
}

func protectiveObs(id, label string, cat models.FactorCategory, desc string) *models.FeatureImportance {
	return &models.FeatureImportance{
		ID:          id,
		Label:       label,
		Category:    cat,
		Direction:   models.DirectionNegative,
		Description: desc,
	}
}

func cycleRule(p models.RiskInputProfile) (*models.ContributingFactor, *models.FeatureImportance) {
	switch p.CycleRegularity {
	case models.CycleIrregular:
		return &models.ContributingFactor{
			ID:          "cycle-irregular",
			Label:       "Irregular Menstrual Cycles",
			Category:    models.CategoryCycle,
			Points:      capped(models.CategoryCycle, 30),
			Description: "Oligomenorrhea (fewer than 9 periods/year) is a key PCOS indicator",
		}, nil
	case models.CycleNone:
		return &models.ContributingFactor{
			ID:          "cycle-amenorrhea",
			Label:       "Amenorrhea (No Periods)",
			Category:    models.CategoryCycle,
			Points:      capped(models.CategoryCycle, 40),
			Description: "Absence of menstruation for 3+ months suggests anovulation",
		}, nil
	case models.CycleRegular:
		return nil, protectiveObs("cycle-regular", "Regular Menstrual Cycles", models.CategoryCycle,
			"Regular cycles suggest ovulatory function")
	}
	return nil, nil
}

// distinctMarkers drops unknown and repeated markers, keeping first-seen order.
func distinctMarkers(ms []models.PhysicalMarker) []models.PhysicalMarker {
	out := make([]models.PhysicalMarker, 0, len(ms))
	for _, m := range ms {
		if m.Valid() && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}

func markerRule(p models.RiskInputProfile) (*models.ContributingFactor, *models.FeatureImportance) {
	markers := distinctMarkers(p.PhysicalMarkers)
	count := len(markers)
	if count >= 2 {
		labels := make([]string, 0, count)
		for _, m := range markers {
			labels = append(labels, models.MarkerLabels[m])
		}
		return &models.ContributingFactor{
			ID:          "physical-markers",
			Label:       fmt.Sprintf("%d Hyperandrogenism Signs", count),
			Category:    models.CategoryPhysical,
			Points:      capped(models.CategoryPhysical, count*10),
			Description: "Rotterdam Criteria: " + strings.Join(labels, ", "),
		}, nil
	}
	if p.NoPhysicalMarkers && count == 0 {
		return nil, protectiveObs("markers-none", "No Hyperandrogenism Signs", models.CategoryPhysical,
			"No acne, hair thinning, hirsutism or acanthosis nigricans reported")
	}
	return nil, nil
}

func familyRule(p models.RiskInputProfile) (*models.ContributingFactor, *models.FeatureImportance) {
	switch p.FamilyHistory {
	case models.FamilyHistoryYes:
		return &models.ContributingFactor{
			ID:          "family-history",
			Label:       "Family History of PCOS",
			Category:    models.CategoryFamily,
			Points:      capped(models.CategoryFamily, 15),
			Description: "First-degree relatives with PCOS or irregular cycles",
		}, nil
	case models.FamilyHistoryNo:
		return nil, protectiveObs("family-negative", "No Family History", models.CategoryFamily,
			"No first-degree relatives with PCOS reported")
	}
	return nil, nil
}

func voiceRule(p models.RiskInputProfile) (*models.ContributingFactor, *models.FeatureImportance) {
	if p.VoiceRecording == nil {
		return nil, nil
	}
	stability := p.VoiceRecording.Stability
	if stability < stabilityThreshold {
		points := capped(models.CategoryVoice, int(math.Round((stabilityThreshold-stability)/5)))
		if points > 0 {
			return &models.ContributingFactor{
				ID:          "voice-jitter",
				Label:       "Elevated Vocal Jitter",
				Category:    models.CategoryVoice,
				Points:      points,
				Description: fmt.Sprintf("Voice stability: %.1f%% (hormonal dysregulation marker)", stability),
			}, nil
		}
	}
	return nil, protectiveObs("voice-stable", "Stable Voice Baseline", models.CategoryVoice,
		fmt.Sprintf("Voice stability: %.1f%%", stability))
}

func bmiRule(p models.RiskInputProfile) (*models.ContributingFactor, *models.FeatureImportance) {
	bmi, ok := BMI(p.Height, p.Weight)
	if !ok {
		return nil, nil
	}
	switch {
	case bmi >= 30:
		return &models.ContributingFactor{
			ID:          "bmi-elevated",
			Label:       "Obesity",
			Category:    models.CategoryMetabolic,
			Points:      capped(models.CategoryMetabolic, 10),
			Description: fmt.Sprintf("BMI: %.1f (metabolic syndrome risk)", bmi),
		}, nil
	case bmi >= 25:
		return &models.ContributingFactor{
			ID:          "bmi-elevated",
			Label:       "Overweight",
			Category:    models.CategoryMetabolic,
			Points:      capped(models.CategoryMetabolic, 5),
			Description: fmt.Sprintf("BMI: %.1f (metabolic syndrome risk)", bmi),
		}, nil
	}
	return nil, protectiveObs("bmi-normal", "Healthy BMI", models.CategoryMetabolic,
		fmt.Sprintf("BMI: %.1f", bmi))
}

// BMI computes kg/m². It reports false when height or weight is missing.
func BMI(h models.Height, w models.Weight) (float64, bool) {
	cm, kg := h.Centimeters(), w.Kilograms()
	if cm <= 0 || kg <= 0 {
		return 0, false
	}
	m := cm / 100
	return kg / (m * m), true
}

// BMICategory labels a profile's BMI, "Unknown" when it cannot be computed.
func BMICategory(h models.Height, w models.Weight) string {
	bmi, ok := BMI(h, w)
	switch {
	case !ok:
		return "Unknown"
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}
