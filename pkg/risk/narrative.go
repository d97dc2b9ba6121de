package risk

import (
	"fmt"
	"sort"

	"cycle-insights/pkg/models"
)

func narrative(level models.RiskLevel, name string, factorCount int) string {
	if name == "" {
		name = "there"
	}
	switch level {
	case models.RiskHigh:
		return fmt.Sprintf("Hi %s, your baseline analysis shows elevated hormonal risk markers. %d contributing factors were identified. We recommend consulting with a healthcare provider for comprehensive evaluation.", name, factorCount)
	case models.RiskModerate:
		return fmt.Sprintf("Hi %s, your analysis shows some hormonal irregularities worth monitoring. %d factors detected. Continue tracking your cycles and symptoms.", name, factorCount)
	default:
		if factorCount == 0 {
			return fmt.Sprintf("Hi %s, your hormonal baseline appears within normal ranges. No significant risk factors detected.", name)
		}
		return fmt.Sprintf("Hi %s, your hormonal baseline appears within normal ranges. Minor factors noted for awareness.", name)
	}
}

// Summarize builds the anonymised payload for the external narrative generator.
// The profile name never leaves this package.
func Summarize(p models.RiskInputProfile, a models.RiskAnalysis) models.NarrativeSummary {
	factors := make([]models.NarrativeFactor, 0, len(a.ContributingFactors))
	for _, f := range a.ContributingFactors {
		factors = append(factors, models.NarrativeFactor{Label: f.Label, Category: f.Category, Points: f.Points})
	}

	ranked := append([]models.NarrativeFactor(nil), factors...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Points > ranked[j].Points })
	top := make([]string, 0, 3)
	for i := 0; i < len(ranked) && i < 3; i++ {
		top = append(top, ranked[i].Label)
	}

	trend := "significantly elevated"
	switch {
	case a.VocalJitter < 0.5:
		trend = "within normal range"
	case a.VocalJitter < 1.0:
		trend = "mildly elevated"
	}

	markers := distinctMarkers(p.PhysicalMarkers)
	return models.NarrativeSummary{
		RiskScore:           a.RiskScore,
		RiskLevel:           a.RiskLevel,
		VocalJitter:         a.VocalJitter,
		JitterTrend:         trend,
		CycleRegularity:     p.CycleRegularity,
		PhysicalMarkers:     markers,
		FamilyHistory:       p.FamilyHistory == models.FamilyHistoryYes,
		BMICategory:         BMICategory(p.Height, p.Weight),
		ContributingFactors: factors,
		TopFactors:          top,
		EstimatedPhase:      a.EstimatedPhase,
	}
}
