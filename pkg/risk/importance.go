package risk

import (
	"math"
	"sort"

	"cycle-insights/pkg/models"
)

// featureImportance normalises triggered factors to their share of score and
// appends protective observations with zero contribution. Ties keep rule order.
func featureImportance(factors []models.ContributingFactor, protective []models.FeatureImportance, score int) []models.FeatureImportance {
	out := make([]models.FeatureImportance, 0, len(factors)+len(protective))
	for _, f := range factors {
		contribution := 0.0
		if score > 0 {
			contribution = float64(f.Points) / float64(score) * 100
		}
		out = append(out, models.FeatureImportance{
			ID:           f.ID,
			Label:        f.Label,
			Category:     f.Category,
			Points:       f.Points,
			Contribution: contribution,
			Direction:    models.DirectionPositive,
			Description:  f.Description,
		})
	}
	out = append(out, protective...)
	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Contribution) > math.Abs(out[j].Contribution)
	})
	return out
}
