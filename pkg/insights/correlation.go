// Package insights derives short, human-readable statistical observations from
// the joined daily series.
package insights

import (
	"fmt"
	"math"

	"cycle-insights/pkg/models"
)

const (
	maxInsights    = 3
	minSignalDays  = 7
	minPrePeriod   = 2
	minBaseline    = 3
	minPeriodRHR   = 3
	minOffRHR      = 5
	minPairs       = 7
	spikePercent   = 20.0
	rhrDeltaBPM    = 3.0
	strongPearsonR = 0.5
)

// AnalyzeCorrelations returns up to three insights in a fixed order: pre-period
// jitter spike, period RHR delta, jitter/RHR correlation. It needs at least seven
// days carrying jitter or RHR.
func AnalyzeCorrelations(series []models.DailyHealthData) []string {
	withSignal := 0
	for _, d := range series {
		if d.Jitter != nil || d.RHR != nil {
			withSignal++
		}
	}
	if withSignal < minSignalDays {
		return []string{}
	}

	out := make([]string, 0, maxInsights)
	for _, analyze := range []func([]models.DailyHealthData) (string, bool){
		prePeriodJitter,
		periodRHRDelta,
		jitterRHRCorrelation,
	} {
		if s, ok := analyze(series); ok {
			out = append(out, s)
		}
	}
	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}

// prePeriodJitter compares jitter 3-5 days before a period day with the rest.
func prePeriodJitter(series []models.DailyHealthData) (string, bool) {
	var pre, baseline []float64
	for i, d := range series {
		if d.Jitter == nil {
			continue
		}
		isPre := false
		for j := i + 3; j <= i+5 && j < len(series); j++ {
			if series[j].IsPeriod {
				isPre = true
				break
			}
		}
		switch {
		case isPre:
			pre = append(pre, *d.Jitter)
		case !d.IsPeriod:
			baseline = append(baseline, *d.Jitter)
		}
	}
	if len(pre) < minPrePeriod || len(baseline) < minBaseline {
		return "", false
	}
	avgBaseline := mean(baseline)
	if avgBaseline == 0 {
		return "", false
	}
	increase := (mean(pre) - avgBaseline) / avgBaseline * 100
	if increase <= spikePercent {
		return "", false
	}
	return fmt.Sprintf("Your vocal jitter tends to increase by %d%% in the days before your period, indicating hormonal changes.",
		int(math.Round(increase))), true
}

// periodRHRDelta compares resting heart rate on period days with the other days.
func periodRHRDelta(series []models.DailyHealthData) (string, bool) {
	var onPeriod, offPeriod []float64
	for _, d := range series {
		if d.RHR == nil {
			continue
		}
		if d.IsPeriod {
			onPeriod = append(onPeriod, *d.RHR)
		} else {
			offPeriod = append(offPeriod, *d.RHR)
		}
	}
	if len(onPeriod) < minPeriodRHR || len(offPeriod) < minOffRHR {
		return "", false
	}
	diff := mean(onPeriod) - mean(offPeriod)
	if math.Abs(diff) <= rhrDeltaBPM {
		return "", false
	}
	if diff > 0 {
		return fmt.Sprintf("Your resting heart rate is %d bpm higher during your period, which is common due to inflammation and blood loss.",
			int(math.Round(diff))), true
	}
	return fmt.Sprintf("Your resting heart rate is %d bpm lower during your period, which may indicate good cardiovascular adaptation.",
		int(math.Round(-diff))), true
}

// jitterRHRCorrelation reports a strong Pearson correlation between the two signals.
func jitterRHRCorrelation(series []models.DailyHealthData) (string, bool) {
	var xs, ys []float64
	for _, d := range series {
		if d.Jitter != nil && d.RHR != nil {
			xs = append(xs, *d.Jitter)
			ys = append(ys, *d.RHR)
		}
	}
	if len(xs) < minPairs {
		return "", false
	}
	r, ok := Pearson(xs, ys)
	if !ok {
		return "", false
	}
	switch {
	case r > strongPearsonR:
		return fmt.Sprintf("Strong positive correlation detected: Higher vocal jitter aligns with elevated heart rate (r=%.2f), suggesting stress or inflammation.", r), true
	case r < -strongPearsonR:
		return fmt.Sprintf("Negative correlation detected: Your vocal stability improves when heart rate is elevated (r=%.2f), which may indicate exercise benefits.", r), true
	}
	return "", false
}

// Pearson returns the correlation coefficient of two equal-length samples.
// It reports false when either sample has zero variance.
func Pearson(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if len(xs) == 0 || len(xs) != len(ys) {
		return 0, false
	}
	var sx, sy, sxy, sxx, syy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxy += xs[i] * ys[i]
		sxx += xs[i] * xs[i]
		syy += ys[i] * ys[i]
	}
	den := math.Sqrt((n*sxx - sx*sx) * (n*syy - sy*sy))
	if math.IsNaN(den) || den < 1e-12 {
		return 0, false
	}
	return (n*sxy - sx*sy) / den, true
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}
