package calculator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"cycle-insights/pkg/models"
	"cycle-insights/pkg/risk"
)

const (
	trendWindow     = 7
	minTrendPoints  = 3
	rhrDeadZone     = 1.0
	bmiDeadZone     = 0.1
	bmiLookbackDays = 30
)

// Calculate7DayAverages averages every defined jitter/RHR value of the series and
// compares the last seven days of RHR with the seven before.
func Calculate7DayAverages(series []models.DailyHealthData) models.SeriesAverages {
	var jitters, rhrs []float64
	for _, d := range series {
		if d.Jitter != nil {
			jitters = append(jitters, *d.Jitter)
		}
		if d.RHR != nil {
			rhrs = append(rhrs, *d.RHR)
		}
	}

	out := models.SeriesAverages{
		DataPoints: models.DataPoints{Jitter: len(jitters), RHR: len(rhrs)},
	}
	if len(jitters) > 0 {
		v := mean(jitters)
		out.AvgJitter = &v
	}
	if len(rhrs) > 0 {
		v := mean(rhrs)
		out.AvgRHR = &v
	}
	out.RHRTrend = rhrTrend(series)
	return out
}

func rhrTrend(series []models.DailyHealthData) *string {
	if len(series) < 2*trendWindow {
		return nil
	}
	recent := definedRHR(series[len(series)-trendWindow:])
	previous := definedRHR(series[len(series)-2*trendWindow : len(series)-trendWindow])
	if len(recent) < minTrendPoints || len(previous) < minTrendPoints {
		return nil
	}

	diff := mean(recent) - mean(previous)
	var s string
	switch {
	case math.Abs(diff) < rhrDeadZone:
		s = "Stable"
	case diff > 0:
		s = fmt.Sprintf("↑ %d bpm", int(math.Round(diff)))
	default:
		s = fmt.Sprintf("↓ %d bpm", int(math.Round(-diff)))
	}
	return &s
}

func definedRHR(days []models.DailyHealthData) []float64 {
	var out []float64
	for _, d := range days {
		if d.RHR != nil {
			out = append(out, *d.RHR)
		}
	}
	return out
}

// CalculateBMI uses the latest weight sample and the profile height. The trend
// compares with the latest sample at least 30 days older than today.
func CalculateBMI(metricMap map[string]models.HealthMetric, height models.Height, today time.Time) models.BMIResult {
	if height.Centimeters() <= 0 {
		return models.BMIResult{}
	}

	weighed := make([]models.HealthMetric, 0, len(metricMap))
	for _, m := range metricMap {
		if m.Weight != nil && *m.Weight > 0 && models.NormalizeDay(m.Date) != "" {
			weighed = append(weighed, m)
		}
	}
	if len(weighed) == 0 {
		return models.BMIResult{}
	}
	sort.Slice(weighed, func(i, j int) bool { return weighed[i].Date > weighed[j].Date })

	current, ok := risk.BMI(height, models.Weight{KG: *weighed[0].Weight})
	if !ok {
		return models.BMIResult{}
	}
	out := models.BMIResult{Current: &current}
	if len(weighed) < 2 {
		return out
	}

	cutoff := models.FormatDay(models.AddDays(today, -bmiLookbackDays))
	for _, m := range weighed {
		if models.NormalizeDay(m.Date) > cutoff {
			continue
		}
		old, _ := risk.BMI(height, models.Weight{KG: *m.Weight})
		diff := current - old
		var s string
		switch {
		case math.Abs(diff) < bmiDeadZone:
			s = "Stable"
		case diff > 0:
			s = fmt.Sprintf("+%.1f", diff)
		default:
			s = fmt.Sprintf("%.1f", diff)
		}
		out.Trend = &s
		break
	}
	return out
}

// CalculateCycleRegularity is 100 minus the coefficient of variation of the
// completed cycle lengths, clamped to [0,100]. It needs two completed cycles.
func CalculateCycleRegularity(history []models.Cycle) *int {
	var lengths []float64
	for _, c := range history {
		if !c.Ongoing {
			lengths = append(lengths, float64(c.Length))
		}
	}
	if len(lengths) < 2 {
		return nil
	}
	m := mean(lengths)
	if m <= 0 {
		return nil
	}
	variance := 0.0
	for _, l := range lengths {
		variance += (l - m) * (l - m)
	}
	cv := math.Sqrt(variance/float64(len(lengths))) / m * 100
	r := int(math.Round(math.Max(0, math.Min(100, 100-cv))))
	return &r
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
