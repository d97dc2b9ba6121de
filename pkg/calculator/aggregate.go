package calculator

import (
	"sort"
	"time"

	"cycle-insights/pkg/ledger"
	"cycle-insights/pkg/metrics"
	"cycle-insights/pkg/models"
	"cycle-insights/pkg/recording"
)

// DefaultWindowDays is the length of the joined daily series.
const DefaultWindowDays = 30

// AggregateLast30Days joins the three stores into 30 daily entries ending today, oldest first.
func AggregateLast30Days(recs []models.VoiceRecording, metricMap map[string]models.HealthMetric, periodDays []string, today time.Time) []models.DailyHealthData {
	return AggregateDays(DefaultWindowDays, recs, metricMap, periodDays, today)
}

// AggregateDays is AggregateLast30Days for an arbitrary window length.
//
// cycleDay uses the most recent period start on or before each day, so days
// preceding every logged start carry no cycle day.
func AggregateDays(n int, recs []models.VoiceRecording, metricMap map[string]models.HealthMetric, periodDays []string, today time.Time) []models.DailyHealthData {
	if n <= 0 {
		return []models.DailyHealthData{}
	}
	voice := recording.NewLog(recs, nil)
	store := metrics.NewStore(metricMap, nil)

	sorted := make([]string, 0, len(periodDays))
	isPeriod := make(map[string]bool, len(periodDays))
	for _, d := range periodDays {
		key := models.NormalizeDay(d)
		if key == "" || isPeriod[key] {
			continue
		}
		isPeriod[key] = true
		sorted = append(sorted, key)
	}
	sort.Strings(sorted)

	var starts []time.Time
	for _, g := range ledger.GroupPeriodDays(sorted) {
		t, _ := models.ParseDay(g[0])
		starts = append(starts, t)
	}

	end := models.DayOf(today)
	out := make([]models.DailyHealthData, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := models.AddDays(end, -i)
		key := models.FormatDay(day)
		entry := models.DailyHealthData{Date: key, IsPeriod: isPeriod[key]}

		if dayRecs := voice.ForDate(key); len(dayRecs) > 0 {
			sum := 0.0
			for _, r := range dayRecs {
				sum += r.JitterPct
			}
			avg := sum / float64(len(dayRecs))
			entry.Jitter = &avg
		}
		if m, ok := store.ForDate(key); ok {
			entry.RHR = copyFloat(m.RestingHeartRate)
			entry.Weight = copyFloat(m.Weight)
		}
		entry.CycleDay = cycleDayOn(starts, day)

		out = append(out, entry)
	}
	return out
}

// cycleDayOn returns the 1-indexed day relative to the latest start <= day.
func cycleDayOn(starts []time.Time, day time.Time) *int {
	for i := len(starts) - 1; i >= 0; i-- {
		if !starts[i].After(day) {
			cd := models.DaysBetween(starts[i], day) + 1
			return &cd
		}
	}
	return nil
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
