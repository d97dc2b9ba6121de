// Package metrics holds the date-keyed resting heart rate and weight samples.
package metrics

import (
	"sort"
	"time"

	"cycle-insights/pkg/models"
)

// Store is the in-memory metric map. Manual entries win over device syncs.
type Store struct {
	metrics      map[string]models.HealthMetric
	lastSyncedAt time.Time
	now          func() time.Time
}

// NewStore wraps already-loaded metrics. Keys are normalised; malformed ones are dropped.
func NewStore(loaded map[string]models.HealthMetric, now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	s := &Store{metrics: make(map[string]models.HealthMetric, len(loaded)), now: now}
	for d, m := range loaded {
		key := models.NormalizeDay(d)
		if key == "" {
			continue
		}
		m.Date = key
		s.metrics[key] = m
	}
	return s
}

// Metrics returns a copy of the map.
func (s *Store) Metrics() map[string]models.HealthMetric {
	out := make(map[string]models.HealthMetric, len(s.metrics))
	for k, v := range s.metrics {
		out[k] = v
	}
	return out
}

func (s *Store) LastSyncedAt() time.Time { return s.lastSyncedAt }

// Add merges patch into the entry for date. The source defaults to manual.
// A non-manual patch never overwrites a manual entry; the manual entry is returned unchanged.
func (s *Store) Add(date string, patch models.MetricPatch) (models.HealthMetric, error) {
	key := models.NormalizeDay(date)
	if key == "" {
		return models.HealthMetric{}, models.ErrInvalidDay
	}
	src := patch.Source
	if src == "" {
		src = models.SourceManual
	}
	if !src.Valid() {
		return models.HealthMetric{}, models.ErrInvalidInput
	}
	m, ok := s.metrics[key]
	if ok && m.Source == models.SourceManual && src != models.SourceManual {
		return m, nil
	}
	m.Date = key
	m.Source = src
	m.Timestamp = s.now()
	if patch.RestingHeartRate != nil {
		m.RestingHeartRate = patch.RestingHeartRate
	}
	if patch.Weight != nil {
		m.Weight = patch.Weight
	}
	s.metrics[key] = m
	return m, nil
}

// Sync applies device samples and returns the entries that changed.
// A date already holding a manual entry is left untouched.
func (s *Store) Sync(samples []models.HealthMetric) []models.HealthMetric {
	var applied []models.HealthMetric
	for _, sample := range samples {
		key := models.NormalizeDay(sample.Date)
		if key == "" {
			continue
		}
		existing, ok := s.metrics[key]
		if ok && existing.Source == models.SourceManual {
			continue
		}
		merged := existing
		merged.Date = key
		merged.Source = sample.Source
		if merged.Source == "" {
			merged.Source = models.SourceDevice
		}
		merged.Timestamp = sample.Timestamp
		if merged.Timestamp.IsZero() {
			merged.Timestamp = s.now()
		}
		if sample.RestingHeartRate != nil {
			merged.RestingHeartRate = sample.RestingHeartRate
		}
		if sample.Weight != nil {
			merged.Weight = sample.Weight
		}
		s.metrics[key] = merged
		applied = append(applied, merged)
	}
	s.lastSyncedAt = s.now()
	return applied
}

func (s *Store) ForDate(date string) (models.HealthMetric, bool) {
	m, ok := s.metrics[models.NormalizeDay(date)]
	return m, ok
}

// InRange returns entries with from <= date <= to, oldest first.
func (s *Store) InRange(from, to string) []models.HealthMetric {
	from, to = models.NormalizeDay(from), models.NormalizeDay(to)
	var out []models.HealthMetric
	for d, m := range s.metrics {
		if d >= from && d <= to {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// LatestWeight returns the weight of the most recent day that has one.
func (s *Store) LatestWeight() (float64, bool) {
	return s.latest(func(m models.HealthMetric) *float64 { return m.Weight })
}

// LatestRHR returns the resting heart rate of the most recent day that has one.
func (s *Store) LatestRHR() (float64, bool) {
	return s.latest(func(m models.HealthMetric) *float64 { return m.RestingHeartRate })
}

func (s *Store) latest(field func(models.HealthMetric) *float64) (float64, bool) {
	best := ""
	var val float64
	for d, m := range s.metrics {
		if v := field(m); v != nil && d > best {
			best, val = d, *v
		}
	}
	return val, best != ""
}

// AverageRHR averages resting heart rate over the last days days including today.
func (s *Store) AverageRHR(days int) (float64, bool) {
	today := models.DayOf(s.now())
	entries := s.InRange(models.FormatDay(models.AddDays(today, -(days-1))), models.FormatDay(today))
	sum, n := 0.0, 0
	for _, m := range entries {
		if m.RestingHeartRate != nil {
			sum += *m.RestingHeartRate
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
