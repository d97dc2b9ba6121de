// Package ledger owns the period-flagged days and symptom tags of one user
// and derives cycles, the current cycle day, the phase and averages from them.
package ledger

import (
	"math"
	"sort"
	"time"

	"cycle-insights/pkg/models"
)

const (
	DefaultCycleLength  = 28
	DefaultPeriodLength = 5

	// maxGroupGap is the largest distance in days between two period days of the same period.
	maxGroupGap = 2
)

// Ledger is the in-memory period set and symptom map. It is not safe for concurrent use.
type Ledger struct {
	periodDays          map[string]struct{}
	symptoms            map[string][]models.Symptom
	averageCycleLength  int
	averagePeriodLength int
	now                 func() time.Time
}

// New returns an empty ledger with default averages. A nil clock means time.Now.
func New(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		periodDays:          map[string]struct{}{},
		symptoms:            map[string][]models.Symptom{},
		averageCycleLength:  DefaultCycleLength,
		averagePeriodLength: DefaultPeriodLength,
		now:                 now,
	}
}

// FromSnapshot rebuilds a ledger from persisted state; malformed entries are dropped.
func FromSnapshot(s models.LedgerSnapshot, now func() time.Time) *Ledger {
	l := New(now)
	for _, d := range s.PeriodDays {
		if key := models.NormalizeDay(d); key != "" {
			l.periodDays[key] = struct{}{}
		}
	}
	for d, tags := range s.Symptoms {
		for _, tag := range tags {
			l.AddSymptom(d, tag)
		}
	}
	if s.AverageCycleLength > 0 {
		l.averageCycleLength = s.AverageCycleLength
	}
	if s.AveragePeriodLength > 0 {
		l.averagePeriodLength = s.AveragePeriodLength
	}
	return l
}

// Snapshot returns the persistable state with period days sorted.
func (l *Ledger) Snapshot() models.LedgerSnapshot {
	symptoms := make(map[string][]models.Symptom, len(l.symptoms))
	for d, tags := range l.symptoms {
		symptoms[d] = append([]models.Symptom(nil), tags...)
	}
	return models.LedgerSnapshot{
		PeriodDays:          l.PeriodDays(),
		Symptoms:            symptoms,
		AverageCycleLength:  l.averageCycleLength,
		AveragePeriodLength: l.averagePeriodLength,
	}
}

// PeriodDays returns the logged days in chronological order.
func (l *Ledger) PeriodDays() []string {
	out := make([]string, 0, len(l.periodDays))
	for d := range l.periodDays {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// TogglePeriodDay flips membership of date and reports whether the day is now logged.
// A malformed date is a no-op and reports false.
func (l *Ledger) TogglePeriodDay(date string) bool {
	key := models.NormalizeDay(date)
	if key == "" {
		return false
	}
	if _, ok := l.periodDays[key]; ok {
		delete(l.periodDays, key)
		return false
	}
	l.periodDays[key] = struct{}{}
	return true
}

// LogPeriodToggle toggles date and recalculates averages as one step.
func (l *Ledger) LogPeriodToggle(date string) bool {
	on := l.TogglePeriodDay(date)
	l.RecalculateAverages()
	return on
}

func (l *Ledger) IsPeriodDay(date string) bool {
	_, ok := l.periodDays[models.NormalizeDay(date)]
	return ok
}

func (l *Ledger) AverageCycleLength() int  { return l.averageCycleLength }
func (l *Ledger) AveragePeriodLength() int { return l.averagePeriodLength }

// SetAverageCycleLength overrides the cycle length used for prediction; n <= 0 is ignored.
func (l *Ledger) SetAverageCycleLength(n int) {
	if n > 0 {
		l.averageCycleLength = n
	}
}

// SetAveragePeriodLength overrides the period length used for phase classification; n <= 0 is ignored.
func (l *Ledger) SetAveragePeriodLength(n int) {
	if n > 0 {
		l.averagePeriodLength = n
	}
}

// Reset clears every entry and restores default averages.
func (l *Ledger) Reset() {
	l.periodDays = map[string]struct{}{}
	l.symptoms = map[string][]models.Symptom{}
	l.averageCycleLength = DefaultCycleLength
	l.averagePeriodLength = DefaultPeriodLength
}

func (l *Ledger) today() time.Time {
	return models.DayOf(l.now())
}

// LastPeriodStart is the first day of the most recent period group, or "".
func (l *Ledger) LastPeriodStart() string {
	groups := GroupPeriodDays(l.PeriodDays())
	if len(groups) == 0 {
		return ""
	}
	return groups[len(groups)-1][0]
}

// NextPeriodDate is LastPeriodStart plus the average cycle length, or "".
func (l *Ledger) NextPeriodDate() string {
	start := l.LastPeriodStart()
	if start == "" {
		return ""
	}
	t, _ := models.ParseDay(start)
	return models.FormatDay(models.AddDays(t, l.averageCycleLength))
}

// CurrentCycleDay is 1 on the first day of the latest period, 0 without data
// or when the latest logged period starts after today.
func (l *Ledger) CurrentCycleDay() int {
	start := l.LastPeriodStart()
	if start == "" {
		return 0
	}
	t, _ := models.ParseDay(start)
	diff := models.DaysBetween(t, l.today())
	if diff < 0 {
		return 0
	}
	return diff + 1
}

// DaysUntilPeriod returns days to the predicted next period (never negative), or -1 without data.
func (l *Ledger) DaysUntilPeriod() int {
	next := l.NextPeriodDate()
	if next == "" {
		return -1
	}
	t, _ := models.ParseDay(next)
	return max(0, models.DaysBetween(l.today(), t))
}

// CurrentPhase classifies today. Without data it defaults to follicular.
func (l *Ledger) CurrentPhase() models.Phase {
	return PhaseForDay(l.CurrentCycleDay(), l.averagePeriodLength)
}

// PhaseForDay is the phase state machine over a 1-indexed cycle day.
func PhaseForDay(cycleDay, periodLength int) models.Phase {
	switch {
	case cycleDay <= 0:
		return models.PhaseFollicular
	case cycleDay <= periodLength:
		return models.PhaseMenstrual
	case cycleDay <= 13:
		return models.PhaseFollicular
	case cycleDay <= 16:
		return models.PhaseOvulation
	default:
		return models.PhaseLuteal
	}
}

// CycleHistory lists completed cycles followed by the ongoing one.
// Fewer than two period groups yield no history.
func (l *Ledger) CycleHistory() []models.Cycle {
	groups := GroupPeriodDays(l.PeriodDays())
	if len(groups) < 2 {
		return nil
	}
	history := make([]models.Cycle, 0, len(groups))
	for i := 1; i < len(groups); i++ {
		prev := groups[i-1]
		prevStart, _ := models.ParseDay(prev[0])
		currStart, _ := models.ParseDay(groups[i][0])
		history = append(history, models.Cycle{
			StartDate: prev[0],
			EndDate:   prev[len(prev)-1],
			Length:    models.DaysBetween(prevStart, currStart),
		})
	}
	last := groups[len(groups)-1]
	history = append(history, models.Cycle{
		StartDate: last[0],
		EndDate:   last[len(last)-1],
		Length:    l.CurrentCycleDay(),
		Ongoing:   true,
	})
	return history
}

// RecalculateAverages refreshes the cycle length from completed cycles and the
// period length from period groups. Values without supporting data are kept.
func (l *Ledger) RecalculateAverages() {
	if history := l.CycleHistory(); len(history) >= 2 {
		completed := history[:len(history)-1]
		sum := 0
		for _, c := range completed {
			sum += c.Length
		}
		l.averageCycleLength = int(math.Round(float64(sum) / float64(len(completed))))
	}
	if groups := GroupPeriodDays(l.PeriodDays()); len(groups) > 0 {
		sum := 0
		for _, g := range groups {
			sum += len(g)
		}
		l.averagePeriodLength = int(math.Round(float64(sum) / float64(len(groups))))
	}
}

// Overview bundles the queries shown together on the home screen.
func (l *Ledger) Overview() models.CycleOverview {
	history := l.CycleHistory()
	if history == nil {
		history = []models.Cycle{}
	}
	return models.CycleOverview{
		CurrentCycleDay:     l.CurrentCycleDay(),
		Phase:               l.CurrentPhase(),
		DaysUntilPeriod:     l.DaysUntilPeriod(),
		LastPeriodStart:     l.LastPeriodStart(),
		NextPeriodDate:      l.NextPeriodDate(),
		AverageCycleLength:  l.averageCycleLength,
		AveragePeriodLength: l.averagePeriodLength,
		History:             history,
	}
}

// GroupPeriodDays splits sorted ISO days into periods. A new group starts
// whenever the gap to the previous day exceeds two days.
func GroupPeriodDays(sorted []string) [][]string {
	if len(sorted) == 0 {
		return nil
	}
	var groups [][]string
	current := []string{sorted[0]}
	prev, _ := models.ParseDay(sorted[0])
	for _, d := range sorted[1:] {
		t, _ := models.ParseDay(d)
		if models.DaysBetween(prev, t) <= maxGroupGap {
			current = append(current, d)
		} else {
			groups = append(groups, current)
			current = []string{d}
		}
		prev = t
	}
	return append(groups, current)
}
