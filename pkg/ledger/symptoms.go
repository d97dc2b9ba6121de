package ledger

import (
	"slices"

	"cycle-insights/pkg/models"
)

// AddSymptom tags date with s. It reports whether the log changed.
func (l *Ledger) AddSymptom(date string, s models.Symptom) bool {
	key := models.NormalizeDay(date)
	if key == "" || !s.Valid() {
		return false
	}
	current := l.symptoms[key]
	if slices.Contains(current, s) {
		return false
	}
	l.symptoms[key] = append(current, s)
	return true
}

// RemoveSymptom drops s from date; the date disappears once its last tag is gone.
func (l *Ledger) RemoveSymptom(date string, s models.Symptom) bool {
	key := models.NormalizeDay(date)
	current, ok := l.symptoms[key]
	if !ok {
		return false
	}
	idx := slices.Index(current, s)
	if idx < 0 {
		return false
	}
	next := slices.Delete(slices.Clone(current), idx, idx+1)
	if len(next) == 0 {
		delete(l.symptoms, key)
	} else {
		l.symptoms[key] = next
	}
	return true
}

// ToggleSymptom adds or removes s and reports whether s is now present.
func (l *Ledger) ToggleSymptom(date string, s models.Symptom) bool {
	if slices.Contains(l.symptoms[models.NormalizeDay(date)], s) {
		l.RemoveSymptom(date, s)
		return false
	}
	return l.AddSymptom(date, s)
}

func (l *Ledger) SymptomsFor(date string) []models.Symptom {
	return slices.Clone(l.symptoms[models.NormalizeDay(date)])
}

func (l *Ledger) HasSymptoms(date string) bool {
	return len(l.symptoms[models.NormalizeDay(date)]) > 0
}
