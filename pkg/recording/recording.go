// Package recording keeps the voice-stability log and converts between
// stability scores and jitter percentages.
package recording

import (
	"math"
	"slices"
	"sort"
	"time"

	"github.com/google/uuid"

	"cycle-insights/pkg/models"
)

// StabilityToJitter maps stability 0-100 onto jitter 2%-0%, rounded to 3 decimals.
// Stability is a whole score; fractional input is rounded first.
func StabilityToJitter(stability float64) float64 {
	return round3((100 - math.Round(stability)) * 0.02)
}

// JitterToStability is the inverse of StabilityToJitter, rounded to a whole score.
func JitterToStability(jitter float64) float64 {
	return math.Round(100 - jitter/0.02)
}

// JitterStatusOf buckets a jitter percentage.
func JitterStatusOf(jitter float64) models.JitterStatus {
	switch {
	case jitter < 0.5:
		return models.JitterHealthy
	case jitter < 1.0:
		return models.JitterElevated
	default:
		return models.JitterHigh
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Log is an append-only list of recordings with an optional explicit baseline.
type Log struct {
	recordings []models.VoiceRecording
	baselineID string
	now        func() time.Time
	newID      func() string
}

// NewLog wraps already-loaded recordings. The one flagged IsBaseline, if any, is the explicit baseline.
func NewLog(recs []models.VoiceRecording, now func() time.Time) *Log {
	if now == nil {
		now = time.Now
	}
	l := &Log{
		recordings: append([]models.VoiceRecording(nil), recs...),
		now:        now,
		newID:      uuid.NewString,
	}
	for _, r := range recs {
		if r.IsBaseline {
			l.baselineID = r.ID
		}
	}
	return l
}

// Recordings returns a copy of the log in insertion order.
func (l *Log) Recordings() []models.VoiceRecording {
	return append([]models.VoiceRecording(nil), l.recordings...)
}

// Add appends a recording, deriving its id and jitter, and compares it with the baseline.
func (l *Log) Add(in models.NewRecording) models.RecordingSession {
	ts := in.Timestamp
	if ts.IsZero() {
		ts = l.now()
	}
	rec := models.VoiceRecording{
		ID:         l.newID(),
		Timestamp:  ts,
		DurationMs: in.DurationMs,
		Stability:  math.Round(in.Stability),
		JitterPct:  StabilityToJitter(in.Stability),
	}
	session := models.RecordingSession{Recording: rec}
	if base, ok := l.Baseline(); ok {
		session.BaselineComparison = &models.BaselineComparison{
			StabilityDiff: rec.Stability - base.Stability,
			JitterDiff:    round3(rec.JitterPct - base.JitterPct),
		}
	}
	l.recordings = append(l.recordings, rec)
	return session
}

// SetBaseline makes id the explicit baseline. Unknown ids are ignored.
func (l *Log) SetBaseline(id string) bool {
	if !slices.ContainsFunc(l.recordings, func(r models.VoiceRecording) bool { return r.ID == id }) {
		return false
	}
	for i := range l.recordings {
		l.recordings[i].IsBaseline = l.recordings[i].ID == id
	}
	l.baselineID = id
	return true
}

// Delete removes id. Deleting the explicit baseline falls back to the implicit one.
func (l *Log) Delete(id string) bool {
	for i, r := range l.recordings {
		if r.ID != id {
			continue
		}
		l.recordings = append(l.recordings[:i:i], l.recordings[i+1:]...)
		if l.baselineID == id {
			l.baselineID = ""
		}
		return true
	}
	return false
}

// Baseline returns the explicit baseline, else the chronologically first recording.
func (l *Log) Baseline() (models.VoiceRecording, bool) {
	if len(l.recordings) == 0 {
		return models.VoiceRecording{}, false
	}
	first := l.recordings[0]
	for _, r := range l.recordings {
		if l.baselineID != "" && r.ID == l.baselineID {
			return r, true
		}
		if r.Timestamp.Before(first.Timestamp) {
			first = r
		}
	}
	return first, true
}

// ForDate returns recordings whose timestamp falls on the ISO day date.
func (l *Log) ForDate(date string) []models.VoiceRecording {
	key := models.NormalizeDay(date)
	var out []models.VoiceRecording
	for _, r := range l.recordings {
		if models.FormatDay(r.Timestamp) == key {
			out = append(out, r)
		}
	}
	return out
}

// InRange returns recordings with from <= timestamp <= to.
func (l *Log) InRange(from, to time.Time) []models.VoiceRecording {
	var out []models.VoiceRecording
	for _, r := range l.recordings {
		if !r.Timestamp.Before(from) && !r.Timestamp.After(to) {
			out = append(out, r)
		}
	}
	return out
}

// Latest returns the most recent recording by timestamp.
func (l *Log) Latest() (models.VoiceRecording, bool) {
	if len(l.recordings) == 0 {
		return models.VoiceRecording{}, false
	}
	sorted := l.Recordings()
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp.After(sorted[j].Timestamp) })
	return sorted[0], true
}

// AverageJitter averages jitter over the last days days; 0 when nothing qualifies.
func (l *Log) AverageJitter(days int) float64 {
	cutoff := l.now().AddDate(0, 0, -days)
	sum, n := 0.0, 0
	for _, r := range l.recordings {
		if !r.Timestamp.Before(cutoff) {
			sum += r.JitterPct
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
