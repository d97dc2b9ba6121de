package models

import (
	"math"
	"time"
)

/*
LOAD → raw entries read from the external stores (period set, symptom map,
recording log, metric map, onboarding profile).
*/

// LedgerSnapshot is the persisted state of a period ledger.
type LedgerSnapshot struct {
	PeriodDays          []string             `json:"periodDays" yaml:"period_days"` // ISO dates, sorted
	Symptoms            map[string][]Symptom `json:"symptoms" yaml:"symptoms"`
	AverageCycleLength  int                  `json:"averageCycleLength" yaml:"average_cycle_length"`
	AveragePeriodLength int                  `json:"averagePeriodLength" yaml:"average_period_length"`
}

// VoiceRecording is one stored voice sample.
type VoiceRecording struct {
	ID         string    `json:"id" yaml:"id"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	DurationMs int64     `json:"durationMs" yaml:"duration_ms"`
	Stability  float64   `json:"stability" yaml:"stability"` // 0-100
	JitterPct  float64   `json:"jitterPct" yaml:"jitter_pct"` // 3 decimals
	IsBaseline bool      `json:"isBaseline,omitempty" yaml:"is_baseline,omitempty"`
}

// NewRecording holds the fields supplied by the capture side; id and jitter are derived.
type NewRecording struct {
	Timestamp  time.Time
	DurationMs int64
	Stability  float64
}

// BaselineComparison compares a fresh recording with the current baseline.
// Positive StabilityDiff means steadier than baseline.
type BaselineComparison struct {
	StabilityDiff float64 `json:"stabilityDiff"`
	JitterDiff    float64 `json:"jitterDiff"`
}

// RecordingSession is returned when a recording is appended.
type RecordingSession struct {
	Recording          VoiceRecording      `json:"recording"`
	BaselineComparison *BaselineComparison `json:"baselineComparison,omitempty"`
}

// HealthMetric is the per-day resting heart rate / weight entry.
type HealthMetric struct {
	Date             string       `json:"date" yaml:"date"`
	RestingHeartRate *float64     `json:"restingHeartRate,omitempty" yaml:"resting_heart_rate,omitempty"`
	Weight           *float64     `json:"weight,omitempty" yaml:"weight,omitempty"` // kg
	Source           MetricSource `json:"source" yaml:"source"`
	Timestamp        time.Time    `json:"timestamp" yaml:"timestamp"`
}

// MetricPatch carries the fields to merge into a day's metric; nil fields are left untouched.
type MetricPatch struct {
	RestingHeartRate *float64
	Weight           *float64
	Source           MetricSource
}

// Height is either metric (CM) or imperial (Feet + Inches). Zero means not provided.
type Height struct {
	CM     float64 `json:"cm,omitempty" yaml:"cm,omitempty"`
	Feet   float64 `json:"feet,omitempty" yaml:"feet,omitempty"`
	Inches float64 `json:"inches,omitempty" yaml:"inches,omitempty"`
}

// Centimeters returns the height in cm, or 0 when missing.
func (h Height) Centimeters() float64 {
	if h.CM > 0 {
		return h.CM
	}
	if h.Feet > 0 {
		return (h.Feet*12 + h.Inches) * 2.54
	}
	return 0
}

// Weight is either KG or LBS. Zero means not provided.
type Weight struct {
	KG  float64 `json:"kg,omitempty" yaml:"kg,omitempty"`
	LBS float64 `json:"lbs,omitempty" yaml:"lbs,omitempty"`
}

// Kilograms returns the weight in kg, or 0 when missing.
func (w Weight) Kilograms() float64 {
	if w.KG > 0 {
		return w.KG
	}
	if w.LBS > 0 {
		return w.LBS * 0.453592
	}
	return 0
}

// BaselineVoice is the onboarding voice sample.
type BaselineVoice struct {
	DurationMs int64     `json:"durationMs" yaml:"duration_ms"`
	Stability  float64   `json:"stability" yaml:"stability"`
	RecordedAt time.Time `json:"recordedAt" yaml:"recorded_at"`
}

// RiskInputProfile is the onboarding snapshot scored by the risk engine.
type RiskInputProfile struct {
	Name                   string           `json:"name" yaml:"name"`
	Ethnicity              Ethnicity        `json:"ethnicity,omitempty" yaml:"ethnicity,omitempty"`
	CycleRegularity        CycleRegularity  `json:"cycleRegularity,omitempty" yaml:"cycle_regularity,omitempty"`
	PhysicalMarkers        []PhysicalMarker `json:"physicalMarkers" yaml:"physical_markers"`
	NoPhysicalMarkers      bool             `json:"hasNoPhysicalMarkers" yaml:"no_physical_markers"`
	FamilyHistory          FamilyHistory    `json:"familyHistory,omitempty" yaml:"family_history,omitempty"`
	UsesHormonalMedication *bool            `json:"usesHormonalMedication,omitempty" yaml:"uses_hormonal_medication,omitempty"`
	UnitSystem             UnitSystem       `json:"unitSystem" yaml:"unit_system"`
	Height                 Height           `json:"height" yaml:"height"`
	Weight                 Weight           `json:"weight" yaml:"weight"`
	VoiceRecording         *BaselineVoice   `json:"voiceRecording,omitempty" yaml:"voice_recording,omitempty"`
}

// Validate rejects values outside the closed vocabularies.
func (p RiskInputProfile) Validate() error {
	if p.CycleRegularity != "" && !p.CycleRegularity.Valid() {
		return ErrInvalidInput
	}
	if p.FamilyHistory != "" && !p.FamilyHistory.Valid() {
		return ErrInvalidInput
	}
	if p.Ethnicity != "" && !p.Ethnicity.Valid() {
		return ErrInvalidInput
	}
	seen := make(map[PhysicalMarker]bool, len(p.PhysicalMarkers))
	for _, m := range p.PhysicalMarkers {
		if !m.Valid() || seen[m] {
			return ErrInvalidInput
		}
		seen[m] = true
	}
	if v := p.VoiceRecording; v != nil && (v.Stability < 0 || v.Stability > 100 || v.Stability != math.Trunc(v.Stability)) {
		return ErrInvalidInput
	}
	return nil
}

/*
COMPUTE → derived views, recomputed on demand and never persisted as sources of truth.
*/

// Cycle is a period group followed by the days up to the next group.
// Length is zero-based on the next group's start; for the open cycle it is the current cycle day.
type Cycle struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Length    int    `json:"length"`
	Ongoing   bool   `json:"ongoing,omitempty"`
}

// CycleOverview groups the ledger queries shown on the home screen.
type CycleOverview struct {
	CurrentCycleDay     int     `json:"currentCycleDay"`
	Phase               Phase   `json:"phase"`
	DaysUntilPeriod     int     `json:"daysUntilPeriod"`
	LastPeriodStart     string  `json:"lastPeriodStart,omitempty"`
	NextPeriodDate      string  `json:"nextPeriodDate,omitempty"`
	AverageCycleLength  int     `json:"averageCycleLength"`
	AveragePeriodLength int     `json:"averagePeriodLength"`
	History             []Cycle `json:"history"`
}

// ContributingFactor is one triggered scoring rule.
type ContributingFactor struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Category    FactorCategory `json:"category"`
	Points      int            `json:"points"`
	Description string         `json:"description"`
}

// FeatureImportance is the explanatory view over triggered and protective observations.
type FeatureImportance struct {
	ID           string         `json:"id"`
	Label        string         `json:"label"`
	Category     FactorCategory `json:"category"`
	Points       int            `json:"points"`
	Contribution float64        `json:"contribution"` // percent of riskScore
	Direction    Direction      `json:"direction"`
	Description  string         `json:"description"`
}

// RiskAnalysis is the output of the risk engine.
type RiskAnalysis struct {
	RiskScore           int                  `json:"riskScore"`
	RiskLevel           RiskLevel            `json:"riskLevel"`
	Narrative           string               `json:"narrative"`
	ContributingFactors []ContributingFactor `json:"contributingFactors"`
	FeatureImportance   []FeatureImportance  `json:"featureImportance"`
	AnalyzedAt          time.Time            `json:"analyzedAt"`
	VocalJitter         float64              `json:"vocalJitter"`
	EstimatedPhase      string               `json:"estimatedPhase"`
	ModelVersion        string               `json:"modelVersion"`
	AuditHash           string               `json:"auditHash"`
}

// NarrativeFactor is a factor as exposed to the narrative generator.
type NarrativeFactor struct {
	Label    string         `json:"label"`
	Category FactorCategory `json:"category"`
	Points   int            `json:"points"`
}

// NarrativeSummary is the anonymised payload handed to the external narrative generator.
type NarrativeSummary struct {
	RiskScore           int               `json:"riskScore"`
	RiskLevel           RiskLevel         `json:"riskLevel"`
	VocalJitter         float64           `json:"vocalJitter"`
	JitterTrend         string            `json:"jitterTrend"`
	CycleRegularity     CycleRegularity   `json:"cycleRegularity,omitempty"`
	PhysicalMarkers     []PhysicalMarker  `json:"physicalMarkers"`
	FamilyHistory       bool              `json:"familyHistory"`
	BMICategory         string            `json:"bmiCategory"`
	ContributingFactors []NarrativeFactor `json:"contributingFactors"`
	TopFactors          []string          `json:"topFactors"`
	EstimatedPhase      string            `json:"estimatedPhase"`
}

// DailyHealthData is one day of the joined time series.
type DailyHealthData struct {
	Date     string   `json:"date"`
	Jitter   *float64 `json:"jitter,omitempty"`
	RHR      *float64 `json:"rhr,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
	IsPeriod bool     `json:"isPeriod"`
	CycleDay *int     `json:"cycleDay,omitempty"`
}

// DataPoints counts defined samples per signal.
type DataPoints struct {
	Jitter int `json:"jitter"`
	RHR    int `json:"rhr"`
}

// SeriesAverages is the averages block of the trends screen.
type SeriesAverages struct {
	AvgJitter  *float64   `json:"avgJitter"`
	AvgRHR     *float64   `json:"avgRhr"`
	RHRTrend   *string    `json:"rhrTrend"`
	DataPoints DataPoints `json:"dataPoints"`
}

// BMIResult is the current BMI with its 30-day trend.
type BMIResult struct {
	Current *float64 `json:"current"`
	Trend   *string  `json:"trend"`
}

// Report bundles every derived view for one user at one instant.
type Report struct {
	UserID      string            `json:"userId"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Today       string            `json:"today"`
	Cycle       CycleOverview     `json:"cycle"`
	Series      []DailyHealthData `json:"series"`
	Averages    SeriesAverages    `json:"averages"`
	BMI         BMIResult         `json:"bmi"`
	Regularity  *int              `json:"regularity"`
	Insights    []string          `json:"insights"`
	Risk        *RiskAnalysis     `json:"risk,omitempty"`
}

/*
CONFIG → engine parameters
*/

// Config is passed to the report pipeline.
type Config struct {
	UserID              string    // owner of the data
	Today               time.Time // reference day; zero means time.Now()
	WindowDays          int       // series length, 30 by default
	DefaultCycleLength  int       // used before any completed cycle exists
	DefaultPeriodLength int       // used before any period group exists
	Verbose             bool      // detailed logs
	Progress            bool      // draw a progress bar on stderr
}
