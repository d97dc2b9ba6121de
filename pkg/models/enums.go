package models

// Symptom is a tag from the closed symptom vocabulary.
type Symptom string

const (
	SymptomCramps           Symptom = "cramps"
	SymptomHeadache         Symptom = "headache"
	SymptomBloating         Symptom = "bloating"
	SymptomFatigue          Symptom = "fatigue"
	SymptomMoodSwings       Symptom = "mood-swings"
	SymptomBreastTenderness Symptom = "breast-tenderness"
	SymptomAcne             Symptom = "acne"
	SymptomBackPain         Symptom = "back-pain"
	SymptomNausea           Symptom = "nausea"
	SymptomInsomnia         Symptom = "insomnia"
)

// AllSymptoms lists the vocabulary in display order.
var AllSymptoms = []Symptom{
	SymptomCramps, SymptomHeadache, SymptomBloating, SymptomFatigue, SymptomMoodSwings,
	SymptomBreastTenderness, SymptomAcne, SymptomBackPain, SymptomNausea, SymptomInsomnia,
}

// SymptomLabels maps tags to display labels.
var SymptomLabels = map[Symptom]string{
	SymptomCramps:           "Cramps",
	SymptomHeadache:         "Headache",
	SymptomBloating:         "Bloating",
	SymptomFatigue:          "Fatigue",
	SymptomMoodSwings:       "Mood Swings",
	SymptomBreastTenderness: "Breast Tenderness",
	SymptomAcne:             "Acne",
	SymptomBackPain:         "Back Pain",
	SymptomNausea:           "Nausea",
	SymptomInsomnia:         "Insomnia",
}

func (s Symptom) Valid() bool {
	_, ok := SymptomLabels[s]
	return ok
}

// ParseSymptom validates a raw tag.
func ParseSymptom(raw string) (Symptom, error) {
	s := Symptom(raw)
	if !s.Valid() {
		return "", ErrInvalidSymptom
	}
	return s, nil
}

// Phase is the menstrual phase derived from the cycle day.
type Phase string

const (
	PhaseMenstrual  Phase = "menstrual"
	PhaseFollicular Phase = "follicular"
	PhaseOvulation  Phase = "ovulation"
	PhaseLuteal     Phase = "luteal"
)

// PhaseLabels maps phases to display labels.
var PhaseLabels = map[Phase]string{
	PhaseMenstrual:  "Menstrual",
	PhaseFollicular: "Follicular",
	PhaseOvulation:  "Ovulation",
	PhaseLuteal:     "Luteal",
}

type CycleRegularity string

const (
	CycleRegular   CycleRegularity = "regular"
	CycleIrregular CycleRegularity = "irregular"
	CycleNone      CycleRegularity = "no-cycle"
)

func (c CycleRegularity) Valid() bool {
	switch c {
	case CycleRegular, CycleIrregular, CycleNone:
		return true
	}
	return false
}

// PhysicalMarker is one of the Rotterdam-criteria signs.
type PhysicalMarker string

const (
	MarkerAcne                PhysicalMarker = "acne"
	MarkerHairThinning        PhysicalMarker = "hair-thinning"
	MarkerUnwantedHairGrowth  PhysicalMarker = "unwanted-hair-growth"
	MarkerAcanthosisNigricans PhysicalMarker = "acanthosis-nigricans"
)

// MarkerLabels maps markers to their clinical labels.
var MarkerLabels = map[PhysicalMarker]string{
	MarkerAcne:                "Persistent Acne",
	MarkerHairThinning:        "Hair Thinning",
	MarkerUnwantedHairGrowth:  "Hirsutism",
	MarkerAcanthosisNigricans: "Acanthosis Nigricans",
}

func (m PhysicalMarker) Valid() bool {
	_, ok := MarkerLabels[m]
	return ok
}

type FamilyHistory string

const (
	FamilyHistoryYes     FamilyHistory = "yes"
	FamilyHistoryNo      FamilyHistory = "no"
	FamilyHistoryNotSure FamilyHistory = "not-sure"
)

func (f FamilyHistory) Valid() bool {
	switch f {
	case FamilyHistoryYes, FamilyHistoryNo, FamilyHistoryNotSure:
		return true
	}
	return false
}

type Ethnicity string

const (
	EthnicityEastAsian      Ethnicity = "east-asian"
	EthnicitySouthAsian     Ethnicity = "south-asian"
	EthnicitySoutheastAsian Ethnicity = "southeast-asian"
	EthnicityMiddleEastern  Ethnicity = "middle-eastern"
	EthnicityAfrican        Ethnicity = "african"
	EthnicityEuropean       Ethnicity = "european"
	EthnicityHispanicLatino Ethnicity = "hispanic-latino"
	EthnicityMixed          Ethnicity = "mixed"
	EthnicityUndisclosed    Ethnicity = "prefer-not-to-say"
)

func (e Ethnicity) Valid() bool {
	switch e {
	case EthnicityEastAsian, EthnicitySouthAsian, EthnicitySoutheastAsian, EthnicityMiddleEastern,
		EthnicityAfrican, EthnicityEuropean, EthnicityHispanicLatino, EthnicityMixed, EthnicityUndisclosed:
		return true
	}
	return false
}

type UnitSystem string

const (
	UnitsMetric   UnitSystem = "metric"
	UnitsImperial UnitSystem = "imperial"
)

// MetricSource tags where a health metric came from.
type MetricSource string

const (
	SourceManual     MetricSource = "manual"
	SourceDevice     MetricSource = "device"
	SourceOnboarding MetricSource = "onboarding"
)

func (s MetricSource) Valid() bool {
	switch s {
	case SourceManual, SourceDevice, SourceOnboarding:
		return true
	}
	return false
}

type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// Thresholds are half-open: [0,25) LOW, [25,55) MODERATE, [55,∞) HIGH.
const (
	RiskThresholdModerate = 25
	RiskThresholdHigh     = 55
)

// RiskLevelFor maps a score onto its tier.
func RiskLevelFor(score int) RiskLevel {
	if score < RiskThresholdModerate {
		return RiskLow
	}
	if score < RiskThresholdHigh {
		return RiskModerate
	}
	return RiskHigh
}

type FactorCategory string

const (
	CategoryCycle     FactorCategory = "cycle"
	CategoryPhysical  FactorCategory = "physical"
	CategoryFamily    FactorCategory = "family"
	CategoryVoice     FactorCategory = "voice"
	CategoryMetabolic FactorCategory = "metabolic"
)

// CategoryCaps bounds the points a single category can contribute.
var CategoryCaps = map[FactorCategory]int{
	CategoryCycle:     40,
	CategoryPhysical:  30,
	CategoryFamily:    15,
	CategoryVoice:     15,
	CategoryMetabolic: 10,
}

type Direction string

const (
	DirectionPositive Direction = "positive"
	DirectionNegative Direction = "negative"
)

type JitterStatus string

const (
	JitterHealthy  JitterStatus = "healthy"
	JitterElevated JitterStatus = "elevated"
	JitterHigh     JitterStatus = "high"
)
