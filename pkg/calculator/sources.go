package calculator

import (
	"context"

	"cycle-insights/pkg/models"
)

// Sources hands already-loaded snapshots of the external stores to Run.
// Profile returns nil when onboarding has not been completed.
type Sources interface {
	PeriodLedger(ctx context.Context) (models.LedgerSnapshot, error)
	Recordings(ctx context.Context) ([]models.VoiceRecording, error)
	Metrics(ctx context.Context) (map[string]models.HealthMetric, error)
	Profile(ctx context.Context) (*models.RiskInputProfile, error)
}

// Snapshot is an in-memory Sources, used by tests and by the CLI when no database is configured.
type Snapshot struct {
	Ledger     models.LedgerSnapshot          `yaml:"ledger"`
	Voice      []models.VoiceRecording        `yaml:"recordings"`
	HealthMap  map[string]models.HealthMetric `yaml:"metrics"`
	Onboarding *models.RiskInputProfile       `yaml:"profile"`
}

func (s Snapshot) PeriodLedger(context.Context) (models.LedgerSnapshot, error) { return s.Ledger, nil }

func (s Snapshot) Recordings(context.Context) ([]models.VoiceRecording, error) { return s.Voice, nil }

func (s Snapshot) Metrics(context.Context) (map[string]models.HealthMetric, error) {
	return s.HealthMap, nil
}

func (s Snapshot) Profile(context.Context) (*models.RiskInputProfile, error) { return s.Onboarding, nil }
