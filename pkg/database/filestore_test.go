package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cycle-insights/pkg/models"
)

func TestFileStore_EmptyFile(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "data.yaml"), "u1")
	ctx := context.Background()

	snap, err := fs.PeriodLedger(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.PeriodDays) != 0 {
		t.Fatalf("expected empty ledger, got %v", snap.PeriodDays)
	}
	p, err := fs.Profile(ctx)
	if err != nil || p != nil {
		t.Fatalf("expected nil profile, got %v %v", p, err)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.yaml")
	fs := NewFileStore(path, "u1")
	ctx := context.Background()
	rhr := 61.0

	ledger := models.LedgerSnapshot{
		PeriodDays:          []string{"2024-01-01", "2024-01-02"},
		Symptoms:            map[string][]models.Symptom{"2024-01-01": {models.SymptomCramps}},
		AverageCycleLength:  29,
		AveragePeriodLength: 2,
	}
	if err := fs.SaveLedger(ctx, ledger); err != nil {
		t.Fatalf("save ledger: %v", err)
	}
	rec := models.VoiceRecording{ID: "r1", Timestamp: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC), Stability: 80, JitterPct: 0.4}
	if err := fs.SaveRecordings(ctx, []models.VoiceRecording{rec}); err != nil {
		t.Fatalf("save recordings: %v", err)
	}
	if err := fs.SaveMetrics(ctx, []models.HealthMetric{{Date: "2024-01-03", RestingHeartRate: &rhr, Source: models.SourceManual}}); err != nil {
		t.Fatalf("save metrics: %v", err)
	}
	if err := fs.SaveProfile(ctx, models.RiskInputProfile{Name: "Ana", CycleRegularity: models.CycleRegular}); err != nil {
		t.Fatalf("save profile: %v", err)
	}

	// Another user on the same file stays isolated.
	if err := fs.ForUser("u2").SaveLedger(ctx, models.LedgerSnapshot{PeriodDays: []string{"2024-02-01"}}); err != nil {
		t.Fatalf("save other user: %v", err)
	}

	reopened := NewFileStore(path, "u1")
	got, err := reopened.PeriodLedger(ctx)
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if len(got.PeriodDays) != 2 || got.AverageCycleLength != 29 || got.Symptoms["2024-01-01"][0] != models.SymptomCramps {
		t.Fatalf("ledger mismatch: %+v", got)
	}
	recs, err := reopened.Recordings(ctx)
	if err != nil || len(recs) != 1 || recs[0].ID != "r1" || !recs[0].Timestamp.Equal(rec.Timestamp) {
		t.Fatalf("recordings mismatch: %+v %v", recs, err)
	}
	mets, err := reopened.Metrics(ctx)
	if err != nil || mets["2024-01-03"].RestingHeartRate == nil || *mets["2024-01-03"].RestingHeartRate != 61 {
		t.Fatalf("metrics mismatch: %+v %v", mets, err)
	}
	p, err := reopened.Profile(ctx)
	if err != nil || p == nil || p.Name != "Ana" {
		t.Fatalf("profile mismatch: %+v %v", p, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temporary file must not be left behind")
	}
}

func TestFileStore_SaveMetricsUpserts(t *testing.T) {
	fs := NewFileStore(filepath.Join(t.TempDir(), "data.yaml"), "u1")
	ctx := context.Background()
	a, b := 60.0, 70.0

	_ = fs.SaveMetrics(ctx, []models.HealthMetric{{Date: "2024-01-01", RestingHeartRate: &a}, {Date: "2024-01-02", RestingHeartRate: &a}})
	_ = fs.SaveMetrics(ctx, []models.HealthMetric{{Date: "2024-01-02", RestingHeartRate: &b}})

	mets, err := fs.Metrics(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mets) != 2 || *mets["2024-01-01"].RestingHeartRate != 60 || *mets["2024-01-02"].RestingHeartRate != 70 {
		t.Fatalf("upsert mismatch: %+v", mets)
	}
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	if err := os.WriteFile(path, []byte("users: [not, a, map"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewFileStore(path, "u1").PeriodLedger(context.Background()); err == nil {
		t.Fatal("expected decode error, got nil")
	}
}
