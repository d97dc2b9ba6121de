package calculator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"cycle-insights/pkg/insights"
	"cycle-insights/pkg/ledger"
	"cycle-insights/pkg/models"
	"cycle-insights/pkg/risk"

	"github.com/schollz/progressbar/v3"
)

// Run loads every store from src and derives the full report for cfg.Today.
func Run(ctx context.Context, src Sources, cfg models.Config) (models.Report, error) {
	now := time.Now().UTC()
	today := cfg.Today
	if today.IsZero() {
		today = now
	}
	today = models.DayOf(today)
	clock := func() time.Time { return today }

	window := cfg.WindowDays
	if window <= 0 {
		window = DefaultWindowDays
	}

	var (
		snap    models.LedgerSnapshot
		recs    []models.VoiceRecording
		mets    map[string]models.HealthMetric
		profile *models.RiskInputProfile
		report  = models.Report{UserID: cfg.UserID, GeneratedAt: now, Today: models.FormatDay(today)}
	)

	stages := []struct {
		name string
		fn   func() error
	}{
		{"ledger", func() (err error) { snap, err = src.PeriodLedger(ctx); return }},
		{"recordings", func() (err error) { recs, err = src.Recordings(ctx); return }},
		{"metrics", func() (err error) { mets, err = src.Metrics(ctx); return }},
		{"profile", func() (err error) { profile, err = src.Profile(ctx); return }},
		{"cycle", func() error {
			l := ledger.FromSnapshot(snap, clock)
			if snap.AverageCycleLength <= 0 {
				l.SetAverageCycleLength(cfg.DefaultCycleLength)
			}
			if snap.AveragePeriodLength <= 0 {
				l.SetAveragePeriodLength(cfg.DefaultPeriodLength)
			}
			report.Cycle = l.Overview()
			report.Regularity = CalculateCycleRegularity(report.Cycle.History)
			return nil
		}},
		{"series", func() error {
			report.Series = AggregateDays(window, recs, mets, snap.PeriodDays, today)
			report.Averages = Calculate7DayAverages(report.Series)
			return nil
		}},
		{"bmi", func() error {
			if profile != nil {
				report.BMI = CalculateBMI(mets, profile.Height, today)
			}
			return nil
		}},
		{"insights", func() error {
			report.Insights = insights.AnalyzeCorrelations(report.Series)
			return nil
		}},
		{"risk", func() error {
			if profile == nil {
				return nil
			}
			if err := profile.Validate(); err != nil {
				return err
			}
			a := risk.Engine{Now: func() time.Time { return now }}.Analyze(*profile)
			report.Risk = &a
			return nil
		}},
	}

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.NewOptions(len(stages),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("report"),
			progressbar.OptionClearOnFinish(),
		)
	}

	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return models.Report{}, err
		}
		if err := st.fn(); err != nil {
			return models.Report{}, fmt.Errorf("%s: %w", st.name, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
		if cfg.Verbose {
			log.Printf("[DEBUG] user=%s stage=%s done", cfg.UserID, st.name)
		}
	}

	if cfg.Verbose {
		log.Printf("[INFO] user=%s today=%s cycleDay=%d phase=%s jitterPoints=%d rhrPoints=%d insights=%d",
			cfg.UserID, report.Today, report.Cycle.CurrentCycleDay, report.Cycle.Phase,
			report.Averages.DataPoints.Jitter, report.Averages.DataPoints.RHR, len(report.Insights))
	}
	return report, nil
}
