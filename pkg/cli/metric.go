package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cycle-insights/pkg/metrics"
	"cycle-insights/pkg/models"
)

// --- cycle-insights metric ---

var metricCmd = &cobra.Command{
	Use:     "metric",
	Aliases: []string{"metrics"},
	Short:   "Manage resting heart rate and weight samples",
}

var metricAddCmd = &cobra.Command{
	Use:   "add <date>",
	Short: "Record a manual sample for a day",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetricAdd,
}

var metricSyncCmd = &cobra.Command{
	Use:   "sync <file.yaml>",
	Short: "Import device samples; manual days are kept",
	Args:  cobra.ExactArgs(1),
	RunE:  runMetricSync,
}

var metricListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List samples in a date range",
	RunE:    runMetricList,
}

func init() {
	metricAddCmd.Flags().Float64("rhr", 0, "Resting heart rate (bpm)")
	metricAddCmd.Flags().Float64("weight", 0, "Weight (kg)")
	metricAddCmd.Flags().String("source", string(models.SourceManual), "Source: manual, device, onboarding")

	metricListCmd.Flags().String("from", "", "First day (default: 30 days ago)")
	metricListCmd.Flags().String("to", "", "Last day (default: today)")

	metricCmd.AddCommand(metricAddCmd)
	metricCmd.AddCommand(metricSyncCmd)
	metricCmd.AddCommand(metricListCmd)
	rootCmd.AddCommand(metricCmd)
}

// loadMetrics reads the user's metric map with the command clock.
func loadMetrics(cmd *cobra.Command) (*metrics.Store, func([]models.HealthMetric) error, func(), error) {
	st, _, closeFn, err := openStore(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	now, err := clock(cmd)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	loaded, err := st.Metrics(cmd.Context())
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	save := func(ms []models.HealthMetric) error { return st.SaveMetrics(cmd.Context(), ms) }
	return metrics.NewStore(loaded, now), save, closeFn, nil
}

func runMetricAdd(cmd *cobra.Command, args []string) error {
	var patch models.MetricPatch
	if cmd.Flags().Changed("rhr") {
		v, _ := cmd.Flags().GetFloat64("rhr")
		patch.RestingHeartRate = &v
	}
	if cmd.Flags().Changed("weight") {
		v, _ := cmd.Flags().GetFloat64("weight")
		patch.Weight = &v
	}
	if patch.RestingHeartRate == nil && patch.Weight == nil {
		return fmt.Errorf("nothing to record, pass --rhr and/or --weight")
	}
	src, _ := cmd.Flags().GetString("source")
	patch.Source = models.MetricSource(src)

	store, save, closeFn, err := loadMetrics(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	m, err := store.Add(args[0], patch)
	if err != nil {
		return fmt.Errorf("%q: %w", args[0], err)
	}
	if m.Source != patch.Source && patch.Source != "" {
		fmt.Printf("%s already holds a manual entry, %s sample ignored\n", m.Date, patch.Source)
		return nil
	}
	if err := save([]models.HealthMetric{m}); err != nil {
		return fmt.Errorf("saving metrics: %w", err)
	}
	printHeader("Metric " + m.Date)
	printField("Resting HR", formatOptional(m.RestingHeartRate, "%.0f bpm"))
	printField("Weight", formatOptional(m.Weight, "%.1f kg"))
	printField("Source", string(m.Source))
	return nil
}

func runMetricSync(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read samples: %w", err)
	}
	var samples []models.HealthMetric
	if err := yaml.Unmarshal(raw, &samples); err != nil {
		return fmt.Errorf("parse samples: %w", err)
	}

	store, save, closeFn, err := loadMetrics(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	bar := newBar(len(samples), "syncing")
	var applied []models.HealthMetric
	for _, s := range samples {
		applied = append(applied, store.Sync([]models.HealthMetric{s})...)
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	if len(applied) > 0 {
		if err := save(applied); err != nil {
			return fmt.Errorf("saving metrics: %w", err)
		}
	}
	fmt.Printf("Synced %d of %d samples (%d skipped)\n", len(applied), len(samples), len(samples)-len(applied))
	if ts := store.LastSyncedAt(); !ts.IsZero() {
		fmt.Printf("Last synced at %s\n", ts.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runMetricList(cmd *cobra.Command, args []string) error {
	store, _, closeFn, err := loadMetrics(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	now, err := clock(cmd)
	if err != nil {
		return err
	}
	today := models.DayOf(now())
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from == "" {
		from = models.FormatDay(models.AddDays(today, -29))
	}
	if to == "" {
		to = models.FormatDay(today)
	}

	entries := store.InRange(from, to)
	if len(entries) == 0 {
		fmt.Printf("No samples between %s and %s.\n", from, to)
		return nil
	}
	printHeader(fmt.Sprintf("Metrics %s .. %s", from, to))
	for _, m := range entries {
		fmt.Printf("  %s  rhr %-8s weight %-9s %s%s%s\n",
			m.Date, formatOptional(m.RestingHeartRate, "%.0f"), formatOptional(m.Weight, "%.1f"),
			paint(colorDim), m.Source, paint(colorReset))
	}
	if avg, ok := store.AverageRHR(7); ok {
		fmt.Printf("\n  7-day resting HR: %.1f bpm\n", avg)
	}
	return nil
}
