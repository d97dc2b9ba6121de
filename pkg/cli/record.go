package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cycle-insights/pkg/models"
	"cycle-insights/pkg/recording"
)

// --- cycle-insights record ---

var recordCmd = &cobra.Command{
	Use:     "record",
	Aliases: []string{"recordings", "voice"},
	Short:   "Manage voice stability recordings",
}

var recordAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a recording and compare it with the baseline",
	RunE:  runRecordAdd,
}

var recordDeleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete a recording",
	Args:    cobra.ExactArgs(1),
	RunE:    runRecordDelete,
}

var recordBaselineCmd = &cobra.Command{
	Use:   "baseline [id]",
	Short: "Show the baseline, or make id the baseline",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRecordBaseline,
}

var recordListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List recordings",
	RunE:    runRecordList,
}

func init() {
	recordAddCmd.Flags().Int("stability", -1, "Stability score 0-100 (required)")
	recordAddCmd.Flags().Int64("duration", 0, "Duration in milliseconds")
	recordAddCmd.Flags().String("at", "", "Timestamp RFC3339 (default: now)")

	recordCmd.AddCommand(recordAddCmd)
	recordCmd.AddCommand(recordDeleteCmd)
	recordCmd.AddCommand(recordBaselineCmd)
	recordCmd.AddCommand(recordListCmd)
	rootCmd.AddCommand(recordCmd)
}

// loadRecordings reads the user's recording log with the command clock.
func loadRecordings(cmd *cobra.Command) (*recording.Log, func(*recording.Log) error, func(), error) {
	st, _, closeFn, err := openStore(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	now, err := clock(cmd)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	recs, err := st.Recordings(cmd.Context())
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	save := func(l *recording.Log) error { return st.SaveRecordings(cmd.Context(), l.Recordings()) }
	return recording.NewLog(recs, now), save, closeFn, nil
}

func runRecordAdd(cmd *cobra.Command, args []string) error {
	stability, _ := cmd.Flags().GetInt("stability")
	duration, _ := cmd.Flags().GetInt64("duration")
	at, _ := cmd.Flags().GetString("at")
	if stability < 0 || stability > 100 {
		return fmt.Errorf("--stability must be within 0-100: %w", models.ErrInvalidInput)
	}
	var ts time.Time
	if at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
		ts = t.UTC()
	}

	l, save, closeFn, err := loadRecordings(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	session := l.Add(models.NewRecording{Timestamp: ts, DurationMs: duration, Stability: float64(stability)})
	if err := save(l); err != nil {
		return fmt.Errorf("saving recordings: %w", err)
	}

	rec := session.Recording
	printHeader("Recording " + rec.ID)
	printField("Stability", fmt.Sprintf("%.0f", rec.Stability))
	printFieldColored("Jitter", fmt.Sprintf("%.3f%% (%s)", rec.JitterPct, recording.JitterStatusOf(rec.JitterPct)), jitterColor(rec.JitterPct))
	if c := session.BaselineComparison; c != nil {
		printField("vs baseline", fmt.Sprintf("stability %+.0f, jitter %+.3f%%", c.StabilityDiff, c.JitterDiff))
	}
	return nil
}

func runRecordDelete(cmd *cobra.Command, args []string) error {
	l, save, closeFn, err := loadRecordings(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if !l.Delete(args[0]) {
		return fmt.Errorf("recording %s: %w", args[0], models.ErrNotFound)
	}
	if err := save(l); err != nil {
		return fmt.Errorf("saving recordings: %w", err)
	}
	fmt.Printf("Recording %s deleted\n", args[0])
	return nil
}

func runRecordBaseline(cmd *cobra.Command, args []string) error {
	l, save, closeFn, err := loadRecordings(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if len(args) == 1 {
		if !l.SetBaseline(args[0]) {
			return fmt.Errorf("recording %s: %w", args[0], models.ErrNotFound)
		}
		if err := save(l); err != nil {
			return fmt.Errorf("saving recordings: %w", err)
		}
	}
	base, ok := l.Baseline()
	if !ok {
		fmt.Println("No recordings yet.")
		return nil
	}
	fmt.Printf("Baseline %s  %s  stability %.0f  jitter %.3f%%\n",
		base.ID, base.Timestamp.Format(time.RFC3339), base.Stability, base.JitterPct)
	return nil
}

func runRecordList(cmd *cobra.Command, args []string) error {
	l, _, closeFn, err := loadRecordings(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	recs := l.Recordings()
	if len(recs) == 0 {
		fmt.Println("No recordings yet.")
		return nil
	}
	base, _ := l.Baseline()
	printHeader("Recordings")
	for _, r := range recs {
		marker := ""
		if r.ID == base.ID {
			marker = paint(colorDim) + " (baseline)" + paint(colorReset)
		}
		fmt.Printf("  %s  %s  stability %3.0f  %sjitter %.3f%%%s%s\n",
			r.ID, r.Timestamp.Format(time.RFC3339), r.Stability,
			paint(jitterColor(r.JitterPct)), r.JitterPct, paint(colorReset), marker)
	}
	fmt.Printf("\n  30-day average jitter: %.3f%%\n", l.AverageJitter(30))
	return nil
}

func jitterColor(j float64) string {
	switch recording.JitterStatusOf(j) {
	case models.JitterHealthy:
		return colorGreen
	case models.JitterElevated:
		return colorYellow
	default:
		return colorRed
	}
}
