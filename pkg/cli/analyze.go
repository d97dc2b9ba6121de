package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cycle-insights/pkg/calculator"
	"cycle-insights/pkg/models"
	"cycle-insights/pkg/risk"
)

// --- cycle-insights analyze / trends / insights / report ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score the stored profile and explain the result",
	RunE:  runAnalyze,
}

var trendsCmd = &cobra.Command{
	Use:   "trends",
	Short: "Show rolling averages, BMI and cycle regularity",
	RunE:  runTrends,
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show correlation insights over the window",
	RunE:  runInsights,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the full report",
	RunE:  runReport,
}

func init() {
	analyzeCmd.Flags().Bool("json", false, "Print JSON")
	analyzeCmd.Flags().Bool("summary", false, "Include the narrative summary")
	trendsCmd.Flags().Bool("series", false, "Print the daily series")
	reportCmd.Flags().Bool("json", false, "Print JSON")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(trendsCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(reportCmd)
}

// buildReport runs the report pipeline for the configured user.
func buildReport(cmd *cobra.Command) (models.Report, error) {
	st, cfg, closeFn, err := openStore(cmd)
	if err != nil {
		return models.Report{}, err
	}
	defer closeFn()

	now, err := clock(cmd)
	if err != nil {
		return models.Report{}, err
	}
	ecfg := cfg.Engine("")
	ecfg.Today = now()
	ecfg.Progress = showProgress()
	return calculator.Run(cmd.Context(), st, ecfg)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	a := risk.Engine{}.Analyze(p)
	withSummary, _ := cmd.Flags().GetBool("summary")

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if withSummary {
			return printJSON(struct {
				models.RiskAnalysis
				Summary models.NarrativeSummary `json:"summary"`
			}{a, risk.Summarize(p, a)})
		}
		return printJSON(a)
	}

	printRisk(a)
	if withSummary {
		s := risk.Summarize(p, a)
		printHeader("Summary")
		printField("Jitter trend", s.JitterTrend)
		printField("BMI category", s.BMICategory)
		printField("Phase", s.EstimatedPhase)
		if len(s.TopFactors) > 0 {
			printField("Top factors", strings.Join(s.TopFactors, ", "))
		}
	}
	return nil
}

func printRisk(a models.RiskAnalysis) {
	printHeader("Risk analysis")
	printFieldColored("Score", fmt.Sprintf("%d (%s)", a.RiskScore, a.RiskLevel), riskColor(a.RiskLevel))
	printField("Narrative", a.Narrative)
	printField("Model", a.ModelVersion+" "+a.AuditHash)

	if len(a.FeatureImportance) == 0 {
		return
	}
	fmt.Println()
	for _, f := range a.FeatureImportance {
		sign, color := "+", colorRed
		if f.Direction == models.DirectionNegative {
			sign, color = "-", colorGreen
		}
		fmt.Printf("  %s%s %-28s%s %3d pts %5.1f%%  %s%s%s\n",
			paint(color), sign, f.Label, paint(colorReset), f.Points, f.Contribution,
			paint(colorDim), f.Description, paint(colorReset))
	}
}

func riskColor(l models.RiskLevel) string {
	switch l {
	case models.RiskLow:
		return colorGreen
	case models.RiskModerate:
		return colorYellow
	default:
		return colorRed
	}
}

func runTrends(cmd *cobra.Command, args []string) error {
	r, err := buildReport(cmd)
	if err != nil {
		return err
	}
	printTrends(r)
	if withSeries, _ := cmd.Flags().GetBool("series"); withSeries {
		printSeries(r.Series)
	}
	return nil
}

func printTrends(r models.Report) {
	printHeader("Trends " + r.Today)
	printField("7-day jitter", formatOptional(r.Averages.AvgJitter, "%.3f%%"))
	printField("7-day resting HR", formatOptional(r.Averages.AvgRHR, "%.1f bpm"))
	if r.Averages.RHRTrend != nil {
		printField("Resting HR trend", *r.Averages.RHRTrend)
	}
	printField("Data points", fmt.Sprintf("jitter %d, rhr %d", r.Averages.DataPoints.Jitter, r.Averages.DataPoints.RHR))
	bmi := formatOptional(r.BMI.Current, "%.1f")
	if r.BMI.Trend != nil {
		bmi += " (" + *r.BMI.Trend + ")"
	}
	printField("BMI", bmi)
	if r.Regularity != nil {
		printField("Regularity", fmt.Sprintf("%d/100", *r.Regularity))
	} else {
		printField("Regularity", "-")
	}
}

func printSeries(series []models.DailyHealthData) {
	printHeader("Daily series")
	for _, d := range series {
		day := "  "
		if d.CycleDay != nil {
			day = fmt.Sprintf("%2d", *d.CycleDay)
		}
		period := " "
		if d.IsPeriod {
			period = paint(colorRed) + "P" + paint(colorReset)
		}
		fmt.Printf("  %s %s %s  jitter %-7s rhr %-5s weight %s\n",
			d.Date, period, day,
			formatOptional(d.Jitter, "%.3f"), formatOptional(d.RHR, "%.0f"), formatOptional(d.Weight, "%.1f"))
	}
}

func runInsights(cmd *cobra.Command, args []string) error {
	r, err := buildReport(cmd)
	if err != nil {
		return err
	}
	printInsights(r.Insights)
	return nil
}

func printInsights(insights []string) {
	printHeader("Insights")
	if len(insights) == 0 {
		fmt.Println("  Not enough data yet.")
		return
	}
	for _, s := range insights {
		fmt.Printf("  * %s\n", s)
	}
}

func runReport(cmd *cobra.Command, args []string) error {
	r, err := buildReport(cmd)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(r)
	}

	c := r.Cycle
	printHeader(fmt.Sprintf("Report for %s (%s)", r.UserID, r.Today))
	if c.LastPeriodStart == "" {
		printField("Cycle", "no periods logged")
	} else {
		printField("Cycle day", fmt.Sprintf("%d (%s)", c.CurrentCycleDay, c.Phase))
		printField("Next period", fmt.Sprintf("%s, in %d days", c.NextPeriodDate, c.DaysUntilPeriod))
		printField("Averages", fmt.Sprintf("cycle %d d, period %d d", c.AverageCycleLength, c.AveragePeriodLength))
	}
	printTrends(r)
	printInsights(r.Insights)
	if r.Risk != nil {
		printRisk(*r.Risk)
	}
	return nil
}
