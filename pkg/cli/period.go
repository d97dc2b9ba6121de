package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cycle-insights/pkg/ledger"
	"cycle-insights/pkg/models"
)

// --- cycle-insights period ---

var periodCmd = &cobra.Command{
	Use:     "period",
	Aliases: []string{"periods"},
	Short:   "Log period days and inspect the cycle",
}

var periodToggleCmd = &cobra.Command{
	Use:   "toggle <date> [date...]",
	Short: "Flip period days on or off and recalculate averages",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPeriodToggle,
}

var periodListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List logged period days grouped by period",
	RunE:    runPeriodList,
}

var periodStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cycle day, phase and prediction",
	RunE:  runPeriodStatus,
}

func init() {
	periodStatusCmd.Flags().Bool("json", false, "Print JSON")

	periodCmd.AddCommand(periodToggleCmd)
	periodCmd.AddCommand(periodListCmd)
	periodCmd.AddCommand(periodStatusCmd)
	rootCmd.AddCommand(periodCmd)
}

// loadLedger reads the user's ledger with the command clock.
func loadLedger(cmd *cobra.Command) (*ledger.Ledger, func(*ledger.Ledger) error, func(), error) {
	st, _, closeFn, err := openStore(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	now, err := clock(cmd)
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	snap, err := st.PeriodLedger(cmd.Context())
	if err != nil {
		closeFn()
		return nil, nil, nil, err
	}
	save := func(l *ledger.Ledger) error { return st.SaveLedger(cmd.Context(), l.Snapshot()) }
	return ledger.FromSnapshot(snap, now), save, closeFn, nil
}

func runPeriodToggle(cmd *cobra.Command, args []string) error {
	for _, a := range args {
		if _, err := models.ParseDay(a); err != nil {
			return fmt.Errorf("%q: %w", a, err)
		}
	}
	l, save, closeFn, err := loadLedger(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	for _, a := range args {
		day := models.NormalizeDay(a)
		l.LogPeriodToggle(day)
		state := paint(colorDim) + "off" + paint(colorReset)
		if l.IsPeriodDay(day) {
			state = paint(styleBoldRed) + "on" + paint(colorReset)
		}
		fmt.Printf("%s %s\n", day, state)
	}
	if err := save(l); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	fmt.Printf("Average cycle %d days, period %d days\n", l.AverageCycleLength(), l.AveragePeriodLength())
	return nil
}

func runPeriodList(cmd *cobra.Command, args []string) error {
	l, _, closeFn, err := loadLedger(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	groups := ledger.GroupPeriodDays(l.PeriodDays())
	if len(groups) == 0 {
		fmt.Println("No period days logged.")
		return nil
	}
	printHeader("Periods")
	for _, g := range groups {
		fmt.Printf("  %s → %s  (%d days)\n", g[0], g[len(g)-1], len(g))
		fmt.Printf("    %s%s%s\n", paint(colorDim), strings.Join(g, " "), paint(colorReset))
	}
	return nil
}

func runPeriodStatus(cmd *cobra.Command, args []string) error {
	l, _, closeFn, err := loadLedger(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	ov := l.Overview()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(ov)
	}

	printHeader("Cycle")
	if ov.CurrentCycleDay == 0 {
		printField("Cycle day", "no data")
	} else {
		printField("Cycle day", fmt.Sprintf("%d", ov.CurrentCycleDay))
	}
	printFieldColored("Phase", models.PhaseLabels[ov.Phase], styleBoldCyan)
	if ov.DaysUntilPeriod >= 0 {
		printField("Next period", fmt.Sprintf("%s (in %d days)", ov.NextPeriodDate, ov.DaysUntilPeriod))
	}
	printField("Average cycle", fmt.Sprintf("%d days", ov.AverageCycleLength))
	printField("Average period", fmt.Sprintf("%d days", ov.AveragePeriodLength))
	for _, c := range ov.History {
		label := fmt.Sprintf("%d days", c.Length)
		if c.Ongoing {
			label += " (ongoing)"
		}
		fmt.Printf("    %s → %s  %s\n", c.StartDate, c.EndDate, label)
	}
	return nil
}
