package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"cycle-insights/pkg/ledger"
	"cycle-insights/pkg/models"
)

// --- cycle-insights symptom ---

var symptomCmd = &cobra.Command{
	Use:     "symptom",
	Aliases: []string{"symptoms"},
	Short:   "Tag days with symptoms",
	Long:    "Tags: " + strings.Join(symptomNames(), ", "),
}

var symptomAddCmd = &cobra.Command{
	Use:   "add <date> <tag>",
	Short: "Add a symptom tag to a day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateSymptom(cmd, args, (*ledger.Ledger).AddSymptom)
	},
}

var symptomRemoveCmd = &cobra.Command{
	Use:     "remove <date> <tag>",
	Aliases: []string{"rm"},
	Short:   "Remove a symptom tag from a day",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateSymptom(cmd, args, (*ledger.Ledger).RemoveSymptom)
	},
}

var symptomToggleCmd = &cobra.Command{
	Use:   "toggle <date> <tag>",
	Short: "Flip a symptom tag on a day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return mutateSymptom(cmd, args, func(l *ledger.Ledger, day string, tag models.Symptom) bool {
			l.ToggleSymptom(day, tag)
			return true
		})
	},
}

var symptomListCmd = &cobra.Command{
	Use:     "list [date]",
	Aliases: []string{"ls"},
	Short:   "List symptom tags",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runSymptomList,
}

func init() {
	symptomCmd.AddCommand(symptomAddCmd)
	symptomCmd.AddCommand(symptomRemoveCmd)
	symptomCmd.AddCommand(symptomToggleCmd)
	symptomCmd.AddCommand(symptomListCmd)
	rootCmd.AddCommand(symptomCmd)
}

func symptomNames() []string {
	out := make([]string, 0, len(models.AllSymptoms))
	for _, s := range models.AllSymptoms {
		out = append(out, string(s))
	}
	return out
}

func mutateSymptom(cmd *cobra.Command, args []string, op func(*ledger.Ledger, string, models.Symptom) bool) error {
	day := models.NormalizeDay(args[0])
	if day == "" {
		return fmt.Errorf("%q: %w", args[0], models.ErrInvalidDay)
	}
	tag, err := models.ParseSymptom(args[1])
	if err != nil {
		return fmt.Errorf("%q: %w", args[1], err)
	}

	l, save, closeFn, err := loadLedger(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if !op(l, day, tag) {
		fmt.Println("No change.")
		return nil
	}
	if err := save(l); err != nil {
		return fmt.Errorf("saving ledger: %w", err)
	}
	fmt.Printf("%s: %s\n", day, formatSymptoms(l.SymptomsFor(day)))
	return nil
}

func runSymptomList(cmd *cobra.Command, args []string) error {
	l, _, closeFn, err := loadLedger(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if len(args) == 1 {
		day := models.NormalizeDay(args[0])
		if day == "" {
			return fmt.Errorf("%q: %w", args[0], models.ErrInvalidDay)
		}
		fmt.Printf("%s: %s\n", day, formatSymptoms(l.SymptomsFor(day)))
		return nil
	}

	snap := l.Snapshot()
	if len(snap.Symptoms) == 0 {
		fmt.Println("No symptoms logged.")
		return nil
	}
	days := make([]string, 0, len(snap.Symptoms))
	for d := range snap.Symptoms {
		days = append(days, d)
	}
	sort.Strings(days)
	printHeader("Symptoms")
	for _, d := range days {
		fmt.Printf("  %s  %s\n", d, formatSymptoms(snap.Symptoms[d]))
	}
	return nil
}

func formatSymptoms(tags []models.Symptom) string {
	if len(tags) == 0 {
		return "-"
	}
	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, models.SymptomLabels[t])
	}
	return strings.Join(labels, ", ")
}
