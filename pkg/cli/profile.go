package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"cycle-insights/pkg/models"
	"cycle-insights/pkg/risk"
)

// --- cycle-insights profile ---

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the onboarding risk profile",
}

var profileSetCmd = &cobra.Command{
	Use:   "set <file.yaml>",
	Short: "Validate and store a profile from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileSet,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored profile",
	RunE:  runProfileShow,
}

func init() {
	profileShowCmd.Flags().Bool("json", false, "Print JSON")

	profileCmd.AddCommand(profileSetCmd)
	profileCmd.AddCommand(profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}

func readProfile(path string) (models.RiskInputProfile, error) {
	var p models.RiskInputProfile
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("read profile: %w", err)
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("parse profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

func runProfileSet(cmd *cobra.Command, args []string) error {
	p, err := readProfile(args[0])
	if err != nil {
		return err
	}
	st, cfg, closeFn, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := st.SaveProfile(cmd.Context(), p); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	fmt.Printf("Profile stored for %s\n", cfg.UserID)
	return nil
}

// loadProfile returns ErrNotFound when the user has none.
func loadProfile(cmd *cobra.Command) (models.RiskInputProfile, error) {
	st, cfg, closeFn, err := openStore(cmd)
	if err != nil {
		return models.RiskInputProfile{}, err
	}
	defer closeFn()

	p, err := st.Profile(cmd.Context())
	if err != nil {
		return models.RiskInputProfile{}, err
	}
	if p == nil {
		return models.RiskInputProfile{}, fmt.Errorf("profile for %s: %w", cfg.UserID, models.ErrNotFound)
	}
	return *p, nil
}

func runProfileShow(cmd *cobra.Command, args []string) error {
	p, err := loadProfile(cmd)
	if err != nil {
		return err
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(p)
	}

	name := p.Name
	if name == "" {
		name = "(unnamed)"
	}
	printHeader("Profile " + name)
	printField("Cycle", orDash(string(p.CycleRegularity)))
	markers := make([]string, len(p.PhysicalMarkers))
	for i, m := range p.PhysicalMarkers {
		markers[i] = string(m)
	}
	switch {
	case len(markers) > 0:
		printField("Markers", strings.Join(markers, ", "))
	case p.NoPhysicalMarkers:
		printField("Markers", "none")
	default:
		printField("Markers", "-")
	}
	printField("Family history", orDash(string(p.FamilyHistory)))
	if p.VoiceRecording != nil {
		printField("Voice stability", fmt.Sprintf("%.0f", p.VoiceRecording.Stability))
	}
	if bmi, ok := risk.BMI(p.Height, p.Weight); ok {
		printField("BMI", fmt.Sprintf("%.1f (%s)", bmi, risk.BMICategory(p.Height, p.Weight)))
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
