package risk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"

	"cycle-insights/pkg/models"
)

// AuditHash fingerprints the scoring inputs and result: SHA-256 over a
// canonical pipe-joined record, truncated to 16 hex characters.
func AuditHash(p models.RiskInputProfile, score int) string {
	distinct := distinctMarkers(p.PhysicalMarkers)
	markers := make([]string, 0, len(distinct))
	for _, m := range distinct {
		markers = append(markers, string(m))
	}
	slices.Sort(markers)

	stability := "none"
	if p.VoiceRecording != nil {
		stability = fmt.Sprintf("%.2f", p.VoiceRecording.Stability)
	}

	record := strings.Join([]string{
		string(p.CycleRegularity),
		strings.Join(markers, ","),
		string(p.FamilyHistory),
		stability,
		fmt.Sprintf("%.2f", p.Height.Centimeters()),
		fmt.Sprintf("%.2f", p.Weight.Kilograms()),
		ModelVersion,
		fmt.Sprintf("%d", score),
	}, "|")

	sum := sha256.Sum256([]byte(record))
	return hex.EncodeToString(sum[:8])
}
