package modules

import (
	"fmt"
	"strings"
)

// BuildScanReply formats a finished result as the human-readable reply used
// by the agent command surface.
func BuildScanReply(result *DetectionResult) string {
	if result == nil {
		return "Scan failed: no result"
	}
	if result.Error != "" {
		return fmt.Sprintf("Scan for %s failed: %s", result.Address, result.Error)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Scan result for %s (%s):\n", result.Address, result.DetectionMode)
	fmt.Fprintf(&b, "- RiskScore: %d/100 (grade %s, level %s)\n", result.RiskScore, result.RiskGrade, result.RiskLevel)
	fmt.Fprintf(&b, "- Checks: %d/31 evaluated, %d triggered (%d on-chain, %d off-chain)\n",
		result.TotalChecked, result.TotalTriggered, result.OnChainTriggered, result.OffChainTriggered)

	if len(result.Indicators) == 0 {
		b.WriteString("- Indicators:\n - No immediate red flags")
		return b.String()
	}
	b.WriteString("- Indicators:")
	for _, ind := range result.Indicators {
		fmt.Fprintf(&b, "\n - [%s] %s: %s", ind.Severity, ind.Name, ind.Value)
	}
	return b.String()
}

// BuildScoreReply formats the one-line score summary for the agent's score
// command.
func BuildScoreReply(result *DetectionResult) string {
	if result == nil {
		return "Score unavailable"
	}
	if result.Error != "" {
		return fmt.Sprintf("Score for %s unavailable: %s", result.Address, result.Error)
	}
	return fmt.Sprintf("Risk score for %s: %d/100 (grade %s, level %s, %d findings)",
		result.Address, result.RiskScore, result.RiskGrade, result.RiskLevel, len(result.Indicators))
}
