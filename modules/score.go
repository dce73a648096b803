package modules

// Severity weights. The sum over a ledger, clamped to [0,100], is the risk
// score; the mapping must stay order-independent so identical ledgers always
// score the same.
const (
	weightLow      = 5
	weightMedium   = 15
	weightHigh     = 30
	weightCritical = 50
)

// RiskScore sums severity weights over the ledger and clamps to [0,100].
// Pure: no external reads, no ordering dependence. An empty ledger scores 0.
func RiskScore(indicators []RiskIndicator) int {
	total := 0
	for _, ind := range indicators {
		switch ind.Severity {
		case SeverityLow:
			total += weightLow
		case SeverityMedium:
			total += weightMedium
		case SeverityHigh:
			total += weightHigh
		case SeverityCritical:
			total += weightCritical
		}
	}
	if total > 100 {
		return 100
	}
	if total < 0 {
		return 0
	}
	return total
}

// RiskGrade maps a score to a letter grade.
func RiskGrade(score int) string {
	switch {
	case score <= 20:
		return "A"
	case score <= 40:
		return "B"
	case score <= 60:
		return "C"
	case score <= 80:
		return "D"
	default:
		return "F"
	}
}

// RiskLevel derives the qualitative level from the score. Any
// critical-severity indicator forces "critical" regardless of the numeric
// score.
func RiskLevel(score int, indicators []RiskIndicator) string {
	for _, ind := range indicators {
		if ind.Severity == SeverityCritical {
			return "critical"
		}
	}
	switch {
	case score >= 50:
		return "critical"
	case score >= 30:
		return "high"
	case score >= 10:
		return "medium"
	default:
		return "low"
	}
}
