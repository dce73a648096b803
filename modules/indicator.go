package modules

import "fmt"

// Severity tiers for risk indicators.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Parameter origin: whether the evidence came from chain state or an
// off-chain provider.
const (
	ParamTypeOnChain  = "on-chain"
	ParamTypeOffChain = "off-chain"
)

// RiskIndicator is a single severity-tagged finding. Indicators are created
// only when a parameter triggers and are immutable once appended to the
// ledger.
type RiskIndicator struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Name        string `json:"name"`
	Severity    string `json:"severity"`
	Value       string `json:"value"`
	Description string `json:"description"`
	ParamType   string `json:"paramType"`
}

// indicatorLedger is the append-only list of findings for one analysis run.
type indicatorLedger struct {
	indicators []RiskIndicator
	seq        int
}

// add appends a finding and returns it. IDs are sequential within a run so a
// streamed result stays auditable against the event order.
func (l *indicatorLedger) add(category, name, severity, value, description, paramType string) RiskIndicator {
	l.seq++
	ind := RiskIndicator{
		ID:          fmt.Sprintf("%s-%d", category, l.seq),
		Category:    category,
		Name:        name,
		Severity:    severity,
		Value:       value,
		Description: description,
		ParamType:   paramType,
	}
	l.indicators = append(l.indicators, ind)
	return ind
}

func (l *indicatorLedger) list() []RiskIndicator {
	return l.indicators
}
