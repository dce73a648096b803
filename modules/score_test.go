package modules

import "testing"

func ind(severity string) RiskIndicator {
	return RiskIndicator{ID: "t", Category: "test", Name: "test", Severity: severity}
}

func TestSeverityWeights(t *testing.T) {
	cases := []struct {
		severity string
		want     int
	}{
		{SeverityLow, 5},
		{SeverityMedium, 15},
		{SeverityHigh, 30},
		{SeverityCritical, 50},
	}
	for _, c := range cases {
		if got := RiskScore([]RiskIndicator{ind(c.severity)}); got != c.want {
			t.Errorf("severity %s: expected %d, got %d", c.severity, c.want, got)
		}
	}
}

func TestScoreEmptyLedger(t *testing.T) {
	if got := RiskScore(nil); got != 0 {
		t.Errorf("empty ledger should score 0, got %d", got)
	}
}

func TestScoreClampsAt100(t *testing.T) {
	ledger := []RiskIndicator{
		ind(SeverityCritical), ind(SeverityCritical), ind(SeverityCritical),
		ind(SeverityCritical), ind(SeverityCritical),
	}
	if got := RiskScore(ledger); got != 100 {
		t.Errorf("five criticals should clamp to 100, got %d", got)
	}
}

func TestScoreOrderIndependent(t *testing.T) {
	a := []RiskIndicator{ind(SeverityLow), ind(SeverityHigh), ind(SeverityCritical)}
	b := []RiskIndicator{ind(SeverityCritical), ind(SeverityLow), ind(SeverityHigh)}
	if RiskScore(a) != RiskScore(b) {
		t.Errorf("identical ledgers in different order scored %d vs %d", RiskScore(a), RiskScore(b))
	}
}

func TestScoreMonotonic(t *testing.T) {
	ledger := []RiskIndicator{}
	prev := RiskScore(ledger)
	for i := 0; i < 10; i++ {
		ledger = append(ledger, ind(SeverityMedium))
		got := RiskScore(ledger)
		if got < prev {
			t.Fatalf("score decreased from %d to %d after adding an indicator", prev, got)
		}
		prev = got
	}
}

func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "A"}, {20, "A"},
		{21, "B"}, {40, "B"},
		{41, "C"}, {60, "C"},
		{61, "D"}, {80, "D"},
		{81, "F"}, {100, "F"},
	}
	for _, c := range cases {
		if got := RiskGrade(c.score); got != c.want {
			t.Errorf("score %d: expected grade %s, got %s", c.score, c.want, got)
		}
	}
}

func TestRiskLevelThresholds(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{0, "low"}, {9, "low"},
		{10, "medium"}, {29, "medium"},
		{30, "high"}, {49, "high"},
		{50, "critical"}, {100, "critical"},
	}
	for _, c := range cases {
		if got := RiskLevel(c.score, nil); got != c.want {
			t.Errorf("score %d: expected level %s, got %s", c.score, c.want, got)
		}
	}
}

func TestCriticalIndicatorForcesCriticalLevel(t *testing.T) {
	ledger := []RiskIndicator{ind(SeverityCritical)}
	// Score 50 would already be critical; check a synthetic low score too.
	if got := RiskLevel(0, ledger); got != "critical" {
		t.Errorf("critical indicator must force critical level, got %s", got)
	}
}
