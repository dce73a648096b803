package modules

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/ikarn-dev/sivic-sub000/pkg/netguard"
)

// RugcheckClient is the off-chain reputation collaborator, serving both the
// safety-score and holder-distribution contracts from one report endpoint.
type RugcheckClient struct {
	baseURL string
	client  *http.Client
	monitor *netguard.Monitor
}

// NewRugcheckClient creates the reputation adapter. monitor may be nil.
func NewRugcheckClient(baseURL string, timeout time.Duration, monitor *netguard.Monitor) *RugcheckClient {
	return &RugcheckClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		monitor: monitor,
	}
}

type rugcheckReport struct {
	ScoreNormalised float64 `json:"score_normalised"`
	Risks           []struct {
		Name  string `json:"name"`
		Level string `json:"level"` // "warn" | "danger"
	} `json:"risks"`
	TopHolders []struct {
		Address string  `json:"address"`
		Pct     float64 `json:"pct"`
	} `json:"topHolders"`
}

func (r *RugcheckClient) fetchReport(ctx context.Context, address string) (*rugcheckReport, error) {
	var report rugcheckReport
	url := fmt.Sprintf("%s/tokens/%s/report", r.baseURL, address)
	fn := func() error { return getJSON(ctx, r.client, url, nil, &report) }
	var err error
	if r.monitor != nil {
		err = r.monitor.Track("rugcheck", fn)
	} else {
		err = fn()
	}
	if err != nil {
		return nil, fmt.Errorf("rugcheck report: %w", err)
	}
	return &report, nil
}

// SafetyScore maps the provider's normalized 0..100 score (higher is worse)
// onto the safe/caution/danger scale. Any danger-level risk forces "danger".
func (r *RugcheckClient) SafetyScore(ctx context.Context, address string) (*SafetyReport, error) {
	report, err := r.fetchReport(ctx, address)
	if err != nil {
		return nil, err
	}

	level := "safe"
	switch {
	case report.ScoreNormalised >= 60:
		level = "danger"
	case report.ScoreNormalised >= 30:
		level = "caution"
	}
	for _, risk := range report.Risks {
		if risk.Level == "danger" {
			level = "danger"
			break
		}
	}
	return &SafetyReport{Score: report.ScoreNormalised, RiskLevel: level}, nil
}

// HolderDistribution classifies the top-10 holder share reported by the
// provider.
func (r *RugcheckClient) HolderDistribution(ctx context.Context, address string) (*HolderDistribution, error) {
	report, err := r.fetchReport(ctx, address)
	if err != nil {
		return nil, err
	}

	pcts := make([]float64, 0, len(report.TopHolders))
	for _, h := range report.TopHolders {
		pcts = append(pcts, h.Pct)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(pcts)))

	top10 := 0.0
	for i, p := range pcts {
		if i >= 10 {
			break
		}
		top10 += p
	}

	risk := "low"
	switch {
	case top10 >= 80:
		risk = "critical"
	case top10 >= 50:
		risk = "moderate"
	}
	return &HolderDistribution{Top10HoldersPercent: top10, ConcentrationRisk: risk}, nil
}
