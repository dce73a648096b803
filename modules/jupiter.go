package modules

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ikarn-dev/sivic-sub000/pkg/netguard"
)

const (
	wrappedSolMint = "So11111111111111111111111111111111111111112"
	// Probe size for the simulated buy, in lamports (0.1 SOL).
	buyProbeLamports = 100_000_000
)

// JupiterClient is the swap-simulation collaborator. A buy (SOL -> mint) and
// a sell (mint -> SOL) are quoted through the router; an unroutable sell is
// the honeypot signal.
type JupiterClient struct {
	baseURL string
	client  *http.Client
	monitor *netguard.Monitor
}

// NewJupiterClient creates the Jupiter quote adapter. monitor may be nil.
func NewJupiterClient(baseURL string, timeout time.Duration, monitor *netguard.Monitor) *JupiterClient {
	return &JupiterClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		monitor: monitor,
	}
}

type jupiterQuoteResponse struct {
	OutAmount      string `json:"outAmount"`
	PriceImpactPct string `json:"priceImpactPct"`
	Error          string `json:"error"`
	ErrorCode      string `json:"errorCode"`
}

func (j *JupiterClient) quote(ctx context.Context, inputMint, outputMint string, amount uint64) (*jupiterQuoteResponse, error) {
	var resp jupiterQuoteResponse
	url := fmt.Sprintf("%s/quote?inputMint=%s&outputMint=%s&amount=%d&swapMode=ExactIn",
		j.baseURL, inputMint, outputMint, amount)
	fn := func() error { return getJSON(ctx, j.client, url, nil, &resp) }
	var err error
	if j.monitor != nil {
		err = j.monitor.Track("jupiter", fn)
	} else {
		err = fn()
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// isNoRouteError reports whether a quote failure means "this swap cannot be
// routed" rather than a transient upstream problem.
func isNoRouteError(resp *jupiterQuoteResponse) bool {
	if resp == nil {
		return false
	}
	if resp.ErrorCode == "COULD_NOT_FIND_ANY_ROUTE" || resp.ErrorCode == "TOKEN_NOT_TRADABLE" {
		return true
	}
	msg := strings.ToLower(resp.Error)
	return strings.Contains(msg, "no route") || strings.Contains(msg, "not tradable")
}

// Slippage simulates a buy and a sell for the mint and reports price impact
// on each leg. A buy that routes while the sell does not is flagged as a
// honeypot.
func (j *JupiterClient) Slippage(ctx context.Context, mint string, decimals int) (*SlippageReport, error) {
	buy, err := j.quote(ctx, wrappedSolMint, mint, buyProbeLamports)
	if err != nil {
		return nil, fmt.Errorf("jupiter buy quote: %w", err)
	}
	report := &SlippageReport{}
	if isNoRouteError(buy) {
		// Nothing to probe the sell with; untradeable both ways is not a
		// honeypot, just an unlisted token.
		report.HoneypotReason = "no route for buy"
		return report, nil
	}
	report.BuySlippagePercent = parseImpactPct(buy.PriceImpactPct)

	sellAmount, err := strconv.ParseUint(buy.OutAmount, 10, 64)
	if err != nil || sellAmount == 0 {
		return nil, fmt.Errorf("jupiter buy quote: bad outAmount %q", buy.OutAmount)
	}

	sell, err := j.quote(ctx, mint, wrappedSolMint, sellAmount)
	if err != nil {
		return nil, fmt.Errorf("jupiter sell quote: %w", err)
	}
	if isNoRouteError(sell) {
		report.IsHoneypot = true
		report.HoneypotReason = "sell quote rejected: " + sell.Error
		return report, nil
	}
	report.SellSlippagePercent = parseImpactPct(sell.PriceImpactPct)
	return report, nil
}

// parseImpactPct converts Jupiter's 0..1 price-impact fraction to percent.
func parseImpactPct(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return math.Abs(v) * 100
}
