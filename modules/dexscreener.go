package modules

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/ikarn-dev/sivic-sub000/pkg/netguard"
)

// DexScreenerClient is the DEX-aggregator collaborator. It answers for both
// mints (token-profile pairs) and program accounts (pairs hosted on that
// venue's dexId have no dedicated endpoint, so the token search endpoint is
// used for both address kinds).
type DexScreenerClient struct {
	baseURL string
	client  *http.Client
	monitor *netguard.Monitor
}

// NewDexScreenerClient creates the DexScreener adapter. monitor may be nil.
func NewDexScreenerClient(baseURL string, timeout time.Duration, monitor *netguard.Monitor) *DexScreenerClient {
	return &DexScreenerClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		monitor: monitor,
	}
}

type dexScreenerResponse struct {
	Pairs []struct {
		DexID     string `json:"dexId"`
		Liquidity struct {
			USD float64 `json:"usd"`
		} `json:"liquidity"`
		Volume struct {
			H24 float64 `json:"h24"`
		} `json:"volume"`
		PriceChange struct {
			H1 float64 `json:"h1"`
		} `json:"priceChange"`
		PairCreatedAt int64 `json:"pairCreatedAt"` // epoch millis
	} `json:"pairs"`
}

// Pairs aggregates liquidity, volume, venues, and pair age for an address.
func (d *DexScreenerClient) Pairs(ctx context.Context, address string) (*PairSummary, error) {
	var resp dexScreenerResponse
	url := fmt.Sprintf("%s/latest/dex/tokens/%s", d.baseURL, address)
	fn := func() error { return getJSON(ctx, d.client, url, nil, &resp) }
	var err error
	if d.monitor != nil {
		err = d.monitor.Track("dexscreener", fn)
	} else {
		err = fn()
	}
	if err != nil {
		return nil, fmt.Errorf("dexscreener pairs: %w", err)
	}

	summary := &PairSummary{}
	seen := map[string]bool{}
	for _, p := range resp.Pairs {
		pair := PairInfo{
			Dex:           p.DexID,
			LiquidityUSD:  p.Liquidity.USD,
			Volume24h:     p.Volume.H24,
			PriceChange1h: p.PriceChange.H1,
		}
		if p.PairCreatedAt > 0 {
			pair.CreatedAt = time.UnixMilli(p.PairCreatedAt).UTC()
		}
		summary.Pairs = append(summary.Pairs, pair)
		summary.TotalLiquidity += pair.LiquidityUSD
		summary.TotalVolume24h += pair.Volume24h
		if p.DexID != "" && !seen[p.DexID] {
			seen[p.DexID] = true
			summary.Dexes = append(summary.Dexes, p.DexID)
		}
		if !pair.CreatedAt.IsZero() &&
			(summary.PairCreatedAt.IsZero() || pair.CreatedAt.Before(summary.PairCreatedAt)) {
			summary.PairCreatedAt = pair.CreatedAt
		}
	}
	sort.Strings(summary.Dexes)
	return summary, nil
}
