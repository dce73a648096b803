package modules

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ikarn-dev/sivic-sub000/pkg/cache"
	"github.com/ikarn-dev/sivic-sub000/pkg/netguard"
)

const marketCacheTTL = 30 * time.Second

// BirdeyeClient serves both the market-data and security-data collaborator
// contracts from Birdeye's public API. Overview responses are cached briefly
// since the agent command path and the HTTP path often ask for the same mint
// back to back.
type BirdeyeClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	cache   cache.Cache
	monitor *netguard.Monitor
}

// NewBirdeyeClient creates the Birdeye adapter. store and monitor may be nil.
func NewBirdeyeClient(baseURL, apiKey string, timeout time.Duration, store cache.Cache, monitor *netguard.Monitor) *BirdeyeClient {
	if store == nil {
		store = &cache.NoOpCache{}
	}
	return &BirdeyeClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		cache:   store,
		monitor: monitor,
	}
}

func (b *BirdeyeClient) headers() map[string]string {
	return map[string]string{
		"X-API-KEY": b.apiKey,
		"x-chain":   "solana",
	}
}

func (b *BirdeyeClient) track(fn func() error) error {
	if b.monitor != nil {
		return b.monitor.Track("birdeye", fn)
	}
	return fn()
}

type birdeyeOverviewResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Price             float64 `json:"price"`
		MarketCap         float64 `json:"mc"`
		Liquidity         float64 `json:"liquidity"`
		Holder            int     `json:"holder"`
		PriceChange24hPct float64 `json:"priceChange24hPercent"`
		Volume24hUSD      float64 `json:"v24hUSD"`
	} `json:"data"`
}

// Overview returns the current market snapshot for a mint.
func (b *BirdeyeClient) Overview(ctx context.Context, address string) (*MarketOverview, error) {
	cacheKey := "overview:" + address
	if raw, err := b.cache.Get(ctx, cacheKey); err == nil {
		var cached MarketOverview
		if json.Unmarshal(raw, &cached) == nil {
			return &cached, nil
		}
	}

	var resp birdeyeOverviewResponse
	url := fmt.Sprintf("%s/defi/token_overview?address=%s", b.baseURL, address)
	if err := b.track(func() error {
		return getJSON(ctx, b.client, url, b.headers(), &resp)
	}); err != nil {
		return nil, fmt.Errorf("birdeye overview: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("birdeye overview: unsuccessful response for %s", address)
	}

	out := &MarketOverview{
		PriceUSD:       resp.Data.Price,
		MarketCap:      resp.Data.MarketCap,
		Liquidity:      resp.Data.Liquidity,
		HolderCount:    resp.Data.Holder,
		PriceChange24h: resp.Data.PriceChange24hPct,
		Volume24h:      resp.Data.Volume24hUSD,
	}
	if raw, err := json.Marshal(out); err == nil {
		_ = b.cache.Set(ctx, cacheKey, raw, marketCacheTTL)
	}
	return out, nil
}

type birdeyeSecurityResponse struct {
	Success bool `json:"success"`
	Data    struct {
		CreatorAddress    string  `json:"creatorAddress"`
		CreatorPercentage float64 `json:"creatorPercentage"`
		LockInfo          *struct {
			IsLocked bool `json:"isLocked"`
		} `json:"lockInfo"`
		IsToken2022        bool    `json:"isToken2022"`
		LpBurnedPercent    float64 `json:"lpBurnedPercentage"`
		Top10HolderPercent float64 `json:"top10HolderPercent"`
	} `json:"data"`
}

// Security returns creator and liquidity-lock facts for a mint. Creator
// percentage arrives as a 0..1 fraction and is normalized to percent here.
func (b *BirdeyeClient) Security(ctx context.Context, address string) (*SecurityInfo, error) {
	var resp birdeyeSecurityResponse
	url := fmt.Sprintf("%s/defi/token_security?address=%s", b.baseURL, address)
	if err := b.track(func() error {
		return getJSON(ctx, b.client, url, b.headers(), &resp)
	}); err != nil {
		return nil, fmt.Errorf("birdeye security: %w", err)
	}
	if !resp.Success {
		return nil, fmt.Errorf("birdeye security: unsuccessful response for %s", address)
	}

	info := &SecurityInfo{
		CreatorAddress:     resp.Data.CreatorAddress,
		CreatorPercent:     resp.Data.CreatorPercentage * 100,
		LpBurnedPercent:    resp.Data.LpBurnedPercent,
		Top10HolderPercent: resp.Data.Top10HolderPercent * 100,
	}
	// Treat either a burned LP or an explicit lock as locked liquidity.
	info.LpBurned = resp.Data.LpBurnedPercent >= 90
	if resp.Data.LockInfo != nil && resp.Data.LockInfo.IsLocked {
		info.LpBurned = true
	}
	return info, nil
}
