package modules

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Thresholds are the tunable trigger levels for both analyzers. The zero
// value is not usable; start from DefaultThresholds and overlay a yaml file
// when one is configured.
type Thresholds struct {
	PriceCollapsePercent float64 `yaml:"priceCollapsePercent"` // 24h change below this is a dead project
	MinVolume24hUSD      float64 `yaml:"minVolume24hUsd"`

	CreatorHighPercent     float64 `yaml:"creatorHighPercent"`
	CreatorCriticalPercent float64 `yaml:"creatorCriticalPercent"`
	Top10CentralPercent    float64 `yaml:"top10CentralPercent"`

	LowLiquidityUSD      float64 `yaml:"lowLiquidityUsd"`
	CriticalLiquidityUSD float64 `yaml:"criticalLiquidityUsd"`
	NewTokenMaxAgeHours  float64 `yaml:"newTokenMaxAgeHours"`

	SellSlippageMediumPercent   float64 `yaml:"sellSlippageMediumPercent"`
	SellSlippageHighPercent     float64 `yaml:"sellSlippageHighPercent"`
	SellSlippageCriticalPercent float64 `yaml:"sellSlippageCriticalPercent"`
	BuySlippageMediumPercent    float64 `yaml:"buySlippageMediumPercent"`

	HolderHighPercent     float64 `yaml:"holderHighPercent"`
	HolderCriticalPercent float64 `yaml:"holderCriticalPercent"`

	TxFailureRatePercent float64 `yaml:"txFailureRatePercent"`
	MinHolderCount       int     `yaml:"minHolderCount"`

	ProgramErrorRatePercent float64 `yaml:"programErrorRatePercent"`
	VolumeLiquidityRatio    float64 `yaml:"volumeLiquidityRatio"`
	PriceMove1hPercent      float64 `yaml:"priceMove1hPercent"`
}

// DefaultThresholds returns the built-in trigger levels.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PriceCollapsePercent: -95,
		MinVolume24hUSD:      1000,

		CreatorHighPercent:     10,
		CreatorCriticalPercent: 30,
		Top10CentralPercent:    80,

		LowLiquidityUSD:      10000,
		CriticalLiquidityUSD: 1000,
		NewTokenMaxAgeHours:  24,

		SellSlippageMediumPercent:   5,
		SellSlippageHighPercent:     10,
		SellSlippageCriticalPercent: 30,
		BuySlippageMediumPercent:    10,

		HolderHighPercent:     25,
		HolderCriticalPercent: 50,

		TxFailureRatePercent: 30,
		MinHolderCount:       50,

		ProgramErrorRatePercent: 5,
		VolumeLiquidityRatio:    2,
		PriceMove1hPercent:      50,
	}
}

// LoadThresholds overlays yaml overrides from path onto the defaults. An
// empty path returns the defaults unchanged.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()
	if path == "" {
		return t, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read thresholds file: %w", err)
	}
	if err := yaml.Unmarshal(b, &t); err != nil {
		return t, fmt.Errorf("parse thresholds file: %w", err)
	}
	return t, nil
}

// Config is the process configuration, sourced from the environment
// (a .env file is loaded by main before this runs).
type Config struct {
	RPCURL          string
	BirdeyeBaseURL  string
	BirdeyeAPIKey   string
	DexScreenerURL  string
	JupiterQuoteURL string
	RugcheckBaseURL string

	GoogleAPIKeys []string
	GoogleModel   string
	OpenAIAPIKey  string

	HTTPPort        string
	RegistryDBPath  string
	ThresholdsFile  string
	SignatureSample int
	ProviderTimeout time.Duration
}

// LoadConfig reads configuration from the environment, applying defaults for
// anything unset.
func LoadConfig() Config {
	cfg := Config{
		RPCURL:          envOr("SOLANA_RPC_URL", "https://api.mainnet-beta.solana.com"),
		BirdeyeBaseURL:  envOr("BIRDEYE_BASE_URL", "https://public-api.birdeye.so"),
		BirdeyeAPIKey:   os.Getenv("BIRDEYE_API_KEY"),
		DexScreenerURL:  envOr("DEXSCREENER_BASE_URL", "https://api.dexscreener.com"),
		JupiterQuoteURL: envOr("JUPITER_QUOTE_URL", "https://quote-api.jup.ag/v6"),
		RugcheckBaseURL: envOr("RUGCHECK_BASE_URL", "https://api.rugcheck.xyz/v1"),
		GoogleModel:     envOr("GOOGLE_MODEL", "gemini-2.5-flash"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		HTTPPort:        envOr("HTTP_PORT", "8080"),
		RegistryDBPath:  os.Getenv("PROGRAM_REGISTRY_DB"),
		ThresholdsFile:  os.Getenv("THRESHOLDS_FILE"),
		SignatureSample: 50,
		ProviderTimeout: 10 * time.Second,
	}

	if s := os.Getenv("SIGNATURE_SAMPLE_SIZE"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			cfg.SignatureSample = v
		}
	}
	if s := os.Getenv("PROVIDER_TIMEOUT_SEC"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			cfg.ProviderTimeout = time.Duration(v) * time.Second
		}
	}
	// GOOGLE_API_KEYS is a comma list feeding the rotating pool; GOOGLE_API_KEY
	// keeps single-key deployments working.
	if s := os.Getenv("GOOGLE_API_KEYS"); s != "" {
		for _, k := range strings.Split(s, ",") {
			if k = strings.TrimSpace(k); k != "" {
				cfg.GoogleAPIKeys = append(cfg.GoogleAPIKeys, k)
			}
		}
	} else if k := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY")); k != "" {
		cfg.GoogleAPIKeys = []string{k}
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
