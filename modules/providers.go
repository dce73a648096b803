package modules

import (
	"context"
	"time"
)

// Collaborator contracts. Every provider is fallible and independently
// timeoutable; adapters return (nil, err) on failure and the analyzers treat
// absence as "unknown", never as "safe". Payloads are typed at the adapter
// boundary so a provider schema change fails loudly instead of corrupting a
// mid-pipeline step.

// ParsedAccount is the jsonParsed portion of an account, when the owner
// program exposes one.
type ParsedAccount struct {
	Type             string // "mint", "account", "program", ...
	Decimals         int
	Supply           string // raw integer string, scaled by Decimals
	MintAuthority    string
	FreezeAuthority  string
	ProgramData      string // executable-data account for upgradeable programs
	UpgradeAuthority string
}

// AccountInfo is the normalized result of getAccountInfo.
type AccountInfo struct {
	Owner      string
	Executable bool
	Lamports   uint64
	Parsed     *ParsedAccount
}

// SignatureInfo is one entry from getSignaturesForAddress.
type SignatureInfo struct {
	Signature string
	Failed    bool
	BlockTime int64
}

// TokenHolder is one entry from getTokenLargestAccounts, in UI units.
type TokenHolder struct {
	Address string
	Amount  float64
}

// ChainRPC reads raw account state from a Solana RPC node.
type ChainRPC interface {
	GetAccountInfo(ctx context.Context, address string) (*AccountInfo, error)
	GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenHolder, error)
	GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]SignatureInfo, error)
}

// MarketOverview is the normalized market snapshot for a mint.
type MarketOverview struct {
	PriceUSD       float64
	MarketCap      float64
	Liquidity      float64
	HolderCount    int
	PriceChange24h float64 // percent
	Volume24h      float64 // USD
}

// MarketDataProvider returns the current market snapshot for a mint.
type MarketDataProvider interface {
	Overview(ctx context.Context, address string) (*MarketOverview, error)
}

// SecurityInfo is the normalized token-security snapshot for a mint.
type SecurityInfo struct {
	CreatorAddress     string
	CreatorPercent     float64
	LpBurned           bool
	LpBurnedPercent    float64
	Top10HolderPercent float64
}

// SecurityDataProvider returns creator and liquidity-lock facts for a mint.
type SecurityDataProvider interface {
	Security(ctx context.Context, address string) (*SecurityInfo, error)
}

// PairInfo is one trading pair from the DEX aggregator.
type PairInfo struct {
	Dex           string
	LiquidityUSD  float64
	Volume24h     float64
	PriceChange1h float64 // percent
	CreatedAt     time.Time
}

// PairSummary aggregates the pairs associated with an address.
type PairSummary struct {
	TotalLiquidity float64
	TotalVolume24h float64
	Dexes          []string
	PairCreatedAt  time.Time // earliest pair creation
	Pairs          []PairInfo
}

// DexAggregator returns aggregate pair data for a mint or program.
type DexAggregator interface {
	Pairs(ctx context.Context, address string) (*PairSummary, error)
}

// SlippageReport is the result of simulating a buy and a sell.
type SlippageReport struct {
	BuySlippagePercent  float64
	SellSlippagePercent float64
	IsHoneypot          bool
	HoneypotReason      string
}

// SwapSimulator quotes a round trip through a routing engine.
type SwapSimulator interface {
	Slippage(ctx context.Context, mint string, decimals int) (*SlippageReport, error)
}

// SafetyReport is a third-party reputation verdict.
type SafetyReport struct {
	Score     float64
	RiskLevel string // "safe", "caution", "danger"
}

// HolderDistribution is a third-party concentration classification.
type HolderDistribution struct {
	Top10HoldersPercent float64
	ConcentrationRisk   string // "low", "moderate", "critical"
}

// ReputationProvider returns off-chain reputation signals for a mint.
type ReputationProvider interface {
	SafetyScore(ctx context.Context, address string) (*SafetyReport, error)
	HolderDistribution(ctx context.Context, address string) (*HolderDistribution, error)
}

// ProgramRegistry resolves a program id against the known-program table.
type ProgramRegistry interface {
	Lookup(programID string) (name string, ok bool)
}

// Providers bundles every collaborator an analyzer can consult. Any field may
// be nil; a nil provider behaves like a failed lookup (checked, untriggered).
type Providers struct {
	RPC        ChainRPC
	Market     MarketDataProvider
	Security   SecurityDataProvider
	Dex        DexAggregator
	Swap       SwapSimulator
	Reputation ReputationProvider
	Registry   ProgramRegistry
}
