package modules

import "time"

// Detection modes.
const (
	ModeToken = "token"
	ModeDex   = "dex"
)

// Step event types emitted over the outbound stream.
const (
	EventStepStart    = "step_start"
	EventStepComplete = "step_complete"
	EventStepError    = "step_error"
	EventDataUpdate   = "data_update"
	EventComplete     = "complete"
)

// StepEvent is one lifecycle message for one unit of the analysis pipeline.
// It exists only on the wire and is never persisted.
type StepEvent struct {
	Type            string      `json:"type"`
	StepID          string      `json:"stepId,omitempty"`
	StepName        string      `json:"stepName,omitempty"`
	Duration        int64       `json:"duration,omitempty"` // milliseconds
	Data            interface{} `json:"data,omitempty"`
	Error           string      `json:"error,omitempty"`
	ParamsChecked   int         `json:"paramsChecked,omitempty"`
	ParamsTriggered int         `json:"paramsTriggered,omitempty"`
	DetectionMode   string      `json:"detectionMode,omitempty"`
}

// TokenData holds the raw and derived facts collected while analyzing a mint.
// Steps fill it in order; later steps read facts produced by earlier ones.
type TokenData struct {
	Decimals        int     `json:"decimals"`
	Supply          float64 `json:"supply"`
	MintAuthority   string  `json:"mintAuthority,omitempty"`
	FreezeAuthority string  `json:"freezeAuthority,omitempty"`

	PriceUSD       float64 `json:"priceUsd"`
	MarketCap      float64 `json:"marketCap"`
	Liquidity      float64 `json:"liquidity"`
	HolderCount    int     `json:"holderCount"`
	PriceChange24h float64 `json:"priceChange24h"`
	Volume24h      float64 `json:"volume24h"`

	CreatorAddress     string  `json:"creatorAddress,omitempty"`
	CreatorPercent     float64 `json:"creatorPercent"`
	LpBurned           bool    `json:"lpBurned"`
	LpBurnedPercent    float64 `json:"lpBurnedPercent"`
	Top10HolderPercent float64 `json:"top10HolderPercent"`

	TotalLiquidity float64   `json:"totalLiquidity"`
	TotalVolume24h float64   `json:"totalVolume24h"`
	Dexes          []string  `json:"dexes,omitempty"`
	PairCreatedAt  time.Time `json:"pairCreatedAt,omitempty"`

	BuySlippagePercent  float64 `json:"buySlippagePercent"`
	SellSlippagePercent float64 `json:"sellSlippagePercent"`
	IsHoneypot          bool    `json:"isHoneypot"`
	HoneypotReason      string  `json:"honeypotReason,omitempty"`

	TopHolderPercent float64 `json:"topHolderPercent"`

	TxSampleSize  int     `json:"txSampleSize"`
	TxFailureRate float64 `json:"txFailureRate"`

	SafetyScore       float64 `json:"safetyScore"`
	SafetyRating      string  `json:"safetyRating,omitempty"`
	ConcentrationRisk string  `json:"concentrationRisk,omitempty"`
}

// DexData holds the facts collected while analyzing a program account.
type DexData struct {
	Upgradeable      bool   `json:"upgradeable"`
	UpgradeAuthority string `json:"upgradeAuthority,omitempty"`
	ProgramDataAddr  string `json:"programDataAddress,omitempty"`

	TxSampleSize int     `json:"txSampleSize"`
	ErrorRate    float64 `json:"errorRate"`

	TotalLiquidity   float64  `json:"totalLiquidity"`
	TotalVolume24h   float64  `json:"totalVolume24h"`
	Dexes            []string `json:"dexes,omitempty"`
	MaxPriceChange1h float64  `json:"maxPriceChange1h"`

	KnownProgram bool   `json:"knownProgram"`
	ProgramName  string `json:"programName,omitempty"`
}

// DetectionResult is the terminal artifact of one analysis run. It is built
// once, after the last step, and never mutated afterwards.
type DetectionResult struct {
	Address       string `json:"address"`
	DetectionMode string `json:"detectionMode,omitempty"`

	TotalChecked      int `json:"totalChecked"`
	TotalTriggered    int `json:"totalTriggered"`
	OnChainChecked    int `json:"onChainChecked"`
	OnChainTriggered  int `json:"onChainTriggered"`
	OffChainChecked   int `json:"offChainChecked"`
	OffChainTriggered int `json:"offChainTriggered"`

	Indicators []RiskIndicator `json:"indicators"`
	RiskScore  int             `json:"riskScore"`
	RiskLevel  string          `json:"riskLevel"`
	RiskGrade  string          `json:"riskGrade"`

	OnChainParams  ParamSet `json:"onChainParams,omitempty"`
	OffChainParams ParamSet `json:"offChainParams,omitempty"`

	TokenData *TokenData `json:"tokenData,omitempty"`
	DexData   *DexData   `json:"dexData,omitempty"`

	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// buildResult assembles the terminal DetectionResult from an analyzer's
// registries and ledger.
func buildResult(address, mode string, onChain, offChain ParamSet, ledger *indicatorLedger) *DetectionResult {
	indicators := ledger.list()
	if indicators == nil {
		indicators = []RiskIndicator{}
	}
	score := RiskScore(indicators)
	return &DetectionResult{
		Address:           address,
		DetectionMode:     mode,
		TotalChecked:      onChain.CheckedCount() + offChain.CheckedCount(),
		TotalTriggered:    onChain.TriggeredCount() + offChain.TriggeredCount(),
		OnChainChecked:    onChain.CheckedCount(),
		OnChainTriggered:  onChain.TriggeredCount(),
		OffChainChecked:   offChain.CheckedCount(),
		OffChainTriggered: offChain.TriggeredCount(),
		Indicators:        indicators,
		RiskScore:         score,
		RiskLevel:         RiskLevel(score, indicators),
		RiskGrade:         RiskGrade(score),
		OnChainParams:     onChain,
		OffChainParams:    offChain,
		Timestamp:         time.Now().UTC(),
	}
}
