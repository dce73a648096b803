package modules

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// AnalysisStep is one ordered unit of an analyzer's pipeline. A step failure
// is step-local: parameters are still marked checked and the run continues
// with the next step.
type AnalysisStep struct {
	ID   string
	Name string
	Run  func(ctx context.Context) error
}

// TokenAnalyzer evaluates the 18 on-chain and 13 off-chain token parameters
// for one mint address. Construct one per run; it is not reusable.
type TokenAnalyzer struct {
	address   string
	account   *AccountInfo
	providers Providers
	th        Thresholds
	sigSample int

	onChain  ParamSet
	offChain ParamSet
	ledger   indicatorLedger
	data     TokenData
}

// NewTokenAnalyzer builds a fresh analyzer for the already-fetched mint
// account.
func NewTokenAnalyzer(address string, account *AccountInfo, providers Providers, th Thresholds, sigSample int) *TokenAnalyzer {
	return &TokenAnalyzer{
		address:   address,
		account:   account,
		providers: providers,
		th:        th,
		sigSample: sigSample,
		onChain:   NewParamSet(TokenOnChainParams),
		offChain:  NewParamSet(TokenOffChainParams),
	}
}

// Steps returns the ordered pipeline. Later steps read facts produced by
// earlier ones (decimals, supply), which is why steps never run concurrently
// within one analysis.
func (a *TokenAnalyzer) Steps() []AnalysisStep {
	d := &a.data
	return []AnalysisStep{
		{ID: "basic_info", Name: "Basic Token Info", Run: func(ctx context.Context) error { return a.stepBasicInfo(ctx, d) }},
		{ID: "market_data", Name: "Market Data", Run: func(ctx context.Context) error { return a.stepMarketData(ctx, d) }},
		{ID: "security_info", Name: "Security Info", Run: func(ctx context.Context) error { return a.stepSecurityInfo(ctx, d) }},
		{ID: "dex_pairs", Name: "DEX Pairs", Run: func(ctx context.Context) error { return a.stepDexPairs(ctx, d) }},
		{ID: "slippage", Name: "Slippage & Tradability", Run: func(ctx context.Context) error { return a.stepSlippage(ctx, d) }},
		{ID: "holders", Name: "Holder Concentration", Run: func(ctx context.Context) error { return a.stepHolders(ctx, d) }},
		{ID: "tx_health", Name: "Transaction Health", Run: func(ctx context.Context) error { return a.stepTxHealth(ctx, d) }},
		{ID: "offchain", Name: "Off-chain Reputation", Run: func(ctx context.Context) error { return a.stepOffChain(ctx, d) }},
	}
}

// CheckedCount returns total checked parameters so far.
func (a *TokenAnalyzer) CheckedCount() int {
	return a.onChain.CheckedCount() + a.offChain.CheckedCount()
}

// TriggeredCount returns total triggered parameters so far.
func (a *TokenAnalyzer) TriggeredCount() int {
	return a.onChain.TriggeredCount() + a.offChain.TriggeredCount()
}

// Data returns the facts collected so far.
func (a *TokenAnalyzer) Data() interface{} {
	return &a.data
}

// Result assembles the terminal DetectionResult.
func (a *TokenAnalyzer) Result() *DetectionResult {
	res := buildResult(a.address, ModeToken, a.onChain, a.offChain, &a.ledger)
	res.TokenData = &a.data
	return res
}

func (a *TokenAnalyzer) stepBasicInfo(ctx context.Context, d *TokenData) error {
	a.onChain.Check(ParamMassiveMints, ParamAssetFreezes, ParamMutableMetadata, ParamPermanentDelegate)

	if a.account == nil || a.account.Parsed == nil {
		return errors.New("account has no parsed mint data")
	}
	parsed := a.account.Parsed

	d.Decimals = parsed.Decimals
	if parsed.Supply != "" {
		if raw, err := strconv.ParseFloat(parsed.Supply, 64); err == nil {
			d.Supply = raw / pow10(parsed.Decimals)
		}
	}
	d.MintAuthority = parsed.MintAuthority
	d.FreezeAuthority = parsed.FreezeAuthority

	if parsed.MintAuthority != "" {
		a.onChain.Trigger(ParamMassiveMints, parsed.MintAuthority)
		a.ledger.add("mint-authority", "Active mint authority", SeverityCritical,
			parsed.MintAuthority,
			"The mint authority has not been revoked; the holder can mint unlimited new supply at any time.",
			ParamTypeOnChain)
	}
	if parsed.FreezeAuthority != "" {
		a.onChain.Trigger(ParamAssetFreezes, parsed.FreezeAuthority)
		a.ledger.add("freeze-authority", "Active freeze authority", SeverityHigh,
			parsed.FreezeAuthority,
			"A freeze authority exists and can freeze any holder's token account.",
			ParamTypeOnChain)
	}
	return nil
}

func (a *TokenAnalyzer) stepMarketData(ctx context.Context, d *TokenData) error {
	a.onChain.Check(ParamFailedProjectSignatures)
	a.offChain.Check(ParamNoTradingVolume, ParamLowHolderCount)

	if a.providers.Market == nil {
		return errors.New("market data provider unavailable")
	}
	overview, err := a.providers.Market.Overview(ctx, a.address)
	if err != nil {
		return err
	}

	d.PriceUSD = overview.PriceUSD
	d.MarketCap = overview.MarketCap
	d.Liquidity = overview.Liquidity
	d.HolderCount = overview.HolderCount
	d.PriceChange24h = overview.PriceChange24h
	d.Volume24h = overview.Volume24h

	if overview.PriceChange24h < a.th.PriceCollapsePercent {
		a.onChain.Trigger(ParamFailedProjectSignatures, fmt.Sprintf("%.2f%%", overview.PriceChange24h))
		a.ledger.add("price-collapse", "Price collapse", SeverityCritical,
			fmt.Sprintf("%.2f%%", overview.PriceChange24h),
			"24h price change shows a near-total collapse, a typical failed or rugged project signature.",
			ParamTypeOnChain)
	}
	if overview.Volume24h < a.th.MinVolume24hUSD {
		a.offChain.Trigger(ParamNoTradingVolume, fmt.Sprintf("$%.2f", overview.Volume24h))
		a.ledger.add("no-volume", "No trading volume", SeverityMedium,
			fmt.Sprintf("$%.2f", overview.Volume24h),
			"24h trading volume is below the minimum floor; exiting a position may be impossible.",
			ParamTypeOffChain)
	}
	if overview.HolderCount > 0 && overview.HolderCount < a.th.MinHolderCount {
		a.offChain.Trigger(ParamLowHolderCount, strconv.Itoa(overview.HolderCount))
		a.ledger.add("low-holders", "Very few holders", SeverityMedium,
			strconv.Itoa(overview.HolderCount),
			"The token has very few holders, making price manipulation trivial.",
			ParamTypeOffChain)
	}
	return nil
}

func (a *TokenAnalyzer) stepSecurityInfo(ctx context.Context, d *TokenData) error {
	a.onChain.Check(ParamCreatorConcentration, ParamLpNotBurned, ParamTop10Centralization, ParamCreatorDumping)

	if a.providers.Security == nil {
		return errors.New("security data provider unavailable")
	}
	sec, err := a.providers.Security.Security(ctx, a.address)
	if err != nil {
		return err
	}

	d.CreatorAddress = sec.CreatorAddress
	d.CreatorPercent = sec.CreatorPercent
	d.LpBurned = sec.LpBurned
	d.LpBurnedPercent = sec.LpBurnedPercent
	d.Top10HolderPercent = sec.Top10HolderPercent

	switch {
	case sec.CreatorPercent > a.th.CreatorCriticalPercent:
		a.onChain.Trigger(ParamCreatorConcentration, fmt.Sprintf("%.2f%%", sec.CreatorPercent))
		a.ledger.add("creator-concentration", "Creator holds critical supply share", SeverityCritical,
			fmt.Sprintf("%.2f%%", sec.CreatorPercent),
			"The creator wallet controls a critical share of total supply.",
			ParamTypeOnChain)
	case sec.CreatorPercent > a.th.CreatorHighPercent:
		a.onChain.Trigger(ParamCreatorConcentration, fmt.Sprintf("%.2f%%", sec.CreatorPercent))
		a.ledger.add("creator-concentration", "Creator holds large supply share", SeverityHigh,
			fmt.Sprintf("%.2f%%", sec.CreatorPercent),
			"The creator wallet controls a large share of total supply.",
			ParamTypeOnChain)
	}

	if !sec.LpBurned {
		a.onChain.Trigger(ParamLpNotBurned, fmt.Sprintf("%.2f%% burned", sec.LpBurnedPercent))
		a.ledger.add("lp-not-burned", "Liquidity not locked", SeverityHigh,
			fmt.Sprintf("%.2f%% burned", sec.LpBurnedPercent),
			"LP tokens are neither burned nor locked; the pool creator can withdraw liquidity at will.",
			ParamTypeOnChain)
	}
	if sec.Top10HolderPercent > a.th.Top10CentralPercent {
		a.onChain.Trigger(ParamTop10Centralization, fmt.Sprintf("%.2f%%", sec.Top10HolderPercent))
		a.ledger.add("centralization", "Top-10 holders dominate supply", SeverityHigh,
			fmt.Sprintf("%.2f%%", sec.Top10HolderPercent),
			"The ten largest holders control most of the supply.",
			ParamTypeOnChain)
	}
	return nil
}

func (a *TokenAnalyzer) stepDexPairs(ctx context.Context, d *TokenData) error {
	a.onChain.Check(ParamLowLiquidity, ParamNewToken)

	if a.providers.Dex == nil {
		return errors.New("dex aggregator unavailable")
	}
	pairs, err := a.providers.Dex.Pairs(ctx, a.address)
	if err != nil {
		return err
	}

	d.TotalLiquidity = pairs.TotalLiquidity
	d.TotalVolume24h = pairs.TotalVolume24h
	d.Dexes = pairs.Dexes
	d.PairCreatedAt = pairs.PairCreatedAt

	switch {
	case pairs.TotalLiquidity < a.th.CriticalLiquidityUSD:
		a.onChain.Trigger(ParamLowLiquidity, fmt.Sprintf("$%.2f", pairs.TotalLiquidity))
		a.ledger.add("liquidity", "Critically low liquidity", SeverityCritical,
			fmt.Sprintf("$%.2f", pairs.TotalLiquidity),
			"Aggregate DEX liquidity is critically low; any sale will crater the price.",
			ParamTypeOnChain)
	case pairs.TotalLiquidity < a.th.LowLiquidityUSD:
		a.onChain.Trigger(ParamLowLiquidity, fmt.Sprintf("$%.2f", pairs.TotalLiquidity))
		a.ledger.add("liquidity", "Low liquidity", SeverityHigh,
			fmt.Sprintf("$%.2f", pairs.TotalLiquidity),
			"Aggregate DEX liquidity is low for any meaningful position size.",
			ParamTypeOnChain)
	}

	if !pairs.PairCreatedAt.IsZero() {
		age := time.Since(pairs.PairCreatedAt)
		if age < time.Duration(a.th.NewTokenMaxAgeHours*float64(time.Hour)) {
			a.onChain.Trigger(ParamNewToken, fmt.Sprintf("%.1fh old", age.Hours()))
			a.ledger.add("token-age", "Very new token", SeverityMedium,
				fmt.Sprintf("%.1fh old", age.Hours()),
				"The earliest trading pair is under a day old; most rug pulls happen in this window.",
				ParamTypeOnChain)
		}
	}
	return nil
}

func (a *TokenAnalyzer) stepSlippage(ctx context.Context, d *TokenData) error {
	a.onChain.Check(ParamHoneypot, ParamSellSlippage, ParamBuySlippage)

	if a.providers.Swap == nil {
		return errors.New("swap simulator unavailable")
	}
	report, err := a.providers.Swap.Slippage(ctx, a.address, d.Decimals)
	if err != nil {
		return err
	}

	d.BuySlippagePercent = report.BuySlippagePercent
	d.SellSlippagePercent = report.SellSlippagePercent
	d.IsHoneypot = report.IsHoneypot
	d.HoneypotReason = report.HoneypotReason

	if report.IsHoneypot {
		a.onChain.Trigger(ParamHoneypot, report.HoneypotReason)
		a.ledger.add("honeypot", "Honeypot: token cannot be sold", SeverityCritical,
			report.HoneypotReason,
			"A simulated sell was rejected by the router while the buy succeeded.",
			ParamTypeOnChain)
	}

	sell := report.SellSlippagePercent
	switch {
	case sell > a.th.SellSlippageCriticalPercent:
		a.onChain.Trigger(ParamSellSlippage, fmt.Sprintf("%.2f%%", sell))
		a.ledger.add("sell-slippage", "Extreme sell slippage", SeverityCritical,
			fmt.Sprintf("%.2f%%", sell),
			"Selling incurs extreme price impact; most of the position value is lost on exit.",
			ParamTypeOnChain)
	case sell > a.th.SellSlippageHighPercent:
		a.onChain.Trigger(ParamSellSlippage, fmt.Sprintf("%.2f%%", sell))
		a.ledger.add("sell-slippage", "High sell slippage", SeverityHigh,
			fmt.Sprintf("%.2f%%", sell),
			"Selling incurs high price impact.",
			ParamTypeOnChain)
	case sell > a.th.SellSlippageMediumPercent:
		a.onChain.Trigger(ParamSellSlippage, fmt.Sprintf("%.2f%%", sell))
		a.ledger.add("sell-slippage", "Elevated sell slippage", SeverityMedium,
			fmt.Sprintf("%.2f%%", sell),
			"Selling incurs noticeable price impact.",
			ParamTypeOnChain)
	}

	if report.BuySlippagePercent > a.th.BuySlippageMediumPercent {
		a.onChain.Trigger(ParamBuySlippage, fmt.Sprintf("%.2f%%", report.BuySlippagePercent))
		a.ledger.add("buy-slippage", "Elevated buy slippage", SeverityMedium,
			fmt.Sprintf("%.2f%%", report.BuySlippagePercent),
			"Buying incurs noticeable price impact for a small probe size.",
			ParamTypeOnChain)
	}
	return nil
}

func (a *TokenAnalyzer) stepHolders(ctx context.Context, d *TokenData) error {
	a.onChain.Check(ParamLargestHolderConcentration)

	if a.providers.RPC == nil {
		return errors.New("chain rpc unavailable")
	}
	holders, err := a.providers.RPC.GetTokenLargestAccounts(ctx, a.address)
	if err != nil {
		return err
	}
	if len(holders) == 0 || d.Supply <= 0 {
		return nil
	}

	top := holders[0].Amount
	for _, h := range holders[1:] {
		if h.Amount > top {
			top = h.Amount
		}
	}
	pct := top / d.Supply * 100
	d.TopHolderPercent = pct

	switch {
	case pct > a.th.HolderCriticalPercent:
		a.onChain.Trigger(ParamLargestHolderConcentration, fmt.Sprintf("%.2f%%", pct))
		a.ledger.add("holder-concentration", "Extreme holder concentration", SeverityCritical,
			fmt.Sprintf("%.2f%%", pct),
			"A single wallet controls the majority of supply.",
			ParamTypeOnChain)
	case pct > a.th.HolderHighPercent:
		a.onChain.Trigger(ParamLargestHolderConcentration, fmt.Sprintf("%.2f%%", pct))
		a.ledger.add("holder-concentration", "High holder concentration", SeverityHigh,
			fmt.Sprintf("%.2f%%", pct),
			"A single wallet controls a large share of supply.",
			ParamTypeOnChain)
	}
	return nil
}

func (a *TokenAnalyzer) stepTxHealth(ctx context.Context, d *TokenData) error {
	a.onChain.Check(ParamFailedTransactions, ParamWashTrading, ParamFlashLoanInteractions)

	if a.providers.RPC == nil {
		return errors.New("chain rpc unavailable")
	}
	sigs, err := a.providers.RPC.GetSignaturesForAddress(ctx, a.address, a.sigSample)
	if err != nil {
		return err
	}
	if len(sigs) == 0 {
		return nil
	}

	failed := 0
	for _, s := range sigs {
		if s.Failed {
			failed++
		}
	}
	rate := float64(failed) / float64(len(sigs)) * 100
	d.TxSampleSize = len(sigs)
	d.TxFailureRate = rate

	if rate > a.th.TxFailureRatePercent {
		a.onChain.Trigger(ParamFailedTransactions, fmt.Sprintf("%.1f%%", rate))
		a.ledger.add("tx-health", "High transaction failure rate", SeverityMedium,
			fmt.Sprintf("%.1f%%", rate),
			"A large share of recent transactions against this mint failed.",
			ParamTypeOnChain)
	}
	return nil
}

func (a *TokenAnalyzer) stepOffChain(ctx context.Context, d *TokenData) error {
	// The remaining off-chain parameters have no data source yet; marking
	// them checked keeps the 31-parameter contract complete.
	a.offChain.Check(
		ParamDangerousSafetyRating, ParamCautionSafetyRating, ParamCriticalHolderConcentration,
		ParamNoSocialPresence, ParamNoWebsite, ParamTeamAnonymous, ParamNotListedOnAggregators,
		ParamCommunityTrustLow, ParamScamReports, ParamAuditMissing, ParamPhishingReports,
	)

	if a.providers.Reputation == nil {
		return errors.New("reputation provider unavailable")
	}

	var errs []error
	if safety, err := a.providers.Reputation.SafetyScore(ctx, a.address); err != nil {
		errs = append(errs, err)
	} else {
		d.SafetyScore = safety.Score
		d.SafetyRating = safety.RiskLevel
		switch safety.RiskLevel {
		case "danger":
			a.offChain.Trigger(ParamDangerousSafetyRating, fmt.Sprintf("%.0f", safety.Score))
			a.ledger.add("reputation", "Dangerous safety rating", SeverityCritical,
				fmt.Sprintf("%.0f", safety.Score),
				"A third-party reputation service rates this token as dangerous.",
				ParamTypeOffChain)
		case "caution":
			a.offChain.Trigger(ParamCautionSafetyRating, fmt.Sprintf("%.0f", safety.Score))
			a.ledger.add("reputation", "Caution safety rating", SeverityMedium,
				fmt.Sprintf("%.0f", safety.Score),
				"A third-party reputation service flags this token for caution.",
				ParamTypeOffChain)
		}
	}

	if dist, err := a.providers.Reputation.HolderDistribution(ctx, a.address); err != nil {
		errs = append(errs, err)
	} else {
		d.ConcentrationRisk = dist.ConcentrationRisk
		if dist.ConcentrationRisk == "critical" {
			a.offChain.Trigger(ParamCriticalHolderConcentration, fmt.Sprintf("%.2f%%", dist.Top10HoldersPercent))
			a.ledger.add("reputation", "Critical holder concentration", SeverityMedium,
				fmt.Sprintf("%.2f%%", dist.Top10HoldersPercent),
				"A third-party distribution service classifies holder concentration as critical.",
				ParamTypeOffChain)
		}
	}
	return errors.Join(errs...)
}
