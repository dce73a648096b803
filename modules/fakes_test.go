package modules

import (
	"context"
	"errors"
)

// Fake collaborators for analyzer and coordinator tests. Each returns its
// configured value, or errProvider when failing is set.

var errProvider = errors.New("provider unavailable")

type fakeRPC struct {
	accounts map[string]*AccountInfo
	holders  []TokenHolder
	sigs     []SignatureInfo
	failing  bool
}

func (f *fakeRPC) GetAccountInfo(ctx context.Context, address string) (*AccountInfo, error) {
	if f.failing {
		return nil, errProvider
	}
	return f.accounts[address], nil
}

func (f *fakeRPC) GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenHolder, error) {
	if f.failing {
		return nil, errProvider
	}
	return f.holders, nil
}

func (f *fakeRPC) GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]SignatureInfo, error) {
	if f.failing {
		return nil, errProvider
	}
	return f.sigs, nil
}

type fakeMarket struct {
	overview *MarketOverview
	failing  bool
}

func (f *fakeMarket) Overview(ctx context.Context, address string) (*MarketOverview, error) {
	if f.failing || f.overview == nil {
		return nil, errProvider
	}
	return f.overview, nil
}

type fakeSecurity struct {
	info    *SecurityInfo
	failing bool
}

func (f *fakeSecurity) Security(ctx context.Context, address string) (*SecurityInfo, error) {
	if f.failing || f.info == nil {
		return nil, errProvider
	}
	return f.info, nil
}

type fakeDex struct {
	summary *PairSummary
	failing bool
}

func (f *fakeDex) Pairs(ctx context.Context, address string) (*PairSummary, error) {
	if f.failing || f.summary == nil {
		return nil, errProvider
	}
	return f.summary, nil
}

type fakeSwap struct {
	report  *SlippageReport
	failing bool
}

func (f *fakeSwap) Slippage(ctx context.Context, mint string, decimals int) (*SlippageReport, error) {
	if f.failing || f.report == nil {
		return nil, errProvider
	}
	return f.report, nil
}

type fakeReputation struct {
	safety  *SafetyReport
	dist    *HolderDistribution
	failing bool
}

func (f *fakeReputation) SafetyScore(ctx context.Context, address string) (*SafetyReport, error) {
	if f.failing || f.safety == nil {
		return nil, errProvider
	}
	return f.safety, nil
}

func (f *fakeReputation) HolderDistribution(ctx context.Context, address string) (*HolderDistribution, error) {
	if f.failing || f.dist == nil {
		return nil, errProvider
	}
	return f.dist, nil
}

type fakeRegistry struct {
	programs map[string]string
}

func (f *fakeRegistry) Lookup(programID string) (string, bool) {
	name, ok := f.programs[programID]
	return name, ok
}

const (
	testMint    = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	testProgram = "675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8"
)

// mintAccount builds a parsed mint account.
func mintAccount(mintAuthority, freezeAuthority string) *AccountInfo {
	return &AccountInfo{
		Owner: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA",
		Parsed: &ParsedAccount{
			Type:            "mint",
			Decimals:        6,
			Supply:          "1000000000000", // 1,000,000 tokens at 6 decimals
			MintAuthority:   mintAuthority,
			FreezeAuthority: freezeAuthority,
		},
	}
}

// programAccount builds an upgradeable program account pointing at dataAddr.
func programAccount(dataAddr string) *AccountInfo {
	return &AccountInfo{
		Owner:      upgradeableLoader,
		Executable: true,
		Parsed: &ParsedAccount{
			Type:        "program",
			ProgramData: dataAddr,
		},
	}
}

// programDataAccount builds the executable-data account with the given
// upgrade authority ("" = authority revoked).
func programDataAccount(authority string) *AccountInfo {
	return &AccountInfo{
		Owner: upgradeableLoader,
		Parsed: &ParsedAccount{
			Type:             "programData",
			UpgradeAuthority: authority,
		},
	}
}

// healthyMarket returns an overview with nothing to flag.
func healthyMarket() *MarketOverview {
	return &MarketOverview{
		PriceUSD:       1.25,
		MarketCap:      5_000_000,
		Liquidity:      250_000,
		HolderCount:    12_000,
		PriceChange24h: 2.5,
		Volume24h:      400_000,
	}
}

// healthySecurity returns security info with nothing to flag.
func healthySecurity() *SecurityInfo {
	return &SecurityInfo{
		CreatorAddress:     "9hFv1VoFqWG1hjArrvaRBHKWb1NWZkHRg6UA5S3gVkJ2",
		CreatorPercent:     2,
		LpBurned:           true,
		LpBurnedPercent:    100,
		Top10HolderPercent: 35,
	}
}

// healthyProviders wires every fake with nothing to flag for a mint.
func healthyProviders(account *AccountInfo) Providers {
	return Providers{
		RPC: &fakeRPC{
			accounts: map[string]*AccountInfo{testMint: account},
			holders:  []TokenHolder{{Address: "h1", Amount: 10_000}},
			sigs: []SignatureInfo{
				{Signature: "s1"}, {Signature: "s2"}, {Signature: "s3"}, {Signature: "s4"},
			},
		},
		Market:   &fakeMarket{overview: healthyMarket()},
		Security: &fakeSecurity{info: healthySecurity()},
		Dex: &fakeDex{summary: &PairSummary{
			TotalLiquidity: 250_000,
			TotalVolume24h: 100_000,
			Dexes:          []string{"raydium"},
		}},
		Swap: &fakeSwap{report: &SlippageReport{
			BuySlippagePercent:  0.2,
			SellSlippagePercent: 0.3,
		}},
		Reputation: &fakeReputation{
			safety: &SafetyReport{Score: 5, RiskLevel: "safe"},
			dist:   &HolderDistribution{Top10HoldersPercent: 35, ConcentrationRisk: "low"},
		},
		Registry: &fakeRegistry{programs: map[string]string{testProgram: "Raydium AMM v4"}},
	}
}
