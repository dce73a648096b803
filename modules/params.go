package modules

// Parameter names are a closed enumeration per account type. The token and
// dex (program) sets are disjoint on purpose: no name means the same thing
// across the two account types. Changing a set size is a breaking change for
// anyone consuming the 31-parameter contract.

// Token on-chain parameters (18).
const (
	ParamMassiveMints               = "massiveMints"
	ParamAssetFreezes               = "assetFreezes"
	ParamFailedProjectSignatures    = "failedProjectSignatures"
	ParamCreatorConcentration       = "creatorConcentration"
	ParamCreatorDumping             = "creatorDumping"
	ParamLpNotBurned                = "lpNotBurned"
	ParamTop10Centralization        = "top10Centralization"
	ParamLargestHolderConcentration = "largestHolderConcentration"
	ParamLowLiquidity               = "lowLiquidity"
	ParamNewToken                   = "newToken"
	ParamHoneypot                   = "honeypot"
	ParamSellSlippage               = "sellSlippage"
	ParamBuySlippage                = "buySlippage"
	ParamFailedTransactions         = "failedTransactions"
	ParamWashTrading                = "washTrading"
	ParamFlashLoanInteractions      = "flashLoanInteractions"
	ParamMutableMetadata            = "mutableMetadata"
	ParamPermanentDelegate          = "permanentDelegate"
)

// Token off-chain parameters (13).
const (
	ParamNoTradingVolume             = "noTradingVolume"
	ParamLowHolderCount              = "lowHolderCount"
	ParamDangerousSafetyRating       = "dangerousSafetyRating"
	ParamCautionSafetyRating         = "cautionSafetyRating"
	ParamCriticalHolderConcentration = "criticalHolderConcentration"
	ParamNoSocialPresence            = "noSocialPresence"
	ParamNoWebsite                   = "noWebsite"
	ParamTeamAnonymous               = "teamAnonymous"
	ParamNotListedOnAggregators      = "notListedOnAggregators"
	ParamCommunityTrustLow           = "communityTrustLow"
	ParamScamReports                 = "scamReports"
	ParamAuditMissing                = "auditMissing"
	ParamPhishingReports             = "phishingReports"
)

// Program (dex) on-chain parameters (19).
const (
	ParamUpgradeableProgram       = "upgradeableProgram"
	ParamNonCanonicalLoader       = "nonCanonicalLoader"
	ParamHighErrorRate            = "highErrorRate"
	ParamNoRecentActivity         = "noRecentActivity"
	ParamVolumeLiquidityImbalance = "volumeLiquidityImbalance"
	ParamSuddenPriceMovement      = "suddenPriceMovement"
	ParamLowPairLiquidity         = "lowPairLiquidity"
	ParamSandwichAttacks          = "sandwichAttacks"
	ParamBotExploitation          = "botExploitation"
	ParamWalletDraining           = "walletDraining"
	ParamInsiderClusters          = "insiderClusters"
	ParamMaliciousApprovals       = "maliciousApprovals"
	ParamBridgeAnomalies          = "bridgeAnomalies"
	ParamApprovalSpikes           = "approvalSpikes"
	ParamFlashLoanAbuse           = "flashLoanAbuse"
	ParamOracleManipulation       = "oracleManipulation"
	ParamAdminKeyCompromise       = "adminKeyCompromise"
	ParamRugPullSetup             = "rugPullSetup"
	ParamRecentDeployment         = "recentDeployment"
)

// Program (dex) off-chain parameters (12).
const (
	ParamUnidentifiedProgram      = "unidentifiedProgram"
	ParamNoAuditReport            = "noAuditReport"
	ParamNoBugBounty              = "noBugBounty"
	ParamAnonymousTeam            = "anonymousTeam"
	ParamNoOfficialWebsite        = "noOfficialWebsite"
	ParamNegativeCommunityReports = "negativeCommunityReports"
	ParamExploitHistory           = "exploitHistory"
	ParamPhishingAssociations     = "phishingAssociations"
	ParamRegulatoryFlags          = "regulatoryFlags"
	ParamSocialEngineeringReports = "socialEngineeringReports"
	ParamImpersonationRisk        = "impersonationRisk"
	ParamLowReputationScore       = "lowReputationScore"
)

var TokenOnChainParams = []string{
	ParamMassiveMints, ParamAssetFreezes, ParamFailedProjectSignatures,
	ParamCreatorConcentration, ParamCreatorDumping, ParamLpNotBurned,
	ParamTop10Centralization, ParamLargestHolderConcentration, ParamLowLiquidity,
	ParamNewToken, ParamHoneypot, ParamSellSlippage, ParamBuySlippage,
	ParamFailedTransactions, ParamWashTrading, ParamFlashLoanInteractions,
	ParamMutableMetadata, ParamPermanentDelegate,
}

var TokenOffChainParams = []string{
	ParamNoTradingVolume, ParamLowHolderCount, ParamDangerousSafetyRating,
	ParamCautionSafetyRating, ParamCriticalHolderConcentration, ParamNoSocialPresence,
	ParamNoWebsite, ParamTeamAnonymous, ParamNotListedOnAggregators,
	ParamCommunityTrustLow, ParamScamReports, ParamAuditMissing, ParamPhishingReports,
}

var DexOnChainParams = []string{
	ParamUpgradeableProgram, ParamNonCanonicalLoader, ParamHighErrorRate,
	ParamNoRecentActivity, ParamVolumeLiquidityImbalance, ParamSuddenPriceMovement,
	ParamLowPairLiquidity, ParamSandwichAttacks, ParamBotExploitation,
	ParamWalletDraining, ParamInsiderClusters, ParamMaliciousApprovals,
	ParamBridgeAnomalies, ParamApprovalSpikes, ParamFlashLoanAbuse,
	ParamOracleManipulation, ParamAdminKeyCompromise, ParamRugPullSetup,
	ParamRecentDeployment,
}

var DexOffChainParams = []string{
	ParamUnidentifiedProgram, ParamNoAuditReport, ParamNoBugBounty,
	ParamAnonymousTeam, ParamNoOfficialWebsite, ParamNegativeCommunityReports,
	ParamExploitHistory, ParamPhishingAssociations, ParamRegulatoryFlags,
	ParamSocialEngineeringReports, ParamImpersonationRisk, ParamLowReputationScore,
}

// placeholderParams are parameters that are always attested (checked) but have
// no live data source yet: marking them checked keeps the 31-parameter
// contract complete without pretending coverage exists. Callers can tell them
// apart via IsPlaceholderParam.
var placeholderParams = map[string]bool{
	ParamCreatorDumping:           true,
	ParamWashTrading:              true,
	ParamFlashLoanInteractions:    true,
	ParamMutableMetadata:          true,
	ParamPermanentDelegate:        true,
	ParamNoSocialPresence:         true,
	ParamNoWebsite:                true,
	ParamTeamAnonymous:            true,
	ParamNotListedOnAggregators:   true,
	ParamCommunityTrustLow:        true,
	ParamScamReports:              true,
	ParamAuditMissing:             true,
	ParamPhishingReports:          true,
	ParamNonCanonicalLoader:       true,
	ParamNoRecentActivity:         true,
	ParamSandwichAttacks:          true,
	ParamBotExploitation:          true,
	ParamWalletDraining:           true,
	ParamInsiderClusters:          true,
	ParamMaliciousApprovals:       true,
	ParamBridgeAnomalies:          true,
	ParamApprovalSpikes:           true,
	ParamFlashLoanAbuse:           true,
	ParamOracleManipulation:       true,
	ParamAdminKeyCompromise:       true,
	ParamRugPullSetup:             true,
	ParamRecentDeployment:         true,
	ParamNoAuditReport:            true,
	ParamNoBugBounty:              true,
	ParamAnonymousTeam:            true,
	ParamNoOfficialWebsite:        true,
	ParamNegativeCommunityReports: true,
	ParamExploitHistory:           true,
	ParamPhishingAssociations:     true,
	ParamRegulatoryFlags:          true,
	ParamSocialEngineeringReports: true,
	ParamImpersonationRisk:        true,
	ParamLowReputationScore:       true,
}

// IsPlaceholderParam reports whether a parameter is attested-only (no data
// source wired yet).
func IsPlaceholderParam(name string) bool {
	return placeholderParams[name]
}

// ParamState tracks one parameter through a single analysis run.
// Triggered implies Checked; re-running a check sets state from current
// evidence rather than accumulating.
type ParamState struct {
	Checked   bool   `json:"checked"`
	Triggered bool   `json:"triggered"`
	Value     string `json:"value,omitempty"`
}

// ParamSet maps parameter names to their state for one run. A set is built
// fresh per analysis and is owned by exactly one analyzer.
type ParamSet map[string]*ParamState

// NewParamSet builds a set with every named parameter in the default
// (unchecked, untriggered) state.
func NewParamSet(names []string) ParamSet {
	s := make(ParamSet, len(names))
	for _, n := range names {
		s[n] = &ParamState{}
	}
	return s
}

// Check marks a parameter as evaluated. "Checked" means evidence was sought,
// not that the lookup succeeded.
func (s ParamSet) Check(names ...string) {
	for _, n := range names {
		if p, ok := s[n]; ok {
			p.Checked = true
		}
	}
}

// Trigger marks a parameter as both checked and triggered, recording the
// observed value.
func (s ParamSet) Trigger(name, value string) {
	if p, ok := s[name]; ok {
		p.Checked = true
		p.Triggered = true
		p.Value = value
	}
}

// CheckedCount returns how many parameters were evaluated.
func (s ParamSet) CheckedCount() int {
	n := 0
	for _, p := range s {
		if p.Checked {
			n++
		}
	}
	return n
}

// TriggeredCount returns how many parameters raised a finding.
func (s ParamSet) TriggeredCount() int {
	n := 0
	for _, p := range s {
		if p.Triggered {
			n++
		}
	}
	return n
}
