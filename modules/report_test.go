package modules

import (
	"strings"
	"testing"
)

func TestBuildScanReply(t *testing.T) {
	account := mintAccount("MintAuth111111111111111111111111111111111111", "")
	a := NewTokenAnalyzer(testMint, account, healthyProviders(account), DefaultThresholds(), 50)
	result := runSteps(t, a)

	reply := BuildScanReply(result)
	for _, want := range []string{testMint, "token", "grade", "Active mint authority"} {
		if !strings.Contains(reply, want) {
			t.Errorf("reply missing %q:\n%s", want, reply)
		}
	}
}

func TestBuildScanReplyCleanResult(t *testing.T) {
	account := mintAccount("", "")
	a := NewTokenAnalyzer(testMint, account, healthyProviders(account), DefaultThresholds(), 50)
	reply := BuildScanReply(runSteps(t, a))

	if !strings.Contains(reply, "No immediate red flags") {
		t.Errorf("clean result should say so:\n%s", reply)
	}
}

func TestBuildScanReplyError(t *testing.T) {
	reply := BuildScanReply(&DetectionResult{Address: testMint, Error: "Account not found"})
	if !strings.Contains(reply, "Account not found") {
		t.Errorf("error reply missing message:\n%s", reply)
	}
	if BuildScanReply(nil) == "" {
		t.Error("nil result should still produce a reply")
	}
}

func TestBuildScoreReply(t *testing.T) {
	reply := BuildScoreReply(&DetectionResult{Address: testMint, RiskScore: 65, RiskGrade: "D", RiskLevel: "high"})
	for _, want := range []string{"65/100", "grade D", "high"} {
		if !strings.Contains(reply, want) {
			t.Errorf("score reply missing %q:\n%s", want, reply)
		}
	}
}
