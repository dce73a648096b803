package modules

import (
	"errors"
	"regexp"
	"strings"
)

// ErrAccountNotFound is the fatal condition when the initial lookup returns
// nothing; no analyzer runs.
var ErrAccountNotFound = errors.New("Account not found")

var base58AddressPattern = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// IsValidAddress reports whether s looks like a Solana base58 address.
// Requests failing this check are rejected before any step runs.
func IsValidAddress(s string) bool {
	return base58AddressPattern.MatchString(strings.TrimSpace(s))
}

// ClassifyAccount decides which analyzer variant handles the account: token
// for a recognized mint, dex (program) for everything else. The decision is
// made once per request and never revisited mid-analysis.
func ClassifyAccount(info *AccountInfo) (string, error) {
	if info == nil {
		return "", ErrAccountNotFound
	}
	if info.Parsed != nil && info.Parsed.Type == "mint" {
		return ModeToken, nil
	}
	return ModeDex, nil
}
