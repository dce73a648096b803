package modules

import "testing"

func TestIsValidAddress(t *testing.T) {
	cases := []struct {
		address string
		want    bool
	}{
		{testMint, true},
		{"So11111111111111111111111111111111111111112", true},
		{"abc", false},
		{"", false},
		{"0OIl000000000000000000000000000000000000", false}, // excluded base58 chars
		{"  " + testMint + "  ", true},                      // surrounding whitespace tolerated
	}
	for _, c := range cases {
		if got := IsValidAddress(c.address); got != c.want {
			t.Errorf("IsValidAddress(%q) = %v, expected %v", c.address, got, c.want)
		}
	}
}

func TestClassifyMint(t *testing.T) {
	mode, err := ClassifyAccount(mintAccount("", ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != ModeToken {
		t.Errorf("mint should classify as token, got %s", mode)
	}
}

func TestClassifyProgram(t *testing.T) {
	mode, err := ClassifyAccount(programAccount("PDAddr11111111111111111111111111111111111111"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != ModeDex {
		t.Errorf("program should classify as dex, got %s", mode)
	}
}

func TestClassifyUnparsedAccountFallsBackToDex(t *testing.T) {
	mode, err := ClassifyAccount(&AccountInfo{Owner: "SomeOwner", Executable: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != ModeDex {
		t.Errorf("unparsed account should classify as dex, got %s", mode)
	}
}

func TestClassifyMissingAccount(t *testing.T) {
	if _, err := ClassifyAccount(nil); err != ErrAccountNotFound {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}
