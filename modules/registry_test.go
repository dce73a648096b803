package modules

import (
	"path/filepath"
	"testing"
)

func TestRegistryBuiltins(t *testing.T) {
	reg, err := NewKnownProgramRegistry("")
	if err != nil {
		t.Fatalf("NewKnownProgramRegistry: %v", err)
	}

	cases := map[string]string{
		"11111111111111111111111111111111":             "System Program",
		"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA":  "SPL Token",
		"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8": "Raydium AMM v4",
		"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4":  "Jupiter Aggregator v6",
	}
	for addr, want := range cases {
		name, ok := reg.Lookup(addr)
		if !ok || name != want {
			t.Errorf("Lookup(%s) = %q, %v; want %q", addr, name, ok, want)
		}
	}

	if _, ok := reg.Lookup("NotARealProgram111111111111111111111111111"); ok {
		t.Error("unknown program should miss")
	}
	if reg.Size() < len(cases) {
		t.Errorf("registry too small: %d", reg.Size())
	}
}

func TestRegistrySqliteMerge(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "programs.db")

	custom := "MyDexProgram111111111111111111111111111111"
	if err := SaveProgram(dbPath, custom, "My DEX"); err != nil {
		t.Fatalf("SaveProgram: %v", err)
	}

	reg, err := NewKnownProgramRegistry(dbPath)
	if err != nil {
		t.Fatalf("NewKnownProgramRegistry: %v", err)
	}

	if name, ok := reg.Lookup(custom); !ok || name != "My DEX" {
		t.Errorf("custom program not merged: %q, %v", name, ok)
	}
	// Built-ins survive the merge.
	if _, ok := reg.Lookup("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"); !ok {
		t.Error("built-in lost after sqlite merge")
	}
}

func TestRegistrySqliteUpsert(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "programs.db")
	addr := "MyDexProgram111111111111111111111111111111"

	if err := SaveProgram(dbPath, addr, "Old Name"); err != nil {
		t.Fatalf("SaveProgram: %v", err)
	}
	if err := SaveProgram(dbPath, addr, "New Name"); err != nil {
		t.Fatalf("SaveProgram upsert: %v", err)
	}

	reg, err := NewKnownProgramRegistry(dbPath)
	if err != nil {
		t.Fatalf("NewKnownProgramRegistry: %v", err)
	}
	if name, _ := reg.Lookup(addr); name != "New Name" {
		t.Errorf("upsert did not replace name, got %q", name)
	}
}
