package modules

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Built-in known-program table. Deployments extend it with a sqlite file via
// PROGRAM_REGISTRY_DB; the built-ins always remain.
var builtinPrograms = map[string]string{
	"11111111111111111111111111111111":             "System Program",
	"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA":  "SPL Token",
	"TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb":  "SPL Token-2022",
	"ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL": "Associated Token Account",
	"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8": "Raydium AMM v4",
	"CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK": "Raydium CLMM",
	"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc":  "Orca Whirlpool",
	"9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP": "Orca v2",
	"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4":  "Jupiter Aggregator v6",
	"srmqPvymJeFKQ4zGQed1GFppgkRHL9kaELCbyksJtPX":  "OpenBook",
	"PhoeNiXZ8ByJGLkxNfZRnkUfjvmuYqLR89jjFHGqdXY":  "Phoenix",
	"LBUZKhRxPF3XUpBCjp4YzTKgLccjZhTSDM9YuVaPwxo":  "Meteora DLMM",
	"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P":  "Pump.fun",
	"BPFLoaderUpgradeab1e11111111111111111111111":  "BPF Upgradeable Loader",
}

// KnownProgramRegistry answers "is this a program we recognize". Lookups run
// against an in-memory map loaded once at startup, so no locking is needed
// across concurrent scans.
type KnownProgramRegistry struct {
	programs map[string]string
}

// NewKnownProgramRegistry builds the registry from the built-in table plus,
// when dbPath is non-empty, rows from a sqlite known_programs table. A
// missing or unreadable file is an error; an empty path is not.
func NewKnownProgramRegistry(dbPath string) (*KnownProgramRegistry, error) {
	programs := make(map[string]string, len(builtinPrograms))
	for addr, name := range builtinPrograms {
		programs[addr] = name
	}

	if dbPath != "" {
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("open registry db: %w", err)
		}
		defer db.Close()

		if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS known_programs (
			address TEXT PRIMARY KEY,
			name    TEXT NOT NULL
		)`); err != nil {
			return nil, fmt.Errorf("init registry schema: %w", err)
		}

		rows, err := db.Query(`SELECT address, name FROM known_programs`)
		if err != nil {
			return nil, fmt.Errorf("load registry rows: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var addr, name string
			if err := rows.Scan(&addr, &name); err != nil {
				return nil, fmt.Errorf("scan registry row: %w", err)
			}
			programs[addr] = name
		}
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("iterate registry rows: %w", err)
		}
	}

	return &KnownProgramRegistry{programs: programs}, nil
}

// Lookup resolves a program id to its known name.
func (r *KnownProgramRegistry) Lookup(programID string) (string, bool) {
	name, ok := r.programs[programID]
	return name, ok
}

// Size returns how many programs the registry knows.
func (r *KnownProgramRegistry) Size() int {
	return len(r.programs)
}

// SaveProgram upserts one program into the sqlite file so operators can grow
// the registry without editing code. It does not touch the in-memory table of
// a running registry; restart to pick changes up.
func SaveProgram(dbPath, address, name string) error {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open registry db: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS known_programs (
		address TEXT PRIMARY KEY,
		name    TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("init registry schema: %w", err)
	}
	if _, err := db.Exec(
		`INSERT INTO known_programs (address, name) VALUES (?, ?)
		 ON CONFLICT(address) DO UPDATE SET name = excluded.name`,
		address, name,
	); err != nil {
		return fmt.Errorf("upsert program: %w", err)
	}
	return nil
}
