// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ikarn-dev/sivic-sub000/modules"
	"github.com/ikarn-dev/sivic-sub000/pkg/cache"
	"github.com/ikarn-dev/sivic-sub000/pkg/health"
	"github.com/ikarn-dev/sivic-sub000/pkg/netguard"
	"github.com/ikarn-dev/sivic-sub000/pkg/version"

	"github.com/TeneoProtocolAI/teneo-agent-sdk/pkg/agent"
	"github.com/joho/godotenv"
)

const agentTaskTimeout = 90 * time.Second

// ScannerAgent answers address-scan commands through the Teneo task channel,
// backed by the same analyzer core as the HTTP stream.
type ScannerAgent struct {
	scanner *modules.Scanner
	insight *modules.InsightClient
}

func (a *ScannerAgent) ProcessTask(ctx context.Context, task string) (string, error) {
	log.Printf("Processing task: %s", task)

	task = strings.TrimSpace(task)
	task = strings.TrimPrefix(task, "/")
	parts := strings.Fields(task)
	if len(parts) == 0 {
		return "No command provided. Available commands: scan, score, explain, help", nil
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "scan":
		if len(args) == 0 {
			return "Usage: scan [address]. Example: scan So11111111111111111111111111111111111111112", nil
		}
		address := strings.TrimSpace(args[0])
		if !modules.IsValidAddress(address) {
			return "Invalid address: expected base58, 32-44 characters", nil
		}
		runCtx, cancel := context.WithTimeout(ctx, agentTaskTimeout)
		defer cancel()
		return modules.BuildScanReply(a.scanner.Analyze(runCtx, address)), nil

	case "score":
		if len(args) == 0 {
			return "Usage: score [address]", nil
		}
		address := strings.TrimSpace(args[0])
		if !modules.IsValidAddress(address) {
			return "Invalid address: expected base58, 32-44 characters", nil
		}
		runCtx, cancel := context.WithTimeout(ctx, agentTaskTimeout)
		defer cancel()
		return modules.BuildScoreReply(a.scanner.Analyze(runCtx, address)), nil

	case "explain":
		if len(args) == 0 {
			return "Usage: explain [address]", nil
		}
		if !a.insight.Enabled() {
			return "AI backend not configured. Set GOOGLE_API_KEYS or OPENAI_API_KEY in .env", nil
		}
		address := strings.TrimSpace(args[0])
		if !modules.IsValidAddress(address) {
			return "Invalid address: expected base58, 32-44 characters", nil
		}
		runCtx, cancel := context.WithTimeout(ctx, agentTaskTimeout)
		defer cancel()
		result := a.scanner.Analyze(runCtx, address)
		summary, err := a.insight.Summarize(runCtx, result)
		if err != nil {
			return "", err
		}
		return modules.BuildScoreReply(result) + "\n\n" + summary, nil

	case "help":
		return "Commands:\n- scan [address]: full risk analysis\n- score [address]: risk score only\n- explain [address]: AI summary of the risk profile", nil

	default:
		return fmt.Sprintf("Unknown command '%s'. Available commands: scan, score, explain, help", cmd), nil
	}
}

func main() {
	// Load .env if available
	_ = godotenv.Load()

	cfg := modules.LoadConfig()
	thresholds, err := modules.LoadThresholds(cfg.ThresholdsFile)
	if err != nil {
		log.Println("Warning: threshold overrides not loaded:", err)
	}

	registry, err := modules.NewKnownProgramRegistry(cfg.RegistryDBPath)
	if err != nil {
		log.Fatal("program registry:", err)
	}
	log.Printf("[registry] %d known programs loaded", registry.Size())

	monitor := netguard.NewMonitor(5, 30*time.Second)
	store := cache.NewMemoryCache()
	defer store.Close()

	birdeye := modules.NewBirdeyeClient(cfg.BirdeyeBaseURL, cfg.BirdeyeAPIKey, cfg.ProviderTimeout, store, monitor)
	providers := modules.Providers{
		RPC:        modules.NewSolanaRPC(cfg.RPCURL, cfg.ProviderTimeout, monitor),
		Market:     birdeye,
		Security:   birdeye,
		Dex:        modules.NewDexScreenerClient(cfg.DexScreenerURL, cfg.ProviderTimeout, monitor),
		Swap:       modules.NewJupiterClient(cfg.JupiterQuoteURL, cfg.ProviderTimeout, monitor),
		Reputation: modules.NewRugcheckClient(cfg.RugcheckBaseURL, cfg.ProviderTimeout, monitor),
		Registry:   registry,
	}

	scanner := modules.NewScanner(providers, thresholds, cfg.SignatureSample, monitor)
	insight := modules.NewInsightClient(cfg.GoogleAPIKeys, cfg.GoogleModel, cfg.OpenAIAPIKey)
	scanner.SetInsight(insight)

	// Teneo agent config
	config := agent.DefaultConfig()
	config.Name = "Sivic Scanner"
	config.Description = "Sivic Scanner classifies a Solana address as token or program and runs a 31-point risk analysis."
	config.Capabilities = []string{"token-risk-analysis", "program-risk-analysis", "honeypot-detection", "holder-concentration-analysis", "liquidity-analysis", "risk-scoring"}
	config.PrivateKey = os.Getenv("PRIVATE_KEY")
	config.NFTTokenID = os.Getenv("NFT_TOKEN_ID")
	config.OwnerAddress = os.Getenv("OWNER_ADDRESS")

	enhancedAgent, err := agent.NewEnhancedAgent(&agent.EnhancedAgentConfig{
		Config:       config,
		AgentHandler: &ScannerAgent{scanner: scanner, insight: insight},
	})
	if err != nil {
		log.Fatal("agent.NewEnhancedAgent:", err)
	}

	log.Println("Starting", version.GetVersion(), "...")
	// run agent in goroutine so the HTTP surface can serve alongside it
	go enhancedAgent.Run()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/scan", scanner.ScanHandler)
	health.NewHandler(&health.ServiceInfo{
		Name:         config.Name,
		Version:      version.Version(),
		Capabilities: config.Capabilities,
		Description:  config.Description,
	}, scanner).Register(mux)

	addr := ":" + cfg.HTTPPort
	log.Printf("HTTP server listening on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal("http server:", err)
	}
}
