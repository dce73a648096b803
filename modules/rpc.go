package modules

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ikarn-dev/sivic-sub000/pkg/netguard"
)

// SolanaRPC is the chain RPC collaborator, speaking JSON-RPC 2.0 against a
// configurable node.
type SolanaRPC struct {
	url     string
	client  *http.Client
	monitor *netguard.Monitor
}

// NewSolanaRPC creates an RPC adapter. monitor may be nil (no breaker).
func NewSolanaRPC(url string, timeout time.Duration, monitor *netguard.Monitor) *SolanaRPC {
	return &SolanaRPC{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		monitor: monitor,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s *SolanaRPC) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	fn := func() error {
		var envelope struct {
			Result interface{} `json:"result"`
			Error  *rpcError   `json:"error"`
		}
		envelope.Result = result
		req := rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}
		if err := postJSON(ctx, s.client, s.url, req, &envelope); err != nil {
			return fmt.Errorf("%s: %w", method, err)
		}
		if envelope.Error != nil {
			return fmt.Errorf("%s: rpc error %d: %s", method, envelope.Error.Code, envelope.Error.Message)
		}
		return nil
	}
	if s.monitor != nil {
		return s.monitor.Track("rpc", fn)
	}
	return fn()
}

type rpcAccountValue struct {
	Owner      string `json:"owner"`
	Executable bool   `json:"executable"`
	Lamports   uint64 `json:"lamports"`
	Data       struct {
		Program string `json:"program"`
		Parsed  struct {
			Type string `json:"type"`
			Info struct {
				Decimals        int    `json:"decimals"`
				Supply          string `json:"supply"`
				MintAuthority   string `json:"mintAuthority"`
				FreezeAuthority string `json:"freezeAuthority"`
				ProgramData     string `json:"programData"`
				Authority       string `json:"authority"`
			} `json:"info"`
		} `json:"parsed"`
	} `json:"data"`
}

// GetAccountInfo fetches an account with jsonParsed encoding. A missing
// account returns (nil, nil).
func (s *SolanaRPC) GetAccountInfo(ctx context.Context, address string) (*AccountInfo, error) {
	var result struct {
		Value *rpcAccountValue `json:"value"`
	}
	params := []interface{}{address, map[string]string{"encoding": "jsonParsed"}}
	if err := s.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, nil
	}

	v := result.Value
	info := &AccountInfo{
		Owner:      v.Owner,
		Executable: v.Executable,
		Lamports:   v.Lamports,
	}
	if v.Data.Parsed.Type != "" {
		info.Parsed = &ParsedAccount{
			Type:             v.Data.Parsed.Type,
			Decimals:         v.Data.Parsed.Info.Decimals,
			Supply:           v.Data.Parsed.Info.Supply,
			MintAuthority:    v.Data.Parsed.Info.MintAuthority,
			FreezeAuthority:  v.Data.Parsed.Info.FreezeAuthority,
			ProgramData:      v.Data.Parsed.Info.ProgramData,
			UpgradeAuthority: v.Data.Parsed.Info.Authority,
		}
	}
	return info, nil
}

// GetTokenLargestAccounts returns the largest holders of a mint in UI units.
func (s *SolanaRPC) GetTokenLargestAccounts(ctx context.Context, mint string) ([]TokenHolder, error) {
	var result struct {
		Value []struct {
			Address  string  `json:"address"`
			Amount   string  `json:"amount"`
			Decimals int     `json:"decimals"`
			UIAmount float64 `json:"uiAmount"`
		} `json:"value"`
	}
	if err := s.call(ctx, "getTokenLargestAccounts", []interface{}{mint}, &result); err != nil {
		return nil, err
	}

	holders := make([]TokenHolder, 0, len(result.Value))
	for _, v := range result.Value {
		amount := v.UIAmount
		if amount == 0 && v.Amount != "" {
			if raw, err := strconv.ParseFloat(v.Amount, 64); err == nil {
				amount = raw / pow10(v.Decimals)
			}
		}
		holders = append(holders, TokenHolder{Address: v.Address, Amount: amount})
	}
	return holders, nil
}

// GetSignaturesForAddress samples the most recent transaction signatures that
// touched an address.
func (s *SolanaRPC) GetSignaturesForAddress(ctx context.Context, address string, limit int) ([]SignatureInfo, error) {
	var result []struct {
		Signature string      `json:"signature"`
		Err       interface{} `json:"err"`
		BlockTime int64       `json:"blockTime"`
	}
	params := []interface{}{address, map[string]int{"limit": limit}}
	if err := s.call(ctx, "getSignaturesForAddress", params, &result); err != nil {
		return nil, err
	}

	sigs := make([]SignatureInfo, 0, len(result))
	for _, r := range result {
		sigs = append(sigs, SignatureInfo{
			Signature: r.Signature,
			Failed:    r.Err != nil,
			BlockTime: r.BlockTime,
		})
	}
	return sigs, nil
}

func pow10(n int) float64 {
	out := 1.0
	for i := 0; i < n; i++ {
		out *= 10
	}
	return out
}
