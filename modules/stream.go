package modules

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ikarn-dev/sivic-sub000/pkg/netguard"
)

// Analyzer is the common surface of the token and dex variants.
type Analyzer interface {
	Steps() []AnalysisStep
	CheckedCount() int
	TriggeredCount() int
	Data() interface{}
	Result() *DetectionResult
}

// Summarizer produces a plain-language explanation of a finished result.
// *InsightClient satisfies it.
type Summarizer interface {
	Enabled() bool
	Summarize(ctx context.Context, result *DetectionResult) (string, error)
}

// Scanner drives end-to-end analysis runs and owns the process-wide pieces
// (provider set, thresholds, health counters). Individual runs share no
// mutable state with each other.
type Scanner struct {
	providers Providers
	th        Thresholds
	sigSample int
	monitor   *netguard.Monitor
	insight   Summarizer

	started     time.Time
	activeScans atomic.Int64
	totalScans  atomic.Int64
}

// NewScanner creates the coordinator. monitor may be nil.
func NewScanner(providers Providers, th Thresholds, sigSample int, monitor *netguard.Monitor) *Scanner {
	if sigSample <= 0 {
		sigSample = 50
	}
	return &Scanner{
		providers: providers,
		th:        th,
		sigSample: sigSample,
		monitor:   monitor,
		started:   time.Now(),
	}
}

// SetInsight attaches the optional AI-insight backend used when a stream
// request asks for a summary.
func (s *Scanner) SetInsight(insight Summarizer) {
	s.insight = insight
}

// newAnalyzer picks the analyzer variant for the classified account.
func (s *Scanner) newAnalyzer(address, mode string, account *AccountInfo) Analyzer {
	if mode == ModeToken {
		return NewTokenAnalyzer(address, account, s.providers, s.th, s.sigSample)
	}
	return NewDexAnalyzer(address, account, s.providers, s.th, s.sigSample)
}

// Run executes one full analysis, pushing every event through emit the
// moment it is ready. Cancellation is cooperative: a canceled ctx stops the
// run at the next step boundary with no terminal event (the caller is gone).
// The returned result is nil only when the run was canceled.
func (s *Scanner) Run(ctx context.Context, address string, emit func(StepEvent)) *DetectionResult {
	s.activeScans.Add(1)
	s.totalScans.Add(1)
	defer s.activeScans.Add(-1)

	account, err := s.lookupAccount(ctx, address)
	if err != nil || account == nil {
		// Fatal: a single complete event carrying only the error payload.
		result := &DetectionResult{
			Address:    address,
			Error:      ErrAccountNotFound.Error(),
			Indicators: []RiskIndicator{},
			Timestamp:  time.Now().UTC(),
		}
		if err != nil {
			log.Printf("[scan] account lookup failed for %s: %v", address, err)
		}
		emit(StepEvent{Type: EventComplete, Data: result})
		return result
	}

	mode, _ := ClassifyAccount(account)
	analyzer := s.newAnalyzer(address, mode, account)

	for _, step := range analyzer.Steps() {
		if ctx.Err() != nil {
			log.Printf("[scan] canceled at step %s for %s", step.ID, address)
			return nil
		}

		emit(StepEvent{
			Type:          EventStepStart,
			StepID:        step.ID,
			StepName:      step.Name,
			DetectionMode: mode,
		})

		start := time.Now()
		stepErr := step.Run(ctx)
		elapsed := time.Since(start).Milliseconds()

		ev := StepEvent{
			StepID:          step.ID,
			StepName:        step.Name,
			Duration:        elapsed,
			ParamsChecked:   analyzer.CheckedCount(),
			ParamsTriggered: analyzer.TriggeredCount(),
			DetectionMode:   mode,
		}
		if stepErr != nil {
			ev.Type = EventStepError
			ev.Error = stepErr.Error()
			log.Printf("[scan] step %s failed for %s: %v", step.ID, address, stepErr)
		} else {
			ev.Type = EventStepComplete
			ev.Data = analyzer.Data()
		}
		emit(ev)
	}

	result := analyzer.Result()
	emit(StepEvent{
		Type:            EventComplete,
		Data:            result,
		ParamsChecked:   result.TotalChecked,
		ParamsTriggered: result.TotalTriggered,
		DetectionMode:   mode,
	})
	return result
}

// Analyze runs a full analysis discarding intermediate events; this backs
// the agent command surface.
func (s *Scanner) Analyze(ctx context.Context, address string) *DetectionResult {
	return s.Run(ctx, address, func(StepEvent) {})
}

func (s *Scanner) lookupAccount(ctx context.Context, address string) (*AccountInfo, error) {
	if s.providers.RPC == nil {
		return nil, ErrAccountNotFound
	}
	return s.providers.RPC.GetAccountInfo(ctx, address)
}

// ScanHandler streams one analysis as newline-delimited JSON. Events are
// flushed as soon as each step resolves; the run ends with exactly one
// complete event. With summary=1 and a configured AI backend, one trailing
// data_update event carries a plain-language summary of the result.
func (s *Scanner) ScanHandler(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if !IsValidAddress(address) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "invalid address: expected base58, 32-44 characters",
		})
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, canFlush := w.(http.Flusher)
	enc := json.NewEncoder(w)
	emit := func(ev StepEvent) {
		if err := enc.Encode(ev); err != nil {
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}

	result := s.Run(r.Context(), address, emit)

	if r.URL.Query().Get("summary") == "1" &&
		result != nil && result.Error == "" &&
		s.insight != nil && s.insight.Enabled() {
		summary, err := s.insight.Summarize(r.Context(), result)
		if err != nil {
			log.Printf("[scan] insight failed for %s: %v", address, err)
			return
		}
		emit(StepEvent{
			Type:          EventDataUpdate,
			StepID:        "insight",
			StepName:      "AI Insight",
			Data:          map[string]string{"summary": summary},
			DetectionMode: result.DetectionMode,
		})
	}
}

// ActiveScans returns the number of runs currently in flight.
func (s *Scanner) ActiveScans() int {
	return int(s.activeScans.Load())
}

// TotalScans returns the number of runs started since boot.
func (s *Scanner) TotalScans() int64 {
	return s.totalScans.Load()
}

// Uptime returns time since the scanner was constructed.
func (s *Scanner) Uptime() time.Duration {
	return time.Since(s.started)
}

// ProviderHealth returns per-provider stats for the status endpoint.
func (s *Scanner) ProviderHealth() interface{} {
	if s.monitor == nil {
		return nil
	}
	return s.monitor.Snapshot()
}
