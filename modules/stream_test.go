package modules

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func collectEvents(t *testing.T, body string) []StepEvent {
	t.Helper()
	var events []StepEvent
	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var ev StepEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			t.Fatalf("bad ndjson line %q: %v", line, err)
		}
		events = append(events, ev)
	}
	return events
}

func TestScanHandlerRejectsMalformedAddress(t *testing.T) {
	s := NewScanner(healthyProviders(mintAccount("", "")), DefaultThresholds(), 50, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/scan?address=abc", nil)
	rec := httptest.NewRecorder()
	s.ScanHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("error body is not json: %v", err)
	}
	if payload["error"] == "" {
		t.Error("expected an error message")
	}
	if strings.Contains(rec.Body.String(), `"type"`) {
		t.Error("no analysis events should be emitted for a rejected address")
	}
}

func TestScanHandlerAccountNotFound(t *testing.T) {
	// Valid shape but unknown to the RPC fake.
	providers := Providers{RPC: &fakeRPC{accounts: map[string]*AccountInfo{}}}
	s := NewScanner(providers, DefaultThresholds(), 50, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/scan?address="+testMint, nil)
	rec := httptest.NewRecorder()
	s.ScanHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	events := collectEvents(t, rec.Body.String())
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	if events[0].Type != EventComplete {
		t.Errorf("expected complete event, got %s", events[0].Type)
	}

	raw, _ := json.Marshal(events[0].Data)
	var result DetectionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		t.Fatalf("complete payload is not a result: %v", err)
	}
	if result.Error != "Account not found" {
		t.Errorf("expected %q, got %q", "Account not found", result.Error)
	}
	if result.Address != testMint {
		t.Errorf("expected address echoed back, got %q", result.Address)
	}
}

func TestScanHandlerTokenStream(t *testing.T) {
	account := mintAccount("", "")
	s := NewScanner(healthyProviders(account), DefaultThresholds(), 50, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/scan?address="+testMint, nil)
	rec := httptest.NewRecorder()
	s.ScanHandler(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "application/x-ndjson" {
		t.Errorf("expected ndjson content type, got %q", ct)
	}

	events := collectEvents(t, rec.Body.String())
	if len(events) == 0 {
		t.Fatal("no events emitted")
	}

	// Eight steps: start + terminal per step, then one final complete.
	if want := 8*2 + 1; len(events) != want {
		t.Fatalf("expected %d events, got %d", want, len(events))
	}

	completes := 0
	var lastChecked int
	for i, ev := range events[:len(events)-1] {
		if i%2 == 0 {
			if ev.Type != EventStepStart {
				t.Errorf("event %d: expected step_start, got %s", i, ev.Type)
			}
			continue
		}
		if ev.Type != EventStepComplete && ev.Type != EventStepError {
			t.Errorf("event %d: expected step terminal, got %s", i, ev.Type)
		}
		if ev.StepID != events[i-1].StepID {
			t.Errorf("event %d: terminal step id %q does not match start %q", i, ev.StepID, events[i-1].StepID)
		}
		if ev.ParamsChecked < lastChecked {
			t.Errorf("checked count regressed at %s: %d < %d", ev.StepID, ev.ParamsChecked, lastChecked)
		}
		lastChecked = ev.ParamsChecked
		if ev.DetectionMode != ModeToken {
			t.Errorf("event %d: expected token mode, got %q", i, ev.DetectionMode)
		}
	}
	for _, ev := range events {
		if ev.Type == EventComplete {
			completes++
		}
	}
	if completes != 1 {
		t.Errorf("expected exactly one complete event, got %d", completes)
	}

	final := events[len(events)-1]
	if final.Type != EventComplete {
		t.Fatalf("last event must be complete, got %s", final.Type)
	}
	if final.ParamsChecked != 31 {
		t.Errorf("final event should report 31 checked, got %d", final.ParamsChecked)
	}
}

func TestScanHandlerProgramStream(t *testing.T) {
	providers := dexProviders("")
	req := httptest.NewRequest(http.MethodGet, "/api/scan?address="+testProgram, nil)
	rec := httptest.NewRecorder()
	NewScanner(providers, DefaultThresholds(), 50, nil).ScanHandler(rec, req)

	events := collectEvents(t, rec.Body.String())
	// Six steps: start + terminal each, then one complete.
	if want := 6*2 + 1; len(events) != want {
		t.Fatalf("expected %d events, got %d", want, len(events))
	}
	if events[0].DetectionMode != ModeDex {
		t.Errorf("expected dex mode, got %q", events[0].DetectionMode)
	}
	if final := events[len(events)-1]; final.ParamsChecked != 31 {
		t.Errorf("final event should report 31 checked, got %d", final.ParamsChecked)
	}
}

func TestRunStepErrorKeepsGoing(t *testing.T) {
	account := mintAccount("", "")
	providers := healthyProviders(account)
	providers.Market = &fakeMarket{failing: true}
	s := NewScanner(providers, DefaultThresholds(), 50, nil)

	var events []StepEvent
	result := s.Run(context.Background(), testMint, func(ev StepEvent) { events = append(events, ev) })

	sawError := false
	for _, ev := range events {
		if ev.Type == EventStepError && ev.StepID == "market_data" {
			sawError = true
			if ev.Error == "" {
				t.Error("step_error should carry a message")
			}
		}
	}
	if !sawError {
		t.Fatal("expected a step_error for market_data")
	}
	if result == nil {
		t.Fatal("run should still produce a result")
	}
	if result.TotalChecked != 31 {
		t.Errorf("run must keep going past a failed step, got %d checked", result.TotalChecked)
	}
}

func TestRunCancellationStopsWithoutTerminalEvent(t *testing.T) {
	account := mintAccount("", "")
	s := NewScanner(healthyProviders(account), DefaultThresholds(), 50, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var events []StepEvent
	result := s.Run(ctx, testMint, func(ev StepEvent) { events = append(events, ev) })

	if result != nil {
		t.Error("canceled run must return nil")
	}
	for _, ev := range events {
		if ev.Type == EventComplete {
			t.Error("canceled run must not emit a complete event")
		}
	}
}

type fakeSummarizer struct {
	enabled bool
	text    string
	err     error
}

func (f *fakeSummarizer) Enabled() bool { return f.enabled }

func (f *fakeSummarizer) Summarize(ctx context.Context, result *DetectionResult) (string, error) {
	return f.text, f.err
}

func TestScanHandlerSummaryEvent(t *testing.T) {
	account := mintAccount("", "")
	s := NewScanner(healthyProviders(account), DefaultThresholds(), 50, nil)
	s.SetInsight(&fakeSummarizer{enabled: true, text: "looks safe"})

	req := httptest.NewRequest(http.MethodGet, "/api/scan?address="+testMint+"&summary=1", nil)
	rec := httptest.NewRecorder()
	s.ScanHandler(rec, req)

	events := collectEvents(t, rec.Body.String())
	// Eight steps, one complete, one trailing summary.
	if want := 8*2 + 2; len(events) != want {
		t.Fatalf("expected %d events, got %d", want, len(events))
	}

	last := events[len(events)-1]
	if last.Type != EventDataUpdate || last.StepID != "insight" {
		t.Fatalf("expected trailing insight data_update, got %s/%s", last.Type, last.StepID)
	}
	payload, ok := last.Data.(map[string]interface{})
	if !ok || payload["summary"] != "looks safe" {
		t.Errorf("summary payload missing: %v", last.Data)
	}
	if events[len(events)-2].Type != EventComplete {
		t.Error("summary must come after the complete event")
	}
}

func TestScanHandlerSummaryNotRequested(t *testing.T) {
	account := mintAccount("", "")
	s := NewScanner(healthyProviders(account), DefaultThresholds(), 50, nil)
	s.SetInsight(&fakeSummarizer{enabled: true, text: "looks safe"})

	req := httptest.NewRequest(http.MethodGet, "/api/scan?address="+testMint, nil)
	rec := httptest.NewRecorder()
	s.ScanHandler(rec, req)

	for _, ev := range collectEvents(t, rec.Body.String()) {
		if ev.Type == EventDataUpdate {
			t.Fatal("summary event emitted without summary=1")
		}
	}
}

func TestScanHandlerSummarySkippedWhenUnavailable(t *testing.T) {
	account := mintAccount("", "")

	cases := map[string]*fakeSummarizer{
		"disabled": {enabled: false, text: "x"},
		"failing":  {enabled: true, err: errProvider},
	}
	for name, insight := range cases {
		s := NewScanner(healthyProviders(account), DefaultThresholds(), 50, nil)
		s.SetInsight(insight)

		req := httptest.NewRequest(http.MethodGet, "/api/scan?address="+testMint+"&summary=1", nil)
		rec := httptest.NewRecorder()
		s.ScanHandler(rec, req)

		events := collectEvents(t, rec.Body.String())
		if last := events[len(events)-1]; last.Type != EventComplete {
			t.Errorf("%s: stream must still end with complete, got %s", name, last.Type)
		}
	}
}

func TestScanHandlerSummarySkippedOnFatalError(t *testing.T) {
	providers := Providers{RPC: &fakeRPC{accounts: map[string]*AccountInfo{}}}
	s := NewScanner(providers, DefaultThresholds(), 50, nil)
	s.SetInsight(&fakeSummarizer{enabled: true, text: "x"})

	req := httptest.NewRequest(http.MethodGet, "/api/scan?address="+testMint+"&summary=1", nil)
	rec := httptest.NewRecorder()
	s.ScanHandler(rec, req)

	events := collectEvents(t, rec.Body.String())
	if len(events) != 1 || events[0].Type != EventComplete {
		t.Fatalf("not-found run must emit exactly one complete event, got %d", len(events))
	}
}

func TestScannerCounters(t *testing.T) {
	account := mintAccount("", "")
	s := NewScanner(healthyProviders(account), DefaultThresholds(), 50, nil)

	if s.TotalScans() != 0 {
		t.Fatalf("fresh scanner should have 0 scans, got %d", s.TotalScans())
	}
	s.Analyze(context.Background(), testMint)
	s.Analyze(context.Background(), testMint)

	if s.TotalScans() != 2 {
		t.Errorf("expected 2 total scans, got %d", s.TotalScans())
	}
	if s.ActiveScans() != 0 {
		t.Errorf("expected 0 active scans, got %d", s.ActiveScans())
	}
}
