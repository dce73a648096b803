package modules

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ikarn-dev/sivic-sub000/pkg/keypool"
)

// InsightClient turns a finished DetectionResult into a short natural
// language explanation via Google Gemini (preferred) or OpenAI (fallback).
// Gemini keys rotate through the shared credential pool so concurrent scans
// spread load across upstream quotas.
type InsightClient struct {
	googleKeys  *keypool.Pool
	googleModel string
	openAIKey   string
	client      *http.Client
}

// NewInsightClient creates the insight adapter. With no keys configured,
// Summarize returns an explanatory error and the rest of the scan is
// unaffected.
func NewInsightClient(googleKeys []string, googleModel, openAIKey string) *InsightClient {
	if googleModel == "" {
		googleModel = "gemini-2.5-flash"
	}
	// Normalize: strip any leading "models/" prefix.
	googleModel = strings.TrimPrefix(googleModel, "models/")
	return &InsightClient{
		googleKeys:  keypool.New(googleKeys),
		googleModel: googleModel,
		openAIKey:   strings.TrimSpace(openAIKey),
		client:      &http.Client{Timeout: 25 * time.Second},
	}
}

// Enabled reports whether any AI backend is configured.
func (c *InsightClient) Enabled() bool {
	return c.googleKeys.Size() > 0 || c.openAIKey != ""
}

// Summarize produces a short plain-language explanation of the result.
func (c *InsightClient) Summarize(ctx context.Context, result *DetectionResult) (string, error) {
	if result == nil {
		return "", fmt.Errorf("nil result")
	}
	prompt := buildInsightPrompt(result)

	if key := c.googleKeys.Next(); key != "" {
		return c.askGemini(ctx, key, prompt)
	}
	if c.openAIKey != "" {
		return c.askOpenAI(ctx, prompt)
	}
	return "", fmt.Errorf("no AI backend configured: set GOOGLE_API_KEYS or OPENAI_API_KEY")
}

func buildInsightPrompt(result *DetectionResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Explain in 3 short sentences, for a non-technical crypto user, the risk profile of Solana %s address %s. ",
		result.DetectionMode, result.Address)
	fmt.Fprintf(&b, "Risk score %d/100 (grade %s, level %s). Findings:", result.RiskScore, result.RiskGrade, result.RiskLevel)
	if len(result.Indicators) == 0 {
		b.WriteString(" none.")
	}
	for _, ind := range result.Indicators {
		fmt.Fprintf(&b, " [%s] %s (%s);", ind.Severity, ind.Name, ind.Value)
	}
	return b.String()
}

func (c *InsightClient) askGemini(ctx context.Context, key, prompt string) (string, error) {
	url := fmt.Sprintf("https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent", c.googleModel)

	reqBody := map[string]interface{}{
		"contents": []interface{}{
			map[string]interface{}{
				"parts": []interface{}{
					map[string]interface{}{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"maxOutputTokens": 256,
			"temperature":     0.2,
		},
	}
	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", key)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gemini decode: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return strings.TrimSpace(out.Candidates[0].Content.Parts[0].Text), nil
}

func (c *InsightClient) askOpenAI(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": "gpt-4o-mini",
		"messages": []interface{}{
			map[string]string{"role": "user", "content": prompt},
		},
		"max_tokens":  256,
		"temperature": 0.2,
	}
	b, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		"https://api.openai.com/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.openAIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("openai status %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("openai decode: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("openai: empty response")
	}
	return strings.TrimSpace(out.Choices[0].Message.Content), nil
}
