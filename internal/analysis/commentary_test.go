// internal/analysis/commentary_test.go
package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/core"
)

type fakeProvider struct {
	lastReq ChatRequest
	content string
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &ChatResponse{Content: f.content, FinishReason: "stop"}, nil
}

func testResult() *backtest.Result {
	return &backtest.Result{
		Strategy:  "sma_crossover",
		Symbol:    "AAPL",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Equity:    core.EquityCurve{1000, 1000, 900, 900, 900},
		Report: core.PerformanceReport{
			CumulativeReturn: -0.1,
			SharpeRatio:      -7.9373,
			MaxDrawdown:      -0.1,
			TotalTrades:      3,
		},
	}
}

func TestAnalyst_Explain(t *testing.T) {
	provider := &fakeProvider{content: "  the strategy underperformed  "}
	a := NewAnalyst(provider, nil)

	got, err := a.Explain(context.Background(), testResult())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "the strategy underperformed" {
		t.Errorf("expected trimmed commentary, got %q", got)
	}
	if provider.lastReq.SystemPrompt == "" {
		t.Error("expected a system prompt")
	}

	prompt := provider.lastReq.Messages[0].Content
	for _, want := range []string{"sma_crossover", "AAPL", "-0.1000", "-7.9373", "Total trades: 3"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestAnalyst_Explain_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("boom")}
	a := NewAnalyst(provider, nil)

	_, err := a.Explain(context.Background(), testResult())
	if !errors.Is(err, core.ErrAnalysisFailed) {
		t.Errorf("expected ANALYSIS_FAILED, got %v", err)
	}
}

func TestAnalyst_Explain_EmptyContent(t *testing.T) {
	provider := &fakeProvider{content: "   "}
	a := NewAnalyst(provider, nil)

	_, err := a.Explain(context.Background(), testResult())
	if !errors.Is(err, core.ErrAnalysisFailed) {
		t.Errorf("expected ANALYSIS_FAILED, got %v", err)
	}
}
