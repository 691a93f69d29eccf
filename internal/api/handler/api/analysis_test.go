// internal/api/handler/api/analysis_test.go
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/khushi-saxena/TradeSage/internal/analysis"
	"github.com/khushi-saxena/TradeSage/internal/api/job"
	"github.com/khushi-saxena/TradeSage/internal/api/response"
	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/core"
)

type cannedProvider struct {
	content string
}

func (c *cannedProvider) Name() string { return "canned" }

func (c *cannedProvider) Chat(ctx context.Context, req analysis.ChatRequest) (*analysis.ChatResponse, error) {
	return &analysis.ChatResponse{Content: c.content, FinishReason: "stop"}, nil
}

func completedJob(store *job.Store) *job.Job {
	j := store.Create("backtest")
	store.Update(j.ID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = &backtest.Result{
			Strategy:  "sma_crossover",
			Symbol:    "AAPL",
			StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			Equity:    core.EquityCurve{1000, 900},
			Report:    core.PerformanceReport{CumulativeReturn: -0.1, TotalTrades: 3},
		}
	})
	return j
}

func TestAnalysisHandler_Explain(t *testing.T) {
	store := job.NewStore(100, time.Hour)
	j := completedJob(store)

	analyst := analysis.NewAnalyst(&cannedProvider{content: "weak risk-adjusted returns"}, nil)
	h := NewAnalysisHandler(store, analyst)

	req := httptest.NewRequest("POST", "/api/v1/backtests/"+j.ID+"/analysis", nil)
	w := httptest.NewRecorder()

	h.Explain(w, req, j.ID)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	data := resp.Data.(map[string]any)
	if data["commentary"] != "weak risk-adjusted returns" {
		t.Errorf("unexpected commentary %v", data["commentary"])
	}
}

func TestAnalysisHandler_Explain_NoProvider(t *testing.T) {
	store := job.NewStore(100, time.Hour)
	j := completedJob(store)

	h := NewAnalysisHandler(store, nil)

	w := httptest.NewRecorder()
	h.Explain(w, httptest.NewRequest("POST", "/", nil), j.ID)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestAnalysisHandler_Explain_JobNotFound(t *testing.T) {
	store := job.NewStore(100, time.Hour)
	analyst := analysis.NewAnalyst(&cannedProvider{content: "x"}, nil)
	h := NewAnalysisHandler(store, analyst)

	w := httptest.NewRecorder()
	h.Explain(w, httptest.NewRequest("POST", "/", nil), "missing")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAnalysisHandler_Explain_JobNotComplete(t *testing.T) {
	store := job.NewStore(100, time.Hour)
	j := store.Create("backtest")

	analyst := analysis.NewAnalyst(&cannedProvider{content: "x"}, nil)
	h := NewAnalysisHandler(store, analyst)

	w := httptest.NewRecorder()
	h.Explain(w, httptest.NewRequest("POST", "/", nil), j.ID)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
}
