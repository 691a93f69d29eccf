// internal/api/handler/api/backtest_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/khushi-saxena/TradeSage/internal/api/job"
	"github.com/khushi-saxena/TradeSage/internal/api/response"
	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/config"
	"github.com/khushi-saxena/TradeSage/internal/core"
	"github.com/khushi-saxena/TradeSage/internal/strategy"
)

// fakePriceSource serves a canned price series.
type fakePriceSource struct {
	closes []float64
	err    error
}

func (f *fakePriceSource) FetchDaily(ctx context.Context, symbol string, start, end time.Time) (core.PriceSeries, error) {
	if f.err != nil {
		return nil, f.err
	}
	series := make(core.PriceSeries, len(f.closes))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range f.closes {
		series[i] = core.PricePoint{Time: base.AddDate(0, 0, i), Close: c}
	}
	return series, nil
}

func testDefaults() config.BacktestConfig {
	return config.BacktestConfig{
		Strategy:            "sma_crossover",
		ShortWindow:         1,
		LongWindow:          2,
		InitialCapital:      1000,
		AnnualizationFactor: 252,
	}
}

func newHandler(prices PriceSource) (*BacktestHandler, *job.Store) {
	jobStore := job.NewStore(100, time.Hour)
	engine := strategy.NewEngine()
	backtester := backtest.New(engine, zap.NewNop())
	h := NewBacktestHandler(jobStore, backtester, prices, nil, nil, testDefaults(), zap.NewNop())
	return h, jobStore
}

// waitForJob polls until the job leaves the pending/running states.
func waitForJob(t *testing.T, store *job.Store, id string) *job.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		j, err := store.Get(id)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if j.Status == job.StatusComplete || j.Status == job.StatusFailed {
			return j
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return nil
}

func TestBacktestHandler_Create(t *testing.T) {
	h, store := newHandler(&fakePriceSource{closes: []float64{100, 110, 99, 99, 120}})

	body := bytes.NewBufferString(`{
		"symbol": "AAPL",
		"start": "2024-01-01",
		"end": "2024-01-05"
	}`)
	req := httptest.NewRequest("POST", "/api/v1/backtests", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)

	data := resp.Data.(map[string]any)
	jobID, _ := data["job_id"].(string)
	if jobID == "" {
		t.Fatal("expected job_id in response")
	}
	if data["status"] != "pending" {
		t.Errorf("expected pending status, got %v", data["status"])
	}

	j := waitForJob(t, store, jobID)
	if j.Status != job.StatusComplete {
		t.Fatalf("expected complete, got %s (error: %v)", j.Status, j.Error)
	}

	result, ok := j.Result.(*backtest.Result)
	if !ok {
		t.Fatalf("expected *backtest.Result, got %T", j.Result)
	}
	if result.Report.TotalTrades != 3 {
		t.Errorf("expected 3 trades, got %d", result.Report.TotalTrades)
	}
	if got, want := result.Report.CumulativeReturn, -0.1; !floatClose(got, want) {
		t.Errorf("cumulative return = %v, want %v", got, want)
	}
}

func TestBacktestHandler_Create_FetchError(t *testing.T) {
	h, store := newHandler(&fakePriceSource{err: core.WrapError(core.ErrFetchFailed, nil)})

	body := bytes.NewBufferString(`{
		"symbol": "AAPL",
		"start": "2024-01-01",
		"end": "2024-01-05"
	}`)
	req := httptest.NewRequest("POST", "/api/v1/backtests", body)
	w := httptest.NewRecorder()

	h.Create(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	jobID := resp.Data.(map[string]any)["job_id"].(string)

	j := waitForJob(t, store, jobID)
	if j.Status != job.StatusFailed {
		t.Fatalf("expected failed, got %s", j.Status)
	}
	if j.Error == nil || j.Error.Code != "FETCH_FAILED" {
		t.Errorf("expected FETCH_FAILED error, got %v", j.Error)
	}
}

func TestBacktestHandler_Create_MissingSource(t *testing.T) {
	h, _ := newHandler(&fakePriceSource{})

	body := bytes.NewBufferString(`{"strategy": "sma_crossover"}`)
	req := httptest.NewRequest("POST", "/api/v1/backtests", body)
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestBacktestHandler_Create_InvalidDates(t *testing.T) {
	h, _ := newHandler(&fakePriceSource{})

	body := bytes.NewBufferString(`{
		"symbol": "AAPL",
		"start": "invalid-date",
		"end": "2024-01-05"
	}`)
	req := httptest.NewRequest("POST", "/api/v1/backtests", body)
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestBacktestHandler_Create_UnknownStrategy(t *testing.T) {
	h, _ := newHandler(&fakePriceSource{})

	body := bytes.NewBufferString(`{
		"symbol": "AAPL",
		"strategy": "nonexistent",
		"start": "2024-01-01",
		"end": "2024-01-05"
	}`)
	req := httptest.NewRequest("POST", "/api/v1/backtests", body)
	w := httptest.NewRecorder()

	h.Create(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestBacktestHandler_GetStatus(t *testing.T) {
	h, store := newHandler(&fakePriceSource{})

	j := store.Create("backtest")

	req := httptest.NewRequest("GET", "/api/v1/backtests/"+j.ID, nil)
	w := httptest.NewRecorder()

	h.GetStatus(w, req, j.ID)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp response.SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)

	data := resp.Data.(map[string]any)
	if data["job_id"] != j.ID {
		t.Errorf("expected job_id %s, got %v", j.ID, data["job_id"])
	}
}

func TestBacktestHandler_GetStatus_NotFound(t *testing.T) {
	h, _ := newHandler(&fakePriceSource{})

	req := httptest.NewRequest("GET", "/api/v1/backtests/nonexistent", nil)
	w := httptest.NewRecorder()

	h.GetStatus(w, req, "nonexistent")

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestBuildStrategy(t *testing.T) {
	for _, name := range []string{"sma_crossover", "ema_crossover"} {
		s, err := buildStrategy(name, 10, 20, zap.NewNop())
		if err != nil {
			t.Fatalf("buildStrategy(%s) failed: %v", name, err)
		}
		if s.Name() != name {
			t.Errorf("expected %s, got %s", name, s.Name())
		}
	}

	if _, err := buildStrategy("bogus", 10, 20, zap.NewNop()); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

func floatClose(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < 1e-9
}
