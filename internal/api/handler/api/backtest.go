// internal/api/handler/api/backtest.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/khushi-saxena/TradeSage/internal/api/job"
	"github.com/khushi-saxena/TradeSage/internal/api/response"
	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/config"
	"github.com/khushi-saxena/TradeSage/internal/core"
	"github.com/khushi-saxena/TradeSage/internal/dataset"
	"github.com/khushi-saxena/TradeSage/internal/metrics"
	"github.com/khushi-saxena/TradeSage/internal/report"
	"github.com/khushi-saxena/TradeSage/internal/strategy"
	"github.com/khushi-saxena/TradeSage/internal/strategy/emacross"
	"github.com/khushi-saxena/TradeSage/internal/strategy/smacross"
)

const backtestTimeout = 5 * time.Minute

// PriceSource fetches daily price history for a symbol.
type PriceSource interface {
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) (core.PriceSeries, error)
}

// BacktestRequest is the request body for starting a backtest. Prices come
// either from a symbol fetched over the wire or from a server-local CSV.
type BacktestRequest struct {
	Symbol  string `json:"symbol,omitempty"`
	CSVPath string `json:"csv_path,omitempty"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`

	Strategy            string  `json:"strategy,omitempty"`
	ShortWindow         int     `json:"short_window,omitempty"`
	LongWindow          int     `json:"long_window,omitempty"`
	InitialCapital      float64 `json:"initial_capital,omitempty"`
	AnnualizationFactor int     `json:"annualization_factor,omitempty"`
}

// BacktestHandler handles backtest API requests.
type BacktestHandler struct {
	jobStore   *job.Store
	backtester *backtest.Backtester
	prices     PriceSource
	archiver   *report.Archiver  // Optional
	metrics    *metrics.Registry // Optional
	defaults   config.BacktestConfig
	logger     *zap.Logger
}

// NewBacktestHandler creates a new backtest handler.
func NewBacktestHandler(
	jobStore *job.Store,
	backtester *backtest.Backtester,
	prices PriceSource,
	archiver *report.Archiver,
	reg *metrics.Registry,
	defaults config.BacktestConfig,
	logger *zap.Logger,
) *BacktestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BacktestHandler{
		jobStore:   jobStore,
		backtester: backtester,
		prices:     prices,
		archiver:   archiver,
		metrics:    reg,
		defaults:   defaults,
		logger:     logger,
	}
}

// buildStrategy constructs a strategy instance for the request's windows.
func buildStrategy(name string, short, long int, logger *zap.Logger) (strategy.Strategy, error) {
	switch name {
	case "sma_crossover":
		return smacross.New(short, long, logger)
	case "ema_crossover":
		return emacross.New(short, long, logger)
	default:
		return nil, core.WrapError(core.ErrStrategyNotFound,
			fmt.Errorf("unknown strategy %q", name))
	}
}

// Create starts a new backtest job.
func (h *BacktestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidParameter, err))
		return
	}

	if req.Symbol == "" && req.CSVPath == "" {
		response.Error(w, http.StatusBadRequest,
			core.WrapError(core.ErrInvalidParameter,
				errors.New("either symbol or csv_path is required")))
		return
	}

	// Fill unset fields from configured defaults
	if req.Strategy == "" {
		req.Strategy = h.defaults.Strategy
	}
	if req.ShortWindow == 0 {
		req.ShortWindow = h.defaults.ShortWindow
	}
	if req.LongWindow == 0 {
		req.LongWindow = h.defaults.LongWindow
	}
	if req.InitialCapital == 0 {
		req.InitialCapital = h.defaults.InitialCapital
	}
	if req.AnnualizationFactor == 0 {
		req.AnnualizationFactor = h.defaults.AnnualizationFactor
	}

	var start, end time.Time
	if req.Symbol != "" {
		var err error
		start, err = time.Parse("2006-01-02", req.Start)
		if err != nil {
			response.Error(w, http.StatusBadRequest,
				core.WrapError(core.ErrInvalidParameter, err))
			return
		}
		end, err = time.Parse("2006-01-02", req.End)
		if err != nil {
			response.Error(w, http.StatusBadRequest,
				core.WrapError(core.ErrInvalidParameter, err))
			return
		}
	}

	strat, err := buildStrategy(req.Strategy, req.ShortWindow, req.LongWindow, h.logger)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	j := h.jobStore.Create("backtest")

	// Copy values before starting goroutine to avoid race
	jobID := j.ID
	status := j.Status

	go h.runBacktest(jobID, strat, req, start, end)

	response.JSON(w, http.StatusAccepted, map[string]any{
		"job_id": jobID,
		"status": status,
	})
}

// runBacktest executes the backtest and updates job status.
func (h *BacktestHandler) runBacktest(
	jobID string,
	strat strategy.Strategy,
	req BacktestRequest,
	start, end time.Time,
) {
	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusRunning
	})
	h.trackJobs()

	ctx, cancel := context.WithTimeout(context.Background(), backtestTimeout)
	defer cancel()

	began := time.Now()
	result, err := h.execute(ctx, strat, req, start, end)
	elapsed := time.Since(began).Seconds()

	if err != nil {
		h.logger.Warn("backtest job failed",
			zap.String("job_id", jobID), zap.Error(err))
		if h.metrics != nil {
			h.metrics.RecordBacktest(strat.Name(), "error", elapsed)
		}
		h.jobStore.Update(jobID, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Error = asCoreError(err)
		})
		h.trackJobs()
		return
	}

	if h.metrics != nil {
		h.metrics.RecordBacktest(strat.Name(), "ok", elapsed)
		h.metrics.RecordTrades(strat.Name(), len(result.Trades))
	}

	if h.archiver != nil {
		if err := h.archiver.Archive(ctx, jobID, result); err != nil {
			h.logger.Warn("archiving run failed",
				zap.String("job_id", jobID), zap.Error(err))
		}
	}

	h.jobStore.Update(jobID, func(j *job.Job) {
		j.Status = job.StatusComplete
		j.Progress = 100
		j.Result = result
	})
	h.trackJobs()
}

// execute loads the price series and runs the simulation.
func (h *BacktestHandler) execute(
	ctx context.Context,
	strat strategy.Strategy,
	req BacktestRequest,
	start, end time.Time,
) (*backtest.Result, error) {
	var prices core.PriceSeries
	var err error
	symbol := req.Symbol

	if req.CSVPath != "" {
		prices, err = dataset.LoadCSV(req.CSVPath)
	} else {
		prices, err = h.prices.FetchDaily(ctx, req.Symbol, start, end)
	}
	if err != nil {
		return nil, err
	}

	return h.backtester.RunWith(ctx, strat, symbol, prices, backtest.Params{
		InitialCapital:      req.InitialCapital,
		AnnualizationFactor: req.AnnualizationFactor,
	})
}

func (h *BacktestHandler) trackJobs() {
	if h.metrics != nil {
		h.metrics.SetJobsActive("backtest", h.jobStore.CountActive())
	}
}

// asCoreError coerces any error to the structured form stored on jobs.
func asCoreError(err error) *core.Error {
	var coreErr *core.Error
	if errors.As(err, &coreErr) {
		return coreErr
	}
	return &core.Error{Code: "INTERNAL_ERROR", Message: err.Error()}
}

// GetStatus returns the status of a backtest job.
func (h *BacktestHandler) GetStatus(w http.ResponseWriter, r *http.Request, jobID string) {
	j, err := h.jobStore.Get(jobID)
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	resp := map[string]any{
		"job_id":   j.ID,
		"status":   j.Status,
		"progress": j.Progress,
	}

	if j.Status == job.StatusComplete {
		resp["result"] = j.Result
	}
	if j.Status == job.StatusFailed && j.Error != nil {
		resp["error"] = map[string]string{
			"code":    j.Error.Code,
			"message": j.Error.Message,
		}
	}

	response.JSON(w, http.StatusOK, resp)
}
