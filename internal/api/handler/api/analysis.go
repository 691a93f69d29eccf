// internal/api/handler/api/analysis.go
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/khushi-saxena/TradeSage/internal/analysis"
	"github.com/khushi-saxena/TradeSage/internal/api/job"
	"github.com/khushi-saxena/TradeSage/internal/api/response"
	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/core"
)

const analysisTimeout = 2 * time.Minute

// AnalysisHandler generates commentary for completed backtest jobs.
type AnalysisHandler struct {
	jobStore *job.Store
	analyst  *analysis.Analyst // Nil when no LLM provider is configured
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(jobStore *job.Store, analyst *analysis.Analyst) *AnalysisHandler {
	return &AnalysisHandler{jobStore: jobStore, analyst: analyst}
}

// Explain returns commentary for a completed backtest job.
func (h *AnalysisHandler) Explain(w http.ResponseWriter, r *http.Request, jobID string) {
	if h.analyst == nil {
		response.Error(w, http.StatusServiceUnavailable,
			core.WrapError(core.ErrAnalysisFailed,
				errors.New("no LLM provider configured")))
		return
	}

	j, err := h.jobStore.Get(jobID)
	if err != nil {
		response.Error(w, http.StatusNotFound, err)
		return
	}

	if j.Status != job.StatusComplete {
		response.Error(w, http.StatusConflict,
			core.WrapError(core.ErrAnalysisFailed,
				errors.New("job is not complete")))
		return
	}

	result, ok := j.Result.(*backtest.Result)
	if !ok {
		response.Error(w, http.StatusConflict,
			core.WrapError(core.ErrAnalysisFailed,
				errors.New("job carries no backtest result")))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), analysisTimeout)
	defer cancel()

	commentary, err := h.analyst.Explain(ctx, result)
	if err != nil {
		response.Error(w, response.StatusFor(err), err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"job_id":     jobID,
		"commentary": commentary,
	})
}
