// internal/api/handler/api/strategies.go
package api

import (
	"net/http"

	"github.com/khushi-saxena/TradeSage/internal/api/response"
	"github.com/khushi-saxena/TradeSage/internal/strategy"
)

// StrategyInfo describes a registered strategy.
type StrategyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// StrategiesHandler lists registered strategies.
type StrategiesHandler struct {
	strategies *strategy.Engine
}

// NewStrategiesHandler creates a new strategies handler.
func NewStrategiesHandler(strategies *strategy.Engine) *StrategiesHandler {
	return &StrategiesHandler{strategies: strategies}
}

// List returns all registered strategies.
func (h *StrategiesHandler) List(w http.ResponseWriter, r *http.Request) {
	all := h.strategies.GetAll()

	infos := make([]StrategyInfo, 0, len(all))
	for _, s := range all {
		infos = append(infos, StrategyInfo{
			Name:        s.Name(),
			Description: s.Description(),
		})
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"strategies": infos,
	})
}
