package backtest

import (
	"fmt"
	"time"

	"github.com/khushi-saxena/TradeSage/internal/core"
)

// Params holds the run parameters that are not part of the strategy itself.
type Params struct {
	InitialCapital      float64
	AnnualizationFactor int
}

// Validate checks the parameters eagerly, before any simulation starts.
func (p Params) Validate() error {
	if p.InitialCapital <= 0 {
		return core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("initial capital must be positive, got %f", p.InitialCapital))
	}
	if p.AnnualizationFactor < 1 {
		return core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("annualization factor must be a positive integer, got %d", p.AnnualizationFactor))
	}
	return nil
}

// Result holds the complete backtest output
type Result struct {
	Strategy  string
	Symbol    string
	StartDate time.Time
	EndDate   time.Time
	Signals   []core.Position
	Trades    []core.TradeEvent
	Equity    core.EquityCurve
	Report    core.PerformanceReport
}
