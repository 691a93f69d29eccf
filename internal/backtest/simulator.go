package backtest

import (
	"fmt"

	"github.com/khushi-saxena/TradeSage/internal/core"
)

// Simulate turns a signal series into an equity curve and the trade events
// implied by signal transitions.
//
// The position held over the period ending at bar i is the signal effective
// at bar i-1: a position is decided one bar before the return it captures,
// which is what keeps the simulation free of look-ahead bias. While long the
// period return is (price[i] - price[i-1]) / price[i-1], while flat it is
// zero, and equity compounds multiplicatively from the initial capital.
func Simulate(prices core.PriceSeries, signals []core.Position, initialCapital float64) (core.EquityCurve, []core.TradeEvent, error) {
	if len(prices) == 0 || len(signals) == 0 {
		return nil, nil, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("empty price or signal series"))
	}
	if len(prices) != len(signals) {
		return nil, nil, core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("price and signal series lengths differ: %d vs %d", len(prices), len(signals)))
	}
	if initialCapital <= 0 {
		return nil, nil, core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("initial capital must be positive, got %f", initialCapital))
	}

	equity := make(core.EquityCurve, len(prices))
	equity[0] = initialCapital

	var trades []core.TradeEvent
	for i := 1; i < len(prices); i++ {
		periodReturn := 0.0
		if signals[i-1] == core.PositionLong {
			periodReturn = (prices[i].Close - prices[i-1].Close) / prices[i-1].Close
		}
		equity[i] = equity[i-1] * (1 + periodReturn)

		if signals[i] != signals[i-1] {
			direction := core.ExitLong
			if signals[i] == core.PositionLong {
				direction = core.EnterLong
			}
			trades = append(trades, core.TradeEvent{Index: i, Direction: direction})
		}
	}

	return equity, trades, nil
}
