package backtest

import (
	"context"
	"fmt"

	"github.com/khushi-saxena/TradeSage/internal/core"
	"github.com/khushi-saxena/TradeSage/internal/strategy"
	"go.uber.org/zap"
)

// Backtester runs strategy backtests against a validated price series
type Backtester struct {
	strategies *strategy.Engine
	logger     *zap.Logger
}

// New creates a new Backtester using the given strategy engine
func New(strategies *strategy.Engine, logger *zap.Logger) *Backtester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backtester{
		strategies: strategies,
		logger:     logger,
	}
}

// Run executes a backtest of the named strategy over the given price series.
// Validation is eager and all-or-nothing: a parameter or data-quality
// problem aborts the run before any simulation happens, and no partial
// result is returned.
func (b *Backtester) Run(ctx context.Context, strategyName, symbol string, prices core.PriceSeries, params Params) (*Result, error) {
	strat, err := b.strategies.MustGet(strategyName)
	if err != nil {
		return nil, err
	}
	return b.RunWith(ctx, strat, symbol, prices, params)
}

// RunWith executes a backtest with an explicit strategy instance. Used when
// the strategy is built per request instead of resolved from the registry.
func (b *Backtester) RunWith(ctx context.Context, strat strategy.Strategy, symbol string, prices core.PriceSeries, params Params) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if len(prices) < 2 {
		return nil, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("need at least 2 bars to simulate one period, got %d", len(prices)))
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}

	signals, err := strat.Signals(prices.Closes())
	if err != nil {
		return nil, err
	}

	equity, trades, err := Simulate(prices, signals, params.InitialCapital)
	if err != nil {
		return nil, err
	}

	report, err := ComputeReport(equity, len(trades), params.AnnualizationFactor)
	if err != nil {
		return nil, err
	}

	b.logger.Info("backtest complete",
		zap.String("strategy", strat.Name()),
		zap.String("symbol", symbol),
		zap.Int("bars", len(prices)),
		zap.Int("trades", report.TotalTrades),
		zap.Float64("cumulative_return", report.CumulativeReturn),
	)

	return &Result{
		Strategy:  strat.Name(),
		Symbol:    symbol,
		StartDate: prices[0].Time,
		EndDate:   prices[len(prices)-1].Time,
		Signals:   signals,
		Trades:    trades,
		Equity:    equity,
		Report:    report,
	}, nil
}
