package backtest

import (
	"fmt"
	"math"

	"github.com/khushi-saxena/TradeSage/internal/core"
)

// ComputeReport computes the performance report from an equity curve.
// TotalTrades is passed through from the simulator. Degenerate inputs that
// are not errors (constant equity, a single-point curve) produce defined
// fallback values, never NaN: Sharpe 0, drawdown 0.
func ComputeReport(equity core.EquityCurve, totalTrades int, annualizationFactor int) (core.PerformanceReport, error) {
	if len(equity) == 0 {
		return core.PerformanceReport{}, core.WrapError(core.ErrInsufficientData,
			fmt.Errorf("empty equity curve"))
	}
	if annualizationFactor < 1 {
		return core.PerformanceReport{}, core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("annualization factor must be a positive integer, got %d", annualizationFactor))
	}

	returns := periodReturns(equity)

	return core.PerformanceReport{
		CumulativeReturn: equity[len(equity)-1]/equity[0] - 1,
		SharpeRatio:      sharpeRatio(returns, annualizationFactor),
		MaxDrawdown:      maxDrawdown(equity),
		TotalTrades:      totalTrades,
	}, nil
}

// periodReturns computes simple percentage changes between consecutive
// equity points.
func periodReturns(equity core.EquityCurve) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		returns[i-1] = equity[i]/equity[i-1] - 1
	}
	return returns
}

// sharpeRatio computes the annualized risk-adjusted return with a risk-free
// rate of zero. Uses the sample standard deviation; zero variance or fewer
// than two returns yields 0, not NaN.
func sharpeRatio(returns []float64, annualizationFactor int) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	stdDev := math.Sqrt(variance / float64(len(returns)-1))

	if stdDev == 0 {
		return 0
	}

	return mean / stdDev * math.Sqrt(float64(annualizationFactor))
}

// maxDrawdown finds the largest decline from the running equity peak.
// The result is <= 0; a curve that never declines (or a single point)
// yields 0.
func maxDrawdown(equity core.EquityCurve) float64 {
	var maxDD float64
	peak := equity[0]

	for _, v := range equity {
		if v > peak {
			peak = v
		}
		dd := (v - peak) / peak
		if dd < maxDD {
			maxDD = dd
		}
	}

	return maxDD
}
