package core

import "time"

// DefaultAnnualizationFactor is the conventional number of trading periods
// per year for daily bars.
const DefaultAnnualizationFactor = 252

// PricePoint is a single observation in a price series.
type PricePoint struct {
	Time  time.Time
	Close float64
}

// PriceSeries is an ordered sequence of closing prices. Timestamps must be
// strictly increasing and every close must be positive; Validate enforces
// both. The engine borrows a series read-only and never mutates it.
type PriceSeries []PricePoint

// Closes returns the closing prices as a plain slice.
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Validate checks the series invariants: strictly increasing timestamps and
// positive closes. A violated invariant is a data-quality error, not a
// degenerate-but-valid input.
func (s PriceSeries) Validate() error {
	for i, p := range s {
		if p.Close <= 0 {
			return WrapError(ErrDataQuality, &SeriesViolation{Index: i, Reason: "non-positive close"})
		}
		if i > 0 && !p.Time.After(s[i-1].Time) {
			return WrapError(ErrDataQuality, &SeriesViolation{Index: i, Reason: "timestamp not strictly increasing"})
		}
	}
	return nil
}

// Position is the desired exposure at a bar.
type Position int8

const (
	PositionFlat Position = 0
	PositionLong Position = 1
)

func (p Position) String() string {
	if p == PositionLong {
		return "long"
	}
	return "flat"
}

// TradeDirection classifies a signal transition.
type TradeDirection string

const (
	EnterLong TradeDirection = "enter_long"
	ExitLong  TradeDirection = "exit_long"
)

// TradeEvent marks the bar at which the signal series changed value.
type TradeEvent struct {
	Index     int
	Direction TradeDirection
}

// EquityCurve is the simulated portfolio value per bar. It has the same
// length as the price series it was derived from and starts at the initial
// capital.
type EquityCurve []float64

// PerformanceReport is the fixed summary of a backtest run. All fields are
// finite for well-formed input; a NaN anywhere is an internal defect.
type PerformanceReport struct {
	CumulativeReturn float64 `json:"cumulative_return"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	MaxDrawdown      float64 `json:"max_drawdown"`
	TotalTrades      int     `json:"total_trades"`
}
