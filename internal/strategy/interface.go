package strategy

import (
	"github.com/khushi-saxena/TradeSage/internal/core"
)

// Strategy turns a price series into a position series. Implementations must
// be pure: identical inputs produce identical outputs, and the returned
// series is aligned 1:1 with the input prices.
type Strategy interface {
	Name() string
	Description() string

	// Signals returns the desired exposure at each bar. Bars without enough
	// trailing history must be flat, never an error.
	Signals(prices []float64) ([]core.Position, error)
}
