package smacross

import (
	"fmt"

	"github.com/khushi-saxena/TradeSage/internal/core"
	"github.com/khushi-saxena/TradeSage/internal/indicator"
	"github.com/khushi-saxena/TradeSage/internal/strategy"
	"go.uber.org/zap"
)

// SMACross implements a simple moving average crossover strategy: long while
// the short-window SMA is strictly above the long-window SMA, flat otherwise.
// Equality counts as flat, a deliberate tie-break to avoid oscillation noise.
type SMACross struct {
	shortWindow int
	longWindow  int
	logger      *zap.Logger
}

var _ strategy.Strategy = (*SMACross)(nil)

// New creates an SMA crossover strategy. Both windows must be at least 1.
// A short window that is not smaller than the long window is degenerate but
// well-defined; it is logged at warning level rather than rejected.
func New(shortWindow, longWindow int, logger *zap.Logger) (*SMACross, error) {
	if shortWindow < 1 || longWindow < 1 {
		return nil, core.WrapError(core.ErrInvalidParameter,
			fmt.Errorf("window sizes must be >= 1, got short=%d long=%d", shortWindow, longWindow))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if shortWindow >= longWindow {
		logger.Warn("short window is not smaller than long window, signals will be degenerate",
			zap.Int("short_window", shortWindow),
			zap.Int("long_window", longWindow),
		)
	}
	return &SMACross{
		shortWindow: shortWindow,
		longWindow:  longWindow,
		logger:      logger,
	}, nil
}

func (s *SMACross) Name() string {
	return "sma_crossover"
}

func (s *SMACross) Description() string {
	return fmt.Sprintf("SMA Crossover (%d/%d)", s.shortWindow, s.longWindow)
}

// Signals computes the position series. Bars where either moving average is
// still undefined are flat; a series shorter than the long window is entirely
// flat, not an error.
func (s *SMACross) Signals(prices []float64) ([]core.Position, error) {
	signals := make([]core.Position, len(prices))
	if len(prices) < s.longWindow {
		return signals, nil
	}

	shortMA := indicator.SMA(prices, s.shortWindow)
	longMA := indicator.SMA(prices, s.longWindow)

	for i := range prices {
		if !indicator.Defined(shortMA[i]) || !indicator.Defined(longMA[i]) {
			continue
		}
		if shortMA[i] > longMA[i] {
			signals[i] = core.PositionLong
		}
	}

	return signals, nil
}
