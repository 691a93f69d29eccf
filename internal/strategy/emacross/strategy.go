package emacross

import (
	"fmt"

	"github.com/khushi-saxena/TradeSage/internal/core"
	"github.com/khushi-saxena/TradeSage/internal/indicator"
	"github.com/khushi-saxena/TradeSage/internal/strategy"
	"go.uber.org/zap"
)

// EMACross is the exponential-moving-average variant of the crossover rule.
// It shares the SMA crossover's contract: long while the short EMA is
// strictly above the long EMA, flat otherwise, warm-up bars flat.
type EMACross struct {
	shortWindow int
	longWindow  int
	logger      *zap.Logger
}

var _ strategy.Strategy = (*EMACross)(nil)

// New creates an EMA crossover strategy with the same parameter rules as the
// SMA variant.
func New(shortWindow, longWindow int, logger *zap.Logger) (*EMACross, error) {
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
	return &EMACross{
		shortWindow: shortWindow,
		longWindow:  longWindow,
		logger:      logger,
	}, nil
}

func (s *EMACross) Name() string {
	return "ema_crossover"
}

func (s *EMACross) Description() string {
	return fmt.Sprintf("EMA Crossover (%d/%d)", s.shortWindow, s.longWindow)
}

func (s *EMACross) Signals(prices []float64) ([]core.Position, error) {
	signals := make([]core.Position, len(prices))
	if len(prices) < s.longWindow {
		return signals, nil
	}

	shortMA := indicator.EMA(prices, s.shortWindow)
	longMA := indicator.EMA(prices, s.longWindow)

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
