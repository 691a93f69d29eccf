// internal/analysis/commentary.go
package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/core"
)

const systemPrompt = `You are a quantitative analyst reviewing the results of a
moving-average crossover backtest. Comment on the risk-adjusted performance,
the drawdown, and the trading frequency. Be concise and concrete; do not give
investment advice.`

// Analyst turns a backtest result into natural-language commentary.
type Analyst struct {
	provider Provider
	logger   *zap.Logger
}

// NewAnalyst creates an Analyst on top of the given provider.
func NewAnalyst(provider Provider, logger *zap.Logger) *Analyst {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyst{provider: provider, logger: logger}
}

// Explain asks the provider for commentary on the result.
func (a *Analyst) Explain(ctx context.Context, result *backtest.Result) (string, error) {
	resp, err := a.provider.Chat(ctx, ChatRequest{
		SystemPrompt: systemPrompt,
		Messages: []Message{
			{Role: "user", Content: buildPrompt(result)},
		},
		MaxTokens:   1024,
		Temperature: 0.3,
	})
	if err != nil {
		return "", core.WrapError(core.ErrAnalysisFailed, err)
	}

	a.logger.Info("generated commentary",
		zap.String("provider", a.provider.Name()),
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens))

	commentary := strings.TrimSpace(resp.Content)
	if commentary == "" {
		return "", core.WrapError(core.ErrAnalysisFailed,
			fmt.Errorf("provider %s returned empty commentary", a.provider.Name()))
	}
	return commentary, nil
}

func buildPrompt(result *backtest.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Strategy: %s\n", result.Strategy)
	if result.Symbol != "" {
		fmt.Fprintf(&b, "Symbol: %s\n", result.Symbol)
	}
	fmt.Fprintf(&b, "Period: %s to %s (%d bars)\n",
		result.StartDate.Format("2006-01-02"),
		result.EndDate.Format("2006-01-02"),
		len(result.Equity))
	fmt.Fprintf(&b, "Cumulative return: %.4f\n", result.Report.CumulativeReturn)
	fmt.Fprintf(&b, "Annualized Sharpe ratio: %.4f\n", result.Report.SharpeRatio)
	fmt.Fprintf(&b, "Maximum drawdown: %.4f\n", result.Report.MaxDrawdown)
	fmt.Fprintf(&b, "Total trades: %d\n", result.Report.TotalTrades)

	return b.String()
}
