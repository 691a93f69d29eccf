// Package report renders and persists backtest results. The engine hands a
// result to this collaborator; nothing here feeds back into the simulation.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/khushi-saxena/TradeSage/internal/backtest"
)

// Render formats the performance report as fixed-width text, metrics to four
// decimal places and the trade count as an integer.
func Render(result *backtest.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Backtest Results\n")
	fmt.Fprintf(&b, "  Strategy:          %s\n", result.Strategy)
	if result.Symbol != "" {
		fmt.Fprintf(&b, "  Symbol:            %s\n", result.Symbol)
	}
	fmt.Fprintf(&b, "  Period:            %s to %s\n",
		result.StartDate.Format("2006-01-02"), result.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "  Cumulative Return: %.4f\n", result.Report.CumulativeReturn)
	fmt.Fprintf(&b, "  Sharpe Ratio:      %.4f\n", result.Report.SharpeRatio)
	fmt.Fprintf(&b, "  Max Drawdown:      %.4f\n", result.Report.MaxDrawdown)
	fmt.Fprintf(&b, "  Total Trades:      %d\n", result.Report.TotalTrades)

	return b.String()
}

// WriteEquityCSV writes the equity curve as date,equity rows.
func WriteEquityCSV(w io.Writer, result *backtest.Result) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"date", "equity"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	// The curve is aligned 1:1 with the price series, so dates advance from
	// the run's start at the data frequency recorded in the result.
	step := inferStep(result)
	for i, v := range result.Equity {
		record := []string{
			result.StartDate.Add(time.Duration(i) * step).Format("2006-01-02"),
			strconv.FormatFloat(v, 'f', 2, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// inferStep derives the average bar spacing from the run period. Good
// enough for artifact labelling; the authoritative timestamps live with the
// caller's price series.
func inferStep(result *backtest.Result) time.Duration {
	if len(result.Equity) < 2 {
		return 24 * time.Hour
	}
	return result.EndDate.Sub(result.StartDate) / time.Duration(len(result.Equity)-1)
}

// ResultJSON serializes the result summary for archiving.
func ResultJSON(result *backtest.Result) ([]byte, error) {
	payload := struct {
		Strategy    string  `json:"strategy"`
		Symbol      string  `json:"symbol,omitempty"`
		StartDate   string  `json:"start_date"`
		EndDate     string  `json:"end_date"`
		Bars        int     `json:"bars"`
		FinalEquity float64 `json:"final_equity"`

		CumulativeReturn float64 `json:"cumulative_return"`
		SharpeRatio      float64 `json:"sharpe_ratio"`
		MaxDrawdown      float64 `json:"max_drawdown"`
		TotalTrades      int     `json:"total_trades"`
	}{
		Strategy:         result.Strategy,
		Symbol:           result.Symbol,
		StartDate:        result.StartDate.Format("2006-01-02"),
		EndDate:          result.EndDate.Format("2006-01-02"),
		Bars:             len(result.Equity),
		FinalEquity:      result.Equity[len(result.Equity)-1],
		CumulativeReturn: result.Report.CumulativeReturn,
		SharpeRatio:      result.Report.SharpeRatio,
		MaxDrawdown:      result.Report.MaxDrawdown,
		TotalTrades:      result.Report.TotalTrades,
	}
	return json.MarshalIndent(payload, "", "  ")
}
