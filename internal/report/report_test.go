// internal/report/report_test.go
package report

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/core"
	"github.com/khushi-saxena/TradeSage/internal/storage/archive"
)

func sampleResult() *backtest.Result {
	return &backtest.Result{
		Strategy:  "sma_crossover",
		Symbol:    "AAPL",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Equity:    core.EquityCurve{1000, 1000, 900, 900, 900},
		Report: core.PerformanceReport{
			CumulativeReturn: -0.1,
			SharpeRatio:      -7.9373,
			MaxDrawdown:      -0.1,
			TotalTrades:      3,
		},
	}
}

func TestRender(t *testing.T) {
	out := Render(sampleResult())

	assert.Contains(t, out, "Strategy:          sma_crossover")
	assert.Contains(t, out, "Symbol:            AAPL")
	assert.Contains(t, out, "Period:            2024-01-01 to 2024-01-05")
	assert.Contains(t, out, "Cumulative Return: -0.1000")
	assert.Contains(t, out, "Sharpe Ratio:      -7.9373")
	assert.Contains(t, out, "Max Drawdown:      -0.1000")
	assert.Contains(t, out, "Total Trades:      3")
}

func TestRender_NoSymbol(t *testing.T) {
	result := sampleResult()
	result.Symbol = ""

	out := Render(result)
	assert.NotContains(t, out, "Symbol:")
}

func TestWriteEquityCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEquityCSV(&buf, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "date,equity", lines[0])
	assert.Equal(t, "2024-01-01,1000.00", lines[1])
	assert.Equal(t, "2024-01-05,900.00", lines[5])
}

func TestResultJSON(t *testing.T) {
	data, err := ResultJSON(sampleResult())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "sma_crossover", got["strategy"])
	assert.Equal(t, float64(5), got["bars"])
	assert.Equal(t, float64(900), got["final_equity"])
	assert.Equal(t, -0.1, got["cumulative_return"])
	assert.Equal(t, float64(3), got["total_trades"])
}

func TestArchiver_Archive(t *testing.T) {
	fs, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	a := NewArchiver(fs, nil)
	ctx := context.Background()

	require.NoError(t, a.Archive(ctx, "run-123", sampleResult()))

	reportData, err := a.ReadReport(ctx, "run-123")
	require.NoError(t, err)
	assert.Contains(t, string(reportData), `"sharpe_ratio": -7.9373`)

	equityData, err := fs.Read(ctx, "runs/run-123/equity.csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(equityData), "date,equity"))
}

func TestArchiver_ReadReport_Missing(t *testing.T) {
	fs, err := archive.NewLocalFS(t.TempDir())
	require.NoError(t, err)

	_, err = NewArchiver(fs, nil).ReadReport(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrArchiveFailed))
}
