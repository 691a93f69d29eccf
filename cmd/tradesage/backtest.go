package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khushi-saxena/TradeSage/internal/analysis"
	"github.com/khushi-saxena/TradeSage/internal/analysis/factory"
	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/config"
	"github.com/khushi-saxena/TradeSage/internal/core"
	"github.com/khushi-saxena/TradeSage/internal/dataset"
	"github.com/khushi-saxena/TradeSage/internal/logger"
	"github.com/khushi-saxena/TradeSage/internal/report"
	"github.com/khushi-saxena/TradeSage/internal/strategy"
	"github.com/khushi-saxena/TradeSage/internal/strategy/emacross"
	"github.com/khushi-saxena/TradeSage/internal/strategy/smacross"
)

var (
	backtestCSV      string
	backtestSymbol   string
	backtestFrom     string
	backtestTo       string
	backtestShort    int
	backtestLong     int
	backtestCapital  float64
	backtestAnnual   int
	backtestNoStore  bool
	backtestExplain  bool
	backtestStrategy string
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a backtest and show performance statistics",
	Long: `Run a moving-average crossover strategy against historical prices
from a CSV file or fetched by symbol, and print the performance report.`,
	RunE: runBacktest,
}

func init() {
	backtestCmd.Flags().StringVar(&backtestCSV, "csv", "", "CSV file with date,close rows")
	backtestCmd.Flags().StringVar(&backtestSymbol, "symbol", "", "Symbol to fetch prices for")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Start date YYYY-MM-DD (with --symbol)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "End date YYYY-MM-DD (with --symbol)")
	backtestCmd.Flags().StringVar(&backtestStrategy, "strategy", "", "Strategy name (default from config)")
	backtestCmd.Flags().IntVar(&backtestShort, "short", 0, "Short window (default from config)")
	backtestCmd.Flags().IntVar(&backtestLong, "long", 0, "Long window (default from config)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "Initial capital (default from config)")
	backtestCmd.Flags().IntVar(&backtestAnnual, "annualization", 0, "Annualization factor (default from config)")
	backtestCmd.Flags().BoolVar(&backtestNoStore, "no-archive", false, "Skip archiving run artifacts")
	backtestCmd.Flags().BoolVar(&backtestExplain, "explain", false, "Generate LLM commentary on the result")

	rootCmd.AddCommand(backtestCmd)
}

// newStrategy builds the requested strategy instance.
func newStrategy(name string, short, long int, log *zap.Logger) (strategy.Strategy, error) {
	switch name {
	case "sma_crossover":
		return smacross.New(short, long, log)
	case "ema_crossover":
		return emacross.New(short, long, log)
	default:
		return nil, core.WrapError(core.ErrStrategyNotFound,
			fmt.Errorf("unknown strategy %q", name))
	}
}

func runBacktest(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	// Flags override configured defaults
	params := cfg.Backtest
	if backtestStrategy != "" {
		params.Strategy = backtestStrategy
	}
	if backtestShort != 0 {
		params.ShortWindow = backtestShort
	}
	if backtestLong != 0 {
		params.LongWindow = backtestLong
	}
	if backtestCapital != 0 {
		params.InitialCapital = backtestCapital
	}
	if backtestAnnual != 0 {
		params.AnnualizationFactor = backtestAnnual
	}

	ctx := context.Background()

	prices, symbol, err := loadPrices(ctx)
	if err != nil {
		return err
	}

	strat, err := newStrategy(params.Strategy, params.ShortWindow, params.LongWindow, log)
	if err != nil {
		return err
	}

	backtester := backtest.New(strategy.NewEngine(log), log)
	result, err := backtester.RunWith(ctx, strat, symbol, prices, backtest.Params{
		InitialCapital:      params.InitialCapital,
		AnnualizationFactor: params.AnnualizationFactor,
	})
	if err != nil {
		return fmt.Errorf("running backtest: %w", err)
	}

	fmt.Print(report.Render(result))

	if cfg.Archive.Enabled && !backtestNoStore {
		runID, err := archiveRun(ctx, cfg, result, log)
		if err != nil {
			log.Warn("archiving run failed", zap.Error(err))
		} else {
			fmt.Printf("\nRun archived as %s\n", runID)
		}
	}

	// Commentary is best-effort: a failed explanation never fails the run.
	if backtestExplain {
		if err := explainRun(ctx, cfg, result, log); err != nil {
			log.Warn("commentary unavailable", zap.Error(err))
		}
	}

	return nil
}

// loadPrices reads the series from the CSV flag or fetches it by symbol.
func loadPrices(ctx context.Context) (core.PriceSeries, string, error) {
	if backtestCSV != "" {
		prices, err := dataset.LoadCSV(backtestCSV)
		if err != nil {
			return nil, "", fmt.Errorf("loading CSV: %w", err)
		}
		return prices, backtestSymbol, nil
	}

	if backtestSymbol == "" {
		return nil, "", fmt.Errorf("either --csv or --symbol is required")
	}
	start, err := time.Parse("2006-01-02", backtestFrom)
	if err != nil {
		return nil, "", fmt.Errorf("invalid from date (expected YYYY-MM-DD): %w", err)
	}
	end, err := time.Parse("2006-01-02", backtestTo)
	if err != nil {
		return nil, "", fmt.Errorf("invalid to date (expected YYYY-MM-DD): %w", err)
	}
	if end.Before(start) {
		return nil, "", fmt.Errorf("end date must be after start date")
	}

	prices, err := dataset.NewYahoo().FetchDaily(ctx, backtestSymbol, start, end)
	if err != nil {
		return nil, "", fmt.Errorf("fetching prices: %w", err)
	}
	return prices, backtestSymbol, nil
}

func archiveRun(ctx context.Context, cfg *config.Config, result *backtest.Result, log *zap.Logger) (string, error) {
	storage, err := newArchiveStorage(cfg.Archive)
	if err != nil {
		return "", err
	}
	runID := uuid.NewString()
	if err := report.NewArchiver(storage, log).Archive(ctx, runID, result); err != nil {
		return "", err
	}
	return runID, nil
}

func explainRun(ctx context.Context, cfg *config.Config, result *backtest.Result, log *zap.Logger) error {
	if cfg.LLM.Provider == "" {
		return fmt.Errorf("--explain requires an llm provider in the config")
	}
	provider, err := factory.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating LLM provider: %w", err)
	}

	commentary, err := analysis.NewAnalyst(provider, log).Explain(ctx, result)
	if err != nil {
		return fmt.Errorf("generating commentary: %w", err)
	}

	fmt.Printf("\nCommentary (%s):\n%s\n", provider.Name(), commentary)
	return nil
}
