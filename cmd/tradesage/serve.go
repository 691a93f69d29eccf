package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khushi-saxena/TradeSage/internal/analysis"
	"github.com/khushi-saxena/TradeSage/internal/analysis/factory"
	"github.com/khushi-saxena/TradeSage/internal/api"
	"github.com/khushi-saxena/TradeSage/internal/api/job"
	"github.com/khushi-saxena/TradeSage/internal/backtest"
	"github.com/khushi-saxena/TradeSage/internal/dataset"
	"github.com/khushi-saxena/TradeSage/internal/logger"
	"github.com/khushi-saxena/TradeSage/internal/metrics"
	"github.com/khushi-saxena/TradeSage/internal/report"
	"github.com/khushi-saxena/TradeSage/internal/strategy"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TradeSage API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	cfg, err := loadConfig(log)
	if err != nil {
		return err
	}

	log.Info("starting TradeSage server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	// Register the configured strategies so they show up in the listing
	engine := strategy.NewEngine(log)
	sma, err := newStrategy("sma_crossover", cfg.Backtest.ShortWindow, cfg.Backtest.LongWindow, log)
	if err != nil {
		return err
	}
	ema, err := newStrategy("ema_crossover", cfg.Backtest.ShortWindow, cfg.Backtest.LongWindow, log)
	if err != nil {
		return err
	}
	engine.Register(sma)
	engine.Register(ema)

	deps := api.Dependencies{
		Backtester: backtest.New(engine, log),
		Strategies: engine,
		Prices:     dataset.NewYahoo(),
		Jobs: job.NewStore(cfg.Server.MaxJobs,
			time.Duration(cfg.Server.JobTTLHours)*time.Hour),
		Defaults: cfg.Backtest,
	}

	if cfg.Metrics.Enabled {
		deps.Metrics = metrics.NewRegistry()
	}

	if cfg.Archive.Enabled {
		storage, err := newArchiveStorage(cfg.Archive)
		if err != nil {
			return fmt.Errorf("creating archive storage: %w", err)
		}
		deps.Archiver = report.NewArchiver(storage, log)
	}

	if cfg.LLM.Provider != "" {
		provider, err := factory.New(cfg.LLM)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}
		deps.Analyst = analysis.NewAnalyst(provider, log)
	}

	server, err := api.NewServer(api.Config{
		Host:        cfg.Server.Host,
		Port:        cfg.Server.Port,
		APIKey:      cfg.Server.APIKey,
		MetricsPath: cfg.Metrics.Path,
	}, deps, log)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Error("server error", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down TradeSage server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
