package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/khushi-saxena/TradeSage/internal/dataset"
	"github.com/khushi-saxena/TradeSage/internal/logger"
)

var (
	fetchSymbol string
	fetchFrom   string
	fetchTo     string
	fetchOut    string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch daily price history to a CSV file",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().StringVar(&fetchSymbol, "symbol", "", "Symbol to fetch (required)")
	fetchCmd.Flags().StringVar(&fetchFrom, "from", "", "Start date YYYY-MM-DD (required)")
	fetchCmd.Flags().StringVar(&fetchTo, "to", "", "End date YYYY-MM-DD (required)")
	fetchCmd.Flags().StringVarP(&fetchOut, "out", "o", "", "Output CSV path (required)")

	fetchCmd.MarkFlagRequired("symbol")
	fetchCmd.MarkFlagRequired("from")
	fetchCmd.MarkFlagRequired("to")
	fetchCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	log := logger.Must(debug)
	defer log.Sync()

	start, err := time.Parse("2006-01-02", fetchFrom)
	if err != nil {
		return fmt.Errorf("invalid from date (expected YYYY-MM-DD): %w", err)
	}
	end, err := time.Parse("2006-01-02", fetchTo)
	if err != nil {
		return fmt.Errorf("invalid to date (expected YYYY-MM-DD): %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("end date must be after start date")
	}

	prices, err := dataset.NewYahoo().FetchDaily(context.Background(), fetchSymbol, start, end)
	if err != nil {
		return fmt.Errorf("fetching prices: %w", err)
	}

	if err := dataset.SaveCSV(fetchOut, prices); err != nil {
		return fmt.Errorf("writing CSV: %w", err)
	}

	log.Info("price history saved",
		zap.String("symbol", fetchSymbol),
		zap.Int("bars", len(prices)),
		zap.String("path", fetchOut))
	fmt.Printf("Saved %d bars for %s to %s\n", len(prices), fetchSymbol, fetchOut)
	return nil
}
