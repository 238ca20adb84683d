package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/stockharvest/stockharvest/config"
	"github.com/stockharvest/stockharvest/downloader"
	"github.com/stockharvest/stockharvest/feed"
	"github.com/stockharvest/stockharvest/logging"
)

func main() {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	provider, err := feed.NewProvider(cfg.Provider, feed.ClientConfig{
		UserAgent: cfg.UserAgent,
		APIKey:    cfg.AlphaVantageKey,
		DataDir:   cfg.LocalDataDir,
		Timeout:   cfg.RequestTimeout,
	})
	if err != nil {
		logger.Fatal("failed to build data feed provider", zap.Error(err))
	}

	dl := downloader.New(provider, logger, downloader.Options{
		Period:     cfg.Period,
		MaxRetries: cfg.MaxRetries,
	})
	results := dl.Download(context.Background(), cfg.Symbols)

	symbols := make([]string, 0, len(results))
	for symbol := range results {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	for _, symbol := range symbols {
		series := results[symbol]
		first := series.Bars[0]
		last := series.Bars[len(series.Bars)-1]
		fmt.Printf("%s: %d bars from %s to %s, last close %.2f\n",
			symbol, len(series.Bars),
			first.Date.Format("2006-01-02"), last.Date.Format("2006-01-02"),
			last.Close)
	}
}
