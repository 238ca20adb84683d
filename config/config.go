package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/stockharvest/stockharvest/feed"
)

// Config holds the runtime configuration of a download run.
type Config struct {
	Symbols         []string
	Period          string
	MaxRetries      int
	Provider        string
	UserAgent       string
	RequestTimeout  time.Duration
	AlphaVantageKey string
	LocalDataDir    string
	LogFile         string
	LogLevel        string
}

// Load reads configuration from environment variables. The entry point loads
// a .env file first, so both work.
func Load() (*Config, error) {
	cfg := &Config{
		Symbols:         splitSymbols(getEnv("SYMBOLS", "AAPL,MSFT,GOOGL")),
		Period:          getEnv("PERIOD", "1y"),
		MaxRetries:      getEnvInt("MAX_RETRIES", 3),
		Provider:        getEnv("DATA_FEED_PROVIDER", feed.DataFeedProviderYahoo),
		UserAgent:       getEnv("USER_AGENT", ""),
		RequestTimeout:  time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 10)) * time.Second,
		AlphaVantageKey: getEnv("ALPHA_VANTAGE_API_KEY", ""),
		LocalDataDir:    getEnv("LOCAL_DATA_DIR", "feed/data"),
		LogFile:         getEnv("LOG_FILE", "stock_download.log"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
	if cfg.MaxRetries < 1 {
		return nil, fmt.Errorf("MAX_RETRIES must be at least 1, got %d", cfg.MaxRetries)
	}
	return cfg, nil
}

func splitSymbols(raw string) []string {
	var symbols []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			symbols = append(symbols, s)
		}
	}
	return symbols
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultVal
	}
	return parsed
}
