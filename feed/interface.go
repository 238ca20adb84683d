package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/stockharvest/stockharvest/model"
)

const (
	DataFeedProviderYahoo        = "yahoo"
	DataFeedProviderAlphaVantage = "alphavantage"
	DataFeedProviderLocal        = "local"
)

// Provider fetches the raw historical frame for one symbol over an opaque
// period descriptor (e.g. "1y"). The period is passed through to the upstream
// without validation. Implementations must distinguish an empty frame (the
// request succeeded but no data exists for the symbol) from a transport or
// API error.
type Provider interface {
	FetchHistory(ctx context.Context, symbol, period string) (*model.Frame, error)
}

// ClientConfig is the immutable client configuration shared by every request
// a provider makes. It is built once by the entry point; providers never
// mutate headers per call. UserAgent identifies the client to the upstream,
// which lowers the odds of being blocked.
type ClientConfig struct {
	BaseURL   string
	UserAgent string
	APIKey    string
	DataDir   string
	Timeout   time.Duration
}

// NewProvider builds the named data feed provider.
func NewProvider(name string, cfg ClientConfig) (Provider, error) {
	switch name {
	case DataFeedProviderYahoo:
		return NewYahooProvider(cfg), nil
	case DataFeedProviderAlphaVantage:
		return NewAlphaVantageProvider(cfg)
	case DataFeedProviderLocal:
		return NewLocalDataFeed(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported data feed provider: %s", name)
	}
}
