package feed

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/stockharvest/stockharvest/model"
)

const (
	DefaultYahooURL  = "https://query2.finance.yahoo.com"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/91.0.4472.124"

	yahooChartPath     = "/v8/finance/chart/{symbol}"
	defaultHTTPTimeout = 10 * time.Second
	yahooChartInterval = "1d"
)

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type yahooScraper struct {
	client *resty.Client
}

// NewYahooProvider builds a Yahoo Finance chart-API feed. The client is
// configured once from cfg; all requests share the same identification
// header and timeout.
func NewYahooProvider(cfg ClientConfig) Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultYahooURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultHTTPTimeout
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout)
	return &yahooScraper{client: client}
}

// FetchHistory downloads the daily OHLCV history for a symbol over the given
// range descriptor. A chart with no timestamps is an empty frame, not an
// error.
func (y *yahooScraper) FetchHistory(ctx context.Context, symbol, period string) (*model.Frame, error) {
	var chart yahooChartResponse
	resp, err := y.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": yahooChartInterval,
			"range":    period,
		}).
		SetResult(&chart).
		Get(yahooChartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("API error %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return &model.Frame{}, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return &model.Frame{}, nil
	}
	quote := result.Indicators.Quote[0]

	n := len(result.Timestamp)
	dates := make([]float64, n)
	for i, ts := range result.Timestamp {
		dates[i] = float64(ts)
	}
	return &model.Frame{Cols: []model.Column{
		{Name: "timestamp", Values: dates},
		{Name: "close", Values: quoteColumn(quote.Close, n)},
		{Name: "high", Values: quoteColumn(quote.High, n)},
		{Name: "low", Values: quoteColumn(quote.Low, n)},
		{Name: "open", Values: quoteColumn(quote.Open, n)},
		{Name: "volume", Values: quoteColumn(quote.Volume, n)},
	}}, nil
}

// quoteColumn pads a quote array to the timestamp count and squashes the
// nulls Yahoo sometimes returns for halted sessions.
func quoteColumn(values []float64, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n && i < len(values); i++ {
		if math.IsNaN(values[i]) {
			continue
		}
		out[i] = values[i]
	}
	return out
}
