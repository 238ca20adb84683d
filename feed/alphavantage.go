package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/stockharvest/stockharvest/model"
)

const (
	DefaultAlphaVantageURL = "https://www.alphavantage.co"

	avFunction   = "TIME_SERIES_DAILY"
	avOutputSize = "full"
	avDataType   = "json"

	avFieldOpen   = "1. open"
	avFieldHigh   = "2. high"
	avFieldLow    = "3. low"
	avFieldClose  = "4. close"
	avFieldVolume = "5. volume"
	avTimeLayout  = "2006-01-02"
)

type avResponse struct {
	MetaData     map[string]string            `json:"Meta Data"`
	TimeSeries   map[string]map[string]string `json:"Time Series (Daily)"`
	Note         string                       `json:"Note"`
	ErrorMessage string                       `json:"Error Message"`
}

type alphaVantageScrapper struct {
	client *resty.Client
	apiKey string
}

// NewAlphaVantageProvider builds an Alpha Vantage daily time-series feed.
// Alpha Vantage has no range parameter, so the period descriptor is accepted
// and ignored: the full daily history is always requested.
func NewAlphaVantageProvider(cfg ClientConfig) (Provider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("alpha vantage API key is missing")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultAlphaVantageURL
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
	return &alphaVantageScrapper{client: client, apiKey: cfg.APIKey}, nil
}

func (s *alphaVantageScrapper) FetchHistory(ctx context.Context, symbol, _ string) (*model.Frame, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function":   avFunction,
			"symbol":     symbol,
			"outputsize": avOutputSize,
			"datatype":   avDataType,
			"apikey":     s.apiKey,
		}).
		Get("/query")
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("non-200 response: %s", resp.Status())
	}
	return parseAlphaVantage(resp.Body())
}

// parseAlphaVantage decodes an Alpha Vantage daily payload into a raw frame
// with dates ascending. Shared with the local data feed, which replays
// recorded payloads.
func parseAlphaVantage(jsonData []byte) (*model.Frame, error) {
	var response avResponse
	if err := json.Unmarshal(jsonData, &response); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if response.ErrorMessage != "" {
		return nil, fmt.Errorf("API error: %s", response.ErrorMessage)
	}
	// Alpha Vantage reports rate limiting as a 200 with a note.
	if response.Note != "" {
		return nil, fmt.Errorf("rate limited: %s", response.Note)
	}
	if len(response.TimeSeries) == 0 {
		return &model.Frame{}, nil
	}

	dates := make([]string, 0, len(response.TimeSeries))
	for date := range response.TimeSeries {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	n := len(dates)
	frame := &model.Frame{Cols: []model.Column{
		{Name: "date", Values: make([]float64, 0, n)},
		{Name: avFieldClose, Values: make([]float64, 0, n)},
		{Name: avFieldHigh, Values: make([]float64, 0, n)},
		{Name: avFieldLow, Values: make([]float64, 0, n)},
		{Name: avFieldOpen, Values: make([]float64, 0, n)},
		{Name: avFieldVolume, Values: make([]float64, 0, n)},
	}}
	fields := [...]struct {
		col   int
		field string
	}{
		{model.ColClose, avFieldClose},
		{model.ColHigh, avFieldHigh},
		{model.ColLow, avFieldLow},
		{model.ColOpen, avFieldOpen},
		{model.ColVolume, avFieldVolume},
	}
	for _, date := range dates {
		t, err := time.ParseInLocation(avTimeLayout, date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("failed to parse timestamp %q: %w", date, err)
		}
		row := response.TimeSeries[date]
		frame.Cols[model.ColDate].Values = append(frame.Cols[model.ColDate].Values, float64(t.Unix()))
		for _, v := range fields {
			parsed, err := strconv.ParseFloat(row[v.field], 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %q value for %s: %w", v.field, date, err)
			}
			frame.Cols[v.col].Values = append(frame.Cols[v.col].Values, parsed)
		}
	}
	return frame, nil
}
