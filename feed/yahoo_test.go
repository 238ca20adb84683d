package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockharvest/stockharvest/model"
)

const yahooChartFixture = `{
	"chart": {
		"result": [{
			"timestamp": [1704153600, 1704240000],
			"indicators": {
				"quote": [{
					"open":   [185.0, 186.5],
					"high":   [187.2, 188.0],
					"low":    [184.1, 185.9],
					"close":  [186.8, 187.4],
					"volume": [52164500, 47340100]
				}]
			}
		}],
		"error": null
	}
}`

func yahooTestServer(t *testing.T, handler http.HandlerFunc) Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewYahooProvider(ClientConfig{
		BaseURL:   srv.URL,
		UserAgent: "stockharvest-test/1.0",
	})
}

func TestYahooFetchHistory(t *testing.T) {
	var gotUserAgent, gotRange, gotPath string
	p := yahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		gotRange = r.URL.Query().Get("range")
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(yahooChartFixture))
	})

	frame, err := p.FetchHistory(context.Background(), "AAPL", "1y")
	require.NoError(t, err)

	assert.Equal(t, "stockharvest-test/1.0", gotUserAgent)
	assert.Equal(t, "1y", gotRange)
	assert.Equal(t, "/v8/finance/chart/AAPL", gotPath)

	require.Len(t, frame.Cols, 6)
	assert.Equal(t, 2, frame.Rows())
	// Provider column order feeding the positional normalization.
	assert.Equal(t, []float64{1704153600, 1704240000}, frame.Cols[model.ColDate].Values)
	assert.Equal(t, []float64{186.8, 187.4}, frame.Cols[model.ColClose].Values)
	assert.Equal(t, []float64{187.2, 188.0}, frame.Cols[model.ColHigh].Values)
	assert.Equal(t, []float64{184.1, 185.9}, frame.Cols[model.ColLow].Values)
	assert.Equal(t, []float64{185.0, 186.5}, frame.Cols[model.ColOpen].Values)
	assert.Equal(t, []float64{52164500, 47340100}, frame.Cols[model.ColVolume].Values)

	series, err := model.Normalize("AAPL", frame)
	require.NoError(t, err)
	assert.Equal(t, 186.8, series.Bars[0].Close)
	assert.Equal(t, int64(52164500), series.Bars[0].Volume)
}

func TestYahooFetchHistoryEmptyResult(t *testing.T) {
	p := yahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart": {"result": [{"timestamp": [], "indicators": {"quote": [{}]}}], "error": null}}`))
	})

	frame, err := p.FetchHistory(context.Background(), "GHOST", "1y")
	require.NoError(t, err)
	assert.True(t, frame.Empty())
}

func TestYahooFetchHistoryAPIError(t *testing.T) {
	p := yahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"chart": {"result": null, "error": {"code": "Not Found", "description": "No data found"}}}`))
	})

	_, err := p.FetchHistory(context.Background(), "NOPE", "1y")
	assert.ErrorContains(t, err, "No data found")
}

func TestYahooFetchHistoryBadStatus(t *testing.T) {
	p := yahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := p.FetchHistory(context.Background(), "AAPL", "1y")
	assert.ErrorContains(t, err, "unexpected status code: 429")
}

func TestYahooFetchHistoryPadsShortQuoteColumns(t *testing.T) {
	p := yahooTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1704153600, 1704240000],
					"indicators": {"quote": [{
						"open": [185.0], "high": [187.2], "low": [184.1],
						"close": [186.8, null], "volume": [52164500, 47340100]
					}]}
				}],
				"error": null
			}
		}`))
	})

	frame, err := p.FetchHistory(context.Background(), "AAPL", "1y")
	require.NoError(t, err)
	assert.Equal(t, []float64{185.0, 0}, frame.Cols[model.ColOpen].Values)
	assert.Equal(t, []float64{186.8, 0}, frame.Cols[model.ColClose].Values)
}
