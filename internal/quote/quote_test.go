package quote

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetCache() {
	quotesMutex.Lock()
	defer quotesMutex.Unlock()
	quotes = make(map[string]Quote)
	history = make(map[string][]Point)
}

func withFakeYahoo(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	oldURL := baseURL
	baseURL = server.URL
	t.Cleanup(func() {
		baseURL = oldURL
		server.Close()
	})
}

func chartPayload(symbol string, price float64, marketTime int64) string {
	return fmt.Sprintf(`{
		"chart": {
			"result": [{
				"meta": {
					"symbol": "%s.NS",
					"currency": "INR",
					"regularMarketPrice": %f,
					"regularMarketTime": %d
				},
				"timestamp": [%d, %d],
				"indicators": {"quote": [{"close": [%f, null]}]}
			}],
			"error": null
		}
	}`, symbol, price, marketTime, marketTime-600, marketTime-300, price-1.5)
}

func TestFetchQuote(t *testing.T) {
	resetCache()

	marketTime := time.Now().Unix()
	withFakeYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/ETERNAL.NS", r.URL.Path)
		assert.Equal(t, "1d", r.URL.Query().Get("range"))
		fmt.Fprint(w, chartPayload("ETERNAL", 275.456, marketTime))
	})

	q, err := FetchQuote("ETERNAL")
	require.NoError(t, err)
	assert.Equal(t, "ETERNAL", q.Symbol)
	assert.Equal(t, 275.46, q.Price) // rounded to 2 decimals
	assert.Equal(t, marketTime, q.UpdatedAt.Unix())

	cached, found := Get("ETERNAL")
	require.True(t, found)
	assert.Equal(t, q, cached)
}

func TestFetchQuoteRecordsHistory(t *testing.T) {
	resetCache()

	marketTime := time.Now().Unix()
	withFakeYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, chartPayload("TCS", 4100.0, marketTime))
	})

	_, err := FetchQuote("TCS")
	require.NoError(t, err)

	points := History("TCS")
	// one point from the quote itself, one from the series (the null close is skipped)
	require.Len(t, points, 2)
	assert.Equal(t, 4098.5, points[0].Price)
	assert.Equal(t, 4100.0, points[1].Price)
	assert.True(t, points[0].Time.Before(points[1].Time))
}

func TestFetchQuoteAPIError(t *testing.T) {
	resetCache()

	withFakeYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`)
	})

	_, err := FetchQuote("NOTASTOCK")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol may be delisted")

	_, found := Get("NOTASTOCK")
	assert.False(t, found)
}

func TestFetchQuoteHTTPError(t *testing.T) {
	resetCache()

	withFakeYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := FetchQuote("RELIANCE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestHistoryBoundedAndOrdered(t *testing.T) {
	resetCache()

	base := time.Now()
	for i := 0; i < maxHistoryPoints+10; i++ {
		Put("INFY", Quote{
			Symbol:    "INFY",
			Price:     1500 + float64(i),
			UpdatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	points := History("INFY")
	require.Len(t, points, maxHistoryPoints)
	assert.Equal(t, 1500.0+10, points[0].Price)

	// stale observations are dropped
	Put("INFY", Quote{Symbol: "INFY", Price: 1.0, UpdatedAt: base})
	assert.Len(t, History("INFY"), maxHistoryPoints)
}

func TestMarketOpen(t *testing.T) {
	ist := istZone()

	tests := []struct {
		name string
		t    time.Time
		open bool
	}{
		{"mid session", time.Date(2024, 8, 21, 11, 0, 0, 0, ist), true},
		{"opening bell", time.Date(2024, 8, 21, 9, 15, 0, 0, ist), true},
		{"closing bell", time.Date(2024, 8, 21, 15, 30, 0, 0, ist), true},
		{"pre open", time.Date(2024, 8, 21, 9, 14, 0, 0, ist), false},
		{"after close", time.Date(2024, 8, 21, 15, 31, 0, 0, ist), false},
		{"saturday", time.Date(2024, 8, 24, 11, 0, 0, 0, ist), false},
		{"sunday", time.Date(2024, 8, 25, 11, 0, 0, 0, ist), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.open, MarketOpen(tt.t))
		})
	}
}
