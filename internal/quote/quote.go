package quote

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/VedanthMalhotra/Dad-Stock-Alerts/config"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/database"
	"github.com/jpillora/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Quote is the latest known price for an NSE symbol.
type Quote struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Point is a single intraday observation kept for charting.
type Point struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
}

const (
	fetchTimeout     = 20 * time.Second
	fetchAttempts    = 3
	maxHistoryPoints = 512
)

// baseURL is swapped out in tests.
var baseURL = "https://query1.finance.yahoo.com"

var httpClient = &http.Client{Timeout: fetchTimeout}

var (
	quotes       = make(map[string]Quote)
	history      = make(map[string][]Point)
	quotesMutex  = sync.RWMutex{}
	istLocation  *time.Location
	locationOnce sync.Once
)

// chartResponse mirrors the parts of the Yahoo Finance v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchQuote fetches the current price for an NSE symbol. Successful fetches
// feed the in-memory cache, including any intraday history in the payload.
func FetchQuote(symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s.NS?range=1d&interval=5m", baseURL, symbol)

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return Quote{}, errors.Wrapf(err, "could not build quote request for %s", symbol)
	}
	// Yahoo rejects the default Go user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; stock-alert-bot/1.0)")

	resp, err := httpClient.Do(req)
	if err != nil {
		return Quote{}, errors.Wrapf(err, "quote request failed for %s", symbol)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, errors.Errorf("quote request for %s returned status %d", symbol, resp.StatusCode)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Quote{}, errors.Wrapf(err, "could not parse quote payload for %s", symbol)
	}

	if payload.Chart.Error != nil {
		return Quote{}, errors.Errorf("quote lookup failed for %s: %s", symbol, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 {
		return Quote{}, errors.Errorf("no quote data for %s", symbol)
	}

	result := payload.Chart.Result[0]
	if result.Meta.RegularMarketPrice <= 0 {
		return Quote{}, errors.Errorf("no market price for %s", symbol)
	}

	q := Quote{
		Symbol:    symbol,
		Price:     round2(result.Meta.RegularMarketPrice),
		UpdatedAt: time.Unix(result.Meta.RegularMarketTime, 0),
	}
	if result.Meta.RegularMarketTime == 0 {
		q.UpdatedAt = time.Now()
	}

	// record the intraday series before the headline quote so history
	// stays ordered oldest first
	if len(result.Indicators.Quote) > 0 {
		recordHistory(symbol, result.Timestamp, result.Indicators.Quote[0].Close)
	}
	Put(symbol, q)

	return q, nil
}

// fetchWithRetry wraps FetchQuote with jittered exponential backoff.
func fetchWithRetry(symbol string) (Quote, error) {
	b := &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    10 * time.Second,
		Jitter: true,
	}

	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		q, err := FetchQuote(symbol)
		if err == nil {
			return q, nil
		}
		lastErr = err
		time.Sleep(b.Duration())
	}
	return Quote{}, lastErr
}

// StartQuoteUpdater starts the background goroutine that refreshes every
// tracked symbol. The tracked set is re-read from the database each cycle.
func StartQuoteUpdater() {
	go updateLoop()
	log.Info("🚀 Quote updater started.")
}

func updateLoop() {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("🔥 Panic recovered in quote updater: %v. Restarting in 10 seconds...", r)
			time.Sleep(10 * time.Second)
			go updateLoop()
		}
	}()

	refresh := time.Duration(config.GetInt("quote_refresh")) * time.Second

	for {
		if config.GetBool("market_hours_only") && !MarketOpen(time.Now()) {
			log.Debug("NSE market closed, skipping quote refresh")
			time.Sleep(refresh)
			continue
		}

		symbols, err := database.TrackedSymbols()
		if err != nil {
			log.Errorf("❌ Failed to load tracked symbols: %v", err)
			time.Sleep(refresh)
			continue
		}

		for _, symbol := range symbols {
			if _, err := fetchWithRetry(symbol); err != nil {
				log.Errorf("❌ Failed to refresh quote for %s: %v", symbol, err)
			}
		}

		if len(symbols) > 0 {
			log.Debugf("✅ Refreshed quotes for %d symbols", len(symbols))
		}

		time.Sleep(refresh)
	}
}

// Put stores a quote in the cache and appends it to the symbol's history.
func Put(symbol string, q Quote) {
	quotesMutex.Lock()
	defer quotesMutex.Unlock()

	quotes[symbol] = q
	appendPointLocked(symbol, Point{Time: q.UpdatedAt, Price: q.Price})
}

// Get retrieves the cached quote for a symbol.
func Get(symbol string) (Quote, bool) {
	quotesMutex.RLock()
	defer quotesMutex.RUnlock()

	q, exists := quotes[symbol]
	return q, exists
}

// History returns a copy of the intraday points recorded for a symbol,
// oldest first.
func History(symbol string) []Point {
	quotesMutex.RLock()
	defer quotesMutex.RUnlock()

	points := history[symbol]
	out := make([]Point, len(points))
	copy(out, points)
	return out
}

// All returns a copy of every cached quote.
func All() map[string]Quote {
	quotesMutex.RLock()
	defer quotesMutex.RUnlock()

	out := make(map[string]Quote, len(quotes))
	for k, v := range quotes {
		out[k] = v
	}
	return out
}

func recordHistory(symbol string, timestamps []int64, closes []*float64) {
	quotesMutex.Lock()
	defer quotesMutex.Unlock()

	for i, ts := range timestamps {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		appendPointLocked(symbol, Point{
			Time:  time.Unix(ts, 0),
			Price: round2(*closes[i]),
		})
	}
}

// appendPointLocked keeps history ordered and bounded. Callers hold quotesMutex.
func appendPointLocked(symbol string, p Point) {
	points := history[symbol]

	if n := len(points); n > 0 && !p.Time.After(points[n-1].Time) {
		return
	}

	points = append(points, p)
	if len(points) > maxHistoryPoints {
		points = points[len(points)-maxHistoryPoints:]
	}
	history[symbol] = points
}

// MarketOpen reports whether the NSE cash market is trading at t
// (09:15-15:30 IST, Monday through Friday).
func MarketOpen(t time.Time) bool {
	ist := t.In(istZone())

	switch ist.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}

	minutes := ist.Hour()*60 + ist.Minute()
	return minutes >= 9*60+15 && minutes <= 15*60+30
}

func istZone() *time.Location {
	locationOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Kolkata")
		if err != nil {
			loc = time.FixedZone("IST", 5*3600+1800)
		}
		istLocation = loc
	})
	return istLocation
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
