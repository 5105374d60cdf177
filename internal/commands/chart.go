package commands

import (
	"bytes"
	"fmt"
	"time"

	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/quote"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/lib/helpers"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wcharczuk/go-chart/v2"
)

const chartCacheTTL = 5 * time.Minute

// CommandChart handles /chart STOCK. It renders the intraday history
// collected by the quote updater as a PNG time series. When the symbol is
// not yet tracked, a one-shot fetch seeds the history first. Returns nil
// chart data with a user-facing caption when there is nothing to draw.
func CommandChart(args string) ([]byte, string, error) {
	symbol, err := parseSymbolArg(args)
	if err != nil {
		return nil, helpers.EscapeMarkdownV2("❌ Use: /chart STOCK\nExample: /chart ETERNAL"), nil
	}

	log.Debugf("processing command /chart for %s", symbol)

	if cachedItem, found := cacheGet(symbol); found {
		log.Debugf("returning cached chart for %s", symbol)
		return cachedItem.ChartData, cachedItem.Caption, nil
	}

	points := quote.History(symbol)
	if len(points) < 2 {
		if _, fetchErr := quote.FetchQuote(symbol); fetchErr != nil {
			log.Debugf("chart fetch failed for %s: %v", symbol, fetchErr)
			return nil, helpers.EscapeMarkdownV2(fmt.Sprintf("⚠️ Could not fetch price for %s. Check the NSE symbol.", symbol)), nil
		}
		points = quote.History(symbol)
	}

	if len(points) < 2 {
		return nil, helpers.EscapeMarkdownV2(fmt.Sprintf("📈 Not enough intraday data for %s yet. Try again in a few minutes.", symbol)), nil
	}

	chartData, err := renderChart(symbol, points)
	if err != nil {
		return nil, "", errors.Wrap(err, "command /chart")
	}

	last := points[len(points)-1]
	caption := fmt.Sprintf("📈 *%s* intraday, last %s",
		helpers.EscapeMarkdownV2(symbol),
		helpers.FormatRupees(last.Price, true),
	)

	cacheSet(symbol, chartData, caption, chartCacheTTL)

	return chartData, caption, nil
}

func renderChart(symbol string, points []quote.Point) ([]byte, error) {
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.Time
		ys[i] = p.Price
	}

	graph := chart.Chart{
		Title:  symbol,
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatterWithFormat("15:04"),
		},
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return helpers.FormatPrice(f, false)
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    symbol,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.GetDefaultColor(0),
					FillColor:   chart.GetDefaultColor(0).WithAlpha(32),
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.Wrapf(err, "could not render chart for %s", symbol)
	}
	return buf.Bytes(), nil
}
