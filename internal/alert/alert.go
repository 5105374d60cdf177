package alert

import (
	"fmt"
	"sync"
	"time"

	"github.com/VedanthMalhotra/Dad-Stock-Alerts/config"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/database"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/quote"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/telegram"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/types"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/lib/helpers"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

// Notifier delivers breach notifications. *telegram.Bot satisfies it.
type Notifier interface {
	SendMessage(m telegram.Message) error
}

// AlertsTriggered counts breach notifications sent since first deploy.
// The value is persisted across restarts by the metrics store.
var AlertsTriggered = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "stockalerts",
	Subsystem: "telegram_bot",
	Name:      "alerts_triggered",
	Help:      "The total number of breach notifications sent",
})

func init() {
	prometheus.MustRegister(AlertsTriggered)
}

// alertProcessingMutex ensures only one alert sweep runs at a time
var alertProcessingMutex sync.Mutex

type outcome int

const (
	noChange outcome = iota
	breachUpper
	breachLower
	resetLatches
)

// evaluate decides what a price observation means for an alert. A bound
// notifies once and then latches; both latches clear only when the price
// is strictly inside the band.
func evaluate(a types.Alert, price float64) outcome {
	switch {
	case price >= a.UpperPrice && !a.UpperSent:
		return breachUpper
	case price <= a.LowerPrice && !a.LowerSent:
		return breachLower
	case price > a.LowerPrice && price < a.UpperPrice && (a.UpperSent || a.LowerSent):
		return resetLatches
	}
	return noChange
}

// CheckAlerts compares stored alerts with cached quotes and sends
// notifications. A missing quote for one symbol never blocks the rest.
func CheckAlerts(n Notifier) {
	log.Debug("🔄 Checking alerts...")

	alerts, err := database.GetAllAlerts()
	if err != nil {
		log.Errorf("❌ Failed to fetch alerts from the database: %v", err)
		return
	}

	timestamp := time.Now().In(istZone()).Format("2006-01-02 15:04:05")

	for _, a := range alerts {
		q, exists := quote.Get(a.Symbol)
		if !exists {
			log.Debugf("⚠️ No quote cached yet for symbol: %s", a.Symbol)
			continue
		}

		log.Debugf("🔍 Checking alert ID: %d | Symbol: %s | Range: %.2f-%.2f | Current: %.2f",
			a.ID, a.Symbol, a.LowerPrice, a.UpperPrice, q.Price)

		switch evaluate(a, q.Price) {
		case breachUpper:
			sendBreach(n, a, q.Price, "UPPER", a.UpperPrice, timestamp)
			if err := database.SetAlertLatches(a.ID, true, a.LowerSent); err != nil {
				log.Errorf("❌ Failed to latch upper breach for alert ID %d: %v", a.ID, err)
			}
		case breachLower:
			sendBreach(n, a, q.Price, "LOWER", a.LowerPrice, timestamp)
			if err := database.SetAlertLatches(a.ID, a.UpperSent, true); err != nil {
				log.Errorf("❌ Failed to latch lower breach for alert ID %d: %v", a.ID, err)
			}
		case resetLatches:
			if err := database.SetAlertLatches(a.ID, false, false); err != nil {
				log.Errorf("❌ Failed to reset latches for alert ID %d: %v", a.ID, err)
			}
		}
	}

	log.Debug("✅ Alert check completed.")
}

func sendBreach(n Notifier, a types.Alert, price float64, side string, threshold float64, timestamp string) {
	message := fmt.Sprintf(
		"🚨 *PRICE ALERT \\- %s BREACH* 🚨\n\nStock: *%s*\nCurrent Price: %s\n%s Threshold: %s\nTime: %s",
		side,
		helpers.EscapeMarkdownV2(a.Symbol),
		helpers.FormatRupees(price, true),
		sideLabel(side),
		helpers.FormatRupees(threshold, true),
		helpers.EscapeMarkdownV2(timestamp),
	)

	err := n.SendMessage(telegram.Message{
		ChatID: a.ChatID,
		Text:   message,
	})
	if err != nil {
		log.Errorf("❌ Failed to send breach notification: %v", err)
	} else {
		log.Infof("✅ %s breach notification sent for %s to Chat ID: %d", side, a.Symbol, a.ChatID)
	}

	AlertsTriggered.Inc()
}

func sideLabel(side string) string {
	if side == "UPPER" {
		return "Upper"
	}
	return "Lower"
}

// StartAlertService starts a background service sweeping alerts on the
// configured interval.
func StartAlertService(n Notifier) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("🔥 Panic recovered in alert checker: %v. Restarting alert checker in 10 seconds...", r)
				time.Sleep(10 * time.Second)
				StartAlertService(n)
			}
		}()

		interval := time.Duration(config.GetInt("check_interval")) * time.Second
		for {
			alertProcessingMutex.Lock()
			CheckAlerts(n)
			alertProcessingMutex.Unlock()
			time.Sleep(interval)
		}
	}()
	log.Info("🚀 Alert service started.")
}

var (
	istLocation *time.Location
	istOnce     sync.Once
)

func istZone() *time.Location {
	istOnce.Do(func() {
		loc, err := time.LoadLocation("Asia/Kolkata")
		if err != nil {
			loc = time.FixedZone("IST", 5*3600+1800)
		}
		istLocation = loc
	})
	return istLocation
}
