package commands

import (
	"fmt"
	"strings"

	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/database"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/quote"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/lib/helpers"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommandList handles /list, showing this chat's alerts with the cached
// current price and the age of each alert.
func CommandList(chatID int64) (string, error) {
	log.Debugf("processing command /list for chat %d", chatID)

	alerts, err := database.GetAlertsByChatID(chatID)
	if err != nil {
		return "", errors.Wrap(err, "command /list")
	}

	if len(alerts) == 0 {
		return helpers.EscapeMarkdownV2("📋 You have no active alerts. Use /add to create one."), nil
	}

	var b strings.Builder
	b.WriteString("📋 *Your Active Alerts:*\n\n")

	for _, alert := range alerts {
		current := "N/A"
		if q, found := quote.Get(alert.Symbol); found {
			current = helpers.FormatRupees(q.Price, false)
		}

		b.WriteString(fmt.Sprintf("*%s*\n", helpers.EscapeMarkdownV2(alert.Symbol)))
		b.WriteString(fmt.Sprintf("Current: %s\n", helpers.EscapeMarkdownV2(current)))
		b.WriteString(fmt.Sprintf("Range: %s \\- %s\n",
			helpers.FormatRupees(alert.LowerPrice, true),
			helpers.FormatRupees(alert.UpperPrice, true),
		))

		if created := helpers.ParseDBTime(alert.CreatedAt); !created.IsZero() {
			b.WriteString(fmt.Sprintf("Added: %s\n", helpers.EscapeMarkdownV2(humanize.Time(created))))
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
