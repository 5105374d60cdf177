package commands

import (
	"fmt"

	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/database"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/quote"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/lib/helpers"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommandAdd handles /add STOCK LOWER UPPER. The symbol must resolve to a
// live NSE quote before the alert is saved. Re-adding a tracked symbol
// replaces the band and clears the notification latches.
func CommandAdd(chatID int64, args string) (string, error) {
	log.Debugf("processing command /add with arguments: %s", args)

	symbol, lower, upper, err := parseBandArgs(args)
	switch err {
	case errWrongArity:
		return helpers.EscapeMarkdownV2("❌ Use: /add STOCK LOWER UPPER\nExample: /add ETERNAL 275 300"), nil
	case errNotANumber:
		return helpers.EscapeMarkdownV2("❌ Prices must be numbers.\nExample: /add ETERNAL 275 300"), nil
	case errBadBand:
		return helpers.EscapeMarkdownV2("❌ Lower price must be less than upper price!"), nil
	}

	q, err := quote.FetchQuote(symbol)
	if err != nil {
		log.Debugf("symbol check failed for %s: %v", symbol, err)
		return helpers.EscapeMarkdownV2(fmt.Sprintf("⚠️ Could not fetch price for %s. Check the NSE symbol.", symbol)), nil
	}

	if err := database.UpsertAlert(chatID, symbol, lower, upper); err != nil {
		return "", errors.Wrap(err, "command /add")
	}

	return fmt.Sprintf(
		"✅ *Alert Added\\!*\n\nStock: %s\nCurrent Price: %s\nLower Limit: %s\nUpper Limit: %s",
		helpers.EscapeMarkdownV2(symbol),
		helpers.FormatRupees(q.Price, true),
		helpers.FormatRupees(lower, true),
		helpers.FormatRupees(upper, true),
	), nil
}
