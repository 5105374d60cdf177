package commands

import (
	"database/sql"
	"fmt"

	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/database"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/quote"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/lib/helpers"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommandUpdate handles /update STOCK LOWER UPPER. Unlike /add it refuses
// to create a new alert; the chat must already track the symbol.
func CommandUpdate(chatID int64, args string) (string, error) {
	log.Debugf("processing command /update with arguments: %s", args)

	symbol, lower, upper, err := parseBandArgs(args)
	switch err {
	case errWrongArity:
		return helpers.EscapeMarkdownV2("❌ Use: /update STOCK LOWER UPPER\nExample: /update ETERNAL 270 305"), nil
	case errNotANumber:
		return helpers.EscapeMarkdownV2("❌ Prices must be numbers.\nExample: /update ETERNAL 270 305"), nil
	case errBadBand:
		return helpers.EscapeMarkdownV2("❌ Lower price must be less than upper price!"), nil
	}

	err = database.UpdateAlertThresholds(chatID, symbol, lower, upper)
	if err == sql.ErrNoRows {
		return helpers.EscapeMarkdownV2(fmt.Sprintf("❌ No alert found for %s. Use /add to create one.", symbol)), nil
	}
	if err != nil {
		return "", errors.Wrap(err, "command /update")
	}

	current := "N/A"
	if q, fetchErr := quote.FetchQuote(symbol); fetchErr == nil {
		current = helpers.FormatRupees(q.Price, false)
	}

	return fmt.Sprintf(
		"✅ *Alert Updated\\!*\n\nStock: %s\nCurrent Price: %s\nNew Lower Limit: %s\nNew Upper Limit: %s",
		helpers.EscapeMarkdownV2(symbol),
		helpers.EscapeMarkdownV2(current),
		helpers.FormatRupees(lower, true),
		helpers.FormatRupees(upper, true),
	), nil
}
