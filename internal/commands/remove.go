package commands

import (
	"fmt"

	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/database"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/lib/helpers"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// CommandRemove handles /remove STOCK for this chat's alerts.
func CommandRemove(chatID int64, args string) (string, error) {
	log.Debugf("processing command /remove with arguments: %s", args)

	symbol, err := parseSymbolArg(args)
	if err != nil {
		return helpers.EscapeMarkdownV2("❌ Use: /remove STOCK\nExample: /remove ETERNAL"), nil
	}

	removed, err := database.DeleteAlert(chatID, symbol)
	if err != nil {
		return "", errors.Wrap(err, "command /remove")
	}

	if !removed {
		return helpers.EscapeMarkdownV2(fmt.Sprintf("❌ No alert found for %s", symbol)), nil
	}

	return helpers.EscapeMarkdownV2(fmt.Sprintf("✅ Alert removed for %s", symbol)), nil
}
