package commands

import (
	"strings"

	"github.com/VedanthMalhotra/Dad-Stock-Alerts/lib/helpers"
)

// CommandHelp builds the /start and /help reply.
func CommandHelp() string {
	var b strings.Builder

	b.WriteString("🤖 *NSE Stock Alert Bot*\n\n")
	b.WriteString("*Commands:*\n")
	b.WriteString(helpers.EscapeMarkdownV2("➕ /add STOCK LOWER UPPER\n"))
	b.WriteString(helpers.EscapeMarkdownV2("   Example: /add ETERNAL 275 300\n\n"))
	b.WriteString(helpers.EscapeMarkdownV2("✏️ /update STOCK LOWER UPPER\n"))
	b.WriteString(helpers.EscapeMarkdownV2("   Example: /update ETERNAL 270 305\n\n"))
	b.WriteString(helpers.EscapeMarkdownV2("📋 /list - Show all your alerts\n"))
	b.WriteString(helpers.EscapeMarkdownV2("❌ /remove STOCK - Remove an alert\n"))
	b.WriteString(helpers.EscapeMarkdownV2("   Example: /remove ETERNAL\n\n"))
	b.WriteString(helpers.EscapeMarkdownV2("📈 /chart STOCK - Intraday price chart\n"))
	b.WriteString(helpers.EscapeMarkdownV2("💡 /help - Show this message\n\n"))
	b.WriteString("*Notes:*\n")
	b.WriteString(helpers.EscapeMarkdownV2("• Uses NSE symbols (e.g., RELIANCE, TCS, INFY)\n"))
	b.WriteString(helpers.EscapeMarkdownV2("• Checks prices every minute\n"))
	b.WriteString(helpers.EscapeMarkdownV2("• Alerts reset if the price returns inside the range"))

	return b.String()
}
