package helpers

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"strings"
	"time"
)

func EscapeMarkdownV2(text string) string {
	charactersToEscape := []string{".", "-", "_", "*", "[", "]", "(", ")", "~", "`", ">", "#", "+", "=", "|", "{", "}", "!"}

	for _, char := range charactersToEscape {
		text = strings.ReplaceAll(text, char, "\\"+char)
	}
	return text
}

// FormatPrice renders an NSE price with a comma thousand separator
// and two decimals, e.g. 2754.5 -> "2,754.50".
func FormatPrice(price float64, escapeMarkdown bool) string {
	p := message.NewPrinter(language.English)
	formatted := p.Sprintf("%.2f", price)

	if escapeMarkdown {
		return EscapeMarkdownV2(formatted)
	}
	return formatted
}

// FormatRupees is FormatPrice with the rupee sign prepended.
func FormatRupees(price float64, escapeMarkdown bool) string {
	return "₹" + FormatPrice(price, escapeMarkdown)
}

// ParseDBTime parses the timestamp format sqlite stores for
// CURRENT_TIMESTAMP columns. Returns the zero time on failure.
func ParseDBTime(value string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
