package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, "RELIANCE", EscapeMarkdownV2("RELIANCE"))
	assert.Equal(t, "275\\.40 \\- 300\\.00", EscapeMarkdownV2("275.40 - 300.00"))
	assert.Equal(t, "M&M", EscapeMarkdownV2("M&M")) // & needs no escaping
	assert.Equal(t, "BAJAJ\\-AUTO", EscapeMarkdownV2("BAJAJ-AUTO"))
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "275.40", FormatPrice(275.4, false))
	assert.Equal(t, "2,754.50", FormatPrice(2754.5, false))
	assert.Equal(t, "2,754\\.50", FormatPrice(2754.5, true))
	assert.Equal(t, "0.85", FormatPrice(0.85, false))
}

func TestFormatRupees(t *testing.T) {
	assert.Equal(t, "₹300.00", FormatRupees(300, false))
	assert.Equal(t, "₹4,100\\.25", FormatRupees(4100.25, true))
}

func TestParseDBTime(t *testing.T) {
	parsed := ParseDBTime("2024-08-21 10:30:00")
	assert.Equal(t, time.Date(2024, 8, 21, 10, 30, 0, 0, time.UTC), parsed)

	parsed = ParseDBTime("2024-08-21T10:30:00Z")
	assert.Equal(t, time.Date(2024, 8, 21, 10, 30, 0, 0, time.UTC), parsed)

	assert.True(t, ParseDBTime("not a timestamp").IsZero())
}
