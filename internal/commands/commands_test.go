package commands

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/database"
	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/quote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	require.NoError(t, database.InitDB(filepath.Join(t.TempDir(), "test.db")))
	t.Cleanup(func() { database.CloseDB() })
}

func TestParseBandArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    string
		symbol  string
		lower   float64
		upper   float64
		wantErr error
	}{
		{"valid", "ETERNAL 275 300", "ETERNAL", 275, 300, nil},
		{"lowercase symbol", "eternal 275.5 300.25", "ETERNAL", 275.5, 300.25, nil},
		{"missing prices", "ETERNAL", "", 0, 0, errWrongArity},
		{"too many fields", "ETERNAL 275 300 400", "", 0, 0, errWrongArity},
		{"empty", "", "", 0, 0, errWrongArity},
		{"lower not a number", "ETERNAL abc 300", "", 0, 0, errNotANumber},
		{"upper not a number", "ETERNAL 275 xyz", "", 0, 0, errNotANumber},
		{"lower equals upper", "ETERNAL 300 300", "", 0, 0, errBadBand},
		{"lower above upper", "ETERNAL 310 300", "", 0, 0, errBadBand},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			symbol, lower, upper, err := parseBandArgs(tt.args)
			assert.Equal(t, tt.wantErr, err)
			if tt.wantErr == nil {
				assert.Equal(t, tt.symbol, symbol)
				assert.Equal(t, tt.lower, lower)
				assert.Equal(t, tt.upper, upper)
			}
		})
	}
}

func TestParseSymbolArg(t *testing.T) {
	symbol, err := parseSymbolArg("eternal")
	require.NoError(t, err)
	assert.Equal(t, "ETERNAL", symbol)

	_, err = parseSymbolArg("")
	assert.Equal(t, errWrongArity, err)

	_, err = parseSymbolArg("ETERNAL 300")
	assert.Equal(t, errWrongArity, err)
}

func TestCommandAddValidation(t *testing.T) {
	text, err := CommandAdd(100, "ETERNAL")
	require.NoError(t, err)
	assert.Contains(t, text, "/add STOCK LOWER UPPER")

	text, err = CommandAdd(100, "ETERNAL abc 300")
	require.NoError(t, err)
	assert.Contains(t, text, "Prices must be numbers")

	text, err = CommandAdd(100, "ETERNAL 310 300")
	require.NoError(t, err)
	assert.Contains(t, text, "Lower price must be less than upper price")
}

func TestCommandUpdateMissingAlert(t *testing.T) {
	setupTestDB(t)

	text, err := CommandUpdate(100, "ETERNAL 270 305")
	require.NoError(t, err)
	assert.Contains(t, text, "No alert found for ETERNAL")
}

func TestCommandList(t *testing.T) {
	setupTestDB(t)

	text, err := CommandList(100)
	require.NoError(t, err)
	assert.Contains(t, text, "no active alerts")

	require.NoError(t, database.UpsertAlert(100, "ETERNAL", 275, 300))
	require.NoError(t, database.UpsertAlert(100, "TCS", 4000, 4300))
	require.NoError(t, database.UpsertAlert(200, "INFY", 1400, 1600))
	quote.Put("ETERNAL", quote.Quote{Symbol: "ETERNAL", Price: 280.4, UpdatedAt: time.Now()})

	text, err = CommandList(100)
	require.NoError(t, err)
	assert.Contains(t, text, "*ETERNAL*")
	assert.Contains(t, text, "280\\.40")
	assert.Contains(t, text, "*TCS*")
	// TCS has no cached quote yet
	assert.Contains(t, text, "N/A")
	// another chat's alert stays invisible
	assert.NotContains(t, text, "INFY")
}

func TestCommandRemove(t *testing.T) {
	setupTestDB(t)

	require.NoError(t, database.UpsertAlert(100, "ETERNAL", 275, 300))

	text, err := CommandRemove(100, "bad args here")
	require.NoError(t, err)
	assert.Contains(t, text, "/remove STOCK")

	// a different chat cannot remove it
	text, err = CommandRemove(200, "ETERNAL")
	require.NoError(t, err)
	assert.Contains(t, text, "No alert found for ETERNAL")

	text, err = CommandRemove(100, "eternal")
	require.NoError(t, err)
	assert.Contains(t, text, "Alert removed for ETERNAL")

	alerts, err := database.GetAlertsByChatID(100)
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestRenderChart(t *testing.T) {
	base := time.Now()
	points := make([]quote.Point, 12)
	for i := range points {
		points[i] = quote.Point{
			Time:  base.Add(time.Duration(i) * 5 * time.Minute),
			Price: 275 + float64(i),
		}
	}

	data, err := renderChart("ETERNAL", points)
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, "\x89PNG", string(data[:4]))
}

func TestCommandHelp(t *testing.T) {
	text := CommandHelp()
	for _, cmd := range []string{"/add", "/update", "/list", "/remove", "/chart", "/help"} {
		assert.Contains(t, text, cmd)
	}
}
