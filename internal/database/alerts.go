package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/VedanthMalhotra/Dad-Stock-Alerts/internal/types"
	_ "modernc.org/sqlite"
)

// UpsertAlert saves an alert, replacing the price band and clearing the
// notification latches when the chat already tracks the symbol.
func UpsertAlert(chatID int64, symbol string, lower, upper float64) error {
	query := `
	INSERT INTO alerts (chat_id, symbol, lower_price, upper_price)
	VALUES (?, ?, ?, ?)
	ON CONFLICT (chat_id, symbol) DO UPDATE SET
		lower_price = excluded.lower_price,
		upper_price = excluded.upper_price,
		upper_sent = 0,
		lower_sent = 0;`

	_, err := DB.Exec(query, chatID, symbol, lower, upper)
	if err != nil {
		return fmt.Errorf("failed to upsert alert: %w", err)
	}

	log.Printf("Alert saved: ChatID: %d, Symbol: %s, Range: %.2f-%.2f", chatID, symbol, lower, upper)
	return nil
}

// UpdateAlertThresholds replaces the band of an existing alert and clears
// both latches. Returns sql.ErrNoRows when the chat has no alert for the symbol.
func UpdateAlertThresholds(chatID int64, symbol string, lower, upper float64) error {
	query := `
	UPDATE alerts
	SET lower_price = ?, upper_price = ?, upper_sent = 0, lower_sent = 0
	WHERE chat_id = ? AND symbol = ?;`

	res, err := DB.Exec(query, lower, upper, chatID, symbol)
	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// SetAlertLatches persists the sent flags after a breach notification or
// an in-range reset.
func SetAlertLatches(alertID int64, upperSent, lowerSent bool) error {
	query := `UPDATE alerts SET upper_sent = ?, lower_sent = ? WHERE id = ?;`
	_, err := DB.Exec(query, upperSent, lowerSent, alertID)
	if err != nil {
		return fmt.Errorf("failed to set alert latches: %w", err)
	}
	return nil
}

// GetAllAlerts fetches all alerts from the database
func GetAllAlerts() ([]types.Alert, error) {
	query := `SELECT id, chat_id, symbol, lower_price, upper_price, upper_sent, lower_sent, created_at FROM alerts;`

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []types.Alert
	for rows.Next() {
		var alert types.Alert
		if err := rows.Scan(&alert.ID, &alert.ChatID, &alert.Symbol, &alert.LowerPrice, &alert.UpperPrice, &alert.UpperSent, &alert.LowerSent, &alert.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		alerts = append(alerts, alert)
	}

	return alerts, nil
}

// GetAlertsByChatID fetches all alerts for a specific chat ID
func GetAlertsByChatID(chatID int64) ([]types.Alert, error) {
	query := `SELECT id, chat_id, symbol, lower_price, upper_price, upper_sent, lower_sent, created_at FROM alerts WHERE chat_id = ? ORDER BY symbol;`

	rows, err := DB.Query(query, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts for chat ID %d: %w", chatID, err)
	}
	defer rows.Close()

	var alerts []types.Alert
	for rows.Next() {
		var alert types.Alert
		if err := rows.Scan(&alert.ID, &alert.ChatID, &alert.Symbol, &alert.LowerPrice, &alert.UpperPrice, &alert.UpperSent, &alert.LowerSent, &alert.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		alerts = append(alerts, alert)
	}

	return alerts, nil
}

// DeleteAlert removes a chat's alert for a symbol. The bool reports whether
// an alert existed.
func DeleteAlert(chatID int64, symbol string) (bool, error) {
	query := `DELETE FROM alerts WHERE chat_id = ? AND symbol = ?;`
	res, err := DB.Exec(query, chatID, symbol)
	if err != nil {
		return false, fmt.Errorf("failed to delete alert: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

// TrackedSymbols returns the distinct symbols across all alerts. The quote
// updater polls exactly this set.
func TrackedSymbols() ([]string, error) {
	query := `SELECT DISTINCT symbol FROM alerts ORDER BY symbol;`

	rows, err := DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tracked symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	return symbols, nil
}
