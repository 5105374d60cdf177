package types

type Alert struct {
	ID         int64   `json:"id"`
	ChatID     int64   `json:"chat_id"`
	Symbol     string  `json:"symbol"` // NSE ticker, e.g. "RELIANCE"
	LowerPrice float64 `json:"lower_price"`
	UpperPrice float64 `json:"upper_price"`
	UpperSent  bool    `json:"upper_sent"`
	LowerSent  bool    `json:"lower_sent"`
	CreatedAt  string  `json:"created_at"`
}
