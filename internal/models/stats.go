package models

import "time"

type TradeResult string

const (
	ResultWin  TradeResult = "WIN"
	ResultLoss TradeResult = "LOSS"
)

type TradeRecord struct {
	Time       time.Time   `json:"time"`
	Symbol     string      `json:"symbol"`
	Result     TradeResult `json:"result"`
	ProfitRate float64     `json:"profit_rate"`
}

// TradeStats is the snapshot shape persisted between restarts.
type TradeStats struct {
	Wins      int           `json:"wins"`
	Losses    int           `json:"losses"`
	Total     int           `json:"total"`
	StartedAt time.Time     `json:"started_at"`
	Trades    []TradeRecord `json:"trades"`
}
