package models

import "time"

// Position is the advisory record of the one open trade. It is never the
// source of truth: the exchange position list is re-checked before every
// entry decision.
type Position struct {
	Symbol      string
	Side        string // long/short
	Entry       float64
	TP          float64
	SL          float64
	Size        float64
	Leverage    int
	OrderID     string
	BalanceUsed float64
	OpenedAt    time.Time
}
