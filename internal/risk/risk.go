// Package risk holds the pure sizing math: no I/O, no state.
package risk

import (
	"math"

	"signal_bot/internal/exchange"
	"signal_bot/internal/helper"
)

// Uncapped derives leverage from the stop distance alone:
// risk% = |entry-stop|/entry*100, leverage = floor(maxLossRatio / risk%).
// A zero stop distance yields 1, a degenerate signal never means unlimited
// leverage. The result may exceed any cap; the caller decides whether that
// rejects the trade.
func Uncapped(entry, stop, maxLossRatio float64) int {
	riskPct := math.Abs(entry-stop) / entry * 100
	if riskPct == 0 {
		return 1
	}
	return int(math.Floor(maxLossRatio / riskPct))
}

// Leverage is Uncapped clamped to [1, maxLeverage]. The clamp is a safety
// net: the entry pipeline rejects above-cap results before ever calling this
// with one.
func Leverage(entry, stop, maxLossRatio float64, maxLeverage int) int {
	lev := Uncapped(entry, stop, maxLossRatio)
	if lev < 1 {
		lev = 1
	}
	if lev > maxLeverage {
		lev = maxLeverage
	}
	return lev
}

// PositionSize converts balance into a base-asset quantity at the exchange
// size precision. safetyFraction reserves margin for fees and slippage.
func PositionSize(balance float64, leverage int, entry, safetyFraction float64) float64 {
	notional := balance * safetyFraction * float64(leverage)
	return helper.RoundTo(notional/entry, exchange.SizePrecision)
}
