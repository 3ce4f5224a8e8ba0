package processor

import (
	"context"
	"time"

	"signal_bot/internal/exchange"
	"signal_bot/internal/helper"
	"signal_bot/internal/models"
	"signal_bot/internal/risk"
	"signal_bot/pkg/logger"
)

// handleEntry runs the ENTRY transition. Caller holds the lock.
//
// Order of checks is load-bearing: the authoritative remote position check
// comes first, the leverage cap check before any account mutation, and
// SetLeverage strictly before the order so the order never references an
// unconfirmed leverage.
func (p *Processor) handleEntry(ctx context.Context, e *models.EntrySignal) Outcome {
	if p.state != StateIdle {
		p.n.Sendf("⚠️ %s entry ignored: a position is already being managed (state=%s)", e.Symbol, p.state)
		return Outcome{Status: StatusIgnored, Reason: ReasonActivePosition}
	}
	p.state = StateEntryPending

	// Authoritative check: the exchange position list overrides whatever the
	// advisory record says.
	positions, err := p.ex.OpenPositions(ctx, e.Symbol)
	if err != nil {
		return p.entryFailed(e.Symbol, "position check failed", err)
	}
	if len(positions) > 0 {
		p.state = StateIdle
		p.n.Sendf("⚠️ %s entry ignored: position already open on the exchange", e.Symbol)
		return Outcome{Status: StatusIgnored, Reason: ReasonPositionOnRemote}
	}

	entry := helper.RoundTo(e.Price, exchange.PricePrecision)
	tp := helper.RoundTo(e.TP, exchange.PricePrecision)
	sl := helper.RoundTo(e.SL, exchange.PricePrecision)

	// Reject, not clamp: trading with a silently clamped leverage would
	// misrepresent the risk actually taken.
	uncapped := risk.Uncapped(entry, sl, p.cfg.MaxLossRatio)
	if uncapped > p.cfg.MaxLeverage {
		p.state = StateIdle
		p.n.Sendf("❌ %s entry rejected: stop range too tight\n📊 computed leverage: %dx\n⚠️ max allowed: %dx",
			e.Symbol, uncapped, p.cfg.MaxLeverage)
		return Outcome{Status: StatusRejected, Reason: ReasonLeverageTooHigh, Leverage: uncapped}
	}
	lev := risk.Leverage(entry, sl, p.cfg.MaxLossRatio, p.cfg.MaxLeverage)

	balance, err := p.ex.AvailableBalance(ctx)
	if err != nil {
		return p.entryFailed(e.Symbol, "balance query failed", err)
	}
	if balance < p.cfg.MinBalance {
		p.state = StateIdle
		msg := "insufficient balance"
		p.n.Sendf("❌ %s entry failed: balance %.2f USDT below the %.0f USDT minimum", e.Symbol, balance, p.cfg.MinBalance)
		return Outcome{Status: StatusError, Message: msg}
	}

	// Leverage must be bound to the account before the order references it.
	if err := p.ex.SetLeverage(ctx, e.Symbol, lev, "long"); err != nil {
		return p.entryFailed(e.Symbol, "set leverage failed", err)
	}

	size := risk.PositionSize(balance, lev, entry, p.cfg.SafetyFraction)
	if size < p.cfg.MinOrderSize {
		p.state = StateIdle
		p.n.Sendf("❌ %s entry failed: position size %.6f below exchange minimum", e.Symbol, size)
		return Outcome{Status: StatusError, Message: "position size too small"}
	}

	orderID, err := p.ex.PlaceLimitOrder(ctx, exchange.OrderRequest{
		Symbol:   e.Symbol,
		Side:     "open_long",
		Size:     size,
		Price:    entry,
		TP:       tp,
		SL:       sl,
		Leverage: lev,
	})
	if err != nil {
		// leverage is already set on the account and is NOT rolled back;
		// report the residue instead of pretending nothing happened
		p.state = StateIdle
		p.n.Sendf("❌ %s order placement failed after leverage was set to %dx (leverage left as-is): %v",
			e.Symbol, lev, err)
		logger.Error("entry %s: order placement failed, residual leverage %dx: %v", e.Symbol, lev, err)
		return Outcome{Status: StatusError, Message: err.Error(), Leverage: lev}
	}

	committed := balance * p.cfg.SafetyFraction
	p.position = &models.Position{
		Symbol:      e.Symbol,
		Side:        "long",
		Entry:       entry,
		TP:          tp,
		SL:          sl,
		Size:        size,
		Leverage:    lev,
		OrderID:     orderID,
		BalanceUsed: committed,
		OpenedAt:    time.Now(),
	}
	p.state = StatePositionOpen

	riskAmount := committed * (p.cfg.MaxLossRatio / 100)
	potential := committed * float64(lev) * ((tp - entry) / entry)
	p.n.Sendf(`✅ %s entry placed
💰 entry: %.2f USDT | 🎯 TP: %.2f (%+.2f%%) | 🛑 SL: %.2f (%.2f%%)
📊 leverage: %dx | size: %.3f
💵 committed: %.2f of %.2f USDT
💎 potential profit: +%.2f USDT | ⚠️ max loss: -%.2f USDT
📋 order: %s`,
		e.Symbol,
		entry, tp, (tp-entry)/entry*100, sl, (sl-entry)/entry*100,
		lev, size,
		committed, balance,
		potential, riskAmount,
		orderID,
	)
	logger.Info("entry %s @ %.2f lev=%dx size=%.3f order=%s", e.Symbol, entry, lev, size, orderID)

	return Outcome{Status: StatusSuccess, OrderID: orderID, Leverage: lev}
}

func (p *Processor) entryFailed(symbol, what string, err error) Outcome {
	p.state = StateIdle
	p.n.Sendf("❌ %s entry failed: %s: %v", symbol, what, err)
	logger.Error("entry %s: %s: %v", symbol, what, err)
	return Outcome{Status: StatusError, Message: err.Error()}
}
