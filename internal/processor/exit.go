package processor

import (
	"context"
	"strings"

	"signal_bot/internal/models"
	"signal_bot/pkg/logger"
)

// handleExit runs the EXIT transition. Caller holds the lock.
//
// Exits are bookkeeping, not order-canceling: the TP/SL presets on the
// exchange are what actually close the position. Entry context is read
// through the exchange first; the advisory record only fills gaps.
func (p *Processor) handleExit(ctx context.Context, e *models.ExitSignal) Outcome {
	p.state = StateExitPending

	var entry float64
	var lev int
	var tp float64

	if positions, err := p.ex.OpenPositions(ctx, e.Symbol); err == nil && len(positions) > 0 {
		entry = positions[0].EntryPrice
		lev = positions[0].Leverage
	} else if err != nil {
		logger.Error("exit %s: position query failed, falling back to advisory record: %v", e.Symbol, err)
	}
	if p.position != nil {
		if entry == 0 {
			entry = p.position.Entry
		}
		if lev == 0 {
			lev = p.position.Leverage
		}
		tp = p.position.TP
	}

	if entry == 0 || lev == 0 {
		// benign no-op: nothing to settle against
		p.position = nil
		p.state = StateIdle
		p.n.Sendf("ℹ️ %s exit signal received but entry details are unavailable, statistics unchanged", e.Symbol)
		return Outcome{Status: StatusIgnored, Reason: ReasonDetailsMissing}
	}

	changePct := (e.ExitPrice - entry) / entry * 100
	profitRate := changePct * float64(lev)

	result := models.ResultLoss
	if strings.EqualFold(e.Result, "profit") || (tp > 0 && e.ExitPrice >= tp) {
		result = models.ResultWin
	}

	p.ledger.AddTrade(ctx, e.Symbol, result, profitRate)

	p.position = nil
	p.state = StateIdle

	st := p.ledger.Snapshot()
	icon := "🟢"
	if result == models.ResultLoss {
		icon = "🔴"
	}
	p.n.Sendf(`%s %s settled: %s
💰 entry: %.2f → exit: %.2f (%+.2f%%)
📊 leverage: %dx → profit rate: %+.2f%%
🏆 record: %dW/%dL of %d | win rate %.1f%%`,
		icon, e.Symbol, result,
		entry, e.ExitPrice, changePct,
		lev, profitRate,
		st.Wins, st.Losses, st.Total, p.ledger.WinRate(),
	)
	logger.Info("exit %s: %s profitRate=%.2f", e.Symbol, result, profitRate)

	return Outcome{Status: StatusSuccess, ProfitRate: profitRate}
}
