package service

import (
	"fmt"
	"strings"
	"time"

	"signal_bot/internal/models"
	"signal_bot/internal/stats"
)

const lastTradesShown = 5

func formatStatus(balance float64, balanceErr error, pos *models.Position, ledger *stats.Ledger, trades []models.TradeRecord) string {
	var b strings.Builder

	b.WriteString("📊 Status\n")
	if balanceErr != nil {
		b.WriteString("💵 balance: unavailable\n")
	} else {
		fmt.Fprintf(&b, "💵 balance: %.2f USDT\n", balance)
	}

	if pos == nil {
		b.WriteString("📭 no open position\n")
	} else {
		fmt.Fprintf(&b, "📈 %s LONG %.3f @ %.2f | lev=%dx TP=%.2f SL=%.2f\n",
			pos.Symbol, pos.Size, pos.Entry, pos.Leverage, pos.TP, pos.SL)
	}

	st := ledger.Snapshot()
	fmt.Fprintf(&b, "🏆 %dW/%dL of %d | win rate %.1f%%\n", st.Wins, st.Losses, st.Total, ledger.WinRate())
	fmt.Fprintf(&b, "⏱ tracking since %s (%s)\n",
		st.StartedAt.Format("2006-01-02 15:04"), time.Since(st.StartedAt).Round(time.Minute))

	if len(trades) > 0 {
		b.WriteString("🧾 last trades:\n")
		for _, tr := range trades {
			icon := "🟢"
			if tr.Result == models.ResultLoss {
				icon = "🔴"
			}
			fmt.Fprintf(&b, "%s %s %s %+.2f%% (%s)\n",
				icon, tr.Symbol, tr.Result, tr.ProfitRate, tr.Time.Format("01-02 15:04"))
		}
	}

	return b.String()
}
