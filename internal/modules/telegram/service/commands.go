package service

import (
	"context"

	"signal_bot/internal/exchange"
	"signal_bot/internal/models"
	"signal_bot/internal/processor"
	"signal_bot/internal/stats"
	"signal_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Commands long-polls Telegram for the operator commands: status query,
// statistics reset and the manual position-close escape hatch.
type Commands struct {
	t       *Telegram
	proc    *processor.Processor
	ledger  *stats.Ledger
	ex      *exchange.Client
	journal stats.TradeJournal // may be nil
}

func NewCommands(t *Telegram, proc *processor.Processor, ledger *stats.Ledger, ex *exchange.Client, journal stats.TradeJournal) *Commands {
	return &Commands{t: t, proc: proc, ledger: ledger, ex: ex, journal: journal}
}

func (c *Commands) Start(ctx context.Context) {
	if c.t == nil || c.t.bot == nil {
		return
	}

	u := tgbot.NewUpdate(0)
	u.Timeout = 30
	u.AllowedUpdates = []string{"message"}

	go c.consume(ctx, c.t.bot.GetUpdatesChan(u))
}

// consume drains the long-poll channel until StopReceivingUpdates closes it.
func (c *Commands) consume(ctx context.Context, updates tgbot.UpdatesChannel) {
	for upd := range updates {
		if upd.Message == nil || upd.Message.Chat == nil ||
			upd.Message.Chat.ID != c.t.chatID || !upd.Message.IsCommand() {
			continue
		}
		switch upd.Message.Command() {
		case "status":
			go c.handleStatus(ctx)
		case "resetstats":
			c.handleReset()
		case "close":
			go c.handleClose(ctx)
		}
	}
}

func (c *Commands) Stop() {
	if c.t != nil && c.t.bot != nil {
		c.t.bot.StopReceivingUpdates()
	}
}

func (c *Commands) handleStatus(ctx context.Context) {
	balance, err := c.ex.AvailableBalance(ctx)
	if err != nil {
		logger.Error("status command: balance query: %v", err)
	}
	c.t.Send(formatStatus(balance, err, c.proc.CurrentPosition(), c.ledger, c.lastTrades(ctx)))
}

// lastTrades prefers the Postgres journal when one is configured so the
// status view reads back what the journal recorded; the in-memory ledger is
// the fallback.
func (c *Commands) lastTrades(ctx context.Context) []models.TradeRecord {
	if c.journal != nil {
		recs, err := c.journal.Last(ctx, lastTradesShown)
		if err == nil {
			return recs
		}
		logger.Error("status command: journal read: %v", err)
	}
	return c.ledger.LastTrades(lastTradesShown)
}

func (c *Commands) handleReset() {
	c.ledger.Reset()
	c.t.Send("♻️ statistics reset")
}

func (c *Commands) handleClose(ctx context.Context) {
	pos := c.proc.CurrentPosition()
	if pos == nil {
		c.t.Send("📭 no position to close")
		return
	}
	if err := c.ex.ClosePosition(ctx, pos.Symbol); err != nil {
		c.t.Sendf("❗️ close %s failed: %v", pos.Symbol, err)
		return
	}
	c.t.Sendf("✅ %s close request sent, settle it with an EXIT signal", pos.Symbol)
}
