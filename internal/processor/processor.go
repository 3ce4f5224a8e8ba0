package processor

import (
	"context"
	"sync"

	"signal_bot/internal/exchange"
	"signal_bot/internal/models"
	"signal_bot/internal/notify"
	"signal_bot/internal/stats"

	"github.com/opentracing/opentracing-go"
)

// State of the one-position state machine. Transitions happen only under the
// processor mutex, so the *_PENDING states are never observed by a second
// signal; what they guard is the shape of the transition itself.
type State int

const (
	StateIdle State = iota
	StateEntryPending
	StatePositionOpen
	StateExitPending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateEntryPending:
		return "ENTRY_PENDING"
	case StatePositionOpen:
		return "POSITION_OPEN"
	case StateExitPending:
		return "EXIT_PENDING"
	}
	return "UNKNOWN"
}

// Exchange is the slice of the client the pipeline needs.
type Exchange interface {
	AvailableBalance(ctx context.Context) (float64, error)
	OpenPositions(ctx context.Context, symbol string) ([]exchange.PositionSnapshot, error)
	SetLeverage(ctx context.Context, symbol string, leverage int, side string) error
	PlaceLimitOrder(ctx context.Context, req exchange.OrderRequest) (string, error)
}

type Outcome struct {
	Status     string  `json:"status"`
	Reason     string  `json:"reason,omitempty"`
	Message    string  `json:"message,omitempty"`
	OrderID    string  `json:"order_id,omitempty"`
	Leverage   int     `json:"leverage,omitempty"`
	ProfitRate float64 `json:"profit_rate,omitempty"`
}

const (
	StatusSuccess  = "success"
	StatusIgnored  = "ignored"
	StatusRejected = "rejected"
	StatusError    = "error"

	ReasonActivePosition   = "active_position_exists"
	ReasonPositionOnRemote = "position_exists_on_exchange"
	ReasonLeverageTooHigh  = "leverage_too_high"
	ReasonDetailsMissing   = "details_unavailable"
)

type Config struct {
	MaxLossRatio   float64
	MaxLeverage    int
	SafetyFraction float64
	MinBalance     float64
	MinOrderSize   float64
}

// Processor serializes every entry/exit transition through one mutex and owns
// the advisory position record. Nothing reads or writes the record outside
// the lock.
type Processor struct {
	mu       sync.Mutex
	state    State
	position *models.Position

	ex     Exchange
	ledger *stats.Ledger
	n      notify.Notifier
	cfg    Config
}

func New(ex Exchange, ledger *stats.Ledger, n notify.Notifier, cfg Config) *Processor {
	return &Processor{
		state:  StateIdle,
		ex:     ex,
		ledger: ledger,
		n:      n,
		cfg:    cfg,
	}
}

// Handle runs exactly one signal through the state machine. The lock spans
// the remote authoritative checks too: atomicity with respect to other
// signals, not merely local memory.
func (p *Processor) Handle(ctx context.Context, sig models.Signal) Outcome {
	span, ctx := opentracing.StartSpanFromContext(ctx, "processor.handle")
	span.SetTag("action", string(sig.Action))
	defer span.Finish()

	p.mu.Lock()
	defer p.mu.Unlock()

	switch sig.Action {
	case models.ActionEntry:
		out := p.handleEntry(ctx, sig.Entry)
		span.SetTag("status", out.Status)
		return out
	case models.ActionExit:
		out := p.handleExit(ctx, sig.Exit)
		span.SetTag("status", out.Status)
		return out
	}
	return Outcome{Status: StatusError, Message: "unsupported action"}
}

// CurrentPosition returns a copy of the advisory record, nil when flat.
func (p *Processor) CurrentPosition() *models.Position {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.position == nil {
		return nil
	}
	cp := *p.position
	return &cp
}

func (p *Processor) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}
