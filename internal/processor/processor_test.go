package processor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"signal_bot/internal/exchange"
	"signal_bot/internal/models"
	"signal_bot/internal/stats"
	"signal_bot/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeExchange struct {
	mu sync.Mutex

	balance      float64
	balanceErr   error
	positions    []exchange.PositionSnapshot
	positionsErr error
	levErr       error
	orderID      string
	orderErr     error

	balanceCalls  int
	positionCalls int
	levCalls      int
	orderCalls    int

	levSet    int
	lastOrder exchange.OrderRequest
}

func (f *fakeExchange) AvailableBalance(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balanceCalls++
	return f.balance, f.balanceErr
}

func (f *fakeExchange) OpenPositions(ctx context.Context, symbol string) ([]exchange.PositionSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positionCalls++
	return f.positions, f.positionsErr
}

func (f *fakeExchange) SetLeverage(ctx context.Context, symbol string, leverage int, side string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.levCalls++
	if f.levErr != nil {
		return f.levErr
	}
	f.levSet = leverage
	return nil
}

func (f *fakeExchange) PlaceLimitOrder(ctx context.Context, req exchange.OrderRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orderCalls++
	f.lastOrder = req
	return f.orderID, f.orderErr
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (r *recordingNotifier) Send(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recordingNotifier) Sendf(format string, args ...any) { r.Send(format) }

func testConfig() Config {
	return Config{
		MaxLossRatio:   15,
		MaxLeverage:    30,
		SafetyFraction: 0.95,
		MinBalance:     10,
		MinOrderSize:   0.001,
	}
}

func newTestProcessor(t *testing.T, ex *fakeExchange) (*Processor, *stats.Ledger) {
	t.Helper()
	ledger := stats.NewLedger(stats.NewStore(filepath.Join(t.TempDir(), "stats.json")), nil)
	return New(ex, ledger, &recordingNotifier{}, testConfig()), ledger
}

func entrySignal() models.Signal {
	return models.Signal{
		Action: models.ActionEntry,
		Entry:  &models.EntrySignal{Symbol: "BTCUSDT", Price: 100, TP: 110, SL: 95},
	}
}

func exitSignal(price float64, result string) models.Signal {
	return models.Signal{
		Action: models.ActionExit,
		Exit:   &models.ExitSignal{Symbol: "BTCUSDT", ExitPrice: price, Result: result},
	}
}

func TestEntry_Success(t *testing.T) {
	ex := &fakeExchange{balance: 1000, orderID: "ord-1"}
	p, _ := newTestProcessor(t, ex)

	out := p.Handle(context.Background(), entrySignal())
	require.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, "ord-1", out.OrderID)
	assert.Equal(t, 3, out.Leverage) // risk 5%, ratio 15 => 3x

	assert.Equal(t, StatePositionOpen, p.State())
	pos := p.CurrentPosition()
	require.NotNil(t, pos)
	assert.Equal(t, "BTCUSDT", pos.Symbol)
	assert.InDelta(t, 28.5, pos.Size, 1e-9) // 1000*0.95*3/100
	assert.Equal(t, 3, pos.Leverage)

	// leverage bound before the order went out
	assert.Equal(t, 3, ex.levSet)
	assert.Equal(t, 1, ex.orderCalls)
	assert.InDelta(t, 28.5, ex.lastOrder.Size, 1e-9)
}

func TestEntry_RejectedWhileNotIdle(t *testing.T) {
	ex := &fakeExchange{balance: 1000, orderID: "ord-1"}
	p, _ := newTestProcessor(t, ex)

	require.Equal(t, StatusSuccess, p.Handle(context.Background(), entrySignal()).Status)
	callsAfterFirst := ex.positionCalls

	out := p.Handle(context.Background(), entrySignal())
	assert.Equal(t, StatusIgnored, out.Status)
	assert.Equal(t, ReasonActivePosition, out.Reason)
	// the local state check fires before any remote call
	assert.Equal(t, callsAfterFirst, ex.positionCalls)
	assert.Equal(t, 1, ex.orderCalls)
}

func TestEntry_RejectedWhenPositionOnExchange(t *testing.T) {
	ex := &fakeExchange{
		balance:   1000,
		positions: []exchange.PositionSnapshot{{Symbol: "BTCUSDT", Side: "long", Size: 1, EntryPrice: 90, Leverage: 5}},
	}
	p, _ := newTestProcessor(t, ex)

	out := p.Handle(context.Background(), entrySignal())
	assert.Equal(t, StatusIgnored, out.Status)
	assert.Equal(t, ReasonPositionOnRemote, out.Reason)
	// remote truth overrides local state: no mutation attempted
	assert.Equal(t, 0, ex.levCalls)
	assert.Equal(t, 0, ex.orderCalls)
	assert.Equal(t, StateIdle, p.State())
}

func TestEntry_RejectedLeverageTooHigh(t *testing.T) {
	ex := &fakeExchange{balance: 1000}
	p, _ := newTestProcessor(t, ex)

	// risk 0.1% => uncapped 150x > 30x cap
	sig := models.Signal{
		Action: models.ActionEntry,
		Entry:  &models.EntrySignal{Symbol: "BTCUSDT", Price: 100, TP: 101, SL: 99.9},
	}
	out := p.Handle(context.Background(), sig)
	assert.Equal(t, StatusRejected, out.Status)
	assert.Equal(t, ReasonLeverageTooHigh, out.Reason)
	assert.Equal(t, 150, out.Leverage)

	// rejected before any account mutation or balance query
	assert.Equal(t, 0, ex.balanceCalls)
	assert.Equal(t, 0, ex.levCalls)
	assert.Equal(t, 0, ex.orderCalls)
	assert.Equal(t, StateIdle, p.State())
}

func TestEntry_InsufficientBalance(t *testing.T) {
	ex := &fakeExchange{balance: 9.99}
	p, _ := newTestProcessor(t, ex)

	out := p.Handle(context.Background(), entrySignal())
	assert.Equal(t, StatusError, out.Status)
	// no exchange mutation happened
	assert.Equal(t, 0, ex.levCalls)
	assert.Equal(t, 0, ex.orderCalls)
	assert.Equal(t, StateIdle, p.State())
}

func TestEntry_SetLeverageFails_NoOrderPlaced(t *testing.T) {
	ex := &fakeExchange{balance: 1000, levErr: errors.New("leverage rejected")}
	p, _ := newTestProcessor(t, ex)

	out := p.Handle(context.Background(), entrySignal())
	assert.Equal(t, StatusError, out.Status)
	// never place an order under an unconfirmed leverage
	assert.Equal(t, 0, ex.orderCalls)
	assert.Equal(t, StateIdle, p.State())
	assert.Nil(t, p.CurrentPosition())
}

func TestEntry_OrderFails_LeverageResidueReported(t *testing.T) {
	ex := &fakeExchange{balance: 1000, orderErr: errors.New("order rejected")}
	p, _ := newTestProcessor(t, ex)

	out := p.Handle(context.Background(), entrySignal())
	assert.Equal(t, StatusError, out.Status)
	// the leverage change is not rolled back but is reported in the outcome
	assert.Equal(t, 3, ex.levSet)
	assert.Equal(t, 3, out.Leverage)
	assert.Equal(t, StateIdle, p.State())
	assert.Nil(t, p.CurrentPosition())
}

func TestExit_SettlesWin(t *testing.T) {
	ex := &fakeExchange{balance: 1000, orderID: "ord-1"}
	p, ledger := newTestProcessor(t, ex)

	require.Equal(t, StatusSuccess, p.Handle(context.Background(), entrySignal()).Status)

	// exchange already flat, advisory record supplies the entry context
	out := p.Handle(context.Background(), exitSignal(110, "profit"))
	require.Equal(t, StatusSuccess, out.Status)
	// (110-100)/100*100 = 10%, x3 leverage = 30%
	assert.InDelta(t, 30.0, out.ProfitRate, 1e-9)

	st := ledger.Snapshot()
	assert.Equal(t, 1, st.Wins)
	assert.Equal(t, 1, st.Total)
	assert.Equal(t, models.ResultWin, st.Trades[0].Result)

	assert.Equal(t, StateIdle, p.State())
	assert.Nil(t, p.CurrentPosition())
}

func TestExit_ClassifiesWinByTakeProfitPrice(t *testing.T) {
	ex := &fakeExchange{balance: 1000, orderID: "ord-1"}
	p, ledger := newTestProcessor(t, ex)
	require.Equal(t, StatusSuccess, p.Handle(context.Background(), entrySignal()).Status)

	// declared result says loss, but exit at the recorded TP wins anyway
	out := p.Handle(context.Background(), exitSignal(110, "loss"))
	require.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, models.ResultWin, ledger.Snapshot().Trades[0].Result)
}

func TestExit_Loss(t *testing.T) {
	ex := &fakeExchange{balance: 1000, orderID: "ord-1"}
	p, ledger := newTestProcessor(t, ex)
	require.Equal(t, StatusSuccess, p.Handle(context.Background(), entrySignal()).Status)

	out := p.Handle(context.Background(), exitSignal(95, "loss"))
	require.Equal(t, StatusSuccess, out.Status)
	assert.InDelta(t, -15.0, out.ProfitRate, 1e-9)
	assert.Equal(t, models.ResultLoss, ledger.Snapshot().Trades[0].Result)
}

func TestExit_PrefersExchangeEntryContext(t *testing.T) {
	ex := &fakeExchange{
		balance: 1000, orderID: "ord-1",
		positions: []exchange.PositionSnapshot{},
	}
	p, ledger := newTestProcessor(t, ex)

	// no local record at all, but the exchange still reports the position
	ex.positions = []exchange.PositionSnapshot{{Symbol: "BTCUSDT", Side: "long", Size: 1, EntryPrice: 200, Leverage: 2}}
	out := p.Handle(context.Background(), exitSignal(220, "profit"))
	require.Equal(t, StatusSuccess, out.Status)
	// (220-200)/200*100 = 10%, x2 = 20%
	assert.InDelta(t, 20.0, out.ProfitRate, 1e-9)
	assert.Equal(t, 1, ledger.Snapshot().Total)
}

func TestExit_DetailsUnavailable(t *testing.T) {
	ex := &fakeExchange{}
	p, ledger := newTestProcessor(t, ex)

	out := p.Handle(context.Background(), exitSignal(110, "profit"))
	assert.Equal(t, StatusIgnored, out.Status)
	assert.Equal(t, ReasonDetailsMissing, out.Reason)
	// benign no-op: the ledger stays untouched
	assert.Equal(t, 0, ledger.Snapshot().Total)
	assert.Equal(t, StateIdle, p.State())
}

func TestHandle_SerializesSignals(t *testing.T) {
	ex := &fakeExchange{balance: 1000, orderID: "ord-1"}
	p, _ := newTestProcessor(t, ex)

	var wg sync.WaitGroup
	results := make([]Outcome, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = p.Handle(context.Background(), entrySignal())
		}(i)
	}
	wg.Wait()

	// exactly one concurrent entry wins, the rest see the occupied state
	wins := 0
	for _, out := range results {
		if out.Status == StatusSuccess {
			wins++
		} else {
			assert.Equal(t, ReasonActivePosition, out.Reason)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, ex.orderCalls)
}
