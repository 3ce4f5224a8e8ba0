package exchange

// PositionSnapshot is the slice of the exchange position listing the
// decision pipeline cares about.
type PositionSnapshot struct {
	Symbol        string
	Side          string // long/short
	Size          float64
	EntryPrice    float64
	Leverage      int
	UnrealizedPnl float64
}

type OrderRequest struct {
	Symbol   string
	Side     string // open_long/open_short
	Size     float64
	Price    float64
	TP       float64
	SL       float64
	Leverage int
}
