package exchange

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type positionRow struct {
	Symbol        string `json:"symbol"`
	HoldSide      string `json:"holdSide"`
	Total         string `json:"total"`
	AverageOpenPx string `json:"averageOpenPrice"`
	Leverage      string `json:"leverage"`
	UnrealizedPL  string `json:"unrealizedPL"`
}

// OpenPositions lists the non-empty position sides for one contract. An empty
// result is the all-clear for a new entry; this call is the authoritative
// "is a position open" check.
func (c *Client) OpenPositions(ctx context.Context, symbol string) ([]PositionSnapshot, error) {
	q := url.Values{}
	q.Set("symbol", ContractID(symbol))
	q.Set("marginCoin", marginCoin)

	var rows []positionRow
	if err := c.do(ctx, http.MethodGet, "/api/mix/v1/position/singlePosition", q, nil, &rows); err != nil {
		return nil, err
	}

	res := make([]PositionSnapshot, 0, len(rows))
	for _, r := range rows {
		total, _ := strconv.ParseFloat(r.Total, 64)
		if total == 0 {
			// the exchange reports both hold sides, empty ones included
			continue
		}
		avg, _ := strconv.ParseFloat(r.AverageOpenPx, 64)
		lev, _ := strconv.Atoi(r.Leverage)
		upl, _ := strconv.ParseFloat(r.UnrealizedPL, 64)

		res = append(res, PositionSnapshot{
			Symbol:        symbol,
			Side:          r.HoldSide,
			Size:          total,
			EntryPrice:    avg,
			Leverage:      lev,
			UnrealizedPnl: upl,
		})
	}
	return res, nil
}
