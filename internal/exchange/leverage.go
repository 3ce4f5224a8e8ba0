package exchange

import (
	"context"
	"net/http"
	"strconv"
)

// SetLeverage binds the leverage to the account before any order references
// it. side is "long" or "short".
func (c *Client) SetLeverage(ctx context.Context, symbol string, leverage int, side string) error {
	body := map[string]string{
		"symbol":     ContractID(symbol),
		"marginCoin": marginCoin,
		"leverage":   strconv.Itoa(leverage),
		"holdSide":   side,
	}
	return c.do(ctx, http.MethodPost, "/api/mix/v1/account/setLeverage", nil, body, nil)
}
