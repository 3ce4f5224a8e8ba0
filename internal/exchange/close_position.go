package exchange

import (
	"context"
	"net/http"
)

// ClosePosition flash-closes the whole position on the contract. Manual
// escape hatch, the normal exit path is the TP/SL presets firing on the
// exchange side.
func (c *Client) ClosePosition(ctx context.Context, symbol string) error {
	body := map[string]string{
		"symbol":     ContractID(symbol),
		"marginCoin": marginCoin,
	}
	return c.do(ctx, http.MethodPost, "/api/mix/v1/order/close-all-positions", nil, body, nil)
}
