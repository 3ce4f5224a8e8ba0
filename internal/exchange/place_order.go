package exchange

import (
	"context"
	"net/http"
	"strconv"

	"signal_bot/internal/helper"
)

// PlaceLimitOrder submits one limit order with optional exchange-native TP/SL
// presets and returns the order id. Price and size are clamped to the
// exchange precision before serialization.
func (c *Client) PlaceLimitOrder(ctx context.Context, req OrderRequest) (string, error) {
	body := map[string]string{
		"symbol":     ContractID(req.Symbol),
		"marginCoin": marginCoin,
		"side":       req.Side,
		"orderType":  "limit",
		"size":       strconv.FormatFloat(helper.RoundTo(req.Size, SizePrecision), 'f', SizePrecision, 64),
		"price":      strconv.FormatFloat(helper.RoundTo(req.Price, PricePrecision), 'f', PricePrecision, 64),
	}
	if req.TP > 0 {
		body["presetTakeProfitPrice"] = strconv.FormatFloat(helper.RoundTo(req.TP, PricePrecision), 'f', PricePrecision, 64)
	}
	if req.SL > 0 {
		body["presetStopLossPrice"] = strconv.FormatFloat(helper.RoundTo(req.SL, PricePrecision), 'f', PricePrecision, 64)
	}

	var data struct {
		OrderID   string `json:"orderId"`
		ClientOID string `json:"clientOid"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/mix/v1/order/placeOrder", nil, body, &data); err != nil {
		return "", err
	}
	return data.OrderID, nil
}
