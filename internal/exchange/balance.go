package exchange

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

type accountRow struct {
	MarginCoin string `json:"marginCoin"`
	Available  string `json:"available"`
	Equity     string `json:"equity"`
}

// AvailableBalance returns the free USDT margin on the futures account.
func (c *Client) AvailableBalance(ctx context.Context) (float64, error) {
	q := url.Values{}
	q.Set("productType", "umcbl")

	var rows []accountRow
	if err := c.do(ctx, http.MethodGet, "/api/mix/v1/account/accounts", q, nil, &rows); err != nil {
		return 0, err
	}
	for _, r := range rows {
		if r.MarginCoin != marginCoin {
			continue
		}
		avail, err := strconv.ParseFloat(r.Available, 64)
		if err != nil {
			return 0, &Error{Kind: KindTransport, Op: "accounts", Err: err}
		}
		return avail, nil
	}
	return 0, nil
}
