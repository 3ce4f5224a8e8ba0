package exchange

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
)

const (
	defaultBaseURL = "https://api.bitget.com"
	marginCoin     = "USDT"
	successCode    = "00000"

	// Exchange-declared precision for USDT-M contracts. Rounding to these is a
	// hard wire-level constraint, the API rejects anything finer.
	PricePrecision = 2
	SizePrecision  = 3
)

type Credentials struct {
	APIKey     string
	APISecret  string
	Passphrase string
	BaseURL    string
}

type Client struct {
	http  *http.Client
	creds Credentials
}

func NewClient(creds Credentials) *Client {
	if creds.BaseURL == "" {
		creds.BaseURL = defaultBaseURL
	}
	return &Client{
		http:  &http.Client{Timeout: 10 * time.Second},
		creds: creds,
	}
}

type envelope struct {
	Code string          `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// sign computes base64(HMAC-SHA256(secret, ts + UPPER(method) + requestPath + body)).
// requestPath carries the encoded query string for GET; body is the exact
// serialized JSON for POST.
func (c *Client) sign(ts, method, requestPath, body string) string {
	h := hmac.New(sha256.New, []byte(c.creds.APISecret))
	h.Write([]byte(ts + method + requestPath + body))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// do issues one signed request and unmarshals the envelope data into out
// (out may be nil when the payload does not matter).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, out any) error {
	requestPath := path
	if len(query) > 0 {
		requestPath += "?" + query.Encode()
	}

	var body string
	if payload != nil {
		raw, err := sonic.Marshal(payload)
		if err != nil {
			return &Error{Kind: KindTransport, Op: path, Err: fmt.Errorf("marshal payload: %w", err)}
		}
		body = string(raw)
	}

	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)

	var rd io.Reader
	if body != "" {
		rd = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequestWithContext(ctx, method, c.creds.BaseURL+requestPath, rd)
	if err != nil {
		return &Error{Kind: KindTransport, Op: path, Err: err}
	}
	req.Header.Set("ACCESS-KEY", c.creds.APIKey)
	req.Header.Set("ACCESS-SIGN", c.sign(ts, method, requestPath, body))
	req.Header.Set("ACCESS-TIMESTAMP", ts)
	req.Header.Set("ACCESS-PASSPHRASE", c.creds.Passphrase)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("locale", "en-US")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Op: path, Err: err}
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Op: path, Err: err}
	}
	if resp.StatusCode/100 != 2 {
		return &Error{Kind: KindTransport, Op: path, Err: fmt.Errorf("http %d: %s", resp.StatusCode, string(rb))}
	}

	var env envelope
	if err := sonic.Unmarshal(rb, &env); err != nil {
		return &Error{Kind: KindTransport, Op: path, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if env.Code != successCode {
		return &Error{Kind: KindApplication, Op: path, Code: env.Code, Msg: env.Msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := sonic.Unmarshal(env.Data, out); err != nil {
			return &Error{Kind: KindTransport, Op: path, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}
