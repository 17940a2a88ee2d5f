package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agroflowhq/agroflow/internal/gateway"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

type Client struct {
	keyID      string
	keySecret  string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURL overrides the API endpoint, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func New(keyID, keySecret string, opts ...Option) *Client {
	c := &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) KeyID() string { return c.keyID }

func (c *Client) configured() bool {
	return c.keyID != "" && c.keySecret != ""
}

func (c *Client) CreateOrder(ctx context.Context, req gateway.CreateOrderRequest) (gateway.Order, error) {
	if !c.configured() {
		return gateway.Order{}, gateway.ErrNotConfigured
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	body, err := json.Marshal(map[string]any{
		"amount":   req.Amount,
		"currency": currency,
		"receipt":  req.Receipt,
	})
	if err != nil {
		return gateway.Order{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return gateway.Order{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	return c.do(httpReq)
}

func (c *Client) FetchOrder(ctx context.Context, orderID string) (gateway.Order, error) {
	if !c.configured() {
		return gateway.Order{}, gateway.ErrNotConfigured
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/orders/"+orderID, nil)
	if err != nil {
		return gateway.Order{}, err
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (gateway.Order, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gateway.Order{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return gateway.Order{}, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gateway.Order{}, fmt.Errorf("%w: status %d", gateway.ErrOrderFailed, resp.StatusCode)
	}

	var order gateway.Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return gateway.Order{}, err
	}
	return order, nil
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256 of
// "orderID|paymentID" keyed with the API secret, hex encoded.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	if !c.configured() || orderID == "" || paymentID == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(c.keySecret))
	_, _ = mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
