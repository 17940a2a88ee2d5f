package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agroflowhq/agroflow/internal/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	client := New("key_id", "key_secret")

	valid := sign("key_secret", "order_123", "pay_456")
	assert.True(t, client.VerifySignature("order_123", "pay_456", valid))

	assert.False(t, client.VerifySignature("order_123", "pay_456", "tampered"))
	assert.False(t, client.VerifySignature("order_999", "pay_456", valid))
	assert.False(t, client.VerifySignature("", "pay_456", valid))
}

func TestVerifySignatureUnconfigured(t *testing.T) {
	client := New("", "")
	assert.False(t, client.VerifySignature("order_123", "pay_456", sign("", "order_123", "pay_456")))
}

func TestCreateOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(2500), body["amount"])
		assert.Equal(t, "INR", body["currency"])

		json.NewEncoder(w).Encode(gateway.Order{
			ID:       "order_123",
			Amount:   2500,
			Currency: "INR",
			Status:   "created",
		})
	}))
	defer srv.Close()

	client := New("key_id", "key_secret", WithBaseURL(srv.URL))
	order, err := client.CreateOrder(context.Background(), gateway.CreateOrderRequest{
		Amount:  2500,
		Receipt: "sale-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_123", order.ID)
	assert.Equal(t, int64(2500), order.Amount)
}

func TestCreateOrderGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New("key_id", "key_secret", WithBaseURL(srv.URL))
	_, err := client.CreateOrder(context.Background(), gateway.CreateOrderRequest{Amount: 100})
	assert.ErrorIs(t, err, gateway.ErrOrderFailed)
}

func TestCreateOrderUnconfigured(t *testing.T) {
	client := New("", "")
	_, err := client.CreateOrder(context.Background(), gateway.CreateOrderRequest{Amount: 100})
	assert.ErrorIs(t, err, gateway.ErrNotConfigured)
}

func TestPollStopsAfterMaxAttempts(t *testing.T) {
	attempts := 0
	err := gateway.Poll(context.Background(), gateway.RetryPolicy{MaxAttempts: 3}, func(ctx context.Context) (bool, error) {
		attempts++
		return false, nil
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestPollReturnsOnDone(t *testing.T) {
	attempts := 0
	err := gateway.Poll(context.Background(), gateway.RetryPolicy{MaxAttempts: 5}, func(ctx context.Context) (bool, error) {
		attempts++
		return attempts == 2, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}
