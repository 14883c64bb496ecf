package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSession_Success(t *testing.T) {
	var got sessionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "b-1", r.Header.Get("Idempotency-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_123","url":"https://checkout.example.com/cs_123"}`))
	}))
	defer srv.Close()

	client := NewCheckoutClient(CheckoutConfig{
		BaseURL:    srv.URL + "/",
		SecretKey:  "sk_test",
		SuccessURL: "https://app.example.com/success",
		CancelURL:  "https://app.example.com/cancel",
	})

	session, err := client.CreateSession(context.Background(), ports.SessionRequest{
		Amount:      decimal.RequireFromString("1000.50"),
		Currency:    "NPR",
		Description: "2 ticket(s)",
		Metadata:    map[string]string{domain.MetaBookingID: "b-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_123", session.ID)
	assert.Equal(t, "https://checkout.example.com/cs_123", session.URL)
	assert.EqualValues(t, 100050, got.Amount)
	assert.Equal(t, "npr", got.Currency)
	assert.Equal(t, "https://app.example.com/success", got.SuccessURL)
	assert.Equal(t, "b-1", got.Metadata[domain.MetaBookingID])
}

func TestCreateSession_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"amount too small"}}`))
	}))
	defer srv.Close()

	client := NewCheckoutClient(CheckoutConfig{BaseURL: srv.URL})

	_, err := client.CreateSession(context.Background(), ports.SessionRequest{Amount: decimal.NewFromInt(1)})

	assert.ErrorContains(t, err, "amount too small")
	assert.ErrorContains(t, err, "402")
}

func TestMinorUnits(t *testing.T) {
	assert.EqualValues(t, 50000, ToMinorUnits(decimal.NewFromInt(500)))
	assert.EqualValues(t, 1999, ToMinorUnits(decimal.RequireFromString("19.989")))
	assert.True(t, decimal.RequireFromString("1000.50").Equal(FromMinorUnits(100050)))
}
