package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
)

type CheckoutConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	SecretKey  string        `mapstructure:"secret_key"`
	SuccessURL string        `mapstructure:"success_url"`
	CancelURL  string        `mapstructure:"cancel_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// CheckoutClient opens hosted checkout sessions on the payment gateway.
type CheckoutClient struct {
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string

	hc *http.Client
}

func NewCheckoutClient(cfg CheckoutConfig) *CheckoutClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &CheckoutClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:  cfg.SecretKey,
		successURL: cfg.SuccessURL,
		cancelURL:  cfg.CancelURL,
		hc: &http.Client{
			Timeout: timeout,
		},
	}
}

type sessionRequest struct {
	Mode               string            `json:"mode"`
	PaymentMethodTypes []string          `json:"payment_method_types"`
	Currency           string            `json:"currency"`
	Amount             int64             `json:"amount"`
	Description        string            `json:"description"`
	SuccessURL         string            `json:"success_url"`
	CancelURL          string            `json:"cancel_url"`
	Metadata           map[string]string `json:"metadata"`
}

type sessionReply struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *CheckoutClient) CreateSession(ctx context.Context, req ports.SessionRequest) (*ports.Session, error) {
	body, err := json.Marshal(sessionRequest{
		Mode:               "payment",
		PaymentMethodTypes: []string{"card"},
		Currency:           strings.ToLower(req.Currency),
		Amount:             ToMinorUnits(req.Amount),
		Description:        req.Description,
		SuccessURL:         c.successURL,
		CancelURL:          c.cancelURL,
		Metadata:           req.Metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("createSession: json.Marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("createSession: http.NewRequest: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	if id := req.Metadata[domain.MetaBookingID]; id != "" {
		httpReq.Header.Set("Idempotency-Key", id)
	}

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("createSession: http.Do: %w", err)
	}
	defer resp.Body.Close()

	var reply sessionReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("createSession: json.Decode (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		if reply.Error != nil && reply.Error.Message != "" {
			msg = reply.Error.Message
		}
		return nil, fmt.Errorf("createSession: status %d: %s", resp.StatusCode, msg)
	}

	if reply.ID == "" || reply.URL == "" {
		return nil, errors.New("createSession: incomplete session in reply")
	}

	return &ports.Session{ID: reply.ID, URL: reply.URL}, nil
}

// ToMinorUnits converts an amount to the smallest currency unit (paisa, cents).
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func FromMinorUnits(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
