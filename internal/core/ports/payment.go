package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

type SessionRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Description string
	Metadata    map[string]string
}

type Session struct {
	ID  string
	URL string
}

type PaymentGateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}
