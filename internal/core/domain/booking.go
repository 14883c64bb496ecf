package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingFailed    BookingStatus = "FAILED"
)

type Booking struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	EventID         uuid.UUID       `json:"eventId"`
	NumberOfTickets int             `json:"numberOfTickets"`
	TotalPrice      decimal.Decimal `json:"totalPrice"`
	Status          BookingStatus   `json:"status"`
	Payment         *PaymentDetails `json:"paymentDetails,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// PaymentDetails is what the gateway reported when the booking was settled.
type PaymentDetails struct {
	Method      string           `json:"paymentMethod,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	ExternalRef string           `json:"externalReference,omitempty"`
	Error       string           `json:"error,omitempty"`
}

func (b *Booking) IsSettled() bool {
	return b.Status == BookingConfirmed || b.Status == BookingFailed
}

type BookingDetails struct {
	Booking *Booking `json:"booking"`
	Event   *Event   `json:"event"`
	Seats   []int    `json:"seats"`
}
