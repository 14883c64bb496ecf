package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OutcomeKind string

const (
	OutcomeCompleted OutcomeKind = "completed"
	OutcomeFailed    OutcomeKind = "failed"
)

// Metadata keys echoed back verbatim by the gateway.
const (
	MetaBookingID     = "bookingId"
	MetaEventID       = "eventId"
	MetaUserID        = "userId"
	MetaTotalPrice    = "totalPrice"
	MetaSelectedSeats = "selectedSeats"
)

type OutcomeMetadata struct {
	BookingID     uuid.UUID
	EventID       uuid.UUID
	UserID        uuid.UUID
	TotalPrice    decimal.Decimal
	SelectedSeats []int
}

func (m OutcomeMetadata) Encode() map[string]string {
	seats, _ := json.Marshal(m.SelectedSeats)
	return map[string]string{
		MetaBookingID:     m.BookingID.String(),
		MetaEventID:       m.EventID.String(),
		MetaUserID:        m.UserID.String(),
		MetaTotalPrice:    m.TotalPrice.StringFixed(2),
		MetaSelectedSeats: string(seats),
	}
}

func ParseOutcomeMetadata(raw map[string]string) (OutcomeMetadata, error) {
	var m OutcomeMetadata
	var err error

	if m.BookingID, err = uuid.Parse(raw[MetaBookingID]); err != nil {
		return m, ErrInvalidMetadata.Wrap(fmt.Errorf("%s: %w", MetaBookingID, err))
	}
	if m.UserID, err = uuid.Parse(raw[MetaUserID]); err != nil {
		return m, ErrInvalidMetadata.Wrap(fmt.Errorf("%s: %w", MetaUserID, err))
	}
	// eventId is optional, older sessions did not carry it
	if v := raw[MetaEventID]; v != "" {
		if m.EventID, err = uuid.Parse(v); err != nil {
			return m, ErrInvalidMetadata.Wrap(fmt.Errorf("%s: %w", MetaEventID, err))
		}
	}
	if v := raw[MetaTotalPrice]; v != "" {
		if m.TotalPrice, err = decimal.NewFromString(v); err != nil {
			return m, ErrInvalidMetadata.Wrap(fmt.Errorf("%s: %w", MetaTotalPrice, err))
		}
	}
	if err = json.Unmarshal([]byte(raw[MetaSelectedSeats]), &m.SelectedSeats); err != nil {
		return m, ErrInvalidMetadata.Wrap(fmt.Errorf("%s: %w", MetaSelectedSeats, err))
	}
	if m.SelectedSeats, err = NormalizeSeats(m.SelectedSeats); err != nil {
		return m, ErrInvalidMetadata.Wrap(err)
	}

	return m, nil
}

// PaymentOutcome is a verified gateway notification.
type PaymentOutcome struct {
	NotificationID string
	Kind           OutcomeKind
	ExternalRef    string
	PaymentMethod  string
	Amount         *decimal.Decimal
	FailureMessage string
	Metadata       OutcomeMetadata
	ReceivedAt     time.Time
}

const (
	MessagePaymentSuccess = "payment-success"
	MessagePaymentFailure = "payment-failure"
)

// OutcomeMessage is the downstream summary emitted after a booking settles.
type OutcomeMessage struct {
	Type       string          `json:"type"`
	BookingID  uuid.UUID       `json:"bookingId"`
	EventID    uuid.UUID       `json:"eventId"`
	UserID     uuid.UUID       `json:"userId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Seats      []int           `json:"seats"`
	Message    string          `json:"message"`
	OccurredAt time.Time       `json:"occurredAt"`
}

func NewConfirmedMessage(b *Booking, seats []int, at time.Time) OutcomeMessage {
	return OutcomeMessage{
		Type:       MessagePaymentSuccess,
		BookingID:  b.ID,
		EventID:    b.EventID,
		UserID:     b.UserID,
		TotalPrice: b.TotalPrice,
		Seats:      seats,
		Message: fmt.Sprintf("Booking confirmed for user %s with bookingId: %s, totalPrice: %s",
			b.UserID, b.ID, b.TotalPrice.StringFixed(2)),
		OccurredAt: at,
	}
}

func NewFailedMessage(b *Booking, seats []int, at time.Time) OutcomeMessage {
	return OutcomeMessage{
		Type:       MessagePaymentFailure,
		BookingID:  b.ID,
		EventID:    b.EventID,
		UserID:     b.UserID,
		TotalPrice: b.TotalPrice,
		Seats:      seats,
		Message:    fmt.Sprintf("Payment failed for user %s with bookingId: %s", b.UserID, b.ID),
		OccurredAt: at,
	}
}
