package domain

import (
	"time"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	TicketNotBooked TicketStatus = "NOT_BOOKED"
	TicketPending   TicketStatus = "PENDING"
	TicketBooked    TicketStatus = "BOOKED"
)

type Ticket struct {
	ID         uuid.UUID    `json:"id"`
	EventID    uuid.UUID    `json:"eventId"`
	SeatNumber int          `json:"seatNumber"`
	Status     TicketStatus `json:"status"`
	BookedBy   *uuid.UUID   `json:"bookedBy,omitempty"`
	BookingID  *uuid.UUID   `json:"booking,omitempty"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func (t *Ticket) IsAvailable() bool {
	return t.Status == TicketNotBooked
}

// Consistent reports whether the owner and booking references agree with the status.
func (t *Ticket) Consistent() bool {
	switch t.Status {
	case TicketBooked:
		return t.BookedBy != nil && t.BookingID != nil
	case TicketNotBooked:
		return t.BookedBy == nil && t.BookingID == nil
	default:
		return true
	}
}

// HeldBy reports whether the ticket is booked under the given booking.
func (t *Ticket) HeldBy(bookingID uuid.UUID) bool {
	return t.Status == TicketBooked && t.BookingID != nil && *t.BookingID == bookingID
}
