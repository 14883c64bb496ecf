package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Event struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	TicketPrice      decimal.Decimal `json:"ticketPrice"`
	TotalTickets     int             `json:"totalTickets"`
	AvailableTickets int             `json:"availableTickets"`
	Bookings         []uuid.UUID     `json:"bookings,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

type SeatCounts struct {
	Booked    int `json:"booked"`
	Pending   int `json:"pending"`
	NotBooked int `json:"notBooked"`
}

type SeatsByStatus struct {
	Booked    []int `json:"booked"`
	Pending   []int `json:"pending"`
	NotBooked []int `json:"notBooked"`
}

// Availability is the per-status view of an event's tickets.
type Availability struct {
	EventID          uuid.UUID     `json:"eventId"`
	TotalTickets     int           `json:"totalTickets"`
	AvailableTickets int           `json:"availableTickets"`
	Counts           SeatCounts    `json:"bookingsCount"`
	Seats            SeatsByStatus `json:"categorizedTickets"`
}

func NewAvailability(event *Event, tickets []Ticket) *Availability {
	a := &Availability{
		EventID:          event.ID,
		TotalTickets:     event.TotalTickets,
		AvailableTickets: event.AvailableTickets,
		Seats: SeatsByStatus{
			Booked:    []int{},
			Pending:   []int{},
			NotBooked: []int{},
		},
	}

	for _, t := range tickets {
		switch t.Status {
		case TicketBooked:
			a.Counts.Booked++
			a.Seats.Booked = append(a.Seats.Booked, t.SeatNumber)
		case TicketPending:
			a.Counts.Pending++
			a.Seats.Pending = append(a.Seats.Pending, t.SeatNumber)
		case TicketNotBooked:
			a.Counts.NotBooked++
			a.Seats.NotBooked = append(a.Seats.NotBooked, t.SeatNumber)
		}
	}

	return a
}
