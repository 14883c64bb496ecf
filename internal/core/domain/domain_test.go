package domain_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSeats(t *testing.T) {
	seats, err := domain.NormalizeSeats([]int{8, 7, 8, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7, 8}, seats)

	_, err = domain.NormalizeSeats(nil)
	assert.ErrorIs(t, err, domain.ErrNoSeatsSelected)

	_, err = domain.NormalizeSeats([]int{1, 0})
	assert.ErrorIs(t, err, domain.ErrInvalidSeat)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestErrorKindMapping(t *testing.T) {
	wrapped := fmt.Errorf("reserve: %w", domain.ErrSeatsLocked.Wrap(errors.New("key taken")))

	assert.ErrorIs(t, wrapped, domain.ErrSeatsLocked)
	assert.NotErrorIs(t, wrapped, domain.ErrSeatsUnavailable)
	assert.Equal(t, domain.KindLocked, domain.KindOf(wrapped))
	assert.Equal(t, http.StatusLocked, domain.KindOf(wrapped).HTTPStatus())
	assert.Equal(t, domain.KindInternal, domain.KindOf(errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, domain.KindTransactionFailed.HTTPStatus())
	assert.Equal(t, http.StatusForbidden, domain.ErrNotBookingOwner.Kind.HTTPStatus())
}

func TestOutcomeMetadata_RoundTrip(t *testing.T) {
	meta := domain.OutcomeMetadata{
		BookingID:     uuid.New(),
		EventID:       uuid.New(),
		UserID:        uuid.New(),
		TotalPrice:    decimal.RequireFromString("1000.50"),
		SelectedSeats: []int{7, 8},
	}

	raw := meta.Encode()
	assert.Equal(t, "[7,8]", raw[domain.MetaSelectedSeats])
	assert.Equal(t, "1000.50", raw[domain.MetaTotalPrice])

	parsed, err := domain.ParseOutcomeMetadata(raw)
	require.NoError(t, err)
	assert.Equal(t, meta.BookingID, parsed.BookingID)
	assert.Equal(t, meta.SelectedSeats, parsed.SelectedSeats)
	assert.True(t, meta.TotalPrice.Equal(parsed.TotalPrice))
}

func TestParseOutcomeMetadata_Malformed(t *testing.T) {
	good := domain.OutcomeMetadata{
		BookingID:     uuid.New(),
		UserID:        uuid.New(),
		SelectedSeats: []int{1},
	}.Encode()

	cases := map[string]func(m map[string]string){
		"bad booking id": func(m map[string]string) { m[domain.MetaBookingID] = "nope" },
		"missing user":   func(m map[string]string) { delete(m, domain.MetaUserID) },
		"seats not json": func(m map[string]string) { m[domain.MetaSelectedSeats] = "7,8" },
		"empty seats":    func(m map[string]string) { m[domain.MetaSelectedSeats] = "[]" },
		"bad price":      func(m map[string]string) { m[domain.MetaTotalPrice] = "ten" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			raw := make(map[string]string, len(good))
			for k, v := range good {
				raw[k] = v
			}
			mutate(raw)

			_, err := domain.ParseOutcomeMetadata(raw)
			assert.ErrorIs(t, err, domain.ErrInvalidMetadata)
			assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		})
	}
}

func TestTicket_Consistent(t *testing.T) {
	owner, booking := uuid.New(), uuid.New()

	assert.True(t, (&domain.Ticket{Status: domain.TicketNotBooked}).Consistent())
	assert.False(t, (&domain.Ticket{Status: domain.TicketNotBooked, BookingID: &booking}).Consistent())
	assert.False(t, (&domain.Ticket{Status: domain.TicketBooked, BookedBy: &owner}).Consistent())

	held := &domain.Ticket{Status: domain.TicketBooked, BookedBy: &owner, BookingID: &booking}
	assert.True(t, held.Consistent())
	assert.True(t, held.HeldBy(booking))
	assert.False(t, held.HeldBy(uuid.New()))
}

func TestNewAvailability(t *testing.T) {
	owner, booking := uuid.New(), uuid.New()
	event := &domain.Event{ID: uuid.New(), TotalTickets: 3, AvailableTickets: 2}
	tickets := []domain.Ticket{
		{SeatNumber: 1, Status: domain.TicketBooked, BookedBy: &owner, BookingID: &booking},
		{SeatNumber: 2, Status: domain.TicketNotBooked},
		{SeatNumber: 3, Status: domain.TicketNotBooked},
	}

	a := domain.NewAvailability(event, tickets)

	assert.Equal(t, domain.SeatCounts{Booked: 1, NotBooked: 2}, a.Counts)
	assert.Equal(t, []int{1}, a.Seats.Booked)
	assert.Equal(t, []int{2, 3}, a.Seats.NotBooked)
	assert.Empty(t, a.Seats.Pending)
	assert.NotNil(t, a.Seats.Pending)
	assert.Equal(t, 2, a.AvailableTickets)
}
