package postgres

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db, mock
}

func TestWithinTx_Commit(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)
	eventID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET available_tickets = $1")).
		WithArgs(5, sqlmock.AnyArg(), eventID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(repos ports.Repositories) error {
		return repos.Events().UpdateAvailableTickets(context.Background(), eventID, 5)
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)
	bookingID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets SET status = 'NOT_BOOKED'")).
		WithArgs(sqlmock.AnyArg(), bookingID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.WithinTx(context.Background(), func(repos ports.Repositories) error {
		n, err := repos.Tickets().ReleaseByBooking(context.Background(), bookingID)
		if err != nil {
			return err
		}
		if n == 0 {
			return domain.ErrNothingToCancel
		}
		return nil
	})

	assert.ErrorIs(t, err, domain.ErrNothingToCancel)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_BeginFails(t *testing.T) {
	db, mock := newMock(t)
	store := NewStore(db)

	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	err := store.WithinTx(context.Background(), func(ports.Repositories) error {
		t.Fatal("fn must not run")
		return nil
	})

	assert.ErrorContains(t, err, "failed to begin transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByIDForUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventRepository(db)
	eventID, bookingID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM events WHERE id = \$1 FOR UPDATE`).
		WithArgs(eventID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "ticket_price", "total_tickets", "available_tickets", "created_at", "updated_at"}).
			AddRow(eventID.String(), "Concert", "500.00", 20, 18, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT booking_id FROM event_bookings WHERE event_id = $1")).
		WithArgs(eventID).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id"}).AddRow(bookingID.String()))

	event, err := repo.GetByIDForUpdate(context.Background(), eventID)

	require.NoError(t, err)
	assert.Equal(t, "Concert", event.Name)
	assert.True(t, decimal.NewFromInt(500).Equal(event.TicketPrice))
	assert.Equal(t, 18, event.AvailableTickets)
	assert.Equal(t, []uuid.UUID{bookingID}, event.Bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewEventRepository(db)
	eventID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM events WHERE id = \$1`).
		WithArgs(eventID).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET available_tickets")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.GetByID(context.Background(), eventID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	err = repo.UpdateAvailableTickets(context.Background(), eventID, 1)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_MarkBooked(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTicketRepository(db)
	eventID, userID, bookingID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta("AND (status = 'NOT_BOOKED' OR booking_id = $2)")).
		WithArgs(userID, bookingID, sqlmock.AnyArg(), eventID, "{7,8}").
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.MarkBooked(context.Background(), eventID, []int{7, 8}, userID, bookingID)

	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_FindAvailable(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTicketRepository(db)
	eventID := uuid.New()
	now := time.Now()

	columns := []string{"id", "event_id", "seat_number", "status", "booked_by", "booking_id", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta("seat_number = ANY($2) AND status = 'NOT_BOOKED'")).
		WithArgs(eventID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), eventID.String(), 7, "NOT_BOOKED", nil, nil, now).
			AddRow(uuid.NewString(), eventID.String(), 8, "NOT_BOOKED", nil, nil, now))

	tickets, err := repo.FindAvailable(context.Background(), eventID, []int{7, 8})

	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, 7, tickets[0].SeatNumber)
	assert.Equal(t, domain.TicketNotBooked, tickets[0].Status)
	assert.Nil(t, tickets[0].BookingID)
	assert.True(t, tickets[1].Consistent())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_ListByBooking(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTicketRepository(db)
	eventID, userID, bookingID := uuid.New(), uuid.New(), uuid.New()

	columns := []string{"id", "event_id", "seat_number", "status", "booked_by", "booking_id", "updated_at"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE booking_id = $1 ORDER BY seat_number")).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(uuid.NewString(), eventID.String(), 3, "BOOKED", userID.String(), bookingID.String(), time.Now()))

	tickets, err := repo.ListByBooking(context.Background(), bookingID)

	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.True(t, tickets[0].HeldBy(bookingID))
	assert.Equal(t, userID, *tickets[0].BookedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepository_CountByStatus(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTicketRepository(db)
	eventID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM tickets WHERE event_id = $1 AND status = $2")).
		WithArgs(eventID, "BOOKED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByStatus(context.Background(), eventID, domain.TicketBooked)

	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_GetByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)
	bookingID, userID, eventID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()

	columns := []string{
		"id", "user_id", "event_id", "number_of_tickets", "total_price", "status",
		"payment_method", "payment_amount", "payment_reference", "payment_error",
		"created_at", "updated_at",
	}
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id = \$1`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(bookingID.String(), userID.String(), eventID.String(), 2, "1000.00", "CONFIRMED", "card", "1000.00", "pi_1", nil, now, now))

	b, err := repo.GetByID(context.Background(), bookingID)

	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
	require.NotNil(t, b.Payment)
	assert.Equal(t, "card", b.Payment.Method)
	assert.Equal(t, "pi_1", b.Payment.ExternalRef)
	require.NotNil(t, b.Payment.Amount)
	assert.True(t, decimal.NewFromInt(1000).Equal(*b.Payment.Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_UpdateAndDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepository(db)
	amount := decimal.NewFromInt(1000)
	booking := &domain.Booking{
		ID:        uuid.New(),
		Status:    domain.BookingFailed,
		Payment:   &domain.PaymentDetails{Amount: &amount, Error: "card declined"},
		UpdatedAt: time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = $1")).
		WithArgs("FAILED", nil, sqlmock.AnyArg(), nil, "card declined", sqlmock.AnyArg(), booking.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM bookings WHERE id = $1")).
		WithArgs(booking.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), booking))
	assert.ErrorIs(t, repo.Delete(context.Background(), booking.ID), domain.ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
