package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
)

type TicketRepository struct {
	db querier
}

func NewTicketRepository(db querier) *TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) CreateBatch(ctx context.Context, eventID uuid.UUID, total int) error {
	query := `
	INSERT INTO tickets (id, event_id, seat_number, status, updated_at)
	SELECT gen_random_uuid(), $1, seat, 'NOT_BOOKED', $2
	FROM generate_series(1, $3) AS seat
	`

	result, err := r.db.ExecContext(ctx, query, eventID, time.Now(), total)
	if err != nil {
		return fmt.Errorf("failed to insert tickets: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected != int64(total) {
		return fmt.Errorf("created %d tickets, expected %d", rowsAffected, total)
	}

	return nil
}

func (r *TicketRepository) FindAvailable(ctx context.Context, eventID uuid.UUID, seats []int) ([]domain.Ticket, error) {
	query := `
	SELECT id, event_id, seat_number, status, booked_by, booking_id, updated_at
	FROM tickets
	WHERE event_id = $1 AND seat_number = ANY($2) AND status = 'NOT_BOOKED'
	ORDER BY seat_number
	`

	return r.list(ctx, query, eventID, seatArray(seats))
}

func (r *TicketRepository) MarkBooked(ctx context.Context, eventID uuid.UUID, seats []int, userID, bookingID uuid.UUID) (int64, error) {
	query := `
	UPDATE tickets
	SET status = 'BOOKED',
		booked_by = $1,
		booking_id = $2,
		updated_at = $3
	WHERE event_id = $4
		AND seat_number = ANY($5)
		AND (status = 'NOT_BOOKED' OR booking_id = $2)
	`

	result, err := r.db.ExecContext(ctx, query, userID, bookingID, time.Now(), eventID, seatArray(seats))
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *TicketRepository) CountHeldBy(ctx context.Context, bookingID uuid.UUID, seats []int) (int, error) {
	query := `
	SELECT COUNT(*)
	FROM tickets
	WHERE booking_id = $1 AND seat_number = ANY($2) AND status = 'BOOKED'
	`

	var n int
	if err := r.db.QueryRowContext(ctx, query, bookingID, seatArray(seats)).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (r *TicketRepository) ReleaseHeldBy(ctx context.Context, eventID uuid.UUID, seats []int, bookingID uuid.UUID) (int64, error) {
	query := `
	UPDATE tickets
	SET status = 'NOT_BOOKED',
		booked_by = NULL,
		booking_id = NULL,
		updated_at = $1
	WHERE event_id = $2 AND seat_number = ANY($3) AND booking_id = $4
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), eventID, seatArray(seats), bookingID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *TicketRepository) ReleaseByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	query := `
	UPDATE tickets
	SET status = 'NOT_BOOKED',
		booked_by = NULL,
		booking_id = NULL,
		updated_at = $1
	WHERE booking_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, time.Now(), bookingID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *TicketRepository) CountByStatus(ctx context.Context, eventID uuid.UUID, status domain.TicketStatus) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tickets WHERE event_id = $1 AND status = $2`, eventID, status).Scan(&n)
	if err != nil {
		return 0, err
	}

	return n, nil
}

func (r *TicketRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Ticket, error) {
	query := `
	SELECT id, event_id, seat_number, status, booked_by, booking_id, updated_at
	FROM tickets
	WHERE event_id = $1
	ORDER BY seat_number
	`

	return r.list(ctx, query, eventID)
}

func (r *TicketRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Ticket, error) {
	query := `
	SELECT id, event_id, seat_number, status, booked_by, booking_id, updated_at
	FROM tickets
	WHERE booking_id = $1
	ORDER BY seat_number
	`

	return r.list(ctx, query, bookingID)
}

func (r *TicketRepository) list(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var tickets []domain.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}

		tickets = append(tickets, t)
	}

	return tickets, rows.Err()
}

func scanTicket(rows *sql.Rows) (domain.Ticket, error) {
	var t domain.Ticket
	var bookedBy, bookingID uuid.NullUUID

	err := rows.Scan(
		&t.ID,
		&t.EventID,
		&t.SeatNumber,
		&t.Status,
		&bookedBy,
		&bookingID,
		&t.UpdatedAt,
	)
	if err != nil {
		return t, err
	}

	if bookedBy.Valid {
		t.BookedBy = &bookedBy.UUID
	}

	if bookingID.Valid {
		t.BookingID = &bookingID.UUID
	}

	return t, nil
}
