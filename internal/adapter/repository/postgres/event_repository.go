package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
)

type EventRepository struct {
	db querier
}

func NewEventRepository(db querier) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
	INSERT INTO events (id, name, ticket_price, total_tickets, available_tickets, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query, event.ID, event.Name, event.TicketPrice, event.TotalTickets, event.AvailableTickets, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	return r.get(ctx, eventID, false)
}

func (r *EventRepository) GetByIDForUpdate(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	return r.get(ctx, eventID, true)
}

func (r *EventRepository) get(ctx context.Context, eventID uuid.UUID, forUpdate bool) (*domain.Event, error) {
	query := `
	SELECT id, name, ticket_price, total_tickets, available_tickets, created_at, updated_at
	FROM events
	WHERE id = $1
	`
	if forUpdate {
		query += "FOR UPDATE"
	}

	var event domain.Event
	err := r.db.QueryRowContext(ctx, query, eventID).Scan(
		&event.ID,
		&event.Name,
		&event.TicketPrice,
		&event.TotalTickets,
		&event.AvailableTickets,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}

		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT booking_id FROM event_bookings WHERE event_id = $1 ORDER BY created_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event bookings: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		event.Bookings = append(event.Bookings, id)
	}

	return &event, rows.Err()
}

func (r *EventRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM events ORDER BY created_at`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *EventRepository) UpdateAvailableTickets(ctx context.Context, eventID uuid.UUID, available int) error {
	query := `
	UPDATE events
	SET available_tickets = $1, updated_at = $2
	WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, available, time.Now(), eventID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrEventNotFound
	}

	return nil
}

func (r *EventRepository) AttachBooking(ctx context.Context, eventID, bookingID uuid.UUID) error {
	query := `
	INSERT INTO event_bookings (event_id, booking_id, created_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (event_id, booking_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, eventID, bookingID, time.Now())
	return err
}

func (r *EventRepository) DetachBooking(ctx context.Context, eventID, bookingID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM event_bookings WHERE event_id = $1 AND booking_id = $2`, eventID, bookingID)
	return err
}
