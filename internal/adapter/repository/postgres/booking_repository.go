package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
)

type BookingRepository struct {
	db querier
}

func NewBookingRepository(db querier) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
	INSERT INTO bookings (id, user_id, event_id, number_of_tickets, total_price, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query, booking.ID, booking.UserID, booking.EventID, booking.NumberOfTickets, booking.TotalPrice, booking.Status, booking.CreatedAt, booking.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	query := `
	SELECT id, user_id, event_id, number_of_tickets, total_price, status,
		payment_method, payment_amount, payment_reference, payment_error,
		created_at, updated_at
	FROM bookings
	WHERE id = $1
	`

	var b domain.Booking
	var method, reference, paymentErr sql.NullString
	var amount decimal.NullDecimal

	err := r.db.QueryRowContext(ctx, query, bookingID).Scan(
		&b.ID,
		&b.UserID,
		&b.EventID,
		&b.NumberOfTickets,
		&b.TotalPrice,
		&b.Status,
		&method,
		&amount,
		&reference,
		&paymentErr,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}

		return nil, err
	}

	if method.Valid || amount.Valid || reference.Valid || paymentErr.Valid {
		b.Payment = &domain.PaymentDetails{
			Method:      method.String,
			ExternalRef: reference.String,
			Error:       paymentErr.String,
		}
		if amount.Valid {
			b.Payment.Amount = &amount.Decimal
		}
	}

	return &b, nil
}

func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
	UPDATE bookings
	SET status = $1,
		payment_method = $2,
		payment_amount = $3,
		payment_reference = $4,
		payment_error = $5,
		updated_at = $6
	WHERE id = $7
	`

	var method, reference, paymentErr sql.NullString
	var amount decimal.NullDecimal
	if p := booking.Payment; p != nil {
		method = sql.NullString{String: p.Method, Valid: p.Method != ""}
		reference = sql.NullString{String: p.ExternalRef, Valid: p.ExternalRef != ""}
		paymentErr = sql.NullString{String: p.Error, Valid: p.Error != ""}
		if p.Amount != nil {
			amount = decimal.NewNullDecimal(*p.Amount)
		}
	}

	result, err := r.db.ExecContext(ctx, query, booking.Status, method, amount, reference, paymentErr, booking.UpdatedAt, booking.ID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, bookingID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, bookingID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrBookingNotFound
	}

	return nil
}
