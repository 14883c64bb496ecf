package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is applied in order inside one transaction. Every statement must be
// safe to run again against an already migrated database.
var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS events (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL,
		ticket_price NUMERIC(12, 2) NOT NULL CHECK (ticket_price > 0),
		total_tickets INTEGER NOT NULL CHECK (total_tickets > 0),
		available_tickets INTEGER NOT NULL CHECK (available_tickets >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		user_id UUID NOT NULL,
		event_id UUID NOT NULL REFERENCES events (id),
		number_of_tickets INTEGER NOT NULL CHECK (number_of_tickets > 0),
		total_price NUMERIC(12, 2) NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('PENDING', 'CONFIRMED', 'FAILED')),
		payment_method TEXT,
		payment_amount NUMERIC(12, 2),
		payment_reference TEXT,
		payment_error TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS event_bookings (
		event_id UUID NOT NULL REFERENCES events (id),
		booking_id UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (event_id, booking_id)
	)`,

	// booking_id is a plain reference, the booking row is deleted on cancel
	`CREATE TABLE IF NOT EXISTS tickets (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		event_id UUID NOT NULL REFERENCES events (id),
		seat_number INTEGER NOT NULL CHECK (seat_number > 0),
		status TEXT NOT NULL CHECK (status IN ('BOOKED', 'PENDING', 'NOT_BOOKED')),
		booked_by UUID,
		booking_id UUID,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (event_id, seat_number),
		CONSTRAINT tickets_booked_has_refs CHECK (
			status = 'NOT_BOOKED' OR (booked_by IS NOT NULL AND booking_id IS NOT NULL)
		),
		CONSTRAINT tickets_free_has_no_refs CHECK (
			status <> 'NOT_BOOKED' OR (booked_by IS NULL AND booking_id IS NULL)
		)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tickets_booking_id ON tickets (booking_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_event_status ON tickets (event_id, status)`,
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}

	return nil
}
