package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Events() ports.EventRepository     { return NewEventRepository(s.db) }
func (s *Store) Tickets() ports.TicketRepository   { return NewTicketRepository(s.db) }
func (s *Store) Bookings() ports.BookingRepository { return NewBookingRepository(s.db) }

func (s *Store) WithinTx(ctx context.Context, fn func(repos ports.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer tx.Rollback()

	if err := fn(txRepositories{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

type txRepositories struct {
	tx *sql.Tx
}

func (r txRepositories) Events() ports.EventRepository     { return NewEventRepository(r.tx) }
func (r txRepositories) Tickets() ports.TicketRepository   { return NewTicketRepository(r.tx) }
func (r txRepositories) Bookings() ports.BookingRepository { return NewBookingRepository(r.tx) }

func seatArray(seats []int) pq.Int64Array {
	arr := make(pq.Int64Array, len(seats))
	for i, s := range seats {
		arr[i] = int64(s)
	}
	return arr
}
