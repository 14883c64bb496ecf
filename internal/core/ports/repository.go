package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
)

type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	// GetByIDForUpdate locks the event row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, eventID uuid.UUID) (*domain.Event, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdateAvailableTickets(ctx context.Context, eventID uuid.UUID, available int) error
	AttachBooking(ctx context.Context, eventID, bookingID uuid.UUID) error
	DetachBooking(ctx context.Context, eventID, bookingID uuid.UUID) error
}

type TicketRepository interface {
	CreateBatch(ctx context.Context, eventID uuid.UUID, total int) error
	FindAvailable(ctx context.Context, eventID uuid.UUID, seats []int) ([]domain.Ticket, error)
	// MarkBooked books the seats that are free or already held by bookingID
	// and returns how many rows it touched.
	MarkBooked(ctx context.Context, eventID uuid.UUID, seats []int, userID, bookingID uuid.UUID) (int64, error)
	CountHeldBy(ctx context.Context, bookingID uuid.UUID, seats []int) (int, error)
	ReleaseHeldBy(ctx context.Context, eventID uuid.UUID, seats []int, bookingID uuid.UUID) (int64, error)
	ReleaseByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error)
	CountByStatus(ctx context.Context, eventID uuid.UUID, status domain.TicketStatus) (int, error)
	ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Ticket, error)
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Ticket, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
	Delete(ctx context.Context, bookingID uuid.UUID) error
}

type Repositories interface {
	Events() EventRepository
	Tickets() TicketRepository
	Bookings() BookingRepository
}

// InventoryStore runs fn against repositories bound to one transaction.
// Returning an error from fn rolls every write back.
type InventoryStore interface {
	Repositories
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}
