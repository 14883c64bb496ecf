// Package memory is a single-node inventory store. Transactions run against a
// private copy of the state which replaces the live state only on success.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
)

type state struct {
	events   map[uuid.UUID]*domain.Event
	tickets  map[uuid.UUID][]domain.Ticket
	bookings map[uuid.UUID]*domain.Booking
}

func newState() *state {
	return &state{
		events:   make(map[uuid.UUID]*domain.Event),
		tickets:  make(map[uuid.UUID][]domain.Ticket),
		bookings: make(map[uuid.UUID]*domain.Booking),
	}
}

func (s *state) clone() *state {
	c := newState()
	for id, e := range s.events {
		c.events[id] = copyEvent(e)
	}
	for id, ts := range s.tickets {
		cp := make([]domain.Ticket, len(ts))
		for i := range ts {
			cp[i] = copyTicket(ts[i])
		}
		c.tickets[id] = cp
	}
	for id, b := range s.bookings {
		c.bookings[id] = copyBooking(b)
	}
	return c
}

type Store struct {
	mu sync.Mutex
	st *state

	// BeforeOp, when set, runs before every repository call with the
	// operation name (for example "tickets.MarkBooked"). A non-nil error
	// fails that call.
	BeforeOp func(op string) error

	live *repositories
}

func NewStore() *Store {
	s := &Store{st: newState()}
	s.live = &repositories{sess: &session{store: s}}
	return s
}

func (s *Store) Events() ports.EventRepository     { return s.live.Events() }
func (s *Store) Tickets() ports.TicketRepository   { return s.live.Tickets() }
func (s *Store) Bookings() ports.BookingRepository { return s.live.Bookings() }

func (s *Store) WithinTx(ctx context.Context, fn func(repos ports.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.st.clone()
	if err := fn(&repositories{sess: &session{store: s, st: draft}}); err != nil {
		return err
	}

	s.st = draft
	return nil
}

// session routes a call either to a transaction draft or, outside a
// transaction, to the live state under the store mutex.
type session struct {
	store *Store
	st    *state
}

func (s *session) do(op string, fn func(st *state) error) error {
	if hook := s.store.BeforeOp; hook != nil {
		if err := hook(op); err != nil {
			return err
		}
	}

	if s.st != nil {
		return fn(s.st)
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	return fn(s.store.st)
}

type repositories struct {
	sess *session
}

func (r *repositories) Events() ports.EventRepository     { return &eventRepository{sess: r.sess} }
func (r *repositories) Tickets() ports.TicketRepository   { return &ticketRepository{sess: r.sess} }
func (r *repositories) Bookings() ports.BookingRepository { return &bookingRepository{sess: r.sess} }

type eventRepository struct {
	sess *session
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	return r.sess.do("events.Create", func(st *state) error {
		st.events[event.ID] = copyEvent(event)
		return nil
	})
}

func (r *eventRepository) GetByID(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	var out *domain.Event
	err := r.sess.do("events.GetByID", func(st *state) error {
		e, ok := st.events[eventID]
		if !ok {
			return domain.ErrEventNotFound
		}
		out = copyEvent(e)
		return nil
	})
	return out, err
}

func (r *eventRepository) GetByIDForUpdate(ctx context.Context, eventID uuid.UUID) (*domain.Event, error) {
	var out *domain.Event
	err := r.sess.do("events.GetByIDForUpdate", func(st *state) error {
		e, ok := st.events[eventID]
		if !ok {
			return domain.ErrEventNotFound
		}
		out = copyEvent(e)
		return nil
	})
	return out, err
}

func (r *eventRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.sess.do("events.ListIDs", func(st *state) error {
		for id := range st.events {
			ids = append(ids, id)
		}
		return nil
	})
	return ids, err
}

func (r *eventRepository) UpdateAvailableTickets(ctx context.Context, eventID uuid.UUID, available int) error {
	return r.sess.do("events.UpdateAvailableTickets", func(st *state) error {
		e, ok := st.events[eventID]
		if !ok {
			return domain.ErrEventNotFound
		}
		e.AvailableTickets = available
		e.UpdatedAt = time.Now()
		return nil
	})
}

func (r *eventRepository) AttachBooking(ctx context.Context, eventID, bookingID uuid.UUID) error {
	return r.sess.do("events.AttachBooking", func(st *state) error {
		e, ok := st.events[eventID]
		if !ok {
			return domain.ErrEventNotFound
		}
		for _, id := range e.Bookings {
			if id == bookingID {
				return nil
			}
		}
		e.Bookings = append(e.Bookings, bookingID)
		return nil
	})
}

func (r *eventRepository) DetachBooking(ctx context.Context, eventID, bookingID uuid.UUID) error {
	return r.sess.do("events.DetachBooking", func(st *state) error {
		e, ok := st.events[eventID]
		if !ok {
			return domain.ErrEventNotFound
		}
		kept := e.Bookings[:0]
		for _, id := range e.Bookings {
			if id != bookingID {
				kept = append(kept, id)
			}
		}
		e.Bookings = kept
		return nil
	})
}

type ticketRepository struct {
	sess *session
}

func (r *ticketRepository) CreateBatch(ctx context.Context, eventID uuid.UUID, total int) error {
	return r.sess.do("tickets.CreateBatch", func(st *state) error {
		now := time.Now()
		ts := make([]domain.Ticket, 0, total)
		for seat := 1; seat <= total; seat++ {
			ts = append(ts, domain.Ticket{
				ID:         uuid.New(),
				EventID:    eventID,
				SeatNumber: seat,
				Status:     domain.TicketNotBooked,
				UpdatedAt:  now,
			})
		}
		st.tickets[eventID] = ts
		return nil
	})
}

func (r *ticketRepository) FindAvailable(ctx context.Context, eventID uuid.UUID, seats []int) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := r.sess.do("tickets.FindAvailable", func(st *state) error {
		for _, t := range st.tickets[eventID] {
			if t.Status == domain.TicketNotBooked && domain.ContainsSeat(seats, t.SeatNumber) {
				out = append(out, copyTicket(t))
			}
		}
		return nil
	})
	return out, err
}

func (r *ticketRepository) MarkBooked(ctx context.Context, eventID uuid.UUID, seats []int, userID, bookingID uuid.UUID) (int64, error) {
	var n int64
	err := r.sess.do("tickets.MarkBooked", func(st *state) error {
		ts := st.tickets[eventID]
		now := time.Now()
		for i := range ts {
			t := &ts[i]
			if !domain.ContainsSeat(seats, t.SeatNumber) {
				continue
			}
			if t.Status != domain.TicketNotBooked && !t.HeldBy(bookingID) {
				continue
			}
			owner, booking := userID, bookingID
			t.Status = domain.TicketBooked
			t.BookedBy = &owner
			t.BookingID = &booking
			t.UpdatedAt = now
			n++
		}
		return nil
	})
	return n, err
}

func (r *ticketRepository) CountHeldBy(ctx context.Context, bookingID uuid.UUID, seats []int) (int, error) {
	var n int
	err := r.sess.do("tickets.CountHeldBy", func(st *state) error {
		for _, ts := range st.tickets {
			for i := range ts {
				if ts[i].HeldBy(bookingID) && domain.ContainsSeat(seats, ts[i].SeatNumber) {
					n++
				}
			}
		}
		return nil
	})
	return n, err
}

func (r *ticketRepository) ReleaseHeldBy(ctx context.Context, eventID uuid.UUID, seats []int, bookingID uuid.UUID) (int64, error) {
	var n int64
	err := r.sess.do("tickets.ReleaseHeldBy", func(st *state) error {
		ts := st.tickets[eventID]
		for i := range ts {
			if ts[i].BookingID != nil && *ts[i].BookingID == bookingID && domain.ContainsSeat(seats, ts[i].SeatNumber) {
				release(&ts[i])
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ticketRepository) ReleaseByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	var n int64
	err := r.sess.do("tickets.ReleaseByBooking", func(st *state) error {
		for _, ts := range st.tickets {
			for i := range ts {
				if ts[i].BookingID != nil && *ts[i].BookingID == bookingID {
					release(&ts[i])
					n++
				}
			}
		}
		return nil
	})
	return n, err
}

func (r *ticketRepository) CountByStatus(ctx context.Context, eventID uuid.UUID, status domain.TicketStatus) (int, error) {
	var n int
	err := r.sess.do("tickets.CountByStatus", func(st *state) error {
		for _, t := range st.tickets[eventID] {
			if t.Status == status {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *ticketRepository) ListByEvent(ctx context.Context, eventID uuid.UUID) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := r.sess.do("tickets.ListByEvent", func(st *state) error {
		for _, t := range st.tickets[eventID] {
			out = append(out, copyTicket(t))
		}
		return nil
	})
	sortBySeat(out)
	return out, err
}

func (r *ticketRepository) ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := r.sess.do("tickets.ListByBooking", func(st *state) error {
		for _, ts := range st.tickets {
			for _, t := range ts {
				if t.BookingID != nil && *t.BookingID == bookingID {
					out = append(out, copyTicket(t))
				}
			}
		}
		return nil
	})
	sortBySeat(out)
	return out, err
}

type bookingRepository struct {
	sess *session
}

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.sess.do("bookings.Create", func(st *state) error {
		st.bookings[booking.ID] = copyBooking(booking)
		return nil
	})
}

func (r *bookingRepository) GetByID(ctx context.Context, bookingID uuid.UUID) (*domain.Booking, error) {
	var out *domain.Booking
	err := r.sess.do("bookings.GetByID", func(st *state) error {
		b, ok := st.bookings[bookingID]
		if !ok {
			return domain.ErrBookingNotFound
		}
		out = copyBooking(b)
		return nil
	})
	return out, err
}

func (r *bookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	return r.sess.do("bookings.Update", func(st *state) error {
		if _, ok := st.bookings[booking.ID]; !ok {
			return domain.ErrBookingNotFound
		}
		st.bookings[booking.ID] = copyBooking(booking)
		return nil
	})
}

func (r *bookingRepository) Delete(ctx context.Context, bookingID uuid.UUID) error {
	return r.sess.do("bookings.Delete", func(st *state) error {
		if _, ok := st.bookings[bookingID]; !ok {
			return domain.ErrBookingNotFound
		}
		delete(st.bookings, bookingID)
		return nil
	})
}

func release(t *domain.Ticket) {
	t.Status = domain.TicketNotBooked
	t.BookedBy = nil
	t.BookingID = nil
	t.UpdatedAt = time.Now()
}

func sortBySeat(ts []domain.Ticket) {
	sort.Slice(ts, func(i, j int) bool { return ts[i].SeatNumber < ts[j].SeatNumber })
}

func copyEvent(e *domain.Event) *domain.Event {
	c := *e
	c.Bookings = append([]uuid.UUID(nil), e.Bookings...)
	return &c
}

func copyTicket(t domain.Ticket) domain.Ticket {
	if t.BookedBy != nil {
		v := *t.BookedBy
		t.BookedBy = &v
	}
	if t.BookingID != nil {
		v := *t.BookingID
		t.BookingID = &v
	}
	return t
}

func copyBooking(b *domain.Booking) *domain.Booking {
	c := *b
	if b.Payment != nil {
		p := *b.Payment
		if p.Amount != nil {
			a := *p.Amount
			p.Amount = &a
		}
		c.Payment = &p
	}
	return &c
}
