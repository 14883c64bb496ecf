package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
	"github.com/srgjo27/seat_reservation/internal/platform/metrics"
)

type ReserveRequest struct {
	UserID      string `json:"userId"`
	EventID     string `json:"eventId"`
	SeatNumbers []int  `json:"selectedSeats"`
}

type ReserveResponse struct {
	BookingID  string          `json:"bookingId"`
	SessionID  string          `json:"sessionId"`
	SessionURL string          `json:"url"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
}

type BookingService struct {
	store     ports.InventoryStore
	locks     *SeatLockManager
	gateway   ports.PaymentGateway
	projector *AvailabilityProjector
	currency  string
	log       logrus.FieldLogger
}

func NewBookingService(
	store ports.InventoryStore,
	locks *SeatLockManager,
	gateway ports.PaymentGateway,
	projector *AvailabilityProjector,
	currency string,
	log logrus.FieldLogger,
) *BookingService {
	return &BookingService{
		store:     store,
		locks:     locks,
		gateway:   gateway,
		projector: projector,
		currency:  currency,
		log:       log,
	}
}

func (s *BookingService) Reserve(ctx context.Context, req ReserveRequest) (resp *ReserveResponse, err error) {
	defer func() {
		metrics.TrackReservation(reservationResult(err))
	}()

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, domain.ErrInvalidUserID
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, domain.ErrInvalidEventID
	}

	seats, err := domain.NormalizeSeats(req.SeatNumbers)
	if err != nil {
		return nil, err
	}

	event, err := s.store.Events().GetByID(ctx, eventID)
	if err != nil {
		return nil, lookupError("event", err)
	}

	available, err := s.store.Tickets().FindAvailable(ctx, eventID, seats)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}

	if len(available) != len(seats) {
		return nil, domain.ErrSeatsUnavailable
	}

	bookingID := uuid.New()
	logger := s.log.WithFields(logrus.Fields{
		"booking_id": bookingID,
		"event_id":   eventID,
		"user_id":    userID,
		"seats":      seats,
	})

	lockSet, err := s.locks.Acquire(ctx, SeatLockKeys(eventID, seats), bookingID.String())
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = s.locks.Release(context.WithoutCancel(ctx), lockSet)
	}()

	totalPrice := event.TicketPrice.Mul(decimal.NewFromInt(int64(len(seats))))

	meta := domain.OutcomeMetadata{
		BookingID:     bookingID,
		EventID:       eventID,
		UserID:        userID,
		TotalPrice:    totalPrice,
		SelectedSeats: seats,
	}

	session, err := s.gateway.CreateSession(ctx, ports.SessionRequest{
		Amount:      totalPrice,
		Currency:    s.currency,
		Description: fmt.Sprintf("%d ticket(s) for %s", len(seats), event.Name),
		Metadata:    meta.Encode(),
	})
	if err != nil {
		logger.WithError(err).Error("failed to create payment session")
		return nil, domain.ErrPaymentInitFailed.Wrap(err)
	}

	now := time.Now()
	booking := &domain.Booking{
		ID:              bookingID,
		UserID:          userID,
		EventID:         eventID,
		NumberOfTickets: len(seats),
		TotalPrice:      totalPrice,
		Status:          domain.BookingPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	// The tentative write must not be abandoned once started, even if the
	// client goes away.
	commitCtx := context.WithoutCancel(ctx)

	err = s.store.WithinTx(commitCtx, func(repos ports.Repositories) error {
		if _, err := repos.Events().GetByIDForUpdate(commitCtx, eventID); err != nil {
			return err
		}

		if err := repos.Bookings().Create(commitCtx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		if err := repos.Events().AttachBooking(commitCtx, eventID, bookingID); err != nil {
			return fmt.Errorf("failed to attach booking: %w", err)
		}

		n, err := repos.Tickets().MarkBooked(commitCtx, eventID, seats, userID, bookingID)
		if err != nil {
			return fmt.Errorf("failed to mark tickets: %w", err)
		}

		if n != int64(len(seats)) {
			return domain.ErrSeatsUnavailable
		}

		_, err = s.projector.Project(commitCtx, repos, eventID)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrSeatsUnavailable) {
			logger.Warn("tickets taken between check and write")
		} else {
			logger.WithError(err).Error("reservation transaction aborted")
		}
		return nil, txError(err)
	}

	logger.WithField("session_id", session.ID).Info("booking created, awaiting payment")

	return &ReserveResponse{
		BookingID:  bookingID.String(),
		SessionID:  session.ID,
		SessionURL: session.URL,
		TotalPrice: totalPrice,
		Status:     string(domain.BookingPending),
	}, nil
}

func (s *BookingService) GetBookingDetails(ctx context.Context, bookingID string) (*domain.BookingDetails, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, domain.ErrInvalidBookingID
	}

	booking, err := s.store.Bookings().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("booking", err)
	}

	event, err := s.store.Events().GetByID(ctx, booking.EventID)
	if err != nil {
		return nil, lookupError("event", err)
	}

	tickets, err := s.store.Tickets().ListByBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}

	seats := make([]int, 0, len(tickets))
	for _, t := range tickets {
		seats = append(seats, t.SeatNumber)
	}

	return &domain.BookingDetails{
		Booking: booking,
		Event:   event,
		Seats:   seats,
	}, nil
}

// lookupError keeps not-found errors as they are and wraps everything else.
func lookupError(what string, err error) error {
	if domain.KindOf(err) == domain.KindNotFound {
		return err
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

func reservationResult(err error) string {
	if err == nil {
		return "created"
	}

	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr.Kind.String()
	}
	return "error"
}
