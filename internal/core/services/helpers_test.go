package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/srgjo27/seat_reservation/internal/adapter/lock"
	"github.com/srgjo27/seat_reservation/internal/adapter/repository/memory"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
	"github.com/srgjo27/seat_reservation/internal/core/ports/mocks"
	"github.com/srgjo27/seat_reservation/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store     *memory.Store
	locks     *lock.MemoryLockStore
	gateway   *mocks.PaymentGateway
	publisher *mocks.OutcomePublisher
	hook      *test.Hook

	events       *services.EventService
	bookings     *services.BookingService
	reconcile    *services.ReconciliationService
	cancellation *services.CancellationService
	projector    *services.AvailabilityProjector
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	store := memory.NewStore()
	locks := lock.NewMemoryLockStore()
	gateway := mocks.NewPaymentGateway(t)
	publisher := mocks.NewOutcomePublisher(t)

	projector := services.NewAvailabilityProjector(store, logger)
	lockManager := services.NewSeatLockManager(locks, time.Minute, logger)

	return &fixture{
		store:        store,
		locks:        locks,
		gateway:      gateway,
		publisher:    publisher,
		hook:         hook,
		events:       services.NewEventService(store, logger),
		bookings:     services.NewBookingService(store, lockManager, gateway, projector, "npr", logger),
		reconcile:    services.NewReconciliationService(store, projector, publisher, logger),
		cancellation: services.NewCancellationService(store, projector, logger),
		projector:    projector,
	}
}

func (f *fixture) seedEvent(t *testing.T, total int, price int64) *domain.Event {
	t.Helper()

	event, err := f.events.CreateEvent(context.Background(), services.CreateEventRequest{
		Name:         "Kathmandu Jazz Night",
		TicketPrice:  decimal.NewFromInt(price),
		TotalTickets: total,
	})
	require.NoError(t, err)

	return event
}

func (f *fixture) expectSession() {
	f.gateway.On("CreateSession", mock.Anything, mock.AnythingOfType("ports.SessionRequest")).
		Return(&ports.Session{ID: "cs_test_1", URL: "https://pay.example.com/cs_test_1"}, nil)
}

func (f *fixture) reserve(t *testing.T, event *domain.Event, userID uuid.UUID, seats ...int) uuid.UUID {
	t.Helper()

	resp, err := f.bookings.Reserve(context.Background(), services.ReserveRequest{
		UserID:      userID.String(),
		EventID:     event.ID.String(),
		SeatNumbers: seats,
	})
	require.NoError(t, err)

	return uuid.MustParse(resp.BookingID)
}

func (f *fixture) available(t *testing.T, eventID uuid.UUID) int {
	t.Helper()

	event, err := f.store.Events().GetByID(context.Background(), eventID)
	require.NoError(t, err)

	return event.AvailableTickets
}

func (f *fixture) booking(t *testing.T, bookingID uuid.UUID) *domain.Booking {
	t.Helper()

	b, err := f.store.Bookings().GetByID(context.Background(), bookingID)
	require.NoError(t, err)

	return b
}

func outcome(kind domain.OutcomeKind, event *domain.Event, userID, bookingID uuid.UUID, seats ...int) domain.PaymentOutcome {
	amount := event.TicketPrice.Mul(decimal.NewFromInt(int64(len(seats))))

	o := domain.PaymentOutcome{
		NotificationID: "evt_" + bookingID.String()[:8],
		Kind:           kind,
		ExternalRef:    "pi_123",
		PaymentMethod:  "card",
		Amount:         &amount,
		Metadata: domain.OutcomeMetadata{
			BookingID:     bookingID,
			EventID:       event.ID,
			UserID:        userID,
			TotalPrice:    amount,
			SelectedSeats: seats,
		},
	}
	if kind == domain.OutcomeFailed {
		o.FailureMessage = "Your card was declined."
	}
	return o
}

func messageOfType(typ string) interface{} {
	return mock.MatchedBy(func(m domain.OutcomeMessage) bool { return m.Type == typ })
}
