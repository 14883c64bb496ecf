package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
)

type CreateEventRequest struct {
	Name         string          `json:"name"`
	TicketPrice  decimal.Decimal `json:"ticketPrice"`
	TotalTickets int             `json:"totalTickets"`
}

type EventService struct {
	store ports.InventoryStore
	log   logrus.FieldLogger
}

func NewEventService(store ports.InventoryStore, log logrus.FieldLogger) *EventService {
	return &EventService{
		store: store,
		log:   log,
	}
}

// CreateEvent stores the event together with one NOT_BOOKED ticket per seat.
func (s *EventService) CreateEvent(ctx context.Context, req CreateEventRequest) (*domain.Event, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" || !req.TicketPrice.IsPositive() || req.TotalTickets <= 0 {
		return nil, domain.ErrInvalidEvent
	}

	now := time.Now()
	event := &domain.Event{
		ID:               uuid.New(),
		Name:             name,
		TicketPrice:      req.TicketPrice,
		TotalTickets:     req.TotalTickets,
		AvailableTickets: req.TotalTickets,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.store.WithinTx(ctx, func(repos ports.Repositories) error {
		if err := repos.Events().Create(ctx, event); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}

		if err := repos.Tickets().CreateBatch(ctx, event.ID, event.TotalTickets); err != nil {
			return fmt.Errorf("failed to create tickets: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, domain.ErrTransactionFailed.Wrap(err)
	}

	s.log.WithFields(logrus.Fields{
		"event_id": event.ID,
		"tickets":  event.TotalTickets,
	}).Info("event created")

	return event, nil
}

func (s *EventService) GetAvailability(ctx context.Context, eventID string) (*domain.Availability, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, domain.ErrInvalidEventID
	}

	event, err := s.store.Events().GetByID(ctx, id)
	if err != nil {
		return nil, lookupError("event", err)
	}

	tickets, err := s.store.Tickets().ListByEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load tickets: %w", err)
	}

	return domain.NewAvailability(event, tickets), nil
}
