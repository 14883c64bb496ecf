package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
	"github.com/srgjo27/seat_reservation/internal/platform/metrics"
)

type AvailabilityProjector struct {
	store ports.InventoryStore
	log   logrus.FieldLogger
}

func NewAvailabilityProjector(store ports.InventoryStore, log logrus.FieldLogger) *AvailabilityProjector {
	return &AvailabilityProjector{
		store: store,
		log:   log,
	}
}

// Project recomputes the event's available counter from its BOOKED tickets.
// It must run on the repositories of the transaction that changed them.
func (p *AvailabilityProjector) Project(ctx context.Context, repos ports.Repositories, eventID uuid.UUID) (int, error) {
	event, err := repos.Events().GetByIDForUpdate(ctx, eventID)
	if err != nil {
		return 0, err
	}

	booked, err := repos.Tickets().CountByStatus(ctx, eventID, domain.TicketBooked)
	if err != nil {
		return 0, fmt.Errorf("failed to count booked tickets: %w", err)
	}

	available := event.TotalTickets - booked
	if err := repos.Events().UpdateAvailableTickets(ctx, eventID, available); err != nil {
		return 0, fmt.Errorf("failed to update available tickets: %w", err)
	}

	return available, nil
}

func (p *AvailabilityProjector) RunAvailabilitySweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.log.WithField("interval", interval.String()).Info("availability sweep started")

	for {
		select {
		case <-ctx.Done():
			p.log.Info("availability sweep stopped")
			return
		case <-ticker.C:
			if _, err := p.Sweep(ctx); err != nil {
				p.log.WithError(err).Error("availability sweep failed")
			}
		}
	}
}

// Sweep re-projects every event and returns how many counters it corrected.
func (p *AvailabilityProjector) Sweep(ctx context.Context) (int, error) {
	ids, err := p.store.Events().ListIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list events: %w", err)
	}

	repaired := 0
	for _, id := range ids {
		var before, after int
		err := p.store.WithinTx(ctx, func(repos ports.Repositories) error {
			event, err := repos.Events().GetByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			before = event.AvailableTickets

			after, err = p.Project(ctx, repos, id)
			return err
		})
		if err != nil {
			p.log.WithError(err).WithField("event_id", id).Warn("failed to re-project availability")
			continue
		}

		if before != after {
			repaired++
			metrics.TrackAvailabilityDrift()
			p.log.WithFields(logrus.Fields{
				"event_id": id,
				"stored":   before,
				"actual":   after,
			}).Warn("availability counter drift repaired")
		}
	}

	return repaired, nil
}
