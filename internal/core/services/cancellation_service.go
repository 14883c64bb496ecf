package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
	"github.com/srgjo27/seat_reservation/internal/platform/metrics"
)

type CancellationService struct {
	store     ports.InventoryStore
	projector *AvailabilityProjector
	log       logrus.FieldLogger
}

func NewCancellationService(store ports.InventoryStore, projector *AvailabilityProjector, log logrus.FieldLogger) *CancellationService {
	return &CancellationService{
		store:     store,
		projector: projector,
		log:       log,
	}
}

// Cancel releases every ticket of the booking and deletes it. Either all of
// it happens or nothing does.
func (s *CancellationService) Cancel(ctx context.Context, bookingID, userID string) (err error) {
	defer func() {
		result := "cancelled"
		if err != nil {
			result = domain.KindOf(err).String()
		}
		metrics.TrackCancellation(result)
	}()

	bid, err := uuid.Parse(bookingID)
	if err != nil {
		return domain.ErrInvalidBookingID
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrInvalidUserID
	}

	booking, err := s.store.Bookings().GetByID(ctx, bid)
	if err != nil {
		return lookupError("booking", err)
	}

	if booking.UserID != uid {
		return domain.ErrNotBookingOwner
	}

	logger := s.log.WithFields(logrus.Fields{
		"booking_id": bid,
		"event_id":   booking.EventID,
		"user_id":    uid,
	})

	commitCtx := context.WithoutCancel(ctx)
	var released int64

	err = s.store.WithinTx(commitCtx, func(repos ports.Repositories) error {
		if _, err := repos.Events().GetByIDForUpdate(commitCtx, booking.EventID); err != nil {
			return err
		}

		n, err := repos.Tickets().ReleaseByBooking(commitCtx, bid)
		if err != nil {
			return fmt.Errorf("failed to release tickets: %w", err)
		}
		if n == 0 {
			return domain.ErrNothingToCancel
		}
		released = n

		if _, err := s.projector.Project(commitCtx, repos, booking.EventID); err != nil {
			return err
		}

		if err := repos.Events().DetachBooking(commitCtx, booking.EventID, bid); err != nil {
			return fmt.Errorf("failed to detach booking: %w", err)
		}

		if err := repos.Bookings().Delete(commitCtx, bid); err != nil {
			return fmt.Errorf("failed to delete booking: %w", err)
		}

		return nil
	})
	if err != nil {
		logger.WithError(err).Warn("cancellation aborted")
		return txError(err)
	}

	logger.WithField("released", released).Info("booking cancelled")
	return nil
}
