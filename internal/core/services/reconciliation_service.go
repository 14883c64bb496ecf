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

type ReconciliationService struct {
	store     ports.InventoryStore
	projector *AvailabilityProjector
	publisher ports.OutcomePublisher
	log       logrus.FieldLogger
	now       func() time.Time
}

func NewReconciliationService(
	store ports.InventoryStore,
	projector *AvailabilityProjector,
	publisher ports.OutcomePublisher,
	log logrus.FieldLogger,
) *ReconciliationService {
	return &ReconciliationService{
		store:     store,
		projector: projector,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// HandleOutcome applies a verified payment outcome to its booking. Applying the
// same outcome twice, or an outcome for an already settled booking, changes
// nothing and publishes nothing.
func (s *ReconciliationService) HandleOutcome(ctx context.Context, outcome domain.PaymentOutcome) error {
	meta := outcome.Metadata
	if meta.BookingID == uuid.Nil || len(meta.SelectedSeats) == 0 {
		return domain.ErrInvalidMetadata
	}

	logger := s.log.WithFields(logrus.Fields{
		"notification_id": outcome.NotificationID,
		"outcome":         outcome.Kind,
		"booking_id":      meta.BookingID,
	})

	var (
		result string
		err    error
	)
	switch outcome.Kind {
	case domain.OutcomeCompleted:
		result, err = s.confirm(ctx, outcome, logger)
	case domain.OutcomeFailed:
		result, err = s.fail(ctx, outcome, logger)
	default:
		return domain.ErrUnknownOutcome
	}

	if err != nil {
		result = domain.KindOf(err).String()
	}
	metrics.TrackReconciliation(string(outcome.Kind), result)

	return err
}

func (s *ReconciliationService) confirm(ctx context.Context, outcome domain.PaymentOutcome, logger logrus.FieldLogger) (string, error) {
	meta := outcome.Metadata

	booking, err := s.load(ctx, meta, logger)
	if err != nil || booking == nil {
		return "skipped", err
	}

	commitCtx := context.WithoutCancel(ctx)
	applied := false

	err = s.store.WithinTx(commitCtx, func(repos ports.Repositories) error {
		if _, err := repos.Events().GetByIDForUpdate(commitCtx, booking.EventID); err != nil {
			return err
		}

		// re-read under the event lock so concurrent duplicates serialize
		current, err := repos.Bookings().GetByID(commitCtx, booking.ID)
		if err != nil {
			return err
		}
		if current.IsSettled() {
			return nil
		}

		current.Status = domain.BookingConfirmed
		current.Payment = &domain.PaymentDetails{
			Method:      outcome.PaymentMethod,
			Amount:      outcome.Amount,
			ExternalRef: outcome.ExternalRef,
		}
		current.UpdatedAt = s.now()

		if err := repos.Bookings().Update(commitCtx, current); err != nil {
			return fmt.Errorf("failed to confirm booking: %w", err)
		}

		if _, err := repos.Tickets().MarkBooked(commitCtx, current.EventID, meta.SelectedSeats, current.UserID, current.ID); err != nil {
			return fmt.Errorf("failed to mark tickets: %w", err)
		}

		if _, err := s.projector.Project(commitCtx, repos, current.EventID); err != nil {
			return err
		}

		booking = current
		applied = true
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("confirmation transaction aborted")
		return "", txError(err)
	}

	if !applied {
		logger.Info("booking settled concurrently, ignoring duplicate")
		return "duplicate", nil
	}

	held, err := s.store.Tickets().CountHeldBy(ctx, booking.ID, meta.SelectedSeats)
	if err != nil {
		return "", fmt.Errorf("failed to verify booked tickets: %w", err)
	}

	if held != len(meta.SelectedSeats) {
		logger.WithFields(logrus.Fields{
			"held":     held,
			"selected": len(meta.SelectedSeats),
		}).Error("confirmed booking does not hold every selected seat")
		return "", domain.ErrTicketMismatch
	}

	logger.Info("booking confirmed")
	s.publish(ctx, domain.NewConfirmedMessage(booking, meta.SelectedSeats, s.now()), logger)

	return "confirmed", nil
}

func (s *ReconciliationService) fail(ctx context.Context, outcome domain.PaymentOutcome, logger logrus.FieldLogger) (string, error) {
	meta := outcome.Metadata

	booking, err := s.load(ctx, meta, logger)
	if err != nil || booking == nil {
		return "skipped", err
	}

	commitCtx := context.WithoutCancel(ctx)
	applied := false

	err = s.store.WithinTx(commitCtx, func(repos ports.Repositories) error {
		if _, err := repos.Events().GetByIDForUpdate(commitCtx, booking.EventID); err != nil {
			return err
		}

		current, err := repos.Bookings().GetByID(commitCtx, booking.ID)
		if err != nil {
			return err
		}
		if current.IsSettled() {
			return nil
		}

		current.Status = domain.BookingFailed
		current.Payment = &domain.PaymentDetails{
			Method:      outcome.PaymentMethod,
			Amount:      outcome.Amount,
			ExternalRef: outcome.ExternalRef,
			Error:       failureMessage(outcome),
		}
		current.UpdatedAt = s.now()

		if err := repos.Bookings().Update(commitCtx, current); err != nil {
			return fmt.Errorf("failed to mark booking failed: %w", err)
		}

		if _, err := repos.Tickets().ReleaseHeldBy(commitCtx, current.EventID, meta.SelectedSeats, current.ID); err != nil {
			return fmt.Errorf("failed to release tickets: %w", err)
		}

		if _, err := s.projector.Project(commitCtx, repos, current.EventID); err != nil {
			return err
		}

		booking = current
		applied = true
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("failure transaction aborted")
		return "", txError(err)
	}

	if !applied {
		logger.Info("booking settled concurrently, ignoring duplicate")
		return "duplicate", nil
	}

	logger.Info("booking failed, tickets released")
	s.publish(ctx, domain.NewFailedMessage(booking, meta.SelectedSeats, s.now()), logger)

	return "failed", nil
}

// load returns the booking the outcome refers to, or nil when the booking is
// already settled and the outcome should be ignored.
func (s *ReconciliationService) load(ctx context.Context, meta domain.OutcomeMetadata, logger logrus.FieldLogger) (*domain.Booking, error) {
	booking, err := s.store.Bookings().GetByID(ctx, meta.BookingID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			logger.Warn("payment outcome for unknown booking")
			return nil, err
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	if meta.EventID != uuid.Nil && meta.EventID != booking.EventID {
		logger.WithField("event_id", meta.EventID).Error("payment outcome event does not match booking")
		return nil, domain.ErrEventMismatch
	}

	switch booking.Status {
	case domain.BookingConfirmed, domain.BookingFailed:
		logger.WithField("status", booking.Status).Info("booking already settled, outcome ignored")
		return nil, nil
	}

	return booking, nil
}

func (s *ReconciliationService) publish(ctx context.Context, msg domain.OutcomeMessage, logger logrus.FieldLogger) {
	if err := s.publisher.Publish(context.WithoutCancel(ctx), msg); err != nil {
		logger.WithError(err).WithField("type", msg.Type).Error("failed to publish payment outcome")
	}
}

func failureMessage(outcome domain.PaymentOutcome) string {
	if outcome.FailureMessage != "" {
		return outcome.FailureMessage
	}
	return "Payment failed"
}

// txError keeps domain conflicts and not-found errors, everything else
// becomes a transaction failure.
func txError(err error) error {
	switch domain.KindOf(err) {
	case domain.KindConflict, domain.KindNotFound:
		return err
	}
	return domain.ErrTransactionFailed.Wrap(err)
}
