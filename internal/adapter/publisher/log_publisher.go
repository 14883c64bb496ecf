package publisher

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
)

// LogPublisher stands in for the broker when none is configured.
type LogPublisher struct {
	log logrus.FieldLogger
}

func NewLogPublisher(log logrus.FieldLogger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, msg domain.OutcomeMessage) error {
	p.log.WithFields(logrus.Fields{
		"type":        msg.Type,
		"booking_id":  msg.BookingID,
		"event_id":    msg.EventID,
		"user_id":     msg.UserID,
		"total_price": msg.TotalPrice.StringFixed(2),
		"seats":       msg.Seats,
	}).Info(msg.Message)

	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
