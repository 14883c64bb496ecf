package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
)

const DefaultTopic = "payment-events"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	writer  messageWriter
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewKafkaPublisher(brokers []string, topic string, log logrus.FieldLogger) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	log.WithFields(logrus.Fields{
		"brokers": brokers,
		"topic":   topic,
	}).Info("kafka publisher configured")

	return newKafkaPublisher(writer, log)
}

func newKafkaPublisher(writer messageWriter, log logrus.FieldLogger) *KafkaPublisher {
	return &KafkaPublisher{
		writer:  writer,
		timeout: 10 * time.Second,
		log:     log,
	}
}

// Publish writes one message keyed by booking id, so every outcome of a
// booking lands on the same partition.
func (p *KafkaPublisher) Publish(ctx context.Context, msg domain.OutcomeMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode outcome message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.BookingID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(msg.Type)},
		},
		Time: msg.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("failed to write outcome message: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"type":       msg.Type,
		"booking_id": msg.BookingID,
	}).Debug("outcome message published")

	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
