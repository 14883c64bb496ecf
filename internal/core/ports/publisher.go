package ports

import (
	"context"

	"github.com/srgjo27/seat_reservation/internal/core/domain"
)

type OutcomePublisher interface {
	Publish(ctx context.Context, msg domain.OutcomeMessage) error
}
