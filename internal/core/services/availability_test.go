package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/ports"
	"github.com/srgjo27/seat_reservation/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProject_RecomputesFromTickets(t *testing.T) {
	f := newFixture(t)
	event := f.seedEvent(t, 6, 100)
	ctx := context.Background()

	_, err := f.store.Tickets().MarkBooked(ctx, event.ID, []int{1, 2, 3}, uuid.New(), uuid.New())
	require.NoError(t, err)
	require.NoError(t, f.store.Events().UpdateAvailableTickets(ctx, event.ID, 42))

	var available int
	err = f.store.WithinTx(ctx, func(repos ports.Repositories) error {
		var err error
		available, err = f.projector.Project(ctx, repos, event.ID)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 3, available)
	assert.Equal(t, 3, f.available(t, event.ID))
}

func TestProject_EventNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.projector.Project(context.Background(), f.store, uuid.New())
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestSweep_RepairsDrift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	drifted := f.seedEvent(t, 5, 100)
	f.seedEvent(t, 5, 100)

	require.NoError(t, f.store.Events().UpdateAvailableTickets(ctx, drifted.ID, 1))

	repaired, err := f.projector.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)
	assert.Equal(t, 5, f.available(t, drifted.ID))

	repaired, err = f.projector.Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)
	event := f.seedEvent(t, 4, 250)
	f.expectSession()
	f.reserve(t, event, uuid.New(), 2, 3)

	a, err := f.events.GetAvailability(context.Background(), event.ID.String())
	require.NoError(t, err)

	assert.Equal(t, 4, a.TotalTickets)
	assert.Equal(t, 2, a.AvailableTickets)
	assert.Equal(t, domain.SeatCounts{Booked: 2, NotBooked: 2}, a.Counts)
	assert.Equal(t, []int{2, 3}, a.Seats.Booked)
	assert.Equal(t, []int{1, 4}, a.Seats.NotBooked)

	_, err = f.events.GetAvailability(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestCreateEvent(t *testing.T) {
	f := newFixture(t)
	event := f.seedEvent(t, 3, 750)

	assert.Equal(t, 3, event.AvailableTickets)

	tickets, err := f.store.Tickets().ListByEvent(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 3)
	for i, tk := range tickets {
		assert.Equal(t, i+1, tk.SeatNumber)
		assert.True(t, tk.IsAvailable())
	}

	_, err = f.events.CreateEvent(context.Background(), services.CreateEventRequest{Name: " ", TotalTickets: 3})
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)
}
