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

const DefaultLockTTL = 180 * time.Second

func LockKey(eventID uuid.UUID, seat int) string {
	return fmt.Sprintf("lock:seat:%s:%d", eventID, seat)
}

func SeatLockKeys(eventID uuid.UUID, seats []int) []string {
	keys := make([]string, 0, len(seats))
	for _, seat := range seats {
		keys = append(keys, LockKey(eventID, seat))
	}
	return keys
}

// LockSet is the group of keys one Acquire call obtained.
type LockSet struct {
	Holder string
	keys   []string
}

func (l *LockSet) Keys() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.keys...)
}

type SeatLockManager struct {
	store ports.LockStore
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewSeatLockManager(store ports.LockStore, ttl time.Duration, log logrus.FieldLogger) *SeatLockManager {
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}

	return &SeatLockManager{
		store: store,
		ttl:   ttl,
		log:   log,
	}
}

// Acquire takes every key or none. On the first refused key the keys taken
// so far are released and ErrSeatsLocked is returned.
func (m *SeatLockManager) Acquire(ctx context.Context, keys []string, holder string) (*LockSet, error) {
	start := time.Now()
	set := &LockSet{Holder: holder}

	for _, key := range keys {
		ok, err := m.store.SetIfAbsent(ctx, key, holder, m.ttl)
		if err != nil {
			m.rollback(ctx, set)
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}

		if !ok {
			metrics.TrackLockContention()
			m.log.WithFields(logrus.Fields{
				"key":    key,
				"holder": holder,
			}).Info("seat lock refused")

			m.rollback(ctx, set)
			return nil, domain.ErrSeatsLocked
		}

		set.keys = append(set.keys, key)
	}

	metrics.TrackLockAcquire(time.Since(start))
	return set, nil
}

// Release deletes every key still held by set. It is safe to call more than
// once and on a nil set.
func (m *SeatLockManager) Release(ctx context.Context, set *LockSet) error {
	if set == nil || len(set.keys) == 0 {
		return nil
	}

	if err := m.store.Delete(ctx, set.keys...); err != nil {
		m.log.WithError(err).WithField("keys", set.keys).Error("failed to release seat locks")
		return fmt.Errorf("failed to release locks: %w", err)
	}

	set.keys = nil
	return nil
}

func (m *SeatLockManager) rollback(ctx context.Context, set *LockSet) {
	_ = m.Release(context.WithoutCancel(ctx), set)
}
