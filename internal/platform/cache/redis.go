package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/platform/config"
)

var ErrNoAddress = errors.New("redis address not configured")

func NewRedisClient(ctx context.Context, cfg config.RedisConfig, log logrus.FieldLogger) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, ErrNoAddress
	}

	log.WithField("addr", cfg.Addr).Info("connecting to redis")

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Info("redis connected")
	return client, nil
}
