package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 180*time.Second, cfg.Booking.LockTTL)
	assert.Equal(t, time.Minute, cfg.Worker.AvailabilitySweepInterval)
	assert.Equal(t, "payment-events", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Payment.WebhookTolerance)
	assert.Equal(t, "postgres://postgres:@localhost:5432/seat_reservation?sslmode=disable", cfg.Database.DSN())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("TICKET_DATABASE_HOST", "db.internal")
	t.Setenv("TICKET_BOOKING_LOCK_TTL", "30s")
	t.Setenv("TICKET_KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30*time.Second, cfg.Booking.LockTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := "server:\n  port: \"9090\"\nredis:\n  addr: localhost:6379\npayment:\n  currency: usd\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "usd", cfg.Payment.Currency)
	assert.Equal(t, "seat_reservation", cfg.Database.DBName)
}

func TestLoadConfig_BadFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [unterminated"), 0o600))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}
