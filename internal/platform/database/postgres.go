package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/platform/config"
)

// NewPostgresDB keeps retrying until the database answers a ping, so the
// service can start before Postgres is ready.
func NewPostgresDB(ctx context.Context, cfg config.DatabaseConfig, log logrus.FieldLogger) (*sql.DB, error) {
	maxRetries := cfg.ConnectRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}
	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	logger := log.WithFields(logrus.Fields{
		"host":   cfg.Host,
		"port":   cfg.Port,
		"dbname": cfg.DBName,
	})

	var db *sql.DB
	var err error

	for i := 1; i <= maxRetries; i++ {
		logger.WithField("attempt", fmt.Sprintf("%d/%d", i, maxRetries)).Info("connecting to database")

		db, err = sql.Open("postgres", cfg.DSN())
		if err == nil {
			err = db.PingContext(ctx)
			if err != nil {
				db.Close()
			}
		}

		if err == nil {
			configurePool(db, cfg)
			logger.Info("database connected")
			return db, nil
		}

		if i == maxRetries {
			break
		}

		logger.WithError(err).Warnf("database not ready yet, waiting %s", interval)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
}

func configurePool(db *sql.DB, cfg config.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
