package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

type RetryConfig struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	MaxAttempts int
	PingTimeout time.Duration
}

type LogFunc func(format string, args ...any)

// ConnectWithRetry opens and pings the database with doubling backoff.
// The container setups this runs in routinely start the API before Postgres
// finishes accepting connections.
func ConnectWithRetry(ctx context.Context, driver, dsn string, cfg RetryConfig, logf LogFunc) (*sqlx.DB, error) {
	cfg = normalizeConfig(cfg)

	attempt := 0
	backoff := cfg.BaseDelay

	for {
		attempt++
		if cfg.MaxAttempts > 0 && attempt > cfg.MaxAttempts {
			return nil, errors.New("db connect: max attempts reached")
		}

		db, err := sqlx.Open(driver, dsn)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
			err = db.PingContext(pingCtx)
			cancel()
			if err == nil {
				if logf != nil {
					logf("DB connected after %d attempt(s)", attempt)
				}
				return db, nil
			}
			_ = db.Close()
		}

		if logf != nil {
			logf("DB connect attempt %d failed: %v", attempt, err)
		}

		delay := backoff
		if backoff < cfg.MaxDelay {
			backoff *= 2
		}
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

func normalizeConfig(cfg RetryConfig) RetryConfig {
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = time.Second
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 30 * time.Second
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = 5 * time.Second
	}
	return cfg
}
