package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"
)

// PoolConfig configures Connect.
type PoolConfig struct {
	URL      string
	MaxConns int32
	// Attempts is the number of pings tried before giving up.
	Attempts uint64
	// Backoff is the first retry delay; it doubles up to 5s.
	Backoff time.Duration
}

// Connect opens a pgx pool and pings it with exponential backoff until
// the database answers or the attempts are exhausted.
func Connect(ctx context.Context, cfg PoolConfig, log *slog.Logger) (*pgxpool.Pool, error) {
	if log == nil {
		log = slog.Default()
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	attempts := cfg.Attempts
	if attempts == 0 {
		attempts = 1
	}
	backoffStart := cfg.Backoff
	if backoffStart <= 0 {
		backoffStart = 250 * time.Millisecond
	}
	backoff := retry.WithMaxRetries(attempts-1,
		retry.WithCappedDuration(5*time.Second, retry.NewExponential(backoffStart)))

	var try int
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		try++
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := pool.Ping(pingCtx); err != nil {
			log.Warn("database ping failed",
				slog.Int("attempt", try),
				slog.String("error", err.Error()))
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("database unreachable after %d attempts: %w", try, MapError(err))
	}

	log.Info("database connection established",
		slog.String("host", poolCfg.ConnConfig.Host),
		slog.Int("max_conns", int(poolCfg.MaxConns)))
	return pool, nil
}
