package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/phrazzld/accounts-api/internal/api"
	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/events"
	"github.com/phrazzld/accounts-api/internal/metrics"
	"github.com/phrazzld/accounts-api/internal/platform/memory"
	"github.com/phrazzld/accounts-api/internal/platform/postgres"
	"github.com/phrazzld/accounts-api/internal/platform/redis"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/phrazzld/accounts-api/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
)

// application holds the wired dependencies of a running server and
// releases them on cleanup.
type application struct {
	config *config.Config
	logger *slog.Logger

	pool *pgxpool.Pool
	rdb  *goredis.Client

	authService *auth.Service
	userService service.UserService
	handler     http.Handler
}

// newApplication builds the credential store, session machinery and
// services selected by cfg, and the router serving them.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (*application, error) {
	app := &application{config: cfg, logger: logger}

	var (
		users store.UserStore
		db    store.TxBeginner
		ping  api.Pinger
	)
	switch cfg.Database.Driver {
	case "postgres":
		pool, err := postgres.Connect(ctx, postgres.PoolConfig{
			URL:      cfg.Database.URL,
			MaxConns: cfg.Database.MaxConns,
			Attempts: cfg.Database.ConnectAttempts,
			Backoff:  500 * time.Millisecond,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.pool = pool
		if err := postgres.Migrate(ctx, pool, "up", logger); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		users = postgres.NewPostgresUserStore(pool, logger)
		db = pool
		ping = pool
	default:
		logger.Warn("using in-memory credential store; accounts are lost on restart")
		users = memory.NewUserStore(logger)
	}

	m, err := metrics.NewAuthMetrics(reg)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashConcurrency)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create password hasher: %w", err)
	}
	issuer, err := auth.NewTokenIssuer(cfg.Auth.SecretKey, time.Duration(cfg.Auth.TokenTTLSeconds)*time.Second)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create token issuer: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewAuditLogHandler(logger))
	emitter.RegisterHandler(events.HandlerFunc(func(ctx context.Context, e *events.AccountEvent) error {
		logger.WarnContext(ctx, "failed login attempt", "user_id", e.UserID, "event_id", e.ID)
		return nil
	}), events.LoginFailed)

	opts := []auth.Option{auth.WithEventEmitter(emitter), auth.WithMetrics(m)}
	revocation, err := app.revocationList(ctx)
	if err != nil {
		app.cleanup()
		return nil, err
	}
	if revocation != nil {
		opts = append(opts, auth.WithRevocationList(revocation))
	}

	app.authService, err = auth.NewService(users, hasher, issuer, logger, opts...)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create auth service: %w", err)
	}
	app.userService, err = service.NewUserService(users, hasher, db, emitter, logger)
	if err != nil {
		app.cleanup()
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	app.handler = api.NewRouter(api.RouterConfig{
		Auth:           app.authService,
		Authenticator:  app.authService,
		Users:          app.userService,
		Health:         ping,
		Metrics:        m,
		MetricsHandler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Logger:         logger,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
	})

	logger.Info("application initialized",
		"driver", cfg.Database.Driver,
		"revocation", cfg.Auth.Revocation,
		"token_ttl_seconds", cfg.Auth.TokenTTLSeconds,
		"bcrypt_cost", hasher.Cost())
	return app, nil
}

// revocationList returns nil when revocation is disabled.
func (app *application) revocationList(ctx context.Context) (auth.RevocationList, error) {
	switch app.config.Auth.Revocation {
	case "memory":
		return memory.NewRevocationList(), nil
	case "redis":
		rdb, err := redis.NewClient(redis.Options{
			Addr:     app.config.Redis.Addr,
			Password: app.config.Redis.Password,
			DB:       app.config.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to configure redis: %w", err)
		}
		app.rdb = rdb
		list := redis.NewRevocationList(rdb)
		if err := list.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to reach redis: %w", err)
		}
		return list, nil
	default:
		return nil, nil
	}
}

// cleanup releases the database pool and redis client.
func (app *application) cleanup() {
	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
		}
		app.rdb = nil
	}
	if app.pool != nil {
		app.pool.Close()
		app.pool = nil
	}
}
