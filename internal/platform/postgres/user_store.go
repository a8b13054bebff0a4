package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/store"
)

const userColumns = "id, email, password, name, created_at, updated_at"

// PostgresUserStore implements store.UserStore on the users table.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.UserStore = (*PostgresUserStore)(nil)

// NewPostgresUserStore creates a store over db, usually a *pgxpool.Pool.
func NewPostgresUserStore(db store.DBTX, log *slog.Logger) *PostgresUserStore {
	if log == nil {
		log = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: log.With("component", "postgres_user_store"),
	}
}

// WithTx implements store.UserStore.
func (s *PostgresUserStore) WithTx(tx pgx.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// findOne runs a single-row query and maps absence to ErrUserNotFound.
func (s *PostgresUserStore) findOne(ctx context.Context, op, query string, args ...any) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, s.mapUserError(ctx, op, err)
	}
	return u, nil
}

func (s *PostgresUserStore) mapUserError(ctx context.Context, op string, err error) error {
	mapped := MapError(err)
	switch {
	case store.IsNotFoundError(mapped):
		return store.ErrUserNotFound
	case store.IsDuplicateError(mapped):
		return store.ErrEmailExists
	case errors.Is(mapped, store.ErrUnavailable):
		logger.FromContextOrDefault(ctx, s.logger).Warn("user store unavailable",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return store.NewStoreError("user", op, "database unreachable", mapped)
	default:
		logger.Failure(ctx, logger.FromContextOrDefault(ctx, s.logger), "user store query failed",
			slog.String("operation", op),
			slog.String("error", err.Error()))
		return store.NewStoreError("user", op, "query failed", mapped)
	}
}

// FindByEmail implements store.UserStore.
func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findOne(ctx, "find_by_email",
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

// FindByID implements store.UserStore.
func (s *PostgresUserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.findOne(ctx, "find_by_id",
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

// FindByEmailAndPasswordHash implements store.UserStore.
func (s *PostgresUserStore) FindByEmailAndPasswordHash(ctx context.Context, email, hash string) (*domain.User, error) {
	return s.findOne(ctx, "find_by_email_and_password",
		"SELECT "+userColumns+" FROM users WHERE email = $1 AND password = $2", email, hash)
}

// Create implements store.UserStore. The unique index on email arbitrates
// concurrent inserts.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "create", "invalid user", errors.Join(store.ErrInvalidEntity, err))
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO users (email, password, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		user.Email, user.Password, user.Name,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return s.mapUserError(ctx, "create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("user inserted", slog.Int64("user_id", user.ID))
	return nil
}

// Update implements store.UserStore.
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "update", "invalid user", errors.Join(store.ErrInvalidEntity, err))
	}

	err := s.db.QueryRow(ctx,
		`UPDATE users
		 SET email = $2, password = $3, name = $4, updated_at = NOW()
		 WHERE id = $1
		 RETURNING created_at, updated_at`,
		user.ID, user.Email, user.Password, user.Name,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return s.mapUserError(ctx, "update", err)
	}
	return nil
}

// Delete implements store.UserStore.
func (s *PostgresUserStore) Delete(ctx context.Context, id int64) (*domain.User, error) {
	return s.findOne(ctx, "delete",
		"DELETE FROM users WHERE id = $1 RETURNING "+userColumns, id)
}

// ListAll implements store.UserStore.
func (s *PostgresUserStore) ListAll(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.Query(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, s.mapUserError(ctx, "list", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.User, error) {
		return scanUser(row)
	})
	if err != nil {
		return nil, s.mapUserError(ctx, "list", fmt.Errorf("scan users: %w", err))
	}
	return users, nil
}
