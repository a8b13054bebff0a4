package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/events"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/service/auth"
	"github.com/phrazzld/accounts-api/internal/store"
)

const userNotFoundMessage = "User doesn't exist"

// UserService manages user records on behalf of the HTTP layer.
type UserService interface {
	// ListUsers returns every user ordered by id.
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// GetUser returns the user with id, or user_not_found.
	GetUser(ctx context.Context, id int64) (*domain.User, error)

	// CreateUser stores a new user, hashing the password first.
	CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error)

	// UpdateUser replaces the fields of an existing user. A non-empty
	// password is re-hashed; an empty one keeps the stored hash.
	UpdateUser(ctx context.Context, id int64, input domain.UserInput) (*domain.User, error)

	// DeleteUser removes the user and returns the deleted record.
	DeleteUser(ctx context.Context, id int64) (*domain.User, error)
}

// UserServiceImpl implements UserService.
type UserServiceImpl struct {
	users   store.UserStore
	hasher  auth.PasswordHasher
	db      store.TxBeginner
	emitter events.EventEmitter
	logger  *slog.Logger
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a UserService. db may be nil, in which case
// updates run without a surrounding transaction. emitter may be nil.
func NewUserService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	db store.TxBeginner,
	emitter events.EventEmitter,
	log *slog.Logger,
) (*UserServiceImpl, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", nil)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &UserServiceImpl{
		users:   users,
		hasher:  hasher,
		db:      db,
		emitter: emitter,
		logger:  log.With("component", "user_service"),
	}, nil
}

// ListUsers implements UserService.
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.ListAll(ctx)
	if err != nil {
		logger.Failure(ctx, s.log(ctx), "failed to list users", slog.String("error", err.Error()))
		return nil, store.ToDomainError(err, "")
	}
	return users, nil
}

// GetUser implements UserService.
func (s *UserServiceImpl) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.Failure(ctx, s.log(ctx), "failed to retrieve user",
				slog.String("error", err.Error()),
				slog.Int64("user_id", id))
		}
		return nil, store.ToDomainError(err, userNotFoundMessage)
	}
	return user, nil
}

// CreateUser implements UserService.
func (s *UserServiceImpl) CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	log := s.log(ctx)
	if err := input.Validate(true); err != nil {
		return nil, domain.NewError(domain.CodeValidation, err.Error(), err)
	}

	duplicate := fmt.Sprintf("This email %s already exists", input.Email)

	_, err := s.users.FindByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, domain.NewError(domain.CodeDuplicateEmail, duplicate, nil)
	case !errors.Is(err, store.ErrUserNotFound):
		logger.Failure(ctx, log, "failed to check email", slog.String("error", err.Error()))
		return nil, store.ToDomainError(err, duplicate)
	}

	hashed, err := s.hasher.Hash(ctx, input.Password)
	if err != nil {
		logger.Failure(ctx, log, "failed to hash password", slog.String("error", err.Error()))
		return nil, err
	}

	user := &domain.User{Email: input.Email, Password: hashed, Name: input.Name}
	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, store.ErrEmailExists) {
			logger.Failure(ctx, log, "failed to create user", slog.String("error", err.Error()))
		}
		return nil, store.ToDomainError(err, duplicate)
	}

	log.Info("user created", slog.Int64("user_id", user.ID))
	s.emit(ctx, events.UserCreated, user)
	return user, nil
}

// UpdateUser implements UserService. The lookup and write share one
// transaction when a TxBeginner is configured.
func (s *UserServiceImpl) UpdateUser(ctx context.Context, id int64, input domain.UserInput) (*domain.User, error) {
	log := s.log(ctx)
	if err := input.Validate(false); err != nil {
		return nil, domain.NewError(domain.CodeValidation, err.Error(), err)
	}

	// hash outside the transaction so no connection is held during bcrypt
	var hashed string
	if input.Password != "" {
		h, err := s.hasher.Hash(ctx, input.Password)
		if err != nil {
			logger.Failure(ctx, log, "failed to hash password", slog.String("error", err.Error()))
			return nil, err
		}
		hashed = h
	}

	var updated *domain.User
	apply := func(ctx context.Context, users store.UserStore) error {
		user, err := users.FindByID(ctx, id)
		if err != nil {
			return err
		}
		user.Email = input.Email
		if hashed != "" {
			user.Password = hashed
		}
		if input.Name != nil {
			name := *input.Name
			user.Name = &name
		}
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user
		return nil
	}

	var err error
	if s.db != nil {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
			return apply(ctx, s.users.WithTx(tx))
		})
	} else {
		err = apply(ctx, s.users)
	}
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			return nil, store.ToDomainError(err, userNotFoundMessage)
		case errors.Is(err, store.ErrEmailExists):
			return nil, store.ToDomainError(err, fmt.Sprintf("This email %s already exists", input.Email))
		case errors.Is(err, store.ErrTransactionFailed):
			logger.Failure(ctx, log, "update transaction failed", slog.String("error", err.Error()))
			return nil, domain.NewError(domain.CodeStoreUnavailable, "credential store unavailable", err)
		default:
			logger.Failure(ctx, log, "failed to update user",
				slog.String("error", err.Error()),
				slog.Int64("user_id", id))
			return nil, store.ToDomainError(err, "")
		}
	}

	log.Info("user updated", slog.Int64("user_id", id))
	s.emit(ctx, events.UserUpdated, updated)
	return updated, nil
}

// DeleteUser implements UserService.
func (s *UserServiceImpl) DeleteUser(ctx context.Context, id int64) (*domain.User, error) {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			logger.Failure(ctx, s.log(ctx), "failed to delete user",
				slog.String("error", err.Error()),
				slog.Int64("user_id", id))
		}
		return nil, store.ToDomainError(err, userNotFoundMessage)
	}

	s.log(ctx).Info("user deleted", slog.Int64("user_id", id))
	s.emit(ctx, events.UserDeleted, deleted)
	return deleted, nil
}

func (s *UserServiceImpl) emit(ctx context.Context, t events.Type, user *domain.User) {
	if s.emitter == nil {
		return
	}
	event, err := events.NewAccountEvent(t, user.ID, user.Email, nil)
	if err != nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, event); err != nil {
		s.log(ctx).Warn("account event handler failed",
			slog.String("event_type", string(t)),
			slog.String("error", err.Error()))
	}
}

func (s *UserServiceImpl) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}
