package memory

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/store"
)

// UserStore is a mutex-guarded store.UserStore. Email uniqueness is enforced
// atomically under the write lock, so concurrent creates with the same email
// produce exactly one record. IDs are assigned sequentially from 1.
type UserStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*domain.User
	byEmail map[string]int64
	now     func() time.Time
	logger  *slog.Logger
}

var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty store.
func NewUserStore(logger *slog.Logger) *UserStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserStore{
		nextID:  1,
		byID:    make(map[int64]*domain.User),
		byEmail: make(map[string]int64),
		now:     func() time.Time { return time.Now().UTC() },
		logger:  logger.With("component", "memory_user_store"),
	}
}

// FindByEmail implements store.UserStore.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return s.byID[id].Clone(), nil
}

// FindByID implements store.UserStore.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u.Clone(), nil
}

// FindByEmailAndPasswordHash implements store.UserStore.
func (s *UserStore) FindByEmailAndPasswordHash(ctx context.Context, email, hash string) (*domain.User, error) {
	u, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u.Password != hash {
		return nil, store.ErrUserNotFound
	}
	return u, nil
}

// Create implements store.UserStore.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "create", "invalid user", errors.Join(store.ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[user.Email]; taken {
		return store.ErrEmailExists
	}

	now := s.now()
	user.ID = s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.nextID++

	s.byID[user.ID] = user.Clone()
	s.byEmail[user.Email] = user.ID

	s.logger.Debug("user created", slog.Int64("user_id", user.ID))
	return nil
}

// Update implements store.UserStore.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := user.Validate(); err != nil {
		return store.NewStoreError("user", "update", "invalid user", errors.Join(store.ErrInvalidEntity, err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.byID[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	if owner, taken := s.byEmail[user.Email]; taken && owner != user.ID {
		return store.ErrEmailExists
	}

	delete(s.byEmail, existing.Email)
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = s.now()
	s.byID[user.ID] = user.Clone()
	s.byEmail[user.Email] = user.ID
	return nil
}

// Delete implements store.UserStore.
func (s *UserStore) Delete(ctx context.Context, id int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	delete(s.byID, id)
	delete(s.byEmail, u.Email)
	return u, nil
}

// ListAll implements store.UserStore.
func (s *UserStore) ListAll(ctx context.Context) ([]*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		users = append(users, u.Clone())
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

// WithTx returns s; the memory store applies each call atomically and has
// no multi-statement transactions.
func (s *UserStore) WithTx(pgx.Tx) store.UserStore {
	return s
}
