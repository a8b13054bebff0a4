package mocks

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/platform/memory"
	"github.com/phrazzld/accounts-api/internal/store"
)

// MockUserStore implements store.UserStore. Calls without an override are
// served by an in-memory store.
type MockUserStore struct {
	FindByEmailFn                func(ctx context.Context, email string) (*domain.User, error)
	FindByIDFn                   func(ctx context.Context, id int64) (*domain.User, error)
	FindByEmailAndPasswordHashFn func(ctx context.Context, email, hash string) (*domain.User, error)
	CreateFn                     func(ctx context.Context, user *domain.User) error
	UpdateFn                     func(ctx context.Context, user *domain.User) error
	DeleteFn                     func(ctx context.Context, id int64) (*domain.User, error)
	ListAllFn                    func(ctx context.Context) ([]*domain.User, error)
	WithTxFn                     func(tx pgx.Tx) store.UserStore

	// Backing is the default implementation. Tests may seed it directly.
	Backing *memory.UserStore

	// Calls counts invocations by method name. Read it through CallCount
	// when other goroutines may still be using the mock.
	Calls map[string]int

	mu sync.Mutex
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a mock backed by an empty in-memory store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		Backing: memory.NewUserStore(nil),
		Calls:   make(map[string]int),
	}
}

func (m *MockUserStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = make(map[string]int)
	}
	m.Calls[name]++
}

// CallCount returns how many times the named method was invoked.
func (m *MockUserStore) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

// FindByEmail implements store.UserStore.
func (m *MockUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.record("FindByEmail")
	if m.FindByEmailFn != nil {
		return m.FindByEmailFn(ctx, email)
	}
	return m.Backing.FindByEmail(ctx, email)
}

// FindByID implements store.UserStore.
func (m *MockUserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	m.record("FindByID")
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return m.Backing.FindByID(ctx, id)
}

// FindByEmailAndPasswordHash implements store.UserStore.
func (m *MockUserStore) FindByEmailAndPasswordHash(ctx context.Context, email, hash string) (*domain.User, error) {
	m.record("FindByEmailAndPasswordHash")
	if m.FindByEmailAndPasswordHashFn != nil {
		return m.FindByEmailAndPasswordHashFn(ctx, email, hash)
	}
	return m.Backing.FindByEmailAndPasswordHash(ctx, email, hash)
}

// Create implements store.UserStore.
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.record("Create")
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return m.Backing.Create(ctx, user)
}

// Update implements store.UserStore.
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	m.record("Update")
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	return m.Backing.Update(ctx, user)
}

// Delete implements store.UserStore.
func (m *MockUserStore) Delete(ctx context.Context, id int64) (*domain.User, error) {
	m.record("Delete")
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return m.Backing.Delete(ctx, id)
}

// ListAll implements store.UserStore.
func (m *MockUserStore) ListAll(ctx context.Context) ([]*domain.User, error) {
	m.record("ListAll")
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return m.Backing.ListAll(ctx)
}

// WithTx implements store.UserStore. The default returns the mock itself so
// overrides stay in effect inside transactions.
func (m *MockUserStore) WithTx(tx pgx.Tx) store.UserStore {
	m.record("WithTx")
	if m.WithTxFn != nil {
		return m.WithTxFn(tx)
	}
	return m
}
