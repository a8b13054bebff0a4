package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/phrazzld/accounts-api/internal/domain"
	"github.com/phrazzld/accounts-api/internal/events"
	"github.com/phrazzld/accounts-api/internal/mocks"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
	"github.com/phrazzld/accounts-api/internal/service"
	"github.com/phrazzld/accounts-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T, db store.TxBeginner) (*service.UserServiceImpl, *mocks.MockUserStore) {
	t.Helper()
	log, _ := logger.NewTestLogger()
	users := mocks.NewMockUserStore()
	svc, err := service.NewUserService(users, &mocks.MockPasswordHasher{}, db, events.NewInMemoryEventEmitter(log), log)
	require.NoError(t, err)
	return svc, users
}

func strPtr(s string) *string { return &s }

func TestNewUserService_RequiresCollaborators(t *testing.T) {
	_, err := service.NewUserService(nil, &mocks.MockPasswordHasher{}, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.NewUserService(mocks.NewMockUserStore(), nil, nil, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestUserService_CreateAndGet(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, domain.UserInput{Email: "a@x.com", Password: "p1", Name: strPtr("Ada")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "hashed:p1", created.Password, "password is hashed before storage")

	got, err := svc.GetUser(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", *got.Name)

	_, err = svc.GetUser(ctx, 99)
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Contains(t, err.Error(), "User doesn't exist")
}

func TestUserService_CreateDuplicate(t *testing.T) {
	svc, users := newUserService(t, nil)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.UserInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, domain.UserInput{Email: "a@x.com", Password: "p2"})
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Contains(t, err.Error(), "This email a@x.com already exists")
	assert.Equal(t, 1, users.CallCount("Create"))
}

func TestUserService_CreateRequiresPassword(t *testing.T) {
	svc, users := newUserService(t, nil)

	_, err := svc.CreateUser(context.Background(), domain.UserInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, users.CallCount("FindByEmail"))
}

func TestUserService_List(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()

	all, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	for _, email := range []string{"a@x.com", "b@x.com"} {
		_, err := svc.CreateUser(ctx, domain.UserInput{Email: email, Password: "p"})
		require.NoError(t, err)
	}
	all, err = svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a@x.com", all[0].Email)
}

func TestUserService_ListUnavailable(t *testing.T) {
	svc, users := newUserService(t, nil)
	users.ListAllFn = func(ctx context.Context) ([]*domain.User, error) {
		return nil, store.ErrUnavailable
	}

	_, err := svc.ListUsers(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestUserService_Update(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, domain.UserInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, domain.UserInput{Email: "b@x.com", Password: "p2"})
	require.NoError(t, err)

	t.Run("keeps hash when password omitted", func(t *testing.T) {
		updated, err := svc.UpdateUser(ctx, created.ID, domain.UserInput{Email: "c@x.com", Name: strPtr("Ada")})
		require.NoError(t, err)
		assert.Equal(t, "c@x.com", updated.Email)
		assert.Equal(t, "hashed:p1", updated.Password)
		assert.Equal(t, "Ada", *updated.Name)
	})

	t.Run("re-hashes new password", func(t *testing.T) {
		updated, err := svc.UpdateUser(ctx, created.ID, domain.UserInput{Email: "c@x.com", Password: "p3"})
		require.NoError(t, err)
		assert.Equal(t, "hashed:p3", updated.Password)
		assert.Equal(t, "Ada", *updated.Name, "nil name keeps stored name")
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, 99, domain.UserInput{Email: "z@x.com"})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("email taken by another user", func(t *testing.T) {
		_, err := svc.UpdateUser(ctx, created.ID, domain.UserInput{Email: "b@x.com"})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestUserService_UpdateInTransaction(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	svc, users := newUserService(t, pool)
	ctx := context.Background()
	require.NoError(t, users.Backing.Create(ctx, &domain.User{Email: "a@x.com", Password: "hashed:p1"}))

	var txSeen pgx.Tx
	users.WithTxFn = func(tx pgx.Tx) store.UserStore {
		txSeen = tx
		return users
	}

	pool.ExpectBegin()
	pool.ExpectCommit()

	_, err = svc.UpdateUser(ctx, 1, domain.UserInput{Email: "b@x.com"})
	require.NoError(t, err)
	assert.NotNil(t, txSeen)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestUserService_UpdateRollsBackOnFailure(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	svc, users := newUserService(t, pool)
	users.UpdateFn = func(ctx context.Context, user *domain.User) error {
		return store.ErrEmailExists
	}
	require.NoError(t, users.Backing.Create(context.Background(), &domain.User{Email: "a@x.com", Password: "h"}))

	pool.ExpectBegin()
	pool.ExpectRollback()

	_, err = svc.UpdateUser(context.Background(), 1, domain.UserInput{Email: "b@x.com"})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestUserService_UpdateBeginFails(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer pool.Close()

	svc, _ := newUserService(t, pool)
	pool.ExpectBegin().WillReturnError(errors.New("conn refused"))

	_, err = svc.UpdateUser(context.Background(), 1, domain.UserInput{Email: "b@x.com"})
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestUserService_Delete(t *testing.T) {
	svc, _ := newUserService(t, nil)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, domain.UserInput{Email: "a@x.com", Password: "p1"})
	require.NoError(t, err)

	deleted, err := svc.DeleteUser(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", deleted.Email)

	_, err = svc.DeleteUser(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_HashFailure(t *testing.T) {
	log, _ := logger.NewTestLogger()
	users := mocks.NewMockUserStore()
	hasher := &mocks.MockPasswordHasher{
		HashFn: func(ctx context.Context, plaintext string) (string, error) {
			return "", domain.ErrHashFailed
		},
	}
	svc, err := service.NewUserService(users, hasher, nil, nil, log)
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), domain.UserInput{Email: "a@x.com", Password: "p"})
	assert.ErrorIs(t, err, domain.ErrHashFailed)
	assert.Zero(t, users.CallCount("Create"))
}
