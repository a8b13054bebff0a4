package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/phrazzld/accounts-api/internal/domain"
)

// UserStore defines the interface for user record persistence.
// Absence is always reported as ErrUserNotFound, never as a nil record.
type UserStore interface {
	// FindByEmail retrieves a user by exact (case-sensitive) email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByID retrieves a user by numeric id.
	FindByID(ctx context.Context, id int64) (*domain.User, error)

	// FindByEmailAndPasswordHash retrieves the user whose email and stored
	// hash both match exactly.
	FindByEmailAndPasswordHash(ctx context.Context, email, hash string) (*domain.User, error)

	// Create persists a new user. The store assigns ID, CreatedAt and
	// UpdatedAt on the passed record. Returns ErrEmailExists when the
	// unique email constraint rejects the row.
	Create(ctx context.Context, user *domain.User) error

	// Update replaces the stored fields of user.ID and refreshes UpdatedAt.
	// Returns ErrUserNotFound or ErrEmailExists.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes the user and returns the deleted record.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id int64) (*domain.User, error)

	// ListAll returns every user ordered by id.
	ListAll(ctx context.Context) ([]*domain.User, error)

	// WithTx returns a UserStore bound to tx. Stores without transaction
	// support return themselves.
	WithTx(tx pgx.Tx) UserStore
}
