// Package mocks provides function-field test doubles for the interfaces
// shared across packages.
//
// Each mock falls back to a working default when its function field is nil,
// so tests only override the calls they care about:
//
//	users := mocks.NewMockUserStore()
//	users.FindByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, store.ErrUnavailable
//	}
package mocks
