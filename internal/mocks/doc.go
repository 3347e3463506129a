// Package mocks provides centralized mock implementations for testing.
//
// The store mocks are in-memory and behave like the PostgreSQL stores:
// tasks are owner-scoped and deleting a user removes their tokens and
// tasks. Stores created together by NewMemoryStores share one data set.
// Every method can be overridden through its function field:
//
//	users, tokens, tasks := mocks.NewMemoryStores()
//	users.GetByEmailFn = func(ctx context.Context, email string) (*domain.User, error) {
//	    return nil, errors.New("database down")
//	}
package mocks
