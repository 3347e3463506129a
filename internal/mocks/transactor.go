package mocks

import (
	"context"
	"sync/atomic"

	"github.com/phrazzld/taskmanager-api/internal/store"
)

// MockTransactor implements store.Transactor. By default it runs fn
// directly with a nil transaction; mock stores ignore the transaction.
type MockTransactor struct {
	RunInTxFn func(ctx context.Context, fn func(ctx context.Context, tx store.DBTX) error) error

	calls atomic.Int32
}

var _ store.Transactor = (*MockTransactor)(nil)

// RunInTx implements store.Transactor
func (m *MockTransactor) RunInTx(ctx context.Context, fn func(ctx context.Context, tx store.DBTX) error) error {
	m.calls.Add(1)
	if m.RunInTxFn != nil {
		return m.RunInTxFn(ctx, fn)
	}
	return fn(ctx, nil)
}

// Calls reports how many units of work were run.
func (m *MockTransactor) Calls() int {
	return int(m.calls.Load())
}
