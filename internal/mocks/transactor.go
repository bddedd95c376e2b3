package mocks

import (
	"context"

	"github.com/careerplus/careerplus-api/internal/store"
)

// MockTransactor implements store.Transactor without a database. By default
// it runs fn with a nil *sql.Tx, which the store mocks accept in WithTx.
type MockTransactor struct {
	RunInTransactionFn func(ctx context.Context, fn store.TxFn) error

	// Calls counts RunInTransaction invocations
	Calls int
}

var _ store.Transactor = (*MockTransactor)(nil)

// RunInTransaction implements store.Transactor
func (m *MockTransactor) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	m.Calls++
	if m.RunInTransactionFn != nil {
		return m.RunInTransactionFn(ctx, fn)
	}
	return fn(ctx, nil)
}
