package repositories

import "context"

// TxFn is a unit of work. Every repository call made with the ctx it
// receives participates in the same transaction.
type TxFn func(ctx context.Context) error

// TransactionManager runs units of work atomically
type TransactionManager interface {
	// ExecTx commits fn's writes if it returns nil and discards all of them
	// otherwise. Calling ExecTx with a ctx that already carries a
	// transaction joins it instead of opening a new one.
	ExecTx(ctx context.Context, fn TxFn) error
}
