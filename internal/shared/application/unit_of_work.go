package application

import "context"

// UnitOfWork groups repository writes into one atomic transaction.
// Begin returns a derived context carrying the transaction; repositories
// pick it up from there, so the same repository code runs inside and
// outside a transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFunc runs with the transaction-carrying context.
type UnitOfWorkFunc func(ctx context.Context) error

// WithUnitOfWork runs fn inside a transaction, committing on success and
// rolling back on error. The rollback error is discarded; fn's error is
// what the caller needs to see.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn UnitOfWorkFunc) error {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		_ = uow.Rollback(txCtx)
		return err
	}

	return uow.Commit(txCtx)
}
