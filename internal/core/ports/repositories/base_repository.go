package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error

	// WithinTx runs fn in one transaction, committing when fn returns nil and rolling back
	// otherwise. The error returned by fn is passed through unchanged. Serialization
	// failures and deadlocks restart fn in a fresh transaction.
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// RepositoryWithTx is a marker interface for repositories that support transactions
type RepositoryWithTx interface {
	TransactionManager
}
