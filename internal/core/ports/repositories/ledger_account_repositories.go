package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LedgerAccountReader defines read operations for ledger accounts
type LedgerAccountReader interface {
	// FindLedgerAccountByID retrieves one account. Returns ErrNotFound when it does not exist.
	FindLedgerAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error)

	// ListLedgerAccounts retrieves a page of accounts ordered by business name.
	ListLedgerAccounts(ctx context.Context, limit int, offset int) ([]domain.LedgerAccount, error)

	// ListAccrualCandidates returns active accounts with outstanding debt, optionally only accountID.
	ListAccrualCandidates(ctx context.Context, accountID *string) ([]domain.LedgerAccount, error)
}

// LedgerAccountWriter defines write operations outside the balance transaction
type LedgerAccountWriter interface {
	// SaveLedgerAccount inserts a new account.
	SaveLedgerAccount(ctx context.Context, account domain.LedgerAccount) error

	// SetLedgerAccountActive enables or disables an account.
	SetLedgerAccountActive(ctx context.Context, accountID string, active bool, actorID string, now time.Time) error
}

// LedgerAccountTxSupport defines the row-locked read and the write used by balance mutations
type LedgerAccountTxSupport interface {
	// FindLedgerAccountForUpdate selects the account and locks its row until tx ends.
	FindLedgerAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.LedgerAccount, error)

	// UpdateLedgerAccountInTx writes balances, rate overrides and audit fields.
	UpdateLedgerAccountInTx(ctx context.Context, tx pgx.Tx, account domain.LedgerAccount) error
}

// LedgerAccountRepositoryFacade combines all ledger account repository interfaces
type LedgerAccountRepositoryFacade interface {
	LedgerAccountReader
	LedgerAccountWriter
	LedgerAccountTxSupport
}

// TransactionLogRepository stores the append-only balance log
type TransactionLogRepository interface {
	// AppendEntriesInTx inserts entries in order. Entries are never updated or deleted.
	AppendEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.TransactionLogEntry) error

	// ListEntriesByAccount returns newest entries first with token-based pagination.
	ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionLogEntry, *string, error)
}
