package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trade_credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trade_credit_ledger/internal/models"
	"github.com/SscSPs/trade_credit_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerAccountColumns = `
	account_id, business_name, assigned_credit, available_balance, outstanding_debt,
	credit_limit, treasury_balance, last_interest_applied_at, custom_rate, custom_frequency,
	risk_tier_id, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxLedgerAccountRepository struct {
	BaseRepository
}

func newPgxLedgerAccountRepository(pool *pgxpool.Pool) portsrepo.LedgerAccountRepositoryFacade {
	return &PgxLedgerAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerAccountRepositoryFacade = (*PgxLedgerAccountRepository)(nil)

func scanLedgerAccount(row pgx.Row) (models.LedgerAccount, error) {
	var m models.LedgerAccount
	err := row.Scan(
		&m.AccountID,
		&m.BusinessName,
		&m.AssignedCredit,
		&m.AvailableBalance,
		&m.OutstandingDebt,
		&m.CreditLimit,
		&m.TreasuryBalance,
		&m.LastInterestAppliedAt,
		&m.CustomRate,
		&m.CustomFrequency,
		&m.RiskTierID,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxLedgerAccountRepository) queryAccounts(ctx context.Context, op, query string, args ...any) ([]domain.LedgerAccount, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Persistence(op, err)
	}
	accounts, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.LedgerAccount, error) {
		return scanLedgerAccount(row)
	})
	if err != nil {
		return nil, apperrors.Persistence(op, err)
	}
	return mapping.ToDomainLedgerAccountSlice(accounts), nil
}

// SaveLedgerAccount inserts a new account.
func (r *PgxLedgerAccountRepository) SaveLedgerAccount(ctx context.Context, account domain.LedgerAccount) error {
	m := mapping.ToModelLedgerAccount(account)
	query := `INSERT INTO ledger_accounts (` + ledgerAccountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`

	_, err := r.Pool.Exec(ctx, query,
		m.AccountID, m.BusinessName, m.AssignedCredit, m.AvailableBalance, m.OutstandingDebt,
		m.CreditLimit, m.TreasuryBalance, m.LastInterestAppliedAt, m.CustomRate, m.CustomFrequency,
		m.RiskTierID, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: ledger account %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return apperrors.Persistence("save ledger account "+m.AccountID, err)
	}
	return nil
}

// FindLedgerAccountByID retrieves one account.
func (r *PgxLedgerAccountRepository) FindLedgerAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	query := `SELECT ` + ledgerAccountColumns + ` FROM ledger_accounts WHERE account_id = $1;`
	m, err := scanLedgerAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, notFoundOr(err, "ledger account "+accountID, "find ledger account "+accountID)
	}
	account := mapping.ToDomainLedgerAccount(m)
	return &account, nil
}

// ListLedgerAccounts retrieves a page of accounts ordered by business name.
func (r *PgxLedgerAccountRepository) ListLedgerAccounts(ctx context.Context, limit int, offset int) ([]domain.LedgerAccount, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + ledgerAccountColumns + ` FROM ledger_accounts
		ORDER BY business_name, account_id LIMIT $1 OFFSET $2;`
	return r.queryAccounts(ctx, "list ledger accounts", query, limit, max(offset, 0))
}

// ListAccrualCandidates returns active accounts holding debt. The accrual run re-reads each
// one under lock, so this snapshot only decides who is visited.
func (r *PgxLedgerAccountRepository) ListAccrualCandidates(ctx context.Context, accountID *string) ([]domain.LedgerAccount, error) {
	query := `SELECT ` + ledgerAccountColumns + ` FROM ledger_accounts
		WHERE is_active AND outstanding_debt > 0 AND ($1::text IS NULL OR account_id = $1)
		ORDER BY account_id;`
	return r.queryAccounts(ctx, "list accrual candidates", query, accountID)
}

// SetLedgerAccountActive enables or disables an account.
func (r *PgxLedgerAccountRepository) SetLedgerAccountActive(ctx context.Context, accountID string, active bool, actorID string, now time.Time) error {
	query := `UPDATE ledger_accounts SET is_active = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;`
	tag, err := r.Pool.Exec(ctx, query, accountID, active, now, actorID)
	if err != nil {
		return apperrors.Persistence("set ledger account active "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger account %s", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// FindLedgerAccountForUpdate selects the account and locks its row until tx ends.
func (r *PgxLedgerAccountRepository) FindLedgerAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.LedgerAccount, error) {
	query := `SELECT ` + ledgerAccountColumns + ` FROM ledger_accounts WHERE account_id = $1 FOR UPDATE;`
	m, err := scanLedgerAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, notFoundOr(err, "ledger account "+accountID, "lock ledger account "+accountID)
	}
	account := mapping.ToDomainLedgerAccount(m)
	return &account, nil
}

// UpdateLedgerAccountInTx writes balances, rate overrides and audit fields.
func (r *PgxLedgerAccountRepository) UpdateLedgerAccountInTx(ctx context.Context, tx pgx.Tx, account domain.LedgerAccount) error {
	m := mapping.ToModelLedgerAccount(account)
	query := `
		UPDATE ledger_accounts SET
			business_name = $2, assigned_credit = $3, available_balance = $4, outstanding_debt = $5,
			credit_limit = $6, treasury_balance = $7, last_interest_applied_at = $8, custom_rate = $9,
			custom_frequency = $10, risk_tier_id = $11, is_active = $12,
			last_updated_at = $13, last_updated_by = $14
		WHERE account_id = $1;`
	tag, err := tx.Exec(ctx, query,
		m.AccountID, m.BusinessName, m.AssignedCredit, m.AvailableBalance, m.OutstandingDebt,
		m.CreditLimit, m.TreasuryBalance, m.LastInterestAppliedAt, m.CustomRate,
		m.CustomFrequency, m.RiskTierID, m.IsActive, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.Persistence("update ledger account "+m.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: ledger account %s", apperrors.ErrNotFound, m.AccountID)
	}
	return nil
}
