package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trade_credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trade_credit_ledger/internal/models"
	"github.com/SscSPs/trade_credit_ledger/internal/utils/mapping"
	"github.com/SscSPs/trade_credit_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionLogRepository struct {
	BaseRepository
}

func newPgxTransactionLogRepository(pool *pgxpool.Pool) portsrepo.TransactionLogRepository {
	return &PgxTransactionLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionLogRepository = (*PgxTransactionLogRepository)(nil)

// AppendEntriesInTx queues every entry in one batch. The table has no UPDATE or DELETE grants.
func (r *PgxTransactionLogRepository) AppendEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.TransactionLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO ledger_transaction_log (entry_id, account_id, balance_field, direction, amount,
			balance_before, balance_after, reference_kind, reference_id, description, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`
	for _, e := range entries {
		m := mapping.ToModelTransactionLogEntry(e)
		batch.Queue(query,
			m.EntryID, m.AccountID, m.BalanceField, m.Direction, m.Amount,
			m.BalanceBefore, m.BalanceAfter, m.ReferenceKind, m.ReferenceID, m.Description,
			m.CreatedAt, m.CreatedBy,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.Persistence("append transaction log for "+entries[0].AccountID, err)
	}
	return nil
}

// ListEntriesByAccount returns newest entries first. The token is the (created_at, entry_id)
// of the last entry on the previous page.
func (r *PgxTransactionLogRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionLogEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	query := `
		SELECT entry_id, account_id, balance_field, direction, amount, balance_before, balance_after,
		       reference_kind, reference_id, description, created_at, created_by
		FROM ledger_transaction_log
		WHERE account_id = $1`
	args := []any{accountID}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, err := pagination.DecodeKeysetToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, entry_id) < ($2, $3)`
		args = append(args, lastCreatedAt, lastID)
	}
	query += ` ORDER BY created_at DESC, entry_id DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.Persistence("list transaction log for "+accountID, err)
	}
	entries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.TransactionLogEntry, error) {
		var m models.TransactionLogEntry
		err := row.Scan(
			&m.EntryID, &m.AccountID, &m.BalanceField, &m.Direction, &m.Amount,
			&m.BalanceBefore, &m.BalanceAfter, &m.ReferenceKind, &m.ReferenceID,
			&m.Description, &m.CreatedAt, &m.CreatedBy,
		)
		return m, err
	})
	if err != nil {
		return nil, nil, apperrors.Persistence("scan transaction log for "+accountID, err)
	}

	var next *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeKeysetToken(last.CreatedAt, last.EntryID)
		next = &token
		entries = entries[:limit]
	}

	result := make([]domain.TransactionLogEntry, len(entries))
	for i, m := range entries {
		result[i] = mapping.ToDomainTransactionLogEntry(m)
	}
	return result, next, nil
}
