package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trade_credit_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/trade_credit_ledger/internal/models"
	"github.com/SscSPs/trade_credit_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxPurchaseOrderRepository struct {
	BaseRepository
}

func newPgxPurchaseOrderRepository(pool *pgxpool.Pool) portsrepo.PurchaseOrderRepository {
	return &PgxPurchaseOrderRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PurchaseOrderRepository = (*PgxPurchaseOrderRepository)(nil)

const purchaseOrderColumns = `purchase_order_id, account_id, vendor_id, reference, amount, net_amount, status,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPurchaseOrder(row pgx.Row) (models.PurchaseOrder, error) {
	var m models.PurchaseOrder
	err := row.Scan(
		&m.PurchaseOrderID, &m.AccountID, &m.VendorID, &m.Reference, &m.Amount, &m.NetAmount,
		&m.Status, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SavePurchaseOrderInTx inserts a purchase order.
func (r *PgxPurchaseOrderRepository) SavePurchaseOrderInTx(ctx context.Context, tx pgx.Tx, po domain.PurchaseOrder) error {
	m := mapping.ToModelPurchaseOrder(po)
	query := `
		INSERT INTO purchase_orders (` + purchaseOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := tx.Exec(ctx, query,
		m.PurchaseOrderID, m.AccountID, m.VendorID, m.Reference, m.Amount, m.NetAmount,
		m.Status, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: purchase order %s", apperrors.ErrDuplicate, m.PurchaseOrderID)
		}
		return apperrors.Persistence("save purchase order "+m.PurchaseOrderID, err)
	}
	return nil
}

// SumNetAmountsByAccountInTx totals net amounts of orders still counting toward debt.
func (r *PgxPurchaseOrderRepository) SumNetAmountsByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(net_amount), 0) FROM purchase_orders
		WHERE account_id = $1 AND status = ANY($2);`
	var total decimal.Decimal
	if err := tx.QueryRow(ctx, query, accountID, domain.DebtStatuses()).Scan(&total); err != nil {
		return decimal.Zero, apperrors.Persistence("sum purchase orders for "+accountID, err)
	}
	return total, nil
}

// FindPurchaseOrderForUpdate selects a purchase order and locks its row.
func (r *PgxPurchaseOrderRepository) FindPurchaseOrderForUpdate(ctx context.Context, tx pgx.Tx, accountID, poID string) (*domain.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
		WHERE account_id = $1 AND purchase_order_id = $2 FOR UPDATE;`
	m, err := scanPurchaseOrder(tx.QueryRow(ctx, query, accountID, poID))
	if err != nil {
		return nil, notFoundOr(err, "purchase order "+poID, "lock purchase order "+poID)
	}
	po := mapping.ToDomainPurchaseOrder(m)
	return &po, nil
}

// UpdatePurchaseOrderStatusInTx stores the status and audit fields.
func (r *PgxPurchaseOrderRepository) UpdatePurchaseOrderStatusInTx(ctx context.Context, tx pgx.Tx, po domain.PurchaseOrder) error {
	m := mapping.ToModelPurchaseOrder(po)
	query := `
		UPDATE purchase_orders SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE purchase_order_id = $1;`
	tag, err := tx.Exec(ctx, query, m.PurchaseOrderID, m.Status, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.Persistence("update purchase order "+m.PurchaseOrderID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: purchase order %s", apperrors.ErrNotFound, m.PurchaseOrderID)
	}
	return nil
}

// ListPurchaseOrdersByAccount returns the account's purchase orders, newest first.
func (r *PgxPurchaseOrderRepository) ListPurchaseOrdersByAccount(ctx context.Context, accountID string) ([]domain.PurchaseOrder, error) {
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE account_id = $1
		ORDER BY created_at DESC, purchase_order_id DESC;`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.Persistence("list purchase orders for "+accountID, err)
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.PurchaseOrder, error) {
		return scanPurchaseOrder(row)
	})
	if err != nil {
		return nil, apperrors.Persistence("scan purchase orders for "+accountID, err)
	}

	result := make([]domain.PurchaseOrder, len(orders))
	for i, m := range orders {
		result[i] = mapping.ToDomainPurchaseOrder(m)
	}
	return result, nil
}

const paymentColumns = `payment_id, account_id, reference, amount, approved_amount, status, rejection_reason,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepository {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepository = (*PgxPaymentRepository)(nil)

func scanPayment(row pgx.Row) (models.Payment, error) {
	var m models.Payment
	err := row.Scan(
		&m.PaymentID, &m.AccountID, &m.Reference, &m.Amount, &m.ApprovedAmount, &m.Status,
		&m.RejectionReason, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

// SavePaymentInTx inserts a payment. (account_id, reference) is unique.
func (r *PgxPaymentRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`
	_, err := tx.Exec(ctx, query,
		m.PaymentID, m.AccountID, m.Reference, m.Amount, m.ApprovedAmount, m.Status,
		m.RejectionReason, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment reference %q for account %s", apperrors.ErrDuplicate, m.Reference, m.AccountID)
		}
		return apperrors.Persistence("save payment "+m.PaymentID, err)
	}
	return nil
}

// FindPaymentForUpdate selects a payment and locks its row.
func (r *PgxPaymentRepository) FindPaymentForUpdate(ctx context.Context, tx pgx.Tx, accountID, paymentID string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments
		WHERE account_id = $1 AND payment_id = $2 FOR UPDATE;`
	m, err := scanPayment(tx.QueryRow(ctx, query, accountID, paymentID))
	if err != nil {
		return nil, notFoundOr(err, "payment "+paymentID, "lock payment "+paymentID)
	}
	payment := mapping.ToDomainPayment(m)
	return &payment, nil
}

// UpdatePaymentStatusInTx stores status, approved amount and rejection reason.
func (r *PgxPaymentRepository) UpdatePaymentStatusInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	m := mapping.ToModelPayment(payment)
	query := `
		UPDATE payments SET status = $2, approved_amount = $3, rejection_reason = $4,
			last_updated_at = $5, last_updated_by = $6
		WHERE payment_id = $1;`
	tag, err := tx.Exec(ctx, query, m.PaymentID, m.Status, m.ApprovedAmount, m.RejectionReason, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return apperrors.Persistence("update payment "+m.PaymentID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: payment %s", apperrors.ErrNotFound, m.PaymentID)
	}
	return nil
}

// SumApprovedByAccountInTx totals the approved amount of every approved payment.
func (r *PgxPaymentRepository) SumApprovedByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(approved_amount), 0) FROM payments WHERE account_id = $1 AND status = $2;`
	var total decimal.Decimal
	if err := tx.QueryRow(ctx, query, accountID, string(domain.PaymentApproved)).Scan(&total); err != nil {
		return decimal.Zero, apperrors.Persistence("sum approved payments for "+accountID, err)
	}
	return total, nil
}

// ListPaymentsByAccount returns the account's payments, newest first.
func (r *PgxPaymentRepository) ListPaymentsByAccount(ctx context.Context, accountID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE account_id = $1
		ORDER BY created_at DESC, payment_id DESC;`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.Persistence("list payments for "+accountID, err)
	}
	payments, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Payment, error) {
		return scanPayment(row)
	})
	if err != nil {
		return nil, apperrors.Persistence("scan payments for "+accountID, err)
	}

	result := make([]domain.Payment, len(payments))
	for i, m := range payments {
		result[i] = mapping.ToDomainPayment(m)
	}
	return result, nil
}
