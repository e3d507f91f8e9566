package repositories

import (
	"context"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	// SavePurchaseOrderInTx inserts a purchase order.
	SavePurchaseOrderInTx(ctx context.Context, tx pgx.Tx, po domain.PurchaseOrder) error

	// SumNetAmountsByAccountInTx totals the net amount of purchase orders that still count toward debt.
	SumNetAmountsByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error)

	// FindPurchaseOrderForUpdate selects a purchase order and locks its row. Returns ErrNotFound when missing.
	FindPurchaseOrderForUpdate(ctx context.Context, tx pgx.Tx, accountID, poID string) (*domain.PurchaseOrder, error)

	// UpdatePurchaseOrderStatusInTx stores the status and audit fields.
	UpdatePurchaseOrderStatusInTx(ctx context.Context, tx pgx.Tx, po domain.PurchaseOrder) error

	// ListPurchaseOrdersByAccount returns the account's purchase orders, newest first.
	ListPurchaseOrdersByAccount(ctx context.Context, accountID string) ([]domain.PurchaseOrder, error)
}

// PaymentRepository persists payments and their review status
type PaymentRepository interface {
	// SavePaymentInTx inserts a payment. A duplicate reference for the account returns ErrDuplicate.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// FindPaymentForUpdate selects a payment and locks its row. Returns ErrNotFound when missing.
	FindPaymentForUpdate(ctx context.Context, tx pgx.Tx, accountID, paymentID string) (*domain.Payment, error)

	// UpdatePaymentStatusInTx stores status, approved amount and rejection reason.
	UpdatePaymentStatusInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error

	// SumApprovedByAccountInTx totals the approved amount of every approved payment.
	SumApprovedByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error)

	// ListPaymentsByAccount returns the account's payments, newest first.
	ListPaymentsByAccount(ctx context.Context, accountID string) ([]domain.Payment, error)
}
