package services

import (
	"context"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/SscSPs/trade_credit_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines read operations on ledger accounts
type LedgerReaderSvc interface {
	// GetLedgerAccount retrieves one account.
	GetLedgerAccount(ctx context.Context, accountID string) (*domain.LedgerAccount, error)

	// ListLedgerAccounts retrieves a page of accounts.
	ListLedgerAccounts(ctx context.Context, params dto.ListLedgerAccountsParams) ([]domain.LedgerAccount, error)

	// CanAfford reports whether the available balance covers amount.
	CanAfford(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error)

	// ValidateAccount lists invariant violations without changing anything.
	ValidateAccount(ctx context.Context, accountID string) ([]domain.InvariantViolation, error)

	// ListTransactionLog pages through the account's log, newest first.
	ListTransactionLog(ctx context.Context, accountID string, params dto.ListTransactionLogParams) (*dto.ListTransactionLogResponse, error)

	// ListPurchaseOrders returns the account's purchase orders, newest first.
	ListPurchaseOrders(ctx context.Context, accountID string) ([]domain.PurchaseOrder, error)

	// ListPayments returns the account's payments, newest first.
	ListPayments(ctx context.Context, accountID string) ([]domain.Payment, error)
}

// LedgerLifecycleSvc defines account onboarding and enablement
type LedgerLifecycleSvc interface {
	// CreateLedgerAccount onboards a business with every balance at zero.
	CreateLedgerAccount(ctx context.Context, req dto.CreateLedgerAccountRequest, actorID string) (*domain.LedgerAccount, error)

	// DeactivateAccount blocks further balance mutations.
	DeactivateAccount(ctx context.Context, accountID string, actorID string) error

	// ActivateAccount re-enables a deactivated account.
	ActivateAccount(ctx context.Context, accountID string, actorID string) error
}

// LedgerWriterSvc defines the balance mutations. Each one runs in a single transaction
// holding the account row lock; on failure nothing is persisted and the error is returned as-is.
type LedgerWriterSvc interface {
	AssignInitialCredit(ctx context.Context, accountID string, amount decimal.Decimal, actorID string) (*domain.LedgerResult, error)
	CreatePurchaseOrder(ctx context.Context, accountID string, req dto.CreatePurchaseOrderRequest, actorID string) (*domain.LedgerResult, error)

	// CancelPurchaseOrder cancels an order and releases its net amount from the debt.
	CancelPurchaseOrder(ctx context.Context, accountID, poID, reason, actorID string) (*domain.LedgerResult, error)

	// FulfillPurchaseOrder marks an approved order as delivered. Balances do not move.
	FulfillPurchaseOrder(ctx context.Context, accountID, poID, actorID string) (*domain.LedgerResult, error)
	SubmitPayment(ctx context.Context, accountID string, req dto.SubmitPaymentRequest, actorID string) (*domain.LedgerResult, error)

	// ApprovePayment settles a pending payment. A nil amount approves the submitted amount.
	ApprovePayment(ctx context.Context, accountID, paymentID string, amount *decimal.Decimal, actorID string) (*domain.LedgerResult, error)
	RejectPayment(ctx context.Context, accountID, paymentID, reason, actorID string) (*domain.LedgerResult, error)

	// ApplyInterest charges interest and moves the interest watermark to appliedAt.
	ApplyInterest(ctx context.Context, accountID string, amount decimal.Decimal, reason string, appliedAt time.Time, actorID string) (*domain.LedgerResult, error)
	AdjustAssignedCredit(ctx context.Context, accountID string, newAmount decimal.Decimal, reason, actorID string) (*domain.LedgerResult, error)
	UpdateTreasury(ctx context.Context, accountID string, req dto.TreasuryRequest, actorID string) (*domain.LedgerResult, error)

	// Reconcile recomputes debt and available balance from purchase-order and payment history.
	Reconcile(ctx context.Context, accountID, actorID string) (*domain.LedgerResult, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerLifecycleSvc
	LedgerWriterSvc
}
