package dto

import (
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateLedgerAccountRequest onboards a business with zero balances.
type CreateLedgerAccountRequest struct {
	BusinessName string  `json:"businessName" binding:"required,max=255"`
	RiskTierID   *string `json:"riskTierID"`
}

// AmountRequest carries a single amount, used for initial credit.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// CreatePurchaseOrderRequest charges a purchase to the account's credit line.
type CreatePurchaseOrderRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" binding:"required,max=100"`
	VendorID  string          `json:"vendorID"`
}

// SubmitPaymentRequest records a payment awaiting review.
type SubmitPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Reference string          `json:"reference" binding:"required,max=100"`
}

// ApprovePaymentRequest approves a pending payment. Amount defaults to the submitted amount.
type ApprovePaymentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// RejectPaymentRequest rejects a pending payment.
type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// CancelPurchaseOrderRequest cancels a purchase order. The body is optional.
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ApplyInterestRequest charges a manual interest amount.
type ApplyInterestRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" binding:"max=500"`
	// AppliedAt becomes the interest watermark. Defaults to now.
	AppliedAt *time.Time `json:"appliedAt"`
}

// AdjustCreditRequest moves the assigned credit line.
type AdjustCreditRequest struct {
	NewAmount decimal.Decimal `json:"newAmount"`
	Reason    string          `json:"reason" binding:"max=500"`
}

// TreasuryRequest adds to or subtracts from the treasury balance.
type TreasuryRequest struct {
	Amount      decimal.Decimal          `json:"amount"`
	Operation   domain.TreasuryOperation `json:"operation" binding:"required,oneof=ADD SUBTRACT"`
	Description string                   `json:"description" binding:"max=500"`
}

// LedgerAccountResponse mirrors domain.LedgerAccount.
type LedgerAccountResponse struct {
	AccountID             string           `json:"accountID"`
	BusinessName          string           `json:"businessName"`
	AssignedCredit        decimal.Decimal  `json:"assignedCredit"`
	AvailableBalance      decimal.Decimal  `json:"availableBalance"`
	OutstandingDebt       decimal.Decimal  `json:"outstandingDebt"`
	CreditLimit           decimal.Decimal  `json:"creditLimit"`
	TreasuryBalance       decimal.Decimal  `json:"treasuryBalance"`
	LastInterestAppliedAt *time.Time       `json:"lastInterestAppliedAt,omitempty"`
	CustomRate            *decimal.Decimal `json:"customRate,omitempty"`
	CustomFrequency       *string          `json:"customFrequency,omitempty"`
	RiskTierID            *string          `json:"riskTierID,omitempty"`
	IsActive              bool             `json:"isActive"`
	CreatedAt             time.Time        `json:"createdAt"`
	CreatedBy             string           `json:"createdBy"`
	LastUpdatedAt         time.Time        `json:"lastUpdatedAt"`
	LastUpdatedBy         string           `json:"lastUpdatedBy"`
}

// TransactionLogEntryResponse mirrors domain.TransactionLogEntry.
type TransactionLogEntryResponse struct {
	EntryID       string          `json:"entryID"`
	BalanceField  string          `json:"balanceField"`
	Direction     string          `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	ReferenceKind string          `json:"referenceKind"`
	ReferenceID   string          `json:"referenceID"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// LedgerOperationResponse is returned by every balance mutation.
type LedgerOperationResponse struct {
	Account       LedgerAccountResponse         `json:"account"`
	Entries       []TransactionLogEntryResponse `json:"entries"`
	AppliedAmount decimal.Decimal               `json:"appliedAmount"`
	PurchaseOrder *domain.PurchaseOrder         `json:"purchaseOrder,omitempty"`
	Payment       *domain.Payment               `json:"payment,omitempty"`
}

// ValidationResponse lists invariant violations of an account.
type ValidationResponse struct {
	AccountID  string                      `json:"accountID"`
	Valid      bool                        `json:"valid"`
	Violations []domain.InvariantViolation `json:"violations"`
}

// CanAffordResponse answers a spending pre-check.
type CanAffordResponse struct {
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	CanAfford bool            `json:"canAfford"`
}

// ListLedgerAccountsParams defines query parameters for listing accounts.
type ListLedgerAccountsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListLedgerAccountsResponse wraps a page of accounts.
type ListLedgerAccountsResponse struct {
	Accounts []LedgerAccountResponse `json:"accounts"`
}

// ListTransactionLogParams defines query parameters for the transaction log.
type ListTransactionLogParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionLogResponse wraps a page of log entries.
type ListTransactionLogResponse struct {
	Entries   []TransactionLogEntryResponse `json:"entries"`
	NextToken *string                       `json:"nextToken,omitempty"`
}

// ListPurchaseOrdersResponse wraps an account's purchase orders.
type ListPurchaseOrdersResponse struct {
	PurchaseOrders []domain.PurchaseOrder `json:"purchaseOrders"`
}

// ListPaymentsResponse wraps an account's payments.
type ListPaymentsResponse struct {
	Payments []domain.Payment `json:"payments"`
}

// ToLedgerAccountResponse converts a domain.LedgerAccount to its DTO.
func ToLedgerAccountResponse(acc *domain.LedgerAccount) LedgerAccountResponse {
	var freq *string
	if acc.CustomFrequency != nil {
		f := acc.CustomFrequency.String()
		freq = &f
	}
	return LedgerAccountResponse{
		AccountID:             acc.AccountID,
		BusinessName:          acc.BusinessName,
		AssignedCredit:        acc.AssignedCredit,
		AvailableBalance:      acc.AvailableBalance,
		OutstandingDebt:       acc.OutstandingDebt,
		CreditLimit:           acc.CreditLimit,
		TreasuryBalance:       acc.TreasuryBalance,
		LastInterestAppliedAt: acc.LastInterestAppliedAt,
		CustomRate:            acc.CustomRate,
		CustomFrequency:       freq,
		RiskTierID:            acc.RiskTierID,
		IsActive:              acc.IsActive,
		CreatedAt:             acc.CreatedAt,
		CreatedBy:             acc.CreatedBy,
		LastUpdatedAt:         acc.LastUpdatedAt,
		LastUpdatedBy:         acc.LastUpdatedBy,
	}
}

// ToLedgerAccountResponses converts a slice of accounts.
func ToLedgerAccountResponses(accounts []domain.LedgerAccount) []LedgerAccountResponse {
	res := make([]LedgerAccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToLedgerAccountResponse(&accounts[i])
	}
	return res
}

// ToTransactionLogEntryResponses converts log entries.
func ToTransactionLogEntryResponses(entries []domain.TransactionLogEntry) []TransactionLogEntryResponse {
	res := make([]TransactionLogEntryResponse, len(entries))
	for i, e := range entries {
		res[i] = TransactionLogEntryResponse{
			EntryID:       e.EntryID,
			BalanceField:  string(e.BalanceField),
			Direction:     string(e.Direction),
			Amount:        e.Amount,
			BalanceBefore: e.BalanceBefore,
			BalanceAfter:  e.BalanceAfter,
			ReferenceKind: string(e.ReferenceKind),
			ReferenceID:   e.ReferenceID,
			Description:   e.Description,
			CreatedAt:     e.CreatedAt,
			CreatedBy:     e.CreatedBy,
		}
	}
	return res
}

// ToLedgerOperationResponse converts a ledger mutation result.
func ToLedgerOperationResponse(r *domain.LedgerResult) LedgerOperationResponse {
	return LedgerOperationResponse{
		Account:       ToLedgerAccountResponse(&r.Account),
		Entries:       ToTransactionLogEntryResponses(r.Entries),
		AppliedAmount: r.AppliedAmount,
		PurchaseOrder: r.PurchaseOrder,
		Payment:       r.Payment,
	}
}
