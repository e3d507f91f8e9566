package domain

import (
	"fmt"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus is the lifecycle state of a purchase order.
type PurchaseOrderStatus string

const (
	POPending   PurchaseOrderStatus = "PENDING"
	POApproved  PurchaseOrderStatus = "APPROVED"
	POFulfilled PurchaseOrderStatus = "FULFILLED"
	POCancelled PurchaseOrderStatus = "CANCELLED"
	PORejected  PurchaseOrderStatus = "REJECTED"
)

var purchaseOrderTransitions = map[PurchaseOrderStatus][]PurchaseOrderStatus{
	POPending:   {POApproved, PORejected, POCancelled},
	POApproved:  {POFulfilled, POCancelled},
	POFulfilled: nil,
	POCancelled: nil,
	PORejected:  nil,
}

// TransitionTo returns next when the move from s is allowed, or ErrInvalidTransition.
func (s PurchaseOrderStatus) TransitionTo(next PurchaseOrderStatus) (PurchaseOrderStatus, error) {
	allowed, known := purchaseOrderTransitions[s]
	if !known {
		return s, fmt.Errorf("%w: unknown purchase order status %q", apperrors.ErrInvalidTransition, string(s))
	}
	for _, candidate := range allowed {
		if candidate == next {
			return next, nil
		}
	}
	return s, fmt.Errorf("%w: purchase order %s -> %s", apperrors.ErrInvalidTransition, s, next)
}

// PurchaseOrderStatuses lists every purchase order status.
var PurchaseOrderStatuses = []PurchaseOrderStatus{POPending, POApproved, POFulfilled, POCancelled, PORejected}

// CountsTowardDebt reports whether a PO in this state is part of the reconciled debt.
func (s PurchaseOrderStatus) CountsTowardDebt() bool {
	return s == POPending || s == POApproved || s == POFulfilled
}

// DebtStatuses returns the statuses whose orders count toward reconciled debt.
func DebtStatuses() []string {
	var out []string
	for _, s := range PurchaseOrderStatuses {
		if s.CountsTowardDebt() {
			out = append(out, string(s))
		}
	}
	return out
}

// PurchaseOrder is a purchase made against an account's credit line.
// NetAmount is the amount that counts toward debt after any vendor adjustments.
type PurchaseOrder struct {
	PurchaseOrderID string              `json:"purchaseOrderID"`
	AccountID       string              `json:"accountID"`
	VendorID        string              `json:"vendorID,omitempty"`
	Reference       string              `json:"reference"`
	Amount          decimal.Decimal     `json:"amount"`
	NetAmount       decimal.Decimal     `json:"netAmount"`
	Status          PurchaseOrderStatus `json:"status"`
	AuditFields
}
