package domain

import (
	"fmt"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// PaymentStatus is the review state of a submitted payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentApproved PaymentStatus = "APPROVED"
	PaymentRejected PaymentStatus = "REJECTED"
)

// TransitionTo returns next when the move from s is allowed, or ErrInvalidTransition.
// Only a pending payment can be decided.
func (s PaymentStatus) TransitionTo(next PaymentStatus) (PaymentStatus, error) {
	switch s {
	case PaymentPending:
		switch next {
		case PaymentApproved, PaymentRejected:
			return next, nil
		}
	case PaymentApproved, PaymentRejected:
	default:
		return s, fmt.Errorf("%w: unknown payment status %q", apperrors.ErrInvalidTransition, string(s))
	}
	return s, fmt.Errorf("%w: payment %s -> %s", apperrors.ErrInvalidTransition, s, next)
}

// Payment is a repayment submitted by a business against its debt.
type Payment struct {
	PaymentID       string          `json:"paymentID"`
	AccountID       string          `json:"accountID"`
	Reference       string          `json:"reference"`
	Amount          decimal.Decimal `json:"amount"`
	ApprovedAmount  decimal.Decimal `json:"approvedAmount"`
	Status          PaymentStatus   `json:"status"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	AuditFields
}
