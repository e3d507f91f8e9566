package domain_test

import (
	"testing"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestPurchaseOrderStatus_TransitionTo(t *testing.T) {
	tests := []struct {
		from    domain.PurchaseOrderStatus
		to      domain.PurchaseOrderStatus
		allowed bool
	}{
		{domain.POPending, domain.POApproved, true},
		{domain.POPending, domain.PORejected, true},
		{domain.POPending, domain.POCancelled, true},
		{domain.POApproved, domain.POFulfilled, true},
		{domain.POApproved, domain.POCancelled, true},
		{domain.POApproved, domain.PORejected, false},
		{domain.POFulfilled, domain.POCancelled, false},
		{domain.POCancelled, domain.POApproved, false},
		{domain.PORejected, domain.POPending, false},
		{domain.PurchaseOrderStatus("LOST"), domain.POApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := tt.from.TransitionTo(tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tt.to, got)
				return
			}
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
			assert.Equal(t, tt.from, got)
		})
	}
}

func TestPurchaseOrderStatus_CountsTowardDebt(t *testing.T) {
	assert.True(t, domain.POApproved.CountsTowardDebt())
	assert.True(t, domain.POFulfilled.CountsTowardDebt())
	assert.False(t, domain.POCancelled.CountsTowardDebt())
	assert.False(t, domain.PORejected.CountsTowardDebt())
}

func TestDebtStatuses(t *testing.T) {
	assert.ElementsMatch(t, []string{"PENDING", "APPROVED", "FULFILLED"}, domain.DebtStatuses())
}

func TestPaymentStatus_TransitionTo(t *testing.T) {
	next, err := domain.PaymentPending.TransitionTo(domain.PaymentApproved)
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentApproved, next)

	next, err = domain.PaymentPending.TransitionTo(domain.PaymentRejected)
	assert.NoError(t, err)
	assert.Equal(t, domain.PaymentRejected, next)

	for _, from := range []domain.PaymentStatus{domain.PaymentApproved, domain.PaymentRejected} {
		for _, to := range []domain.PaymentStatus{domain.PaymentPending, domain.PaymentApproved, domain.PaymentRejected} {
			_, err := from.TransitionTo(to)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransition, "%s -> %s", from, to)
		}
	}

	_, err = domain.PaymentPending.TransitionTo(domain.PaymentPending)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	_, err = domain.PaymentStatus("VOID").TransitionTo(domain.PaymentApproved)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}
