package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceField names which of the four ledger balances an entry refers to.
type BalanceField string

const (
	FieldAvailable BalanceField = "AVAILABLE"
	FieldAssigned  BalanceField = "ASSIGNED"
	FieldDebt      BalanceField = "DEBT"
	FieldTreasury  BalanceField = "TREASURY"
)

// Direction describes how an entry moved its balance field.
// CREDIT increases the field, DEBIT decreases it, PENDING and REJECTED record
// payment events that do not move any balance.
type Direction string

const (
	DirectionCredit   Direction = "CREDIT"
	DirectionDebit    Direction = "DEBIT"
	DirectionPending  Direction = "PENDING"
	DirectionRejected Direction = "REJECTED"
)

// ReferenceKind identifies what caused a log entry.
type ReferenceKind string

const (
	RefCreditAssignment ReferenceKind = "CREDIT_ASSIGNMENT"
	RefCreditAdjustment ReferenceKind = "CREDIT_ADJUSTMENT"
	RefPurchaseOrder    ReferenceKind = "PURCHASE_ORDER"
	RefPayment          ReferenceKind = "PAYMENT"
	RefInterest         ReferenceKind = "INTEREST"
	RefTreasury         ReferenceKind = "TREASURY"
	RefReconciliation   ReferenceKind = "RECONCILIATION"
)

// TransactionLogEntry is an immutable record of one balance movement.
type TransactionLogEntry struct {
	EntryID       string          `json:"entryID"`
	AccountID     string          `json:"accountID"`
	BalanceField  BalanceField    `json:"balanceField"`
	Direction     Direction       `json:"direction"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal `json:"balanceAfter"`
	ReferenceKind ReferenceKind   `json:"referenceKind"`
	ReferenceID   string          `json:"referenceID"`
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
}

// logEntry builds an entry with an explicit direction and amount. before/after show the real
// field values, which can differ from amount when the operation clamps the field.
func logEntry(accountID string, field BalanceField, direction Direction, amount, before, after decimal.Decimal, kind ReferenceKind, refID, description string, now time.Time) TransactionLogEntry {
	return TransactionLogEntry{
		AccountID:     accountID,
		BalanceField:  field,
		Direction:     direction,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		ReferenceKind: kind,
		ReferenceID:   refID,
		Description:   description,
		CreatedAt:     now,
	}
}

// movement builds an entry for a field that moved from before to after; the direction
// and the absolute amount are derived from the change.
func movement(accountID string, field BalanceField, before, after decimal.Decimal, kind ReferenceKind, refID, description string, now time.Time) TransactionLogEntry {
	direction := DirectionCredit
	if after.LessThan(before) {
		direction = DirectionDebit
	}
	return logEntry(accountID, field, direction, after.Sub(before).Abs(), before, after, kind, refID, description, now)
}
