package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TreasuryOperation selects the direction of a treasury update.
type TreasuryOperation string

const (
	TreasuryAdd      TreasuryOperation = "ADD"
	TreasurySubtract TreasuryOperation = "SUBTRACT"
)

// Balances is a snapshot of the four ledger balances plus the mirrored credit limit.
type Balances struct {
	AssignedCredit   decimal.Decimal `json:"assignedCredit"`
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	OutstandingDebt  decimal.Decimal `json:"outstandingDebt"`
	CreditLimit      decimal.Decimal `json:"creditLimit"`
	TreasuryBalance  decimal.Decimal `json:"treasuryBalance"`
}

// LedgerAccount is the credit relationship of one business with the platform.
// Methods mutate the receiver in memory and return the log entries describing the change;
// persisting both atomically is the caller's job.
type LedgerAccount struct {
	AccountID             string           `json:"accountID"`
	BusinessName          string           `json:"businessName"`
	AssignedCredit        decimal.Decimal  `json:"assignedCredit"`
	AvailableBalance      decimal.Decimal  `json:"availableBalance"`
	OutstandingDebt       decimal.Decimal  `json:"outstandingDebt"`
	CreditLimit           decimal.Decimal  `json:"creditLimit"` // mirrors AvailableBalance
	TreasuryBalance       decimal.Decimal  `json:"treasuryBalance"`
	LastInterestAppliedAt *time.Time       `json:"lastInterestAppliedAt,omitempty"`
	CustomRate            *decimal.Decimal `json:"customRate,omitempty"`
	CustomFrequency       *Frequency       `json:"customFrequency,omitempty"`
	RiskTierID            *string          `json:"riskTierID,omitempty"`
	IsActive              bool             `json:"isActive"`
	AuditFields
}

// NewLedgerAccount returns an active account with every balance at zero.
func NewLedgerAccount(accountID, businessName string, riskTierID *string, actorID string, now time.Time) LedgerAccount {
	return LedgerAccount{
		AccountID:        accountID,
		BusinessName:     businessName,
		AssignedCredit:   decimal.Zero,
		AvailableBalance: decimal.Zero,
		OutstandingDebt:  decimal.Zero,
		CreditLimit:      decimal.Zero,
		TreasuryBalance:  decimal.Zero,
		RiskTierID:       riskTierID,
		IsActive:         true,
		AuditFields: AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}
}

// Balances returns the current balance snapshot.
func (a *LedgerAccount) Balances() Balances {
	return Balances{
		AssignedCredit:   a.AssignedCredit,
		AvailableBalance: a.AvailableBalance,
		OutstandingDebt:  a.OutstandingDebt,
		CreditLimit:      a.CreditLimit,
		TreasuryBalance:  a.TreasuryBalance,
	}
}

// InterestWatermark is the timestamp due-date checks count from: the last
// application, or the account creation time when interest was never applied.
func (a *LedgerAccount) InterestWatermark() time.Time {
	if a.LastInterestAppliedAt != nil {
		return *a.LastInterestAppliedAt
	}
	return a.CreatedAt
}

// CanAfford reports whether a purchase of amount fits the available balance.
func (a *LedgerAccount) CanAfford(amount decimal.Decimal) bool {
	return a.AvailableBalance.GreaterThanOrEqual(amount)
}

func (a *LedgerAccount) touch(actorID string, now time.Time) {
	a.LastUpdatedAt = now
	if actorID != "" {
		a.LastUpdatedBy = actorID
	}
}

// MoneyScale is the number of decimal places stored for every balance and amount.
const MoneyScale = 4

// CheckMoneyScale rejects amounts with more decimal places than the ledger stores.
func CheckMoneyScale(amount decimal.Decimal, what string) error {
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return fmt.Errorf("%w: %s has more than %d decimal places, got %s", apperrors.ErrInvalidAmount, what, MoneyScale, amount.String())
	}
	return nil
}

func requirePositive(amount decimal.Decimal, what string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be positive, got %s", apperrors.ErrInvalidAmount, what, amount.String())
	}
	return CheckMoneyScale(amount, what)
}

// AssignInitialCredit grants the first credit line: assigned, available and limit all become amount
// and debt resets to zero.
func (a *LedgerAccount) AssignInitialCredit(amount decimal.Decimal, actorID string, now time.Time) ([]TransactionLogEntry, error) {
	if err := requirePositive(amount, "credit amount"); err != nil {
		return nil, err
	}

	assignedBefore, availableBefore := a.AssignedCredit, a.AvailableBalance
	a.AssignedCredit = amount
	a.AvailableBalance = amount
	a.CreditLimit = amount
	a.OutstandingDebt = decimal.Zero
	a.touch(actorID, now)

	desc := "Initial credit assigned"
	entries := []TransactionLogEntry{
		logEntry(a.AccountID, FieldAssigned, DirectionCredit, amount, assignedBefore, a.AssignedCredit, RefCreditAssignment, a.AccountID, desc, now),
		logEntry(a.AccountID, FieldAvailable, DirectionCredit, amount, availableBefore, a.AvailableBalance, RefCreditAssignment, a.AccountID, desc, now),
	}
	return stamp(entries, actorID), nil
}

// CreatePurchaseOrder moves amount from available spending power into outstanding debt.
func (a *LedgerAccount) CreatePurchaseOrder(amount decimal.Decimal, poRef string, now time.Time) ([]TransactionLogEntry, error) {
	if err := requirePositive(amount, "purchase order amount"); err != nil {
		return nil, err
	}
	if !a.CanAfford(amount) {
		return nil, fmt.Errorf("%w: requested %s, available %s", apperrors.ErrInsufficientBalance, amount.String(), a.AvailableBalance.String())
	}

	availableBefore, debtBefore := a.AvailableBalance, a.OutstandingDebt
	a.AvailableBalance = a.AvailableBalance.Sub(amount)
	a.CreditLimit = a.AvailableBalance
	a.OutstandingDebt = a.OutstandingDebt.Add(amount)
	a.touch("", now)

	desc := "Purchase order " + poRef
	return []TransactionLogEntry{
		logEntry(a.AccountID, FieldAvailable, DirectionDebit, amount, availableBefore, a.AvailableBalance, RefPurchaseOrder, poRef, desc, now),
		logEntry(a.AccountID, FieldDebt, DirectionCredit, amount, debtBefore, a.OutstandingDebt, RefPurchaseOrder, poRef, desc, now),
	}, nil
}

// CancelPurchaseOrder reverses a purchase order of amount. The released debt is capped at the
// outstanding debt and the restored spending power at the assigned credit. Returns the debt
// released; zero means nothing moved and no entries are produced.
func (a *LedgerAccount) CancelPurchaseOrder(amount decimal.Decimal, poRef, reason string, now time.Time) (decimal.Decimal, []TransactionLogEntry) {
	released := decimal.Min(amount, a.OutstandingDebt)
	if !released.IsPositive() {
		return decimal.Zero, nil
	}

	availableBefore, debtBefore := a.AvailableBalance, a.OutstandingDebt
	a.OutstandingDebt = a.OutstandingDebt.Sub(released)
	a.AvailableBalance = decimal.Min(a.AvailableBalance.Add(released), a.AssignedCredit)
	a.CreditLimit = a.AvailableBalance
	a.touch("", now)

	desc := "Purchase order " + poRef + " cancelled"
	if reason != "" {
		desc += ": " + reason
	}
	return released, []TransactionLogEntry{
		logEntry(a.AccountID, FieldAvailable, DirectionCredit, released, availableBefore, a.AvailableBalance, RefPurchaseOrder, poRef, desc, now),
		logEntry(a.AccountID, FieldDebt, DirectionDebit, released, debtBefore, a.OutstandingDebt, RefPurchaseOrder, poRef, desc, now),
	}
}

// SubmitPayment records a pending payment. Balances only move on approval.
func (a *LedgerAccount) SubmitPayment(amount decimal.Decimal, paymentRef string, now time.Time) (TransactionLogEntry, error) {
	if err := requirePositive(amount, "payment amount"); err != nil {
		return TransactionLogEntry{}, err
	}
	return logEntry(a.AccountID, FieldDebt, DirectionPending, amount, a.OutstandingDebt, a.OutstandingDebt,
		RefPayment, paymentRef, "Payment submitted for review", now), nil
}

// ApprovePayment settles debt with a payment. The settled amount is capped at the outstanding
// debt and the restored spending power is capped at the assigned credit; the excess is discarded.
// It returns the amount actually applied.
func (a *LedgerAccount) ApprovePayment(amount decimal.Decimal, paymentRef string, now time.Time) (decimal.Decimal, []TransactionLogEntry, error) {
	if err := requirePositive(amount, "payment amount"); err != nil {
		return decimal.Zero, nil, err
	}

	actual := decimal.Min(amount, a.OutstandingDebt)
	availableBefore, debtBefore := a.AvailableBalance, a.OutstandingDebt

	a.AvailableBalance = decimal.Min(a.AvailableBalance.Add(actual), a.AssignedCredit)
	a.CreditLimit = a.AvailableBalance
	a.OutstandingDebt = decimal.Max(decimal.Zero, a.OutstandingDebt.Sub(actual))
	a.touch("", now)

	desc := "Payment approved"
	return actual, []TransactionLogEntry{
		logEntry(a.AccountID, FieldAvailable, DirectionCredit, actual, availableBefore, a.AvailableBalance, RefPayment, paymentRef, desc, now),
		logEntry(a.AccountID, FieldDebt, DirectionDebit, actual, debtBefore, a.OutstandingDebt, RefPayment, paymentRef, desc, now),
	}, nil
}

// RejectPayment records a rejected payment with the reason. No balance moves.
func (a *LedgerAccount) RejectPayment(amount decimal.Decimal, paymentRef, reason string, now time.Time) TransactionLogEntry {
	desc := "Payment rejected"
	if reason != "" {
		desc += ": " + reason
	}
	return logEntry(a.AccountID, FieldDebt, DirectionRejected, amount, a.OutstandingDebt, a.OutstandingDebt,
		RefPayment, paymentRef, desc, now)
}

// ApplyInterest adds interest to the debt and takes the same amount from the available balance,
// floored at zero. Once available is exhausted, further interest grows debt beyond
// assigned − available (uncollateralized interest). Returns the amount applied, zero for a no-op.
func (a *LedgerAccount) ApplyInterest(interest decimal.Decimal, reason string, now time.Time) (decimal.Decimal, []TransactionLogEntry) {
	if !interest.IsPositive() {
		return decimal.Zero, nil
	}

	availableBefore, debtBefore := a.AvailableBalance, a.OutstandingDebt
	a.OutstandingDebt = a.OutstandingDebt.Add(interest)
	a.AvailableBalance = decimal.Max(decimal.Zero, a.AvailableBalance.Sub(interest))
	a.CreditLimit = a.AvailableBalance
	a.touch("", now)

	if reason == "" {
		reason = "Interest applied"
	}
	return interest, []TransactionLogEntry{
		logEntry(a.AccountID, FieldDebt, DirectionCredit, interest, debtBefore, a.OutstandingDebt, RefInterest, a.AccountID, reason, now),
		logEntry(a.AccountID, FieldAvailable, DirectionDebit, interest, availableBefore, a.AvailableBalance, RefInterest, a.AccountID, reason, now),
	}
}

// AdjustAssignedCredit moves the credit line to newAmount. The delta is applied to the available
// balance in full (floored at zero); debt is untouched. A zero delta produces no entries.
func (a *LedgerAccount) AdjustAssignedCredit(newAmount decimal.Decimal, reason, actorID string, now time.Time) ([]TransactionLogEntry, error) {
	if newAmount.IsNegative() {
		return nil, fmt.Errorf("%w: assigned credit cannot be negative, got %s", apperrors.ErrInvalidAmount, newAmount.String())
	}
	if err := CheckMoneyScale(newAmount, "assigned credit"); err != nil {
		return nil, err
	}

	delta := newAmount.Sub(a.AssignedCredit)
	if delta.IsZero() {
		return nil, nil
	}

	direction := DirectionCredit
	if delta.IsNegative() {
		direction = DirectionDebit
	}

	assignedBefore, availableBefore := a.AssignedCredit, a.AvailableBalance
	a.AssignedCredit = newAmount
	a.AvailableBalance = decimal.Max(decimal.Zero, a.AvailableBalance.Add(delta))
	a.CreditLimit = a.AvailableBalance
	a.touch(actorID, now)

	if reason == "" {
		reason = "Assigned credit adjusted"
	}
	entries := []TransactionLogEntry{
		logEntry(a.AccountID, FieldAssigned, direction, delta.Abs(), assignedBefore, a.AssignedCredit, RefCreditAdjustment, a.AccountID, reason, now),
		logEntry(a.AccountID, FieldAvailable, direction, delta.Abs(), availableBefore, a.AvailableBalance, RefCreditAdjustment, a.AccountID, reason, now),
	}
	return stamp(entries, actorID), nil
}

// UpdateTreasury adds to or subtracts from the platform treasury; subtraction floors at zero.
func (a *LedgerAccount) UpdateTreasury(amount decimal.Decimal, op TreasuryOperation, description, actorID string, now time.Time) (TransactionLogEntry, error) {
	if err := requirePositive(amount, "treasury amount"); err != nil {
		return TransactionLogEntry{}, err
	}

	before := a.TreasuryBalance
	switch op {
	case TreasuryAdd:
		a.TreasuryBalance = a.TreasuryBalance.Add(amount)
	case TreasurySubtract:
		a.TreasuryBalance = decimal.Max(decimal.Zero, a.TreasuryBalance.Sub(amount))
	default:
		return TransactionLogEntry{}, fmt.Errorf("%w: unknown treasury operation %q", apperrors.ErrValidation, string(op))
	}
	a.touch(actorID, now)

	entry := movement(a.AccountID, FieldTreasury, before, a.TreasuryBalance, RefTreasury, a.AccountID, description, now)
	entry.CreatedBy = actorID
	return entry, nil
}

// Reconcile overwrites debt and available balance from the purchase-order and payment history:
// debt is the PO net total minus approved payments (floored at zero) and available is the
// remaining assigned credit. One entry is logged per field that changed.
func (a *LedgerAccount) Reconcile(poNetTotal, approvedPayments decimal.Decimal, now time.Time) (Balances, []TransactionLogEntry) {
	debtBefore, availableBefore := a.OutstandingDebt, a.AvailableBalance

	debt := decimal.Max(decimal.Zero, poNetTotal.Sub(approvedPayments))
	available := decimal.Min(a.AssignedCredit, decimal.Max(decimal.Zero, a.AssignedCredit.Sub(debt)))

	a.OutstandingDebt = debt
	a.AvailableBalance = available
	a.CreditLimit = available
	a.touch("", now)

	var entries []TransactionLogEntry
	desc := "Balances reconciled from purchase order and payment history"
	if !debtBefore.Equal(debt) {
		entries = append(entries, movement(a.AccountID, FieldDebt, debtBefore, debt, RefReconciliation, a.AccountID, desc, now))
	}
	if !availableBefore.Equal(available) {
		entries = append(entries, movement(a.AccountID, FieldAvailable, availableBefore, available, RefReconciliation, a.AccountID, desc, now))
	}
	return a.Balances(), entries
}

func stamp(entries []TransactionLogEntry, actorID string) []TransactionLogEntry {
	for i := range entries {
		entries[i].CreatedBy = actorID
	}
	return entries
}
