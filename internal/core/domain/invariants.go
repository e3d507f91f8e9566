package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvariantTolerance is the rounding slack allowed between debt and assigned − available.
var InvariantTolerance = decimal.RequireFromString("0.01")

// InvariantCode identifies which ledger invariant was broken.
type InvariantCode string

const (
	InvariantAvailableRange      InvariantCode = "AVAILABLE_RANGE"
	InvariantDebtNonNegative     InvariantCode = "DEBT_NON_NEGATIVE"
	InvariantCreditLimitMirror   InvariantCode = "CREDIT_LIMIT_MIRROR"
	InvariantDebtMatchesUsage    InvariantCode = "DEBT_MATCHES_USAGE"
	InvariantTreasuryNonNegative InvariantCode = "TREASURY_NON_NEGATIVE"
)

// InvariantViolation describes one broken invariant on an account.
type InvariantViolation struct {
	Code    InvariantCode `json:"code"`
	Message string        `json:"message"`
	// Soft violations are expected in some flows, such as interest accruing after the
	// available balance reached zero, or a credit line cut below the current debt.
	Soft bool `json:"soft"`
}

// Validate checks the balance invariants without changing anything.
func (a *LedgerAccount) Validate() []InvariantViolation {
	var violations []InvariantViolation

	if a.AvailableBalance.IsNegative() || a.AvailableBalance.GreaterThan(a.AssignedCredit) {
		violations = append(violations, InvariantViolation{
			Code:    InvariantAvailableRange,
			Message: fmt.Sprintf("available balance %s outside [0, %s]", a.AvailableBalance.String(), a.AssignedCredit.String()),
		})
	}
	if a.OutstandingDebt.IsNegative() {
		violations = append(violations, InvariantViolation{
			Code:    InvariantDebtNonNegative,
			Message: fmt.Sprintf("outstanding debt %s is negative", a.OutstandingDebt.String()),
		})
	}
	if !a.CreditLimit.Equal(a.AvailableBalance) {
		violations = append(violations, InvariantViolation{
			Code:    InvariantCreditLimitMirror,
			Message: fmt.Sprintf("credit limit %s differs from available balance %s", a.CreditLimit.String(), a.AvailableBalance.String()),
		})
	}
	if a.TreasuryBalance.IsNegative() {
		violations = append(violations, InvariantViolation{
			Code:    InvariantTreasuryNonNegative,
			Message: fmt.Sprintf("treasury balance %s is negative", a.TreasuryBalance.String()),
		})
	}

	used := a.AssignedCredit.Sub(a.AvailableBalance)
	if a.OutstandingDebt.Sub(used).Abs().GreaterThan(InvariantTolerance) {
		violations = append(violations, InvariantViolation{
			Code:    InvariantDebtMatchesUsage,
			Message: fmt.Sprintf("outstanding debt %s differs from assigned minus available %s", a.OutstandingDebt.String(), used.String()),
			Soft:    true,
		})
	}

	return violations
}

// HasHardViolations reports whether any violation is not soft.
func HasHardViolations(violations []InvariantViolation) bool {
	for _, v := range violations {
		if !v.Soft {
			return true
		}
	}
	return false
}
