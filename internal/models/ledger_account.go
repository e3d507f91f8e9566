package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerAccount is a row of ledger_accounts.
type LedgerAccount struct {
	AccountID             string              `db:"account_id"`
	BusinessName          string              `db:"business_name"`
	AssignedCredit        decimal.Decimal     `db:"assigned_credit"`
	AvailableBalance      decimal.Decimal     `db:"available_balance"`
	OutstandingDebt       decimal.Decimal     `db:"outstanding_debt"`
	CreditLimit           decimal.Decimal     `db:"credit_limit"`
	TreasuryBalance       decimal.Decimal     `db:"treasury_balance"`
	LastInterestAppliedAt *time.Time          `db:"last_interest_applied_at"`
	CustomRate            decimal.NullDecimal `db:"custom_rate"`
	CustomFrequency       *string             `db:"custom_frequency"`
	RiskTierID            *string             `db:"risk_tier_id"`
	IsActive              bool                `db:"is_active"`
	AuditFields
}
