package dto

import (
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// UpdateSystemRateRequest replaces one system rate.
type UpdateSystemRateRequest struct {
	Key       string          `json:"key"`
	Rate      decimal.Decimal `json:"rate"`
	Frequency string          `json:"frequency" binding:"required,frequency"`
	AutoApply bool            `json:"autoApply"`
	ApplyDay  int             `json:"applyDay" binding:"min=0,max=31"`
	Reason    string          `json:"reason" binding:"max=500"`
}

// SetCalculationMethodRequest switches between simple and compound interest.
type SetCalculationMethodRequest struct {
	Method domain.CalculationMethod `json:"method" binding:"required,oneof=simple compound"`
}

// SetCustomRateRequest sets or clears a per-business override. Both fields nil clears it.
type SetCustomRateRequest struct {
	Rate      *decimal.Decimal `json:"rate"`
	Frequency *string          `json:"frequency" binding:"omitempty,frequency"`
	Reason    string           `json:"reason" binding:"max=500"`
}

// AssignRiskTierRequest links an account to a tier; nil unlinks it.
type AssignRiskTierRequest struct {
	TierID *string `json:"tierID"`
}

// RiskTierRequest creates or edits a risk tier.
type RiskTierRequest struct {
	Name                string            `json:"name" binding:"required,max=100"`
	Rate                decimal.Decimal   `json:"rate"`
	Frequency           string            `json:"frequency" binding:"omitempty,frequency"`
	CreditMultiplier    decimal.Decimal   `json:"creditMultiplier"`
	EligibilityCriteria map[string]string `json:"eligibilityCriteria"`
}

// ListRateHistoryParams defines query parameters for the rate history.
type ListRateHistoryParams struct {
	AccountID *string `form:"accountID"`
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListRateHistoryResponse wraps a page of rate changes.
type ListRateHistoryResponse struct {
	Entries   []domain.RateHistoryEntry `json:"entries"`
	NextToken *string                   `json:"nextToken,omitempty"`
}

// InterestQuoteRequest asks for interest without applying it. When AccountID is set the
// account's debt and resolved rate fill any field left empty.
type InterestQuoteRequest struct {
	AccountID   *string          `form:"accountID"`
	Principal   *decimal.Decimal `form:"principal"`
	Rate        *decimal.Decimal `form:"rate"`
	Frequency   string           `form:"frequency" binding:"omitempty,frequency"`
	ElapsedDays *int             `form:"elapsedDays" binding:"omitempty,min=0"`
}

// InterestQuoteResponse is a computed, unapplied interest amount.
type InterestQuoteResponse struct {
	Principal         decimal.Decimal          `json:"principal"`
	Rate              decimal.Decimal          `json:"rate"`
	Frequency         domain.Frequency         `json:"frequency"`
	CalculationMethod domain.CalculationMethod `json:"calculationMethod"`
	Periods           decimal.Decimal          `json:"periods"`
	Interest          decimal.Decimal          `json:"interest"`
	Source            domain.RateSource        `json:"source,omitempty"`
	IsDue             *bool                    `json:"isDue,omitempty"`
	NextDueAt         *time.Time               `json:"nextDueAt,omitempty"`
}
