package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DefaultRateKey is the system rate used when no other key is requested.
const DefaultRateKey = "base_interest_rate"

// CalculationMethod selects simple or compound interest for every accrual.
type CalculationMethod string

const (
	MethodSimple   CalculationMethod = "simple"
	MethodCompound CalculationMethod = "compound"
)

// Valid reports whether m is a known method.
func (m CalculationMethod) Valid() bool {
	return m == MethodSimple || m == MethodCompound
}

// RateSource tells where a resolved rate came from.
type RateSource string

const (
	SourceCustom        RateSource = "custom"
	SourceRiskTier      RateSource = "risk_tier"
	SourceSystemDefault RateSource = "system_default"
)

// RateSetting is one named system-wide rate. Rate is a percentage per Frequency period.
type RateSetting struct {
	Key       string          `json:"key"`
	Rate      decimal.Decimal `json:"rate"`
	Frequency Frequency       `json:"frequency"`
	AutoApply bool            `json:"autoApply"`
	ApplyDay  int             `json:"applyDay"`
}

// Validate checks the rate, frequency and apply day.
func (s RateSetting) Validate() error {
	if s.Key == "" {
		return fmt.Errorf("%w: rate key is required", apperrors.ErrValidation)
	}
	if s.Rate.IsNegative() {
		return fmt.Errorf("%w: rate cannot be negative", apperrors.ErrInvalidAmount)
	}
	if _, err := s.Frequency.Spec(); err != nil {
		return err
	}
	if s.ApplyDay < 0 || s.ApplyDay > 31 {
		return fmt.Errorf("%w: apply day must be between 1 and 31", apperrors.ErrValidation)
	}
	return nil
}

// RateSettings is an immutable, versioned snapshot of the system rate configuration.
// Changes produce a new snapshot with Version+1.
type RateSettings struct {
	Version           int                    `json:"version"`
	CalculationMethod CalculationMethod      `json:"calculationMethod"`
	Rates             map[string]RateSetting `json:"rates"`
	CreatedAt         time.Time              `json:"createdAt"`
	CreatedBy         string                 `json:"createdBy"`
}

// DefaultRateSettings is the configuration used before any admin change: a zero base rate,
// annual frequency, no auto-apply and simple interest.
func DefaultRateSettings() RateSettings {
	return RateSettings{
		Version:           0,
		CalculationMethod: MethodSimple,
		Rates: map[string]RateSetting{
			DefaultRateKey: {Key: DefaultRateKey, Rate: decimal.Zero, Frequency: Annual, ApplyDay: 1},
		},
	}
}

// Rate returns the setting for key.
func (s RateSettings) Rate(key string) (RateSetting, bool) {
	r, ok := s.Rates[key]
	return r, ok
}

// WithRate returns the next snapshot with key set to setting. The receiver is not modified.
func (s RateSettings) WithRate(setting RateSetting, actorID string, now time.Time) RateSettings {
	next := s.next(actorID, now)
	next.Rates[setting.Key] = setting
	return next
}

// WithMethod returns the next snapshot using method.
func (s RateSettings) WithMethod(method CalculationMethod, actorID string, now time.Time) RateSettings {
	next := s.next(actorID, now)
	next.CalculationMethod = method
	return next
}

func (s RateSettings) next(actorID string, now time.Time) RateSettings {
	rates := make(map[string]RateSetting, len(s.Rates)+1)
	for k, v := range s.Rates {
		rates[k] = v
	}
	method := s.CalculationMethod
	if method == "" {
		method = MethodSimple
	}
	return RateSettings{
		Version:           s.Version + 1,
		CalculationMethod: method,
		Rates:             rates,
		CreatedAt:         now,
		CreatedBy:         actorID,
	}
}

// RiskTier is a named rate profile shared by many accounts.
type RiskTier struct {
	TierID              string            `json:"tierID"`
	Name                string            `json:"name"`
	Rate                decimal.Decimal   `json:"rate"`
	Frequency           Frequency         `json:"frequency,omitempty"`
	CreditMultiplier    decimal.Decimal   `json:"creditMultiplier"`
	EligibilityCriteria map[string]string `json:"eligibilityCriteria,omitempty"`
	AuditFields
}

// RateScope says whether a rate change affected the system or one business.
type RateScope string

const (
	ScopeSystem   RateScope = "SYSTEM"
	ScopeBusiness RateScope = "BUSINESS"
)

// RateHistoryEntry is an append-only audit record of one rate change.
type RateHistoryEntry struct {
	HistoryID       string           `json:"historyID"`
	Scope           RateScope        `json:"scope"`
	RateKey         string           `json:"rateKey"`
	AccountID       *string          `json:"accountID,omitempty"`
	OldRate         *decimal.Decimal `json:"oldRate,omitempty"`
	NewRate         *decimal.Decimal `json:"newRate,omitempty"`
	OldFrequency    *Frequency       `json:"oldFrequency,omitempty"`
	NewFrequency    *Frequency       `json:"newFrequency,omitempty"`
	Reason          string           `json:"reason"`
	SettingsVersion int              `json:"settingsVersion"`
	CreatedAt       time.Time        `json:"createdAt"`
	CreatedBy       string           `json:"createdBy"`
}

// RateConfig is the effective interest policy for one account.
type RateConfig struct {
	Rate      decimal.Decimal `json:"rate"`
	Frequency Frequency       `json:"frequency"`
	AutoApply bool            `json:"autoApply"`
	ApplyDay  int             `json:"applyDay"`
	Source    RateSource      `json:"source"`
}
