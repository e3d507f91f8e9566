package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateSettings is a row of rate_settings. Rates holds the JSONB encoded key->setting map.
type RateSettings struct {
	Version           int       `db:"version"`
	CalculationMethod string    `db:"calculation_method"`
	Rates             []byte    `db:"rates"`
	CreatedAt         time.Time `db:"created_at"`
	CreatedBy         string    `db:"created_by"`
}

// RiskTier is a row of risk_tiers.
type RiskTier struct {
	TierID              string          `db:"tier_id"`
	Name                string          `db:"name"`
	Rate                decimal.Decimal `db:"rate"`
	Frequency           *string         `db:"frequency"`
	CreditMultiplier    decimal.Decimal `db:"credit_multiplier"`
	EligibilityCriteria []byte          `db:"eligibility_criteria"`
	AuditFields
}

// RateHistory is a row of rate_history.
type RateHistory struct {
	HistoryID       string              `db:"history_id"`
	Scope           string              `db:"scope"`
	RateKey         string              `db:"rate_key"`
	AccountID       *string             `db:"account_id"`
	OldRate         decimal.NullDecimal `db:"old_rate"`
	NewRate         decimal.NullDecimal `db:"new_rate"`
	OldFrequency    *string             `db:"old_frequency"`
	NewFrequency    *string             `db:"new_frequency"`
	Reason          string              `db:"reason"`
	SettingsVersion int                 `db:"settings_version"`
	CreatedAt       time.Time           `db:"created_at"`
	CreatedBy       string              `db:"created_by"`
}
