package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/SscSPs/trade_credit_ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelRateSettings converts a settings snapshot to its row, encoding the rates map as JSON.
func ToModelRateSettings(d domain.RateSettings) (models.RateSettings, error) {
	rates, err := json.Marshal(d.Rates)
	if err != nil {
		return models.RateSettings{}, fmt.Errorf("encode rates of settings version %d: %w", d.Version, err)
	}
	return models.RateSettings{
		Version:           d.Version,
		CalculationMethod: string(d.CalculationMethod),
		Rates:             rates,
		CreatedAt:         d.CreatedAt,
		CreatedBy:         d.CreatedBy,
	}, nil
}

// ToDomainRateSettings converts a settings row back to a snapshot.
func ToDomainRateSettings(m models.RateSettings) (domain.RateSettings, error) {
	rates := map[string]domain.RateSetting{}
	if len(m.Rates) > 0 {
		if err := json.Unmarshal(m.Rates, &rates); err != nil {
			return domain.RateSettings{}, fmt.Errorf("decode rates of settings version %d: %w", m.Version, err)
		}
	}
	return domain.RateSettings{
		Version:           m.Version,
		CalculationMethod: domain.CalculationMethod(m.CalculationMethod),
		Rates:             rates,
		CreatedAt:         m.CreatedAt,
		CreatedBy:         m.CreatedBy,
	}, nil
}

// ToModelRiskTier converts a domain RiskTier to a model RiskTier
func ToModelRiskTier(d domain.RiskTier) (models.RiskTier, error) {
	criteria, err := json.Marshal(d.EligibilityCriteria)
	if err != nil {
		return models.RiskTier{}, fmt.Errorf("encode eligibility criteria of tier %s: %w", d.TierID, err)
	}
	return models.RiskTier{
		TierID:              d.TierID,
		Name:                d.Name,
		Rate:                d.Rate,
		Frequency:           toNullable(d.Frequency.String()),
		CreditMultiplier:    d.CreditMultiplier,
		EligibilityCriteria: criteria,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainRiskTier converts a model RiskTier to a domain RiskTier
func ToDomainRiskTier(m models.RiskTier) (domain.RiskTier, error) {
	var criteria map[string]string
	if len(m.EligibilityCriteria) > 0 {
		if err := json.Unmarshal(m.EligibilityCriteria, &criteria); err != nil {
			return domain.RiskTier{}, fmt.Errorf("decode eligibility criteria of tier %s: %w", m.TierID, err)
		}
	}
	return domain.RiskTier{
		TierID:              m.TierID,
		Name:                m.Name,
		Rate:                m.Rate,
		Frequency:           domain.Frequency(fromNullable(m.Frequency)),
		CreditMultiplier:    m.CreditMultiplier,
		EligibilityCriteria: criteria,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelRateHistory converts a history entry to its row
func ToModelRateHistory(d domain.RateHistoryEntry) models.RateHistory {
	return models.RateHistory{
		HistoryID:       d.HistoryID,
		Scope:           string(d.Scope),
		RateKey:         d.RateKey,
		AccountID:       d.AccountID,
		OldRate:         nullDecimal(d.OldRate),
		NewRate:         nullDecimal(d.NewRate),
		OldFrequency:    frequencyString(d.OldFrequency),
		NewFrequency:    frequencyString(d.NewFrequency),
		Reason:          d.Reason,
		SettingsVersion: d.SettingsVersion,
		CreatedAt:       d.CreatedAt,
		CreatedBy:       d.CreatedBy,
	}
}

// ToDomainRateHistory converts a history row to a domain entry
func ToDomainRateHistory(m models.RateHistory) domain.RateHistoryEntry {
	return domain.RateHistoryEntry{
		HistoryID:       m.HistoryID,
		Scope:           domain.RateScope(m.Scope),
		RateKey:         m.RateKey,
		AccountID:       m.AccountID,
		OldRate:         decimalPtr(m.OldRate),
		NewRate:         decimalPtr(m.NewRate),
		OldFrequency:    frequencyPtr(m.OldFrequency),
		NewFrequency:    frequencyPtr(m.NewFrequency),
		Reason:          m.Reason,
		SettingsVersion: m.SettingsVersion,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func decimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func frequencyString(f *domain.Frequency) *string {
	if f == nil {
		return nil
	}
	s := f.String()
	return &s
}

func frequencyPtr(s *string) *domain.Frequency {
	if s == nil {
		return nil
	}
	f := domain.Frequency(*s)
	return &f
}
