package accrual

import (
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Resolver picks the effective rate for an account from one settings snapshot and the
// risk tiers known at the time it was built.
type Resolver struct {
	settings domain.RateSettings
	tiers    map[string]domain.RiskTier
}

// NewResolver indexes tiers by id.
func NewResolver(settings domain.RateSettings, tiers []domain.RiskTier) *Resolver {
	index := make(map[string]domain.RiskTier, len(tiers))
	for _, t := range tiers {
		index[t.TierID] = t
	}
	return &Resolver{settings: settings, tiers: index}
}

// Settings returns the snapshot the resolver was built from.
func (r *Resolver) Settings() domain.RateSettings {
	return r.settings
}

// Resolve returns the rate for the default rate key.
func (r *Resolver) Resolve(acc domain.LedgerAccount) domain.RateConfig {
	return r.ResolveKey(acc, domain.DefaultRateKey)
}

// ResolveKey applies the precedence custom override, then risk tier, then system default.
// Custom and tier rates keep the system auto-apply flag and apply day for key.
func (r *Resolver) ResolveKey(acc domain.LedgerAccount, key string) domain.RateConfig {
	system, ok := r.settings.Rate(key)
	if !ok {
		system = domain.RateSetting{Key: key, Rate: decimal.Zero, Frequency: domain.Annual}
	}
	if system.Frequency == "" {
		system.Frequency = domain.Annual
	}

	if acc.CustomRate != nil && acc.CustomFrequency != nil {
		return domain.RateConfig{
			Rate:      *acc.CustomRate,
			Frequency: *acc.CustomFrequency,
			AutoApply: system.AutoApply,
			ApplyDay:  system.ApplyDay,
			Source:    domain.SourceCustom,
		}
	}

	if acc.RiskTierID != nil {
		if tier, found := r.tiers[*acc.RiskTierID]; found && !tier.Rate.IsZero() {
			freq := tier.Frequency
			if freq == "" {
				freq = domain.Annual
			}
			return domain.RateConfig{
				Rate:      tier.Rate,
				Frequency: freq,
				AutoApply: system.AutoApply,
				ApplyDay:  system.ApplyDay,
				Source:    domain.SourceRiskTier,
			}
		}
	}

	return domain.RateConfig{
		Rate:      system.Rate,
		Frequency: system.Frequency,
		AutoApply: system.AutoApply,
		ApplyDay:  system.ApplyDay,
		Source:    domain.SourceSystemDefault,
	}
}
