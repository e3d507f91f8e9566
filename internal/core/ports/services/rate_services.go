package services

import (
	"context"

	"github.com/SscSPs/trade_credit_ledger/internal/core/accrual"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/SscSPs/trade_credit_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// RateReaderSvc defines read operations on rate configuration
type RateReaderSvc interface {
	// CurrentSettings returns the latest settings snapshot, or the defaults before any change.
	CurrentSettings(ctx context.Context) (*domain.RateSettings, error)

	// NewResolver builds a resolver over the current snapshot and all risk tiers.
	NewResolver(ctx context.Context) (*accrual.Resolver, error)

	// ResolveAccountRate returns the effective rate for an account and rate key.
	ResolveAccountRate(ctx context.Context, accountID, key string) (*domain.RateConfig, error)

	ListRiskTiers(ctx context.Context) ([]domain.RiskTier, error)
	ListRateHistory(ctx context.Context, params dto.ListRateHistoryParams) (*dto.ListRateHistoryResponse, error)

	// QuoteInterest computes interest without applying it.
	QuoteInterest(ctx context.Context, req dto.InterestQuoteRequest) (*dto.InterestQuoteResponse, error)
}

// RateWriterSvc defines rate configuration changes. Each change writes a history entry in the
// same transaction.
type RateWriterSvc interface {
	UpdateSystemRate(ctx context.Context, setting domain.RateSetting, reason, actorID string) (*domain.RateSettings, error)
	SetCalculationMethod(ctx context.Context, method domain.CalculationMethod, actorID string) (*domain.RateSettings, error)

	// SetCustomRate sets a per-business override; nil rate and frequency clear it.
	SetCustomRate(ctx context.Context, accountID string, rate *decimal.Decimal, frequency *domain.Frequency, reason, actorID string) (*domain.LedgerAccount, error)
	AssignRiskTier(ctx context.Context, accountID string, tierID *string, actorID string) (*domain.LedgerAccount, error)

	CreateRiskTier(ctx context.Context, tier domain.RiskTier, actorID string) (*domain.RiskTier, error)
	UpdateRiskTier(ctx context.Context, tier domain.RiskTier, actorID string) (*domain.RiskTier, error)
}

// RateSvcFacade combines all rate service interfaces
type RateSvcFacade interface {
	RateReaderSvc
	RateWriterSvc
}
