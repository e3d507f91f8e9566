package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/SscSPs/trade_credit_ledger/internal/core/accrual"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trade_credit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trade_credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/trade_credit_ledger/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CalculationMethodKey is the rate key recorded in history when the calculation method changes.
const CalculationMethodKey = "calculation_method"

type rateService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	settingsRepo portsrepo.RateSettingsRepository
	historyRepo  portsrepo.RateHistoryRepository
	tierRepo     portsrepo.RiskTierRepository
	accountRepo  portsrepo.LedgerAccountRepositoryFacade
}

// RateServiceOption is a functional option for configuring the rate service
type RateServiceOption func(*rateService)

// WithRateClock replaces the service clock.
func WithRateClock(clock func() time.Time) RateServiceOption {
	return func(s *rateService) {
		s.clock = clock
	}
}

// WithRateIDGenerator replaces the id generator used for tiers and history entries.
func WithRateIDGenerator(newID func() string) RateServiceOption {
	return func(s *rateService) {
		s.newID = newID
	}
}

// NewRateService creates the rate configuration service.
func NewRateService(
	txManager portsrepo.TransactionManager,
	settingsRepo portsrepo.RateSettingsRepository,
	historyRepo portsrepo.RateHistoryRepository,
	tierRepo portsrepo.RiskTierRepository,
	accountRepo portsrepo.LedgerAccountRepositoryFacade,
	options ...RateServiceOption,
) portssvc.RateSvcFacade {
	svc := &rateService{
		BaseService:  newBaseService(),
		txManager:    txManager,
		settingsRepo: settingsRepo,
		historyRepo:  historyRepo,
		tierRepo:     tierRepo,
		accountRepo:  accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.RateSvcFacade = (*rateService)(nil)

func (s *rateService) CurrentSettings(ctx context.Context) (*domain.RateSettings, error) {
	settings, err := s.settingsRepo.FindCurrentSettings(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			defaults := domain.DefaultRateSettings()
			return &defaults, nil
		}
		s.LogError(ctx, err, "Failed to load rate settings")
		return nil, err
	}
	return settings, nil
}

func (s *rateService) NewResolver(ctx context.Context) (*accrual.Resolver, error) {
	settings, err := s.CurrentSettings(ctx)
	if err != nil {
		return nil, err
	}
	tiers, err := s.tierRepo.ListRiskTiers(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to load risk tiers")
		return nil, err
	}
	return accrual.NewResolver(*settings, tiers), nil
}

func (s *rateService) UpdateSystemRate(ctx context.Context, setting domain.RateSetting, reason, actorID string) (*domain.RateSettings, error) {
	if setting.Key == "" {
		setting.Key = domain.DefaultRateKey
	}
	if setting.ApplyDay == 0 {
		setting.ApplyDay = 1
	}
	if err := setting.Validate(); err != nil {
		return nil, err
	}

	current, err := s.CurrentSettings(ctx)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	next := current.WithRate(setting, actorID, now)
	entry := domain.RateHistoryEntry{
		HistoryID:       s.NewID(),
		Scope:           domain.ScopeSystem,
		RateKey:         setting.Key,
		NewRate:         &setting.Rate,
		NewFrequency:    &setting.Frequency,
		Reason:          reason,
		SettingsVersion: next.Version,
		CreatedAt:       now,
		CreatedBy:       actorID,
	}
	if old, ok := current.Rate(setting.Key); ok {
		entry.OldRate = &old.Rate
		entry.OldFrequency = &old.Frequency
	}

	if err := s.saveSnapshot(ctx, next, entry); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "System rate updated",
		slog.String("rate_key", setting.Key),
		slog.String("rate", setting.Rate.String()),
		slog.String("frequency", setting.Frequency.String()),
		slog.Int("version", next.Version))
	return &next, nil
}

func (s *rateService) SetCalculationMethod(ctx context.Context, method domain.CalculationMethod, actorID string) (*domain.RateSettings, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown calculation method %q", apperrors.ErrValidation, string(method))
	}

	current, err := s.CurrentSettings(ctx)
	if err != nil {
		return nil, err
	}
	if current.CalculationMethod == method {
		return current, nil
	}

	now := s.Now()
	next := current.WithMethod(method, actorID, now)
	entry := domain.RateHistoryEntry{
		HistoryID:       s.NewID(),
		Scope:           domain.ScopeSystem,
		RateKey:         CalculationMethodKey,
		Reason:          fmt.Sprintf("calculation method changed from %s to %s", current.CalculationMethod, method),
		SettingsVersion: next.Version,
		CreatedAt:       now,
		CreatedBy:       actorID,
	}
	if err := s.saveSnapshot(ctx, next, entry); err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Calculation method changed", slog.String("method", string(method)), slog.Int("version", next.Version))
	return &next, nil
}

func (s *rateService) saveSnapshot(ctx context.Context, next domain.RateSettings, entry domain.RateHistoryEntry) error {
	err := s.txManager.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.settingsRepo.SaveSettingsSnapshotInTx(ctx, tx, next); err != nil {
			return err
		}
		return s.historyRepo.AppendRateHistoryInTx(ctx, tx, entry)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to save rate settings", slog.Int("version", next.Version))
	}
	return err
}

func (s *rateService) SetCustomRate(ctx context.Context, accountID string, rate *decimal.Decimal, frequency *domain.Frequency, reason, actorID string) (*domain.LedgerAccount, error) {
	if (rate == nil) != (frequency == nil) {
		return nil, fmt.Errorf("%w: custom rate and frequency must be set or cleared together", apperrors.ErrValidation)
	}
	if rate != nil {
		if rate.IsNegative() {
			return nil, fmt.Errorf("%w: rate cannot be negative", apperrors.ErrInvalidAmount)
		}
		if _, err := frequency.Spec(); err != nil {
			return nil, err
		}
	}

	settings, err := s.CurrentSettings(ctx)
	if err != nil {
		return nil, err
	}

	var updated domain.LedgerAccount
	err = s.txManager.WithinTx(ctx, func(tx pgx.Tx) error {
		acc, err := s.accountRepo.FindLedgerAccountForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}

		now := s.Now()
		entry := domain.RateHistoryEntry{
			HistoryID:       s.NewID(),
			Scope:           domain.ScopeBusiness,
			RateKey:         domain.DefaultRateKey,
			AccountID:       &acc.AccountID,
			OldRate:         acc.CustomRate,
			NewRate:         rate,
			OldFrequency:    acc.CustomFrequency,
			NewFrequency:    frequency,
			Reason:          reason,
			SettingsVersion: settings.Version,
			CreatedAt:       now,
			CreatedBy:       actorID,
		}

		acc.CustomRate = rate
		acc.CustomFrequency = frequency
		acc.LastUpdatedAt = now
		acc.LastUpdatedBy = actorID
		if err := s.accountRepo.UpdateLedgerAccountInTx(ctx, tx, *acc); err != nil {
			return err
		}
		if err := s.historyRepo.AppendRateHistoryInTx(ctx, tx, entry); err != nil {
			return err
		}
		updated = *acc
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to set custom rate", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Custom rate changed", slog.String("account_id", accountID), slog.Bool("cleared", rate == nil))
	return &updated, nil
}

func (s *rateService) AssignRiskTier(ctx context.Context, accountID string, tierID *string, actorID string) (*domain.LedgerAccount, error) {
	if tierID != nil {
		if _, err := s.tierRepo.FindRiskTierByID(ctx, *tierID); err != nil {
			return nil, err
		}
	}

	var updated domain.LedgerAccount
	err := s.txManager.WithinTx(ctx, func(tx pgx.Tx) error {
		acc, err := s.accountRepo.FindLedgerAccountForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		acc.RiskTierID = tierID
		acc.LastUpdatedAt = s.Now()
		acc.LastUpdatedBy = actorID
		if err := s.accountRepo.UpdateLedgerAccountInTx(ctx, tx, *acc); err != nil {
			return err
		}
		updated = *acc
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to assign risk tier", slog.String("account_id", accountID))
		return nil, err
	}
	return &updated, nil
}

func validateTier(tier domain.RiskTier) error {
	if strings.TrimSpace(tier.Name) == "" {
		return fmt.Errorf("%w: risk tier name is required", apperrors.ErrValidation)
	}
	if tier.Rate.IsNegative() {
		return fmt.Errorf("%w: risk tier rate cannot be negative", apperrors.ErrInvalidAmount)
	}
	if tier.CreditMultiplier.IsNegative() {
		return fmt.Errorf("%w: credit multiplier cannot be negative", apperrors.ErrInvalidAmount)
	}
	if tier.Frequency != "" {
		if _, err := tier.Frequency.Spec(); err != nil {
			return err
		}
	}
	return nil
}

func (s *rateService) CreateRiskTier(ctx context.Context, tier domain.RiskTier, actorID string) (*domain.RiskTier, error) {
	if tier.CreditMultiplier.IsZero() {
		tier.CreditMultiplier = decimal.NewFromInt(1)
	}
	if err := validateTier(tier); err != nil {
		return nil, err
	}

	tier.TierID = s.NewID()
	tier.AuditFields = audit(actorID, s.Now())
	if err := s.tierRepo.SaveRiskTier(ctx, tier); err != nil {
		s.LogError(ctx, err, "Failed to save risk tier", slog.String("name", tier.Name))
		return nil, err
	}
	s.LogInfo(ctx, "Risk tier created", slog.String("tier_id", tier.TierID))
	return &tier, nil
}

func (s *rateService) UpdateRiskTier(ctx context.Context, tier domain.RiskTier, actorID string) (*domain.RiskTier, error) {
	existing, err := s.tierRepo.FindRiskTierByID(ctx, tier.TierID)
	if err != nil {
		return nil, err
	}
	if tier.CreditMultiplier.IsZero() {
		tier.CreditMultiplier = existing.CreditMultiplier
	}
	if err := validateTier(tier); err != nil {
		return nil, err
	}

	tier.CreatedAt = existing.CreatedAt
	tier.CreatedBy = existing.CreatedBy
	tier.LastUpdatedAt = s.Now()
	tier.LastUpdatedBy = actorID
	if err := s.tierRepo.UpdateRiskTier(ctx, tier); err != nil {
		s.LogError(ctx, err, "Failed to update risk tier", slog.String("tier_id", tier.TierID))
		return nil, err
	}
	return &tier, nil
}

func (s *rateService) ListRiskTiers(ctx context.Context) ([]domain.RiskTier, error) {
	return s.tierRepo.ListRiskTiers(ctx)
}

func (s *rateService) ResolveAccountRate(ctx context.Context, accountID, key string) (*domain.RateConfig, error) {
	acc, err := s.accountRepo.FindLedgerAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	resolver, err := s.NewResolver(ctx)
	if err != nil {
		return nil, err
	}
	if key == "" {
		key = domain.DefaultRateKey
	}
	cfg := resolver.ResolveKey(*acc, key)
	return &cfg, nil
}

func (s *rateService) ListRateHistory(ctx context.Context, params dto.ListRateHistoryParams) (*dto.ListRateHistoryResponse, error) {
	entries, next, err := s.historyRepo.ListRateHistory(ctx, params.AccountID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list rate history")
		return nil, err
	}
	return &dto.ListRateHistoryResponse{Entries: entries, NextToken: next}, nil
}

func (s *rateService) QuoteInterest(ctx context.Context, req dto.InterestQuoteRequest) (*dto.InterestQuoteResponse, error) {
	resolver, err := s.NewResolver(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.InterestQuoteResponse{CalculationMethod: resolver.Settings().CalculationMethod}
	var applyDay int
	var acc *domain.LedgerAccount

	if req.AccountID != nil {
		acc, err = s.accountRepo.FindLedgerAccountByID(ctx, *req.AccountID)
		if err != nil {
			return nil, err
		}
		cfg := resolver.Resolve(*acc)
		resp.Principal, resp.Rate, resp.Frequency, resp.Source = acc.OutstandingDebt, cfg.Rate, cfg.Frequency, cfg.Source
		applyDay = cfg.ApplyDay
	}

	if req.Principal != nil {
		resp.Principal = *req.Principal
	}
	if req.Rate != nil {
		resp.Rate = *req.Rate
	}
	if req.Frequency != "" {
		f, err := domain.ParseFrequency(req.Frequency)
		if err != nil {
			return nil, err
		}
		resp.Frequency = f
	}
	if resp.Frequency == "" {
		return nil, fmt.Errorf("%w: frequency is required without an account", apperrors.ErrValidation)
	}

	calc := accrual.NewCalculator(resp.CalculationMethod)
	cfg := domain.RateConfig{Rate: resp.Rate, Frequency: resp.Frequency}
	if req.ElapsedDays != nil {
		if resp.Periods, err = accrual.ElapsedPeriods(resp.Frequency, *req.ElapsedDays); err != nil {
			return nil, err
		}
		resp.Interest, err = calc.ForDays(resp.Principal, cfg, *req.ElapsedDays)
	} else {
		resp.Periods = decimal.NewFromInt(1)
		resp.Interest, err = calc.OnePeriod(resp.Principal, cfg)
	}
	if err != nil {
		return nil, err
	}

	if acc != nil {
		now := s.Now()
		last := acc.InterestWatermark()
		if due, err := accrual.IsDue(last, resp.Frequency, applyDay, now); err == nil {
			resp.IsDue = &due
		}
		if next, err := accrual.NextDueDate(last, resp.Frequency, applyDay); err == nil {
			resp.NextDueAt = &next
		}
	}
	return resp, nil
}
