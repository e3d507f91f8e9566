package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/core/accrual"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/trade_credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/trade_credit_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) result(args mock.Arguments) (*domain.LedgerResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerResult), args.Error(1)
}

func (m *MockLedgerService) account(args mock.Arguments) (*domain.LedgerAccount, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerService) GetLedgerAccount(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	return m.account(m.Called(ctx, accountID))
}
func (m *MockLedgerService) ListLedgerAccounts(ctx context.Context, params dto.ListLedgerAccountsParams) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}
func (m *MockLedgerService) CanAfford(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, accountID, amount)
	return args.Bool(0), args.Error(1)
}
func (m *MockLedgerService) ValidateAccount(ctx context.Context, accountID string) ([]domain.InvariantViolation, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InvariantViolation), args.Error(1)
}
func (m *MockLedgerService) ListTransactionLog(ctx context.Context, accountID string, params dto.ListTransactionLogParams) (*dto.ListTransactionLogResponse, error) {
	args := m.Called(ctx, accountID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionLogResponse), args.Error(1)
}
func (m *MockLedgerService) ListPurchaseOrders(ctx context.Context, accountID string) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Error(1)
}
func (m *MockLedgerService) ListPayments(ctx context.Context, accountID string) ([]domain.Payment, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}
func (m *MockLedgerService) CreateLedgerAccount(ctx context.Context, req dto.CreateLedgerAccountRequest, actorID string) (*domain.LedgerAccount, error) {
	return m.account(m.Called(ctx, req, actorID))
}
func (m *MockLedgerService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	return m.Called(ctx, accountID, actorID).Error(0)
}
func (m *MockLedgerService) ActivateAccount(ctx context.Context, accountID string, actorID string) error {
	return m.Called(ctx, accountID, actorID).Error(0)
}
func (m *MockLedgerService) AssignInitialCredit(ctx context.Context, accountID string, amount decimal.Decimal, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, amount, actorID))
}
func (m *MockLedgerService) CreatePurchaseOrder(ctx context.Context, accountID string, req dto.CreatePurchaseOrderRequest, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, req, actorID))
}
func (m *MockLedgerService) CancelPurchaseOrder(ctx context.Context, accountID, poID, reason, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, poID, reason, actorID))
}
func (m *MockLedgerService) FulfillPurchaseOrder(ctx context.Context, accountID, poID, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, poID, actorID))
}
func (m *MockLedgerService) SubmitPayment(ctx context.Context, accountID string, req dto.SubmitPaymentRequest, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, req, actorID))
}
func (m *MockLedgerService) ApprovePayment(ctx context.Context, accountID, paymentID string, amount *decimal.Decimal, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, paymentID, amount, actorID))
}
func (m *MockLedgerService) RejectPayment(ctx context.Context, accountID, paymentID, reason, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, paymentID, reason, actorID))
}
func (m *MockLedgerService) ApplyInterest(ctx context.Context, accountID string, amount decimal.Decimal, reason string, appliedAt time.Time, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, amount, reason, appliedAt, actorID))
}
func (m *MockLedgerService) AdjustAssignedCredit(ctx context.Context, accountID string, newAmount decimal.Decimal, reason, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, newAmount, reason, actorID))
}
func (m *MockLedgerService) UpdateTreasury(ctx context.Context, accountID string, req dto.TreasuryRequest, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, req, actorID))
}
func (m *MockLedgerService) Reconcile(ctx context.Context, accountID, actorID string) (*domain.LedgerResult, error) {
	return m.result(m.Called(ctx, accountID, actorID))
}

// --- Mock RateService ---
type MockRateService struct {
	mock.Mock
}

var _ portssvc.RateSvcFacade = (*MockRateService)(nil)

func (m *MockRateService) settings(args mock.Arguments) (*domain.RateSettings, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSettings), args.Error(1)
}

func (m *MockRateService) CurrentSettings(ctx context.Context) (*domain.RateSettings, error) {
	return m.settings(m.Called(ctx))
}
func (m *MockRateService) NewResolver(ctx context.Context) (*accrual.Resolver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accrual.Resolver), args.Error(1)
}
func (m *MockRateService) ResolveAccountRate(ctx context.Context, accountID, key string) (*domain.RateConfig, error) {
	args := m.Called(ctx, accountID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateConfig), args.Error(1)
}
func (m *MockRateService) ListRiskTiers(ctx context.Context) ([]domain.RiskTier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RiskTier), args.Error(1)
}
func (m *MockRateService) ListRateHistory(ctx context.Context, params dto.ListRateHistoryParams) (*dto.ListRateHistoryResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListRateHistoryResponse), args.Error(1)
}
func (m *MockRateService) QuoteInterest(ctx context.Context, req dto.InterestQuoteRequest) (*dto.InterestQuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.InterestQuoteResponse), args.Error(1)
}
func (m *MockRateService) UpdateSystemRate(ctx context.Context, setting domain.RateSetting, reason, actorID string) (*domain.RateSettings, error) {
	return m.settings(m.Called(ctx, setting, reason, actorID))
}
func (m *MockRateService) SetCalculationMethod(ctx context.Context, method domain.CalculationMethod, actorID string) (*domain.RateSettings, error) {
	return m.settings(m.Called(ctx, method, actorID))
}
func (m *MockRateService) SetCustomRate(ctx context.Context, accountID string, rate *decimal.Decimal, frequency *domain.Frequency, reason, actorID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, accountID, rate, frequency, reason, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}
func (m *MockRateService) AssignRiskTier(ctx context.Context, accountID string, tierID *string, actorID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, accountID, tierID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}
func (m *MockRateService) CreateRiskTier(ctx context.Context, tier domain.RiskTier, actorID string) (*domain.RiskTier, error) {
	args := m.Called(ctx, tier, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RiskTier), args.Error(1)
}
func (m *MockRateService) UpdateRiskTier(ctx context.Context, tier domain.RiskTier, actorID string) (*domain.RiskTier, error) {
	args := m.Called(ctx, tier, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RiskTier), args.Error(1)
}

// --- Mock AccrualService ---
type MockAccrualService struct {
	mock.Mock
}

var _ portssvc.AccrualSvc = (*MockAccrualService)(nil)

func (m *MockAccrualService) Run(ctx context.Context, req domain.AccrualRequest) (*domain.AccrualSummary, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccrualSummary), args.Error(1)
}
