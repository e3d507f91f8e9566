package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/core/accrual"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/SscSPs/trade_credit_ledger/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Transaction manager ---

// fakeTxManager runs fn with a nil tx and counts how often a transaction was opened.
type fakeTxManager struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeTxManager) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (f *fakeTxManager) Commit(ctx context.Context, tx pgx.Tx) error { return nil }
func (f *fakeTxManager) Rollback(ctx context.Context, tx pgx.Tx) error { return nil }
func (f *fakeTxManager) WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return fn(nil)
}

// --- Repositories ---

type MockLedgerAccountRepository struct {
	mock.Mock
}

func (m *MockLedgerAccountRepository) FindLedgerAccountByID(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) ListLedgerAccounts(ctx context.Context, limit int, offset int) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) ListAccrualCandidates(ctx context.Context, accountID *string) ([]domain.LedgerAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) SaveLedgerAccount(ctx context.Context, account domain.LedgerAccount) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockLedgerAccountRepository) SetLedgerAccountActive(ctx context.Context, accountID string, active bool, actorID string, now time.Time) error {
	return m.Called(ctx, accountID, active, actorID, now).Error(0)
}

func (m *MockLedgerAccountRepository) FindLedgerAccountForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.LedgerAccount, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerAccount), args.Error(1)
}

func (m *MockLedgerAccountRepository) UpdateLedgerAccountInTx(ctx context.Context, tx pgx.Tx, account domain.LedgerAccount) error {
	return m.Called(ctx, tx, account).Error(0)
}

type MockTransactionLogRepository struct {
	mock.Mock
}

func (m *MockTransactionLogRepository) AppendEntriesInTx(ctx context.Context, tx pgx.Tx, entries []domain.TransactionLogEntry) error {
	return m.Called(ctx, tx, entries).Error(0)
}

func (m *MockTransactionLogRepository) ListEntriesByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.TransactionLogEntry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var next *string
	if v := args.Get(1); v != nil {
		next = v.(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.TransactionLogEntry), next, args.Error(2)
}

type MockPurchaseOrderRepository struct {
	mock.Mock
}

func (m *MockPurchaseOrderRepository) SavePurchaseOrderInTx(ctx context.Context, tx pgx.Tx, po domain.PurchaseOrder) error {
	return m.Called(ctx, tx, po).Error(0)
}

func (m *MockPurchaseOrderRepository) SumNetAmountsByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPurchaseOrderRepository) FindPurchaseOrderForUpdate(ctx context.Context, tx pgx.Tx, accountID, poID string) (*domain.PurchaseOrder, error) {
	args := m.Called(ctx, tx, accountID, poID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PurchaseOrder), args.Error(1)
}

func (m *MockPurchaseOrderRepository) UpdatePurchaseOrderStatusInTx(ctx context.Context, tx pgx.Tx, po domain.PurchaseOrder) error {
	return m.Called(ctx, tx, po).Error(0)
}

func (m *MockPurchaseOrderRepository) ListPurchaseOrdersByAccount(ctx context.Context, accountID string) ([]domain.PurchaseOrder, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PurchaseOrder), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	return m.Called(ctx, tx, payment).Error(0)
}

func (m *MockPaymentRepository) FindPaymentForUpdate(ctx context.Context, tx pgx.Tx, accountID, paymentID string) (*domain.Payment, error) {
	args := m.Called(ctx, tx, accountID, paymentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) UpdatePaymentStatusInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error {
	return m.Called(ctx, tx, payment).Error(0)
}

func (m *MockPaymentRepository) SumApprovedByAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPaymentRepository) ListPaymentsByAccount(ctx context.Context, accountID string) ([]domain.Payment, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

type MockRateSettingsRepository struct {
	mock.Mock
}

func (m *MockRateSettingsRepository) FindCurrentSettings(ctx context.Context) (*domain.RateSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateSettings), args.Error(1)
}

func (m *MockRateSettingsRepository) SaveSettingsSnapshotInTx(ctx context.Context, tx pgx.Tx, settings domain.RateSettings) error {
	return m.Called(ctx, tx, settings).Error(0)
}

type MockRateHistoryRepository struct {
	mock.Mock
}

func (m *MockRateHistoryRepository) AppendRateHistoryInTx(ctx context.Context, tx pgx.Tx, entry domain.RateHistoryEntry) error {
	return m.Called(ctx, tx, entry).Error(0)
}

func (m *MockRateHistoryRepository) ListRateHistory(ctx context.Context, accountID *string, limit int, nextToken *string) ([]domain.RateHistoryEntry, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var next *string
	if v := args.Get(1); v != nil {
		next = v.(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.RateHistoryEntry), next, args.Error(2)
}

type MockRiskTierRepository struct {
	mock.Mock
}

func (m *MockRiskTierRepository) FindRiskTierByID(ctx context.Context, tierID string) (*domain.RiskTier, error) {
	args := m.Called(ctx, tierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RiskTier), args.Error(1)
}

func (m *MockRiskTierRepository) ListRiskTiers(ctx context.Context) ([]domain.RiskTier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RiskTier), args.Error(1)
}

func (m *MockRiskTierRepository) SaveRiskTier(ctx context.Context, tier domain.RiskTier) error {
	return m.Called(ctx, tier).Error(0)
}

func (m *MockRiskTierRepository) UpdateRiskTier(ctx context.Context, tier domain.RiskTier) error {
	return m.Called(ctx, tier).Error(0)
}

// --- Services used by the accrual orchestrator ---

// MockLedgerWriter only needs ApplyInterest wired; the other writers are never called by accrual.
type MockLedgerWriter struct {
	mock.Mock
}

func (m *MockLedgerWriter) ApplyInterest(ctx context.Context, accountID string, amount decimal.Decimal, reason string, appliedAt time.Time, actorID string) (*domain.LedgerResult, error) {
	args := m.Called(ctx, accountID, amount, reason, appliedAt, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerResult), args.Error(1)
}

func (m *MockLedgerWriter) AssignInitialCredit(ctx context.Context, accountID string, amount decimal.Decimal, actorID string) (*domain.LedgerResult, error) {
	panic("unexpected call")
}

func (m *MockLedgerWriter) CreatePurchaseOrder(ctx context.Context, accountID string, req dto.CreatePurchaseOrderRequest, actorID string) (*domain.LedgerResult, error) {
	panic("unexpected call")
}

func (m *MockLedgerWriter) CancelPurchaseOrder(ctx context.Context, accountID, poID, reason, actorID string) (*domain.LedgerResult, error) {
	panic("unexpected call")
}

func (m *MockLedgerWriter) FulfillPurchaseOrder(ctx context.Context, accountID, poID, actorID string) (*domain.LedgerResult, error) {
	panic("unexpected call")
}

func (m *MockLedgerWriter) SubmitPayment(ctx context.Context, accountID string, req dto.SubmitPaymentRequest, actorID string) (*domain.LedgerResult, error) {
	panic("unexpected call")
}

func (m *MockLedgerWriter) ApprovePayment(ctx context.Context, accountID, paymentID string, amount *decimal.Decimal, actorID string) (*domain.LedgerResult, error) {
	panic("unexpected call")
}

func (m *MockLedgerWriter) RejectPayment(ctx context.Context, accountID, paymentID, reason, actorID string) (*domain.LedgerResult, error) {
	panic("unexpected call")
}

func (m *MockLedgerWriter) AdjustAssignedCredit(ctx context.Context, accountID string, newAmount decimal.Decimal, reason, actorID string) (*domain.LedgerResult, error) {
	panic("unexpected call")
}

func (m *MockLedgerWriter) UpdateTreasury(ctx context.Context, accountID string, req dto.TreasuryRequest, actorID string) (*domain.LedgerResult, error) {
	panic("unexpected call")
}

func (m *MockLedgerWriter) Reconcile(ctx context.Context, accountID, actorID string) (*domain.LedgerResult, error) {
	panic("unexpected call")
}

// stubRateReader serves a fixed resolver.
type stubRateReader struct {
	resolver *accrual.Resolver
	err      error
}

func (s *stubRateReader) CurrentSettings(ctx context.Context) (*domain.RateSettings, error) {
	settings := s.resolver.Settings()
	return &settings, s.err
}

func (s *stubRateReader) NewResolver(ctx context.Context) (*accrual.Resolver, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.resolver, nil
}

func (s *stubRateReader) ResolveAccountRate(ctx context.Context, accountID, key string) (*domain.RateConfig, error) {
	panic("unexpected call")
}

func (s *stubRateReader) ListRiskTiers(ctx context.Context) ([]domain.RiskTier, error) {
	panic("unexpected call")
}

func (s *stubRateReader) ListRateHistory(ctx context.Context, params dto.ListRateHistoryParams) (*dto.ListRateHistoryResponse, error) {
	panic("unexpected call")
}

func (s *stubRateReader) QuoteInterest(ctx context.Context, req dto.InterestQuoteRequest) (*dto.InterestQuoteResponse, error) {
	panic("unexpected call")
}

type MockRunLocker struct {
	mock.Mock
	released int
}

func (m *MockRunLocker) Acquire(ctx context.Context, key string) (func(context.Context) error, error) {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func(context.Context) error {
		m.released++
		return nil
	}, nil
}

// --- Helpers ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}
