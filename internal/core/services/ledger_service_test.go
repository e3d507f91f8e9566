package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/trade_credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/trade_credit_ledger/internal/core/services"
	"github.com/SscSPs/trade_credit_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var fixedNow = time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC)

type LedgerServiceTestSuite struct {
	suite.Suite
	ctx         context.Context
	txManager   *fakeTxManager
	accountRepo *MockLedgerAccountRepository
	logRepo     *MockTransactionLogRepository
	poRepo      *MockPurchaseOrderRepository
	paymentRepo *MockPaymentRepository
	tierRepo    *MockRiskTierRepository
	service     portssvc.LedgerSvcFacade
	seq         int
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.txManager = &fakeTxManager{}
	suite.accountRepo = new(MockLedgerAccountRepository)
	suite.logRepo = new(MockTransactionLogRepository)
	suite.poRepo = new(MockPurchaseOrderRepository)
	suite.paymentRepo = new(MockPaymentRepository)
	suite.tierRepo = new(MockRiskTierRepository)
	suite.seq = 0

	suite.service = services.NewLedgerService(
		suite.txManager,
		suite.accountRepo,
		suite.logRepo,
		suite.poRepo,
		suite.paymentRepo,
		services.WithLedgerClock(func() time.Time { return fixedNow }),
		services.WithLedgerIDGenerator(func() string {
			suite.seq++
			return fmt.Sprintf("id-%d", suite.seq)
		}),
		services.WithRiskTierLookup(suite.tierRepo),
	)
}

func (suite *LedgerServiceTestSuite) TearDownTest() {
	suite.accountRepo.AssertExpectations(suite.T())
	suite.logRepo.AssertExpectations(suite.T())
	suite.poRepo.AssertExpectations(suite.T())
	suite.paymentRepo.AssertExpectations(suite.T())
	suite.tierRepo.AssertExpectations(suite.T())
}

// account returns an active account with a 10,000 line and the given debt.
func (suite *LedgerServiceTestSuite) account(debt string) *domain.LedgerAccount {
	acc := domain.NewLedgerAccount("acc-1", "Acme Trading", nil, "admin", fixedNow.AddDate(0, -2, 0))
	acc.AssignedCredit = dec("10000")
	acc.OutstandingDebt = dec(debt)
	acc.AvailableBalance = acc.AssignedCredit.Sub(acc.OutstandingDebt)
	acc.CreditLimit = acc.AvailableBalance
	return &acc
}

func (suite *LedgerServiceTestSuite) expectLocked(acc *domain.LedgerAccount) {
	suite.accountRepo.On("FindLedgerAccountForUpdate", suite.ctx, mock.Anything, acc.AccountID).Return(acc, nil).Once()
}

func balancesMatch(available, debt string) any {
	return mock.MatchedBy(func(a domain.LedgerAccount) bool {
		return a.AvailableBalance.Equal(dec(available)) && a.OutstandingDebt.Equal(dec(debt)) && a.CreditLimit.Equal(a.AvailableBalance)
	})
}

func entriesLen(n int) any {
	return mock.MatchedBy(func(entries []domain.TransactionLogEntry) bool {
		return len(entries) == n
	})
}

func (suite *LedgerServiceTestSuite) TestAssignInitialCredit_Success() {
	acc := domain.NewLedgerAccount("acc-1", "Acme Trading", nil, "admin", fixedNow)
	suite.expectLocked(&acc)
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, balancesMatch("10000", "0")).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(entries []domain.TransactionLogEntry) bool {
		if len(entries) != 2 {
			return false
		}
		for _, e := range entries {
			if e.EntryID == "" || e.CreatedBy != "admin-7" || !e.CreatedAt.Equal(fixedNow) {
				return false
			}
		}
		return entries[0].BalanceField == domain.FieldAssigned && entries[1].BalanceField == domain.FieldAvailable
	})).Return(nil).Once()

	res, err := suite.service.AssignInitialCredit(suite.ctx, "acc-1", dec("10000"), "admin-7")

	suite.Require().NoError(err)
	suite.True(res.Account.AssignedCredit.Equal(dec("10000")))
	suite.True(res.AppliedAmount.Equal(dec("10000")))
	suite.Equal("admin-7", res.Account.LastUpdatedBy)
	suite.Equal(1, suite.txManager.calls)
}

func (suite *LedgerServiceTestSuite) TestAssignInitialCredit_RefusedWhenLineExists() {
	suite.expectLocked(suite.account("0"))

	res, err := suite.service.AssignInitialCredit(suite.ctx, "acc-1", dec("500"), "admin")

	suite.Nil(res)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.accountRepo.AssertNotCalled(suite.T(), "UpdateLedgerAccountInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreatePurchaseOrder_Success() {
	suite.expectLocked(suite.account("0"))
	suite.poRepo.On("SavePurchaseOrderInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(po domain.PurchaseOrder) bool {
		return po.PurchaseOrderID == "id-1" && po.Status == domain.POApproved && po.NetAmount.Equal(dec("3000")) && po.Reference == "PO-77"
	})).Return(nil).Once()
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, balancesMatch("7000", "3000")).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(entries []domain.TransactionLogEntry) bool {
		return len(entries) == 2 && entries[0].ReferenceID == "id-1" && entries[0].ReferenceKind == domain.RefPurchaseOrder
	})).Return(nil).Once()

	res, err := suite.service.CreatePurchaseOrder(suite.ctx, "acc-1", dto.CreatePurchaseOrderRequest{
		Amount:    dec("3000"),
		Reference: "PO-77",
		VendorID:  "vendor-1",
	}, "buyer")

	suite.Require().NoError(err)
	suite.Require().NotNil(res.PurchaseOrder)
	suite.Equal("vendor-1", res.PurchaseOrder.VendorID)
	suite.True(res.Account.AvailableBalance.Equal(dec("7000")))
}

func (suite *LedgerServiceTestSuite) TestCreatePurchaseOrder_InsufficientBalancePersistsNothing() {
	suite.expectLocked(suite.account("9500"))

	res, err := suite.service.CreatePurchaseOrder(suite.ctx, "acc-1", dto.CreatePurchaseOrderRequest{
		Amount:    dec("600"),
		Reference: "PO-78",
	}, "buyer")

	suite.Nil(res)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.poRepo.AssertNotCalled(suite.T(), "SavePurchaseOrderInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.accountRepo.AssertNotCalled(suite.T(), "UpdateLedgerAccountInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.logRepo.AssertNotCalled(suite.T(), "AppendEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) approvedOrder(id, net string) *domain.PurchaseOrder {
	return &domain.PurchaseOrder{
		PurchaseOrderID: id,
		AccountID:       "acc-1",
		Reference:       "INV-" + id,
		Amount:          dec(net),
		NetAmount:       dec(net),
		Status:          domain.POApproved,
	}
}

func (suite *LedgerServiceTestSuite) TestCancelPurchaseOrder_ReleasesNetAmount() {
	suite.expectLocked(suite.account("3000"))
	suite.poRepo.On("FindPurchaseOrderForUpdate", suite.ctx, mock.Anything, "acc-1", "po-1").Return(suite.approvedOrder("po-1", "1200"), nil).Once()
	suite.poRepo.On("UpdatePurchaseOrderStatusInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(po domain.PurchaseOrder) bool {
		return po.PurchaseOrderID == "po-1" && po.Status == domain.POCancelled && po.LastUpdatedBy == "admin-2" && po.LastUpdatedAt.Equal(fixedNow)
	})).Return(nil).Once()
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, balancesMatch("8200", "1800")).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(entries []domain.TransactionLogEntry) bool {
		if len(entries) != 2 {
			return false
		}
		for _, e := range entries {
			if e.ReferenceKind != domain.RefPurchaseOrder || e.ReferenceID != "po-1" || !e.Amount.Equal(dec("1200")) || e.CreatedBy != "admin-2" {
				return false
			}
		}
		return entries[0].BalanceField == domain.FieldAvailable && entries[1].BalanceField == domain.FieldDebt
	})).Return(nil).Once()

	res, err := suite.service.CancelPurchaseOrder(suite.ctx, "acc-1", "po-1", "duplicate order", "admin-2")

	suite.Require().NoError(err)
	suite.True(res.AppliedAmount.Equal(dec("1200")))
	suite.Require().NotNil(res.PurchaseOrder)
	suite.Equal(domain.POCancelled, res.PurchaseOrder.Status)
	suite.Equal(1, suite.txManager.calls)
}

func (suite *LedgerServiceTestSuite) TestCancelPurchaseOrder_AlreadyClosed() {
	for _, status := range []domain.PurchaseOrderStatus{domain.POCancelled, domain.POFulfilled, domain.PORejected} {
		suite.Run(string(status), func() {
			po := suite.approvedOrder("po-1", "1200")
			po.Status = status
			suite.expectLocked(suite.account("3000"))
			suite.poRepo.On("FindPurchaseOrderForUpdate", suite.ctx, mock.Anything, "acc-1", "po-1").Return(po, nil).Once()

			_, err := suite.service.CancelPurchaseOrder(suite.ctx, "acc-1", "po-1", "", "admin")

			suite.ErrorIs(err, apperrors.ErrInvalidTransition)
		})
	}
	suite.poRepo.AssertNotCalled(suite.T(), "UpdatePurchaseOrderStatusInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.accountRepo.AssertNotCalled(suite.T(), "UpdateLedgerAccountInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.logRepo.AssertNotCalled(suite.T(), "AppendEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCancelPurchaseOrder_NotFound() {
	suite.expectLocked(suite.account("3000"))
	suite.poRepo.On("FindPurchaseOrderForUpdate", suite.ctx, mock.Anything, "acc-1", "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CancelPurchaseOrder(suite.ctx, "acc-1", "missing", "", "admin")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestCancelPurchaseOrder_DebtAlreadyPaid() {
	suite.expectLocked(suite.account("0"))
	suite.poRepo.On("FindPurchaseOrderForUpdate", suite.ctx, mock.Anything, "acc-1", "po-1").Return(suite.approvedOrder("po-1", "500"), nil).Once()
	suite.poRepo.On("UpdatePurchaseOrderStatusInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(po domain.PurchaseOrder) bool {
		return po.Status == domain.POCancelled
	})).Return(nil).Once()

	res, err := suite.service.CancelPurchaseOrder(suite.ctx, "acc-1", "po-1", "", "admin")

	suite.Require().NoError(err)
	suite.True(res.AppliedAmount.IsZero())
	suite.Empty(res.Entries)
	suite.accountRepo.AssertNotCalled(suite.T(), "UpdateLedgerAccountInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestFulfillPurchaseOrder_KeepsBalances() {
	suite.expectLocked(suite.account("3000"))
	suite.poRepo.On("FindPurchaseOrderForUpdate", suite.ctx, mock.Anything, "acc-1", "po-1").Return(suite.approvedOrder("po-1", "1200"), nil).Once()
	suite.poRepo.On("UpdatePurchaseOrderStatusInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(po domain.PurchaseOrder) bool {
		return po.Status == domain.POFulfilled && po.LastUpdatedBy == "admin"
	})).Return(nil).Once()

	res, err := suite.service.FulfillPurchaseOrder(suite.ctx, "acc-1", "po-1", "admin")

	suite.Require().NoError(err)
	suite.Equal(domain.POFulfilled, res.PurchaseOrder.Status)
	suite.True(res.Account.OutstandingDebt.Equal(dec("3000")))
	suite.accountRepo.AssertNotCalled(suite.T(), "UpdateLedgerAccountInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestFulfillPurchaseOrder_CancelledOrder() {
	po := suite.approvedOrder("po-1", "1200")
	po.Status = domain.POCancelled
	suite.expectLocked(suite.account("3000"))
	suite.poRepo.On("FindPurchaseOrderForUpdate", suite.ctx, mock.Anything, "acc-1", "po-1").Return(po, nil).Once()

	_, err := suite.service.FulfillPurchaseOrder(suite.ctx, "acc-1", "po-1", "admin")

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.poRepo.AssertNotCalled(suite.T(), "UpdatePurchaseOrderStatusInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestMutation_AppendFailureReturnedUnmodified() {
	appendErr := fmt.Errorf("%w: append log: %w", apperrors.ErrPersistence, errors.New("connection reset"))
	suite.expectLocked(suite.account("2000"))
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, entriesLen(2)).Return(appendErr).Once()

	res, err := suite.service.ApplyInterest(suite.ctx, "acc-1", dec("25"), "", time.Time{}, "admin")

	suite.Nil(res)
	suite.Same(appendErr, err)
	suite.ErrorIs(err, apperrors.ErrPersistence)
}

func (suite *LedgerServiceTestSuite) TestMutation_InactiveAccount() {
	acc := suite.account("0")
	acc.IsActive = false
	suite.expectLocked(acc)

	_, err := suite.service.UpdateTreasury(suite.ctx, "acc-1", dto.TreasuryRequest{
		Amount:    dec("10"),
		Operation: domain.TreasuryAdd,
	}, "admin")

	suite.ErrorIs(err, apperrors.ErrAccountInactive)
}

func (suite *LedgerServiceTestSuite) TestMutation_AccountNotFound() {
	suite.accountRepo.On("FindLedgerAccountForUpdate", suite.ctx, mock.Anything, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.Reconcile(suite.ctx, "missing", "admin")

	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestSubmitPayment_RecordsPendingOnly() {
	suite.expectLocked(suite.account("3000"))
	suite.paymentRepo.On("SavePaymentInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentPending && p.Amount.Equal(dec("1000")) && p.Reference == "WIRE-1"
	})).Return(nil).Once()
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, balancesMatch("7000", "3000")).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(entries []domain.TransactionLogEntry) bool {
		return len(entries) == 1 && entries[0].Direction == domain.DirectionPending
	})).Return(nil).Once()

	res, err := suite.service.SubmitPayment(suite.ctx, "acc-1", dto.SubmitPaymentRequest{Amount: dec("1000"), Reference: "WIRE-1"}, "buyer")

	suite.Require().NoError(err)
	suite.True(res.AppliedAmount.IsZero())
	suite.Contains(res.Entries[0].Description, "WIRE-1")
}

func (suite *LedgerServiceTestSuite) TestApprovePayment_CapsAtDebt() {
	suite.expectLocked(suite.account("50"))
	payment := &domain.Payment{PaymentID: "pay-1", AccountID: "acc-1", Amount: dec("100"), Status: domain.PaymentPending}
	suite.paymentRepo.On("FindPaymentForUpdate", suite.ctx, mock.Anything, "acc-1", "pay-1").Return(payment, nil).Once()
	suite.paymentRepo.On("UpdatePaymentStatusInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentApproved && p.ApprovedAmount.Equal(dec("50"))
	})).Return(nil).Once()
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, balancesMatch("10000", "0")).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, entriesLen(2)).Return(nil).Once()

	res, err := suite.service.ApprovePayment(suite.ctx, "acc-1", "pay-1", nil, "admin")

	suite.Require().NoError(err)
	suite.True(res.AppliedAmount.Equal(dec("50")))
	suite.Equal(domain.PaymentApproved, res.Payment.Status)
}

func (suite *LedgerServiceTestSuite) TestApprovePayment_PartialAmount() {
	suite.expectLocked(suite.account("3000"))
	payment := &domain.Payment{PaymentID: "pay-1", AccountID: "acc-1", Amount: dec("1000"), Status: domain.PaymentPending}
	suite.paymentRepo.On("FindPaymentForUpdate", suite.ctx, mock.Anything, "acc-1", "pay-1").Return(payment, nil).Once()
	suite.paymentRepo.On("UpdatePaymentStatusInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, balancesMatch("7400", "2600")).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, entriesLen(2)).Return(nil).Once()

	res, err := suite.service.ApprovePayment(suite.ctx, "acc-1", "pay-1", ptr(dec("400")), "admin")

	suite.Require().NoError(err)
	suite.True(res.Payment.ApprovedAmount.Equal(dec("400")))
}

func (suite *LedgerServiceTestSuite) TestApprovePayment_AlreadyDecided() {
	suite.expectLocked(suite.account("3000"))
	payment := &domain.Payment{PaymentID: "pay-1", AccountID: "acc-1", Amount: dec("100"), Status: domain.PaymentRejected}
	suite.paymentRepo.On("FindPaymentForUpdate", suite.ctx, mock.Anything, "acc-1", "pay-1").Return(payment, nil).Once()

	_, err := suite.service.ApprovePayment(suite.ctx, "acc-1", "pay-1", nil, "admin")

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.paymentRepo.AssertNotCalled(suite.T(), "UpdatePaymentStatusInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.accountRepo.AssertNotCalled(suite.T(), "UpdateLedgerAccountInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestRejectPayment_KeepsBalances() {
	suite.expectLocked(suite.account("3000"))
	payment := &domain.Payment{PaymentID: "pay-2", AccountID: "acc-1", Amount: dec("800"), Status: domain.PaymentPending}
	suite.paymentRepo.On("FindPaymentForUpdate", suite.ctx, mock.Anything, "acc-1", "pay-2").Return(payment, nil).Once()
	suite.paymentRepo.On("UpdatePaymentStatusInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.Status == domain.PaymentRejected && p.RejectionReason == "bounced"
	})).Return(nil).Once()
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, balancesMatch("7000", "3000")).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(entries []domain.TransactionLogEntry) bool {
		return len(entries) == 1 && entries[0].Direction == domain.DirectionRejected && entries[0].Amount.Equal(dec("800"))
	})).Return(nil).Once()

	res, err := suite.service.RejectPayment(suite.ctx, "acc-1", "pay-2", "bounced", "admin")

	suite.Require().NoError(err)
	suite.True(res.Account.OutstandingDebt.Equal(dec("3000")))
}

func (suite *LedgerServiceTestSuite) TestApplyInterest_MovesWatermark() {
	appliedAt := time.Date(2024, time.March, 1, 0, 30, 0, 0, time.FixedZone("WAT", 3600))
	suite.expectLocked(suite.account("3000"))
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(a domain.LedgerAccount) bool {
		return a.LastInterestAppliedAt != nil && a.LastInterestAppliedAt.Equal(appliedAt) &&
			a.LastInterestAppliedAt.Location() == time.UTC && a.OutstandingDebt.Equal(dec("3120"))
	})).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, entriesLen(2)).Return(nil).Once()

	res, err := suite.service.ApplyInterest(suite.ctx, "acc-1", dec("120"), "monthly interest", appliedAt, "system")

	suite.Require().NoError(err)
	suite.True(res.AppliedAmount.Equal(dec("120")))
	suite.True(res.Account.AvailableBalance.Equal(dec("6880")))
}

func (suite *LedgerServiceTestSuite) TestApplyInterest_ZeroIsNoop() {
	suite.expectLocked(suite.account("3000"))

	res, err := suite.service.ApplyInterest(suite.ctx, "acc-1", decimal.Zero, "", time.Time{}, "system")

	suite.Require().NoError(err)
	suite.True(res.AppliedAmount.IsZero())
	suite.Empty(res.Entries)
	suite.Nil(res.Account.LastInterestAppliedAt)
	suite.accountRepo.AssertNotCalled(suite.T(), "UpdateLedgerAccountInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.logRepo.AssertNotCalled(suite.T(), "AppendEntriesInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestApplyInterest_RejectsUnstorableScale() {
	_, err := suite.service.ApplyInterest(suite.ctx, "acc-1", dec("0.00001"), "", time.Time{}, "system")

	suite.ErrorIs(err, apperrors.ErrInvalidAmount)
	suite.Equal(0, suite.txManager.calls)
	suite.accountRepo.AssertNotCalled(suite.T(), "FindLedgerAccountForUpdate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestAdjustAssignedCredit_Decrease() {
	suite.expectLocked(suite.account("3000"))
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, balancesMatch("5000", "3000")).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, entriesLen(2)).Return(nil).Once()

	res, err := suite.service.AdjustAssignedCredit(suite.ctx, "acc-1", dec("8000"), "risk review", "admin")

	suite.Require().NoError(err)
	suite.True(res.AppliedAmount.Equal(dec("-2000")))
}

func (suite *LedgerServiceTestSuite) TestReconcile_RecomputesFromHistory() {
	acc := suite.account("3500")
	suite.expectLocked(acc)
	suite.poRepo.On("SumNetAmountsByAccountInTx", suite.ctx, mock.Anything, "acc-1").Return(dec("4000"), nil).Once()
	suite.paymentRepo.On("SumApprovedByAccountInTx", suite.ctx, mock.Anything, "acc-1").Return(dec("1000"), nil).Once()
	suite.accountRepo.On("UpdateLedgerAccountInTx", suite.ctx, mock.Anything, balancesMatch("7000", "3000")).Return(nil).Once()
	suite.logRepo.On("AppendEntriesInTx", suite.ctx, mock.Anything, entriesLen(2)).Return(nil).Once()

	res, err := suite.service.Reconcile(suite.ctx, "acc-1", "admin")

	suite.Require().NoError(err)
	suite.True(res.AppliedAmount.Equal(dec("-500")))
}

func (suite *LedgerServiceTestSuite) TestReconcile_AlreadyConsistent() {
	suite.expectLocked(suite.account("3000"))
	suite.poRepo.On("SumNetAmountsByAccountInTx", suite.ctx, mock.Anything, "acc-1").Return(dec("3000"), nil).Once()
	suite.paymentRepo.On("SumApprovedByAccountInTx", suite.ctx, mock.Anything, "acc-1").Return(decimal.Zero, nil).Once()

	res, err := suite.service.Reconcile(suite.ctx, "acc-1", "admin")

	suite.Require().NoError(err)
	suite.Empty(res.Entries)
	suite.accountRepo.AssertNotCalled(suite.T(), "UpdateLedgerAccountInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestCreateLedgerAccount_Success() {
	suite.tierRepo.On("FindRiskTierByID", suite.ctx, "tier-a").Return(&domain.RiskTier{TierID: "tier-a"}, nil).Once()
	suite.accountRepo.On("SaveLedgerAccount", suite.ctx, mock.MatchedBy(func(a domain.LedgerAccount) bool {
		return a.AccountID == "id-1" && a.IsActive && a.AssignedCredit.IsZero() && *a.RiskTierID == "tier-a"
	})).Return(nil).Once()

	acc, err := suite.service.CreateLedgerAccount(suite.ctx, dto.CreateLedgerAccountRequest{
		BusinessName: "Acme Trading",
		RiskTierID:   ptr("tier-a"),
	}, "admin")

	suite.Require().NoError(err)
	suite.Equal("Acme Trading", acc.BusinessName)
	suite.Equal(fixedNow, acc.CreatedAt)
}

func (suite *LedgerServiceTestSuite) TestCreateLedgerAccount_UnknownTier() {
	suite.tierRepo.On("FindRiskTierByID", suite.ctx, "nope").Return(nil, apperrors.ErrNotFound).Once()

	acc, err := suite.service.CreateLedgerAccount(suite.ctx, dto.CreateLedgerAccountRequest{
		BusinessName: "Acme Trading",
		RiskTierID:   ptr("nope"),
	}, "admin")

	suite.Nil(acc)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *LedgerServiceTestSuite) TestDeactivateAccount() {
	suite.accountRepo.On("SetLedgerAccountActive", suite.ctx, "acc-1", false, "admin", fixedNow).Return(nil).Once()

	suite.NoError(suite.service.DeactivateAccount(suite.ctx, "acc-1", "admin"))
}

func (suite *LedgerServiceTestSuite) TestValidateAccount_ReportsViolations() {
	acc := suite.account("3000")
	acc.AvailableBalance = dec("12000")
	suite.accountRepo.On("FindLedgerAccountByID", suite.ctx, "acc-1").Return(acc, nil).Once()

	violations, err := suite.service.ValidateAccount(suite.ctx, "acc-1")

	suite.Require().NoError(err)
	suite.True(domain.HasHardViolations(violations))
}

func (suite *LedgerServiceTestSuite) TestListTransactionLog() {
	suite.accountRepo.On("FindLedgerAccountByID", suite.ctx, "acc-1").Return(suite.account("0"), nil).Once()
	entries := []domain.TransactionLogEntry{{EntryID: "e-2", AccountID: "acc-1"}, {EntryID: "e-1", AccountID: "acc-1"}}
	suite.logRepo.On("ListEntriesByAccount", suite.ctx, "acc-1", 2, (*string)(nil)).Return(entries, ptr("next"), nil).Once()

	resp, err := suite.service.ListTransactionLog(suite.ctx, "acc-1", dto.ListTransactionLogParams{Limit: 2})

	suite.Require().NoError(err)
	suite.Len(resp.Entries, 2)
	suite.Equal("next", *resp.NextToken)
}

func (suite *LedgerServiceTestSuite) TestListTransactionLog_UnknownAccount() {
	suite.accountRepo.On("FindLedgerAccountByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListTransactionLog(suite.ctx, "missing", dto.ListTransactionLogParams{Limit: 20})

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.logRepo.AssertNotCalled(suite.T(), "ListEntriesByAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestListPurchaseOrders() {
	suite.accountRepo.On("FindLedgerAccountByID", suite.ctx, "acc-1").Return(suite.account("0"), nil).Once()
	orders := []domain.PurchaseOrder{*suite.approvedOrder("po-2", "50"), *suite.approvedOrder("po-1", "75")}
	suite.poRepo.On("ListPurchaseOrdersByAccount", suite.ctx, "acc-1").Return(orders, nil).Once()

	got, err := suite.service.ListPurchaseOrders(suite.ctx, "acc-1")

	suite.Require().NoError(err)
	suite.Len(got, 2)
	suite.Equal("po-2", got[0].PurchaseOrderID)
}

func (suite *LedgerServiceTestSuite) TestListPayments_EmptyIsNotNil() {
	suite.accountRepo.On("FindLedgerAccountByID", suite.ctx, "acc-1").Return(suite.account("0"), nil).Once()
	suite.paymentRepo.On("ListPaymentsByAccount", suite.ctx, "acc-1").Return(nil, nil).Once()

	got, err := suite.service.ListPayments(suite.ctx, "acc-1")

	suite.Require().NoError(err)
	suite.NotNil(got)
	suite.Empty(got)
}

func (suite *LedgerServiceTestSuite) TestListPayments_UnknownAccount() {
	suite.accountRepo.On("FindLedgerAccountByID", suite.ctx, "missing").Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.ListPayments(suite.ctx, "missing")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.paymentRepo.AssertNotCalled(suite.T(), "ListPaymentsByAccount", mock.Anything, mock.Anything)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
