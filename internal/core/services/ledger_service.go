package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trade_credit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trade_credit_ledger/internal/core/ports/services"
	"github.com/SscSPs/trade_credit_ledger/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// ledgerService runs the LedgerAccount state transitions inside row-locked transactions.
type ledgerService struct {
	BaseService
	txManager   portsrepo.TransactionManager
	accountRepo portsrepo.LedgerAccountRepositoryFacade
	logRepo     portsrepo.TransactionLogRepository
	poRepo      portsrepo.PurchaseOrderRepository
	paymentRepo portsrepo.PaymentRepository
	tierRepo    portsrepo.RiskTierRepository
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithLedgerClock replaces the service clock.
func WithLedgerClock(clock func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.clock = clock
	}
}

// WithLedgerIDGenerator replaces the id generator used for accounts, entries and records.
func WithLedgerIDGenerator(newID func() string) LedgerServiceOption {
	return func(s *ledgerService) {
		s.newID = newID
	}
}

// WithRiskTierLookup makes account creation verify the referenced tier exists.
func WithRiskTierLookup(repo portsrepo.RiskTierRepository) LedgerServiceOption {
	return func(s *ledgerService) {
		s.tierRepo = repo
	}
}

// NewLedgerService creates the ledger service.
func NewLedgerService(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.LedgerAccountRepositoryFacade,
	logRepo portsrepo.TransactionLogRepository,
	poRepo portsrepo.PurchaseOrderRepository,
	paymentRepo portsrepo.PaymentRepository,
	options ...LedgerServiceOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		BaseService: newBaseService(),
		txManager:   txManager,
		accountRepo: accountRepo,
		logRepo:     logRepo,
		poRepo:      poRepo,
		paymentRepo: paymentRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// transition is one balance mutation applied to a locked account.
type transition func(tx pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error)

// mutate locks the account row, applies fn and persists the account together with the entries
// fn produced. A transition that produces no entries persists nothing. Errors are returned
// exactly as the transition or repository produced them.
func (s *ledgerService) mutate(ctx context.Context, op, accountID, actorID string, fn transition) (*domain.LedgerResult, error) {
	var result *domain.LedgerResult

	err := s.txManager.WithinTx(ctx, func(tx pgx.Tx) error {
		acc, err := s.accountRepo.FindLedgerAccountForUpdate(ctx, tx, accountID)
		if err != nil {
			return err
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: account %s", apperrors.ErrAccountInactive, accountID)
		}

		now := s.Now()
		res, err := fn(tx, acc, now)
		if err != nil {
			return err
		}

		if len(res.Entries) > 0 {
			for i := range res.Entries {
				res.Entries[i].EntryID = s.NewID()
				res.Entries[i].CreatedBy = actorID
				res.Entries[i].CreatedAt = now
			}
			acc.LastUpdatedBy = actorID
			if err := s.accountRepo.UpdateLedgerAccountInTx(ctx, tx, *acc); err != nil {
				return err
			}
			if err := s.logRepo.AppendEntriesInTx(ctx, tx, res.Entries); err != nil {
				return err
			}
		}

		res.Account = *acc
		result = res
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Ledger operation failed",
			slog.String("operation", op),
			slog.String("account_id", accountID),
			slog.String("actor_id", actorID))
		return nil, err
	}

	s.LogInfo(ctx, "Ledger operation committed",
		slog.String("operation", op),
		slog.String("account_id", accountID),
		slog.String("actor_id", actorID),
		slog.Int("entries", len(result.Entries)),
		slog.String("applied_amount", result.AppliedAmount.String()))
	return result, nil
}

func (s *ledgerService) AssignInitialCredit(ctx context.Context, accountID string, amount decimal.Decimal, actorID string) (*domain.LedgerResult, error) {
	return s.mutate(ctx, "assign_initial_credit", accountID, actorID, func(_ pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		if !acc.AssignedCredit.IsZero() || !acc.OutstandingDebt.IsZero() {
			return nil, fmt.Errorf("%w: account %s already has a credit line, adjust it instead", apperrors.ErrValidation, acc.AccountID)
		}
		entries, err := acc.AssignInitialCredit(amount, actorID, now)
		if err != nil {
			return nil, err
		}
		return &domain.LedgerResult{Entries: entries, AppliedAmount: amount}, nil
	})
}

func (s *ledgerService) CreatePurchaseOrder(ctx context.Context, accountID string, req dto.CreatePurchaseOrderRequest, actorID string) (*domain.LedgerResult, error) {
	return s.mutate(ctx, "create_purchase_order", accountID, actorID, func(tx pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		poID := s.NewID()
		entries, err := acc.CreatePurchaseOrder(req.Amount, poID, now)
		if err != nil {
			return nil, err
		}

		po := domain.PurchaseOrder{
			PurchaseOrderID: poID,
			AccountID:       acc.AccountID,
			VendorID:        req.VendorID,
			Reference:       req.Reference,
			Amount:          req.Amount,
			NetAmount:       req.Amount,
			Status:          domain.POApproved,
			AuditFields:     audit(actorID, now),
		}
		if err := s.poRepo.SavePurchaseOrderInTx(ctx, tx, po); err != nil {
			return nil, err
		}
		return &domain.LedgerResult{Entries: entries, AppliedAmount: req.Amount, PurchaseOrder: &po}, nil
	})
}

func (s *ledgerService) CancelPurchaseOrder(ctx context.Context, accountID, poID, reason, actorID string) (*domain.LedgerResult, error) {
	return s.mutate(ctx, "cancel_purchase_order", accountID, actorID, func(tx pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		po, err := s.poRepo.FindPurchaseOrderForUpdate(ctx, tx, accountID, poID)
		if err != nil {
			return nil, err
		}
		next, err := po.Status.TransitionTo(domain.POCancelled)
		if err != nil {
			return nil, err
		}

		released := decimal.Zero
		var entries []domain.TransactionLogEntry
		if po.Status.CountsTowardDebt() {
			released, entries = acc.CancelPurchaseOrder(po.NetAmount, po.PurchaseOrderID, reason, now)
		}

		po.Status = next
		po.LastUpdatedAt = now
		po.LastUpdatedBy = actorID
		if err := s.poRepo.UpdatePurchaseOrderStatusInTx(ctx, tx, *po); err != nil {
			return nil, err
		}
		return &domain.LedgerResult{Entries: entries, AppliedAmount: released, PurchaseOrder: po}, nil
	})
}

func (s *ledgerService) FulfillPurchaseOrder(ctx context.Context, accountID, poID, actorID string) (*domain.LedgerResult, error) {
	return s.mutate(ctx, "fulfill_purchase_order", accountID, actorID, func(tx pgx.Tx, _ *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		po, err := s.poRepo.FindPurchaseOrderForUpdate(ctx, tx, accountID, poID)
		if err != nil {
			return nil, err
		}
		if po.Status, err = po.Status.TransitionTo(domain.POFulfilled); err != nil {
			return nil, err
		}
		po.LastUpdatedAt = now
		po.LastUpdatedBy = actorID
		if err := s.poRepo.UpdatePurchaseOrderStatusInTx(ctx, tx, *po); err != nil {
			return nil, err
		}
		return &domain.LedgerResult{AppliedAmount: decimal.Zero, PurchaseOrder: po}, nil
	})
}

func (s *ledgerService) SubmitPayment(ctx context.Context, accountID string, req dto.SubmitPaymentRequest, actorID string) (*domain.LedgerResult, error) {
	return s.mutate(ctx, "submit_payment", accountID, actorID, func(tx pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		paymentID := s.NewID()
		entry, err := acc.SubmitPayment(req.Amount, paymentID, now)
		if err != nil {
			return nil, err
		}
		entry.Description += " (ref " + req.Reference + ")"

		payment := domain.Payment{
			PaymentID:      paymentID,
			AccountID:      acc.AccountID,
			Reference:      req.Reference,
			Amount:         req.Amount,
			ApprovedAmount: decimal.Zero,
			Status:         domain.PaymentPending,
			AuditFields:    audit(actorID, now),
		}
		if err := s.paymentRepo.SavePaymentInTx(ctx, tx, payment); err != nil {
			return nil, err
		}
		return &domain.LedgerResult{Entries: []domain.TransactionLogEntry{entry}, AppliedAmount: decimal.Zero, Payment: &payment}, nil
	})
}

func (s *ledgerService) ApprovePayment(ctx context.Context, accountID, paymentID string, amount *decimal.Decimal, actorID string) (*domain.LedgerResult, error) {
	return s.mutate(ctx, "approve_payment", accountID, actorID, func(tx pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		payment, err := s.paymentRepo.FindPaymentForUpdate(ctx, tx, accountID, paymentID)
		if err != nil {
			return nil, err
		}
		next, err := payment.Status.TransitionTo(domain.PaymentApproved)
		if err != nil {
			return nil, err
		}

		requested := payment.Amount
		if amount != nil {
			requested = *amount
		}
		actual, entries, err := acc.ApprovePayment(requested, payment.PaymentID, now)
		if err != nil {
			return nil, err
		}

		payment.Status = next
		payment.ApprovedAmount = actual
		payment.LastUpdatedAt = now
		payment.LastUpdatedBy = actorID
		if err := s.paymentRepo.UpdatePaymentStatusInTx(ctx, tx, *payment); err != nil {
			return nil, err
		}
		return &domain.LedgerResult{Entries: entries, AppliedAmount: actual, Payment: payment}, nil
	})
}

func (s *ledgerService) RejectPayment(ctx context.Context, accountID, paymentID, reason, actorID string) (*domain.LedgerResult, error) {
	return s.mutate(ctx, "reject_payment", accountID, actorID, func(tx pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		payment, err := s.paymentRepo.FindPaymentForUpdate(ctx, tx, accountID, paymentID)
		if err != nil {
			return nil, err
		}
		next, err := payment.Status.TransitionTo(domain.PaymentRejected)
		if err != nil {
			return nil, err
		}

		entry := acc.RejectPayment(payment.Amount, payment.PaymentID, reason, now)

		payment.Status = next
		payment.RejectionReason = reason
		payment.LastUpdatedAt = now
		payment.LastUpdatedBy = actorID
		if err := s.paymentRepo.UpdatePaymentStatusInTx(ctx, tx, *payment); err != nil {
			return nil, err
		}
		return &domain.LedgerResult{Entries: []domain.TransactionLogEntry{entry}, AppliedAmount: decimal.Zero, Payment: payment}, nil
	})
}

func (s *ledgerService) ApplyInterest(ctx context.Context, accountID string, amount decimal.Decimal, reason string, appliedAt time.Time, actorID string) (*domain.LedgerResult, error) {
	if err := domain.CheckMoneyScale(amount, "interest amount"); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "apply_interest", accountID, actorID, func(_ pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		applied, entries := acc.ApplyInterest(amount, reason, now)
		if applied.IsPositive() {
			watermark := appliedAt
			if watermark.IsZero() {
				watermark = now
			}
			watermark = watermark.UTC()
			acc.LastInterestAppliedAt = &watermark
		}
		return &domain.LedgerResult{Entries: entries, AppliedAmount: applied}, nil
	})
}

func (s *ledgerService) AdjustAssignedCredit(ctx context.Context, accountID string, newAmount decimal.Decimal, reason, actorID string) (*domain.LedgerResult, error) {
	return s.mutate(ctx, "adjust_assigned_credit", accountID, actorID, func(_ pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		before := acc.AssignedCredit
		entries, err := acc.AdjustAssignedCredit(newAmount, reason, actorID, now)
		if err != nil {
			return nil, err
		}
		return &domain.LedgerResult{Entries: entries, AppliedAmount: newAmount.Sub(before)}, nil
	})
}

func (s *ledgerService) UpdateTreasury(ctx context.Context, accountID string, req dto.TreasuryRequest, actorID string) (*domain.LedgerResult, error) {
	return s.mutate(ctx, "update_treasury", accountID, actorID, func(_ pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		entry, err := acc.UpdateTreasury(req.Amount, req.Operation, req.Description, actorID, now)
		if err != nil {
			return nil, err
		}
		return &domain.LedgerResult{Entries: []domain.TransactionLogEntry{entry}, AppliedAmount: entry.Amount}, nil
	})
}

func (s *ledgerService) Reconcile(ctx context.Context, accountID, actorID string) (*domain.LedgerResult, error) {
	return s.mutate(ctx, "reconcile", accountID, actorID, func(tx pgx.Tx, acc *domain.LedgerAccount, now time.Time) (*domain.LedgerResult, error) {
		poNet, err := s.poRepo.SumNetAmountsByAccountInTx(ctx, tx, acc.AccountID)
		if err != nil {
			return nil, err
		}
		paid, err := s.paymentRepo.SumApprovedByAccountInTx(ctx, tx, acc.AccountID)
		if err != nil {
			return nil, err
		}
		debtBefore := acc.OutstandingDebt
		_, entries := acc.Reconcile(poNet, paid, now)
		return &domain.LedgerResult{Entries: entries, AppliedAmount: acc.OutstandingDebt.Sub(debtBefore)}, nil
	})
}

func (s *ledgerService) CreateLedgerAccount(ctx context.Context, req dto.CreateLedgerAccountRequest, actorID string) (*domain.LedgerAccount, error) {
	if req.RiskTierID != nil && s.tierRepo != nil {
		if _, err := s.tierRepo.FindRiskTierByID(ctx, *req.RiskTierID); err != nil {
			s.LogWarn(ctx, err, "Risk tier lookup failed", slog.String("tier_id", *req.RiskTierID))
			return nil, fmt.Errorf("%w: risk tier %s: %w", apperrors.ErrValidation, *req.RiskTierID, err)
		}
	}

	account := domain.NewLedgerAccount(s.NewID(), req.BusinessName, req.RiskTierID, actorID, s.Now())
	if err := s.accountRepo.SaveLedgerAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save ledger account", slog.String("business_name", req.BusinessName))
		return nil, err
	}

	s.LogInfo(ctx, "Ledger account created", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *ledgerService) DeactivateAccount(ctx context.Context, accountID string, actorID string) error {
	return s.setActive(ctx, accountID, false, actorID)
}

func (s *ledgerService) ActivateAccount(ctx context.Context, accountID string, actorID string) error {
	return s.setActive(ctx, accountID, true, actorID)
}

func (s *ledgerService) setActive(ctx context.Context, accountID string, active bool, actorID string) error {
	if err := s.accountRepo.SetLedgerAccountActive(ctx, accountID, active, actorID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to change account status",
			slog.String("account_id", accountID),
			slog.Bool("active", active))
		return err
	}
	s.LogInfo(ctx, "Account status changed", slog.String("account_id", accountID), slog.Bool("active", active))
	return nil
}

func (s *ledgerService) GetLedgerAccount(ctx context.Context, accountID string) (*domain.LedgerAccount, error) {
	return s.accountRepo.FindLedgerAccountByID(ctx, accountID)
}

func (s *ledgerService) ListLedgerAccounts(ctx context.Context, params dto.ListLedgerAccountsParams) ([]domain.LedgerAccount, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	return s.accountRepo.ListLedgerAccounts(ctx, limit, max(params.Offset, 0))
}

func (s *ledgerService) CanAfford(ctx context.Context, accountID string, amount decimal.Decimal) (bool, error) {
	acc, err := s.accountRepo.FindLedgerAccountByID(ctx, accountID)
	if err != nil {
		return false, err
	}
	return acc.CanAfford(amount), nil
}

func (s *ledgerService) ValidateAccount(ctx context.Context, accountID string) ([]domain.InvariantViolation, error) {
	acc, err := s.accountRepo.FindLedgerAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	violations := acc.Validate()
	if domain.HasHardViolations(violations) {
		s.LogWarn(ctx, apperrors.ErrValidation, "Ledger invariants violated",
			slog.String("account_id", accountID),
			slog.Int("violations", len(violations)))
	}
	return violations, nil
}

func (s *ledgerService) ListTransactionLog(ctx context.Context, accountID string, params dto.ListTransactionLogParams) (*dto.ListTransactionLogResponse, error) {
	if _, err := s.accountRepo.FindLedgerAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	entries, next, err := s.logRepo.ListEntriesByAccount(ctx, accountID, params.Limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transaction log", slog.String("account_id", accountID))
		return nil, err
	}
	return &dto.ListTransactionLogResponse{
		Entries:   dto.ToTransactionLogEntryResponses(entries),
		NextToken: next,
	}, nil
}

func (s *ledgerService) ListPurchaseOrders(ctx context.Context, accountID string) ([]domain.PurchaseOrder, error) {
	if _, err := s.accountRepo.FindLedgerAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	orders, err := s.poRepo.ListPurchaseOrdersByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list purchase orders", slog.String("account_id", accountID))
		return nil, err
	}
	if orders == nil {
		orders = []domain.PurchaseOrder{}
	}
	return orders, nil
}

func (s *ledgerService) ListPayments(ctx context.Context, accountID string) ([]domain.Payment, error) {
	if _, err := s.accountRepo.FindLedgerAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListPaymentsByAccount(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("account_id", accountID))
		return nil, err
	}
	if payments == nil {
		payments = []domain.Payment{}
	}
	return payments, nil
}

func audit(actorID string, now time.Time) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
}
