package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/core/accrual"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/trade_credit_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/trade_credit_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// SystemActorID is recorded as the actor of scheduled runs.
const SystemActorID = "system"

type accrualService struct {
	BaseService
	ledger      portssvc.LedgerWriterSvc
	accounts    portsrepo.LedgerAccountReader
	rates       portssvc.RateReaderSvc
	locker      portssvc.RunLocker
	concurrency int
}

// AccrualServiceOption is a functional option for configuring the accrual service
type AccrualServiceOption func(*accrualService)

// WithRunLocker stops two non-preview runs of one frequency from overlapping.
func WithRunLocker(locker portssvc.RunLocker) AccrualServiceOption {
	return func(s *accrualService) {
		s.locker = locker
	}
}

// WithAccrualConcurrency sets how many accounts are processed at once. Values below 1 mean 1.
func WithAccrualConcurrency(n int) AccrualServiceOption {
	return func(s *accrualService) {
		s.concurrency = max(n, 1)
	}
}

// WithAccrualClock replaces the service clock.
func WithAccrualClock(clock func() time.Time) AccrualServiceOption {
	return func(s *accrualService) {
		s.clock = clock
	}
}

// NewAccrualService creates the accrual orchestrator.
func NewAccrualService(
	ledger portssvc.LedgerWriterSvc,
	accounts portsrepo.LedgerAccountReader,
	rates portssvc.RateReaderSvc,
	options ...AccrualServiceOption,
) portssvc.AccrualSvc {
	svc := &accrualService{
		BaseService: newBaseService(),
		ledger:      ledger,
		accounts:    accounts,
		rates:       rates,
		concurrency: 1,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccrualSvc = (*accrualService)(nil)

// Run walks Selecting -> per account (check eligibility, then skip or apply) -> summarize.
// The only state kept between runs is each account's interest watermark.
func (s *accrualService) Run(ctx context.Context, req domain.AccrualRequest) (*domain.AccrualSummary, error) {
	if _, err := req.Frequency.Spec(); err != nil {
		return nil, err
	}

	now := req.Now
	if now.IsZero() {
		now = s.Now()
	}
	if req.ActorID == "" {
		req.ActorID = SystemActorID
	}
	logger := s.GetLogger(ctx).With(
		slog.String("frequency", req.Frequency.String()),
		slog.Bool("dry_run", req.DryRun),
		slog.Bool("force", req.Force))

	if !req.DryRun && s.locker != nil {
		release, err := s.locker.Acquire(ctx, "accrual:"+req.Frequency.String())
		if err != nil {
			logger.Warn("Accrual run not started", slog.String("error", err.Error()))
			return nil, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Error("Failed to release accrual lock", slog.String("error", err.Error()))
			}
		}()
	}

	resolver, err := s.rates.NewResolver(ctx)
	if err != nil {
		logger.Error("Failed to load rate configuration", slog.String("error", err.Error()))
		return nil, err
	}
	calc := accrual.NewCalculator(resolver.Settings().CalculationMethod)

	accounts, err := s.accounts.ListAccrualCandidates(ctx, req.AccountID)
	if err != nil {
		logger.Error("Failed to select accrual candidates", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Accrual run started", slog.Int("candidates", len(accounts)))

	summary := &domain.AccrualSummary{
		Frequency:     req.Frequency,
		DryRun:        req.DryRun,
		TotalInterest: decimal.Zero,
		Errors:        []domain.AccrualError{},
		Outcomes:      []domain.AccrualOutcome{},
		StartedAt:     now,
	}

	outcomes := make([]*domain.AccrualOutcome, len(accounts))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := range accounts {
		if ctx.Err() != nil {
			summary.Cancelled = true
			break
		}
		g.Go(func() error {
			// Accounts queued behind a full group re-check for cancellation once they get a slot.
			if ctx.Err() != nil {
				return nil
			}
			outcome := s.processAccount(ctx, logger, accounts[i], resolver, calc, req, now)
			outcomes[i] = &outcome
			return nil
		})
	}
	_ = g.Wait()

	for _, outcome := range outcomes {
		if outcome == nil {
			summary.Cancelled = true
			continue
		}
		switch outcome.Status {
		case domain.OutcomeApplied, domain.OutcomePreview:
			summary.ProcessedCount++
			summary.TotalInterest = summary.TotalInterest.Add(outcome.Interest)
		case domain.OutcomeSkipped:
			summary.SkippedCount++
		case domain.OutcomeFailed:
			summary.Errors = append(summary.Errors, domain.AccrualError{AccountID: outcome.AccountID, Error: outcome.Reason})
		}
		summary.Outcomes = append(summary.Outcomes, *outcome)
	}
	summary.FinishedAt = s.Now()

	logger.Info("Accrual run finished",
		slog.Int("processed", summary.ProcessedCount),
		slog.Int("skipped", summary.SkippedCount),
		slog.Int("failed", len(summary.Errors)),
		slog.String("total_interest", summary.TotalInterest.String()),
		slog.Bool("cancelled", summary.Cancelled))
	return summary, nil
}

func (s *accrualService) processAccount(
	ctx context.Context,
	logger *slog.Logger,
	acc domain.LedgerAccount,
	resolver *accrual.Resolver,
	calc accrual.Calculator,
	req domain.AccrualRequest,
	now time.Time,
) domain.AccrualOutcome {
	cfg := resolver.Resolve(acc)
	outcome := domain.AccrualOutcome{
		AccountID:  acc.AccountID,
		Principal:  acc.OutstandingDebt,
		Interest:   decimal.Zero,
		RateConfig: &cfg,
	}
	skip := func(reason string) domain.AccrualOutcome {
		outcome.Status = domain.OutcomeSkipped
		outcome.Reason = reason
		return outcome
	}
	fail := func(err error) domain.AccrualOutcome {
		logger.Error("Accrual failed for account", slog.String("account_id", acc.AccountID), slog.String("error", err.Error()))
		outcome.Status = domain.OutcomeFailed
		outcome.Reason = err.Error()
		return outcome
	}

	if cfg.Frequency != req.Frequency {
		return skip(domain.SkipFrequencyMismatch)
	}
	if !cfg.Rate.IsPositive() {
		return skip(domain.SkipZeroRate)
	}
	if req.RequireAutoApply && !cfg.AutoApply {
		return skip(domain.SkipNotAutoApply)
	}

	if !req.Force {
		last := acc.InterestWatermark()
		due, err := accrual.IsDue(last, cfg.Frequency, cfg.ApplyDay, now)
		if err != nil {
			return fail(err)
		}
		if !due {
			if next, err := accrual.NextDueDate(last, cfg.Frequency, cfg.ApplyDay); err == nil {
				outcome.NextDueAt = &next
			}
			return skip(domain.SkipNotDue)
		}
	}

	interest, err := calc.OnePeriod(acc.OutstandingDebt, cfg)
	if err != nil {
		return fail(err)
	}
	if !interest.IsPositive() {
		return skip(domain.SkipZeroInterest)
	}

	if req.DryRun {
		outcome.Status = domain.OutcomePreview
		outcome.Interest = interest
		return outcome
	}

	reason := fmt.Sprintf("%s interest at %s%% (%s)", cfg.Frequency, cfg.Rate.String(), cfg.Source)
	// A started account finishes its transaction even if the run is cancelled meanwhile.
	result, err := s.ledger.ApplyInterest(context.WithoutCancel(ctx), acc.AccountID, interest, reason, now, req.ActorID)
	if err != nil {
		return fail(err)
	}

	outcome.Status = domain.OutcomeApplied
	outcome.Interest = result.AppliedAmount
	if next, err := accrual.NextDueDate(now, cfg.Frequency, cfg.ApplyDay); err == nil {
		outcome.NextDueAt = &next
	}
	return outcome
}
